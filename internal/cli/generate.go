package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/genstudio/internal/history"
	"github.com/dmitrijs2005/genstudio/internal/models"
)

// promptForRequest collects the generation parameters interactively.
// A blank style means no style decoration is applied to the prompt.
func (a *App) promptForRequest(mode models.Mode) (*models.GenerationRequest, error) {
	prompt, err := GetSimpleText(a.reader, "Prompt", os.Stdout)
	if err != nil {
		return nil, err
	}

	negative, err := GetSimpleTextDefault(a.reader, "Negative prompt", "", os.Stdout)
	if err != nil {
		return nil, err
	}

	style, err := GetSimpleTextDefault(a.reader, "Style", "", os.Stdout)
	if err != nil {
		return nil, err
	}

	aspect, err := GetSimpleTextDefault(a.reader, "Aspect ratio", "1:1", os.Stdout)
	if err != nil {
		return nil, err
	}

	seedRaw, err := GetIntDefault(a.reader, "Seed (-1 for random)", -1, os.Stdout)
	if err != nil {
		return nil, err
	}

	model := a.config.ImageModel
	batch := 1
	if mode == models.ModeVideo {
		model = a.config.VideoModel
	} else {
		engine, err := GetSimpleTextDefault(a.reader, "Engine (gemini/imagen)", "gemini", os.Stdout)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(engine, "imagen") {
			model = a.config.ImagenModel
		}

		batch, err = GetIntDefault(a.reader, "Batch size (1-4)", 1, os.Stdout)
		if err != nil {
			return nil, err
		}
	}

	return &models.GenerationRequest{
		Mode:           mode,
		Prompt:         prompt,
		NegativePrompt: negative,
		Model:          model,
		AspectRatio:    aspect,
		Style:          style,
		Seed:           models.ParseSeed(int64(seedRaw)),
		BatchSize:      batch,
	}, nil
}

// recordInputs stores the prompt and style in the reuse history.
// History failures are logged and never interrupt generation.
func (a *App) recordInputs(ctx context.Context, req *models.GenerationRequest) {
	if err := a.history.Add(ctx, history.KindPrompt, req.Prompt); err != nil {
		fmt.Println("Warning: could not save prompt history:", err)
	}
	if req.Style != "" {
		if err := a.history.Add(ctx, history.KindStyle, req.Style); err != nil {
			fmt.Println("Warning: could not save style history:", err)
		}
	}
}

func (a *App) Generate(ctx context.Context) error {
	req, err := a.promptForRequest(models.ModeImage)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	a.recordInputs(ctx, req)

	fmt.Println("Generating...")
	artifacts, err := a.studio.GenerateBatch(ctx, req)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	a.lastBatch = artifacts
	a.printBatch(artifacts)
	return nil
}

// printBatch lists the artifacts of the latest generation with their
// 1-based indexes, usable with the save/variations/upscale commands.
func (a *App) printBatch(artifacts []models.Artifact) {
	fmt.Printf("Done, %d result(s):\n", len(artifacts))
	for i, art := range artifacts {
		fmt.Printf("  [%d] %s seed=%d %s\n", i+1, art.Kind, art.Seed, summarizeLocator(art.MediaURL))
	}
}

// summarizeLocator shortens data URLs for terminal output.
func summarizeLocator(locator string) string {
	const limit = 60
	if len(locator) <= limit {
		return locator
	}
	return locator[:limit] + "... (" + strconv.Itoa(len(locator)) + " chars)"
}

// batchItem resolves a 1-based index argument against the latest batch.
func (a *App) batchItem(arg string) (*models.Artifact, error) {
	if len(a.lastBatch) == 0 {
		return nil, fmt.Errorf("no generation results yet, run 'generate' first")
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("expected an item number, got %q", arg)
	}
	if n < 1 || n > len(a.lastBatch) {
		return nil, fmt.Errorf("item number out of range: have %d result(s)", len(a.lastBatch))
	}
	return &a.lastBatch[n-1], nil
}
