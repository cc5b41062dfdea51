package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/genstudio/internal/models"
)

func (a *App) Variations(ctx context.Context, arg string) error {
	source, err := a.batchItem(arg)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	req := &models.GenerationRequest{
		Mode:           models.ModeImage,
		Prompt:         source.Prompt,
		NegativePrompt: source.NegativePrompt,
		Model:          source.Model,
		AspectRatio:    source.AspectRatio,
		Style:          source.Style,
		Seed:           models.FixedSeed(source.Seed),
	}

	fmt.Println("Generating variations...")
	artifacts, err := a.studio.DeriveVariations(ctx, source, req)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	a.lastBatch = artifacts
	a.printBatch(artifacts)
	return nil
}

func (a *App) Upscale(ctx context.Context, arg string) error {
	source, err := a.batchItem(arg)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	fmt.Println("Upscaling...")
	artifact, err := a.studio.Upscale(ctx, source)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	a.lastBatch = append(a.lastBatch, *artifact)
	fmt.Printf("Upscaled result added as item [%d]\n", len(a.lastBatch))
	return nil
}
