package cli

import (
	"context"
	"fmt"
	"time"
)

func (a *App) Save(ctx context.Context, arg string) error {
	artifact, err := a.batchItem(arg)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	records, err := a.gallery.Save(ctx, *artifact)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	fmt.Printf("Saved %s, gallery now holds %d record(s)\n", artifact.ID, len(records))
	return nil
}

func (a *App) List(ctx context.Context) error {
	records, err := a.gallery.List(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	if len(records) == 0 {
		fmt.Println("Gallery is empty")
		return nil
	}

	for _, r := range records {
		created := r.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("%s  %s  %-5s  %s\n", r.ID, created, r.Kind, firstLine(r.Prompt, 50))
	}
	return nil
}

func (a *App) Show(ctx context.Context, arg string) error {
	record, err := a.gallery.Get(ctx, arg)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	fmt.Println("ID:          ", record.ID)
	fmt.Println("Kind:        ", record.Kind)
	fmt.Println("Prompt:      ", record.Prompt)
	if record.NegativePrompt != "" {
		fmt.Println("Negative:    ", record.NegativePrompt)
	}
	if record.Style != "" {
		fmt.Println("Style:       ", record.Style)
	}
	fmt.Println("Aspect ratio:", record.AspectRatio)
	fmt.Println("Model:       ", record.Model)
	fmt.Println("Seed:        ", record.Seed)
	fmt.Println("Created:     ", record.CreatedAt.Format(time.RFC3339))
	fmt.Println("Media:       ", summarizeLocator(record.MediaURL))
	return nil
}

func (a *App) Delete(ctx context.Context, arg string) error {
	records, err := a.gallery.Remove(ctx, arg)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Printf("Deleted %s, %d record(s) remaining\n", arg, len(records))
	return nil
}

// firstLine truncates a prompt to a single short line for list output.
// Truncation counts runes so multi-byte prompt text is never split mid-rune.
func firstLine(s string, limit int) string {
	for i, r := range s {
		if r == '\n' {
			s = s[:i]
			break
		}
	}
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return s
}
