package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/genstudio/internal/models"
)

func (a *App) Video(ctx context.Context) error {
	req, err := a.promptForRequest(models.ModeVideo)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	a.recordInputs(ctx, req)

	fmt.Println("Starting video generation, this can take a few minutes...")
	artifact, err := a.studio.GenerateVideo(ctx, req)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	a.lastBatch = []models.Artifact{*artifact}
	a.printBatch(a.lastBatch)
	return nil
}
