package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/genstudio/internal/history"
)

func (a *App) History(ctx context.Context) error {
	return a.printHistory(ctx, history.KindPrompt, "No prompt history yet")
}

func (a *App) Styles(ctx context.Context) error {
	return a.printHistory(ctx, history.KindStyle, "No styles used yet")
}

func (a *App) printHistory(ctx context.Context, kind history.Kind, empty string) error {
	items, err := a.history.List(ctx, kind)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	if len(items) == 0 {
		fmt.Println(empty)
		return nil
	}

	for i, item := range items {
		fmt.Printf("%2d. %s\n", i+1, item)
	}
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	fmt.Println("Backend calls this session:", a.studio.Calls())
	records, err := a.gallery.List(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Println("Gallery records:", len(records))
	return nil
}
