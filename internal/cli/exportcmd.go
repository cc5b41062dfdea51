package cli

import (
	"context"
	"fmt"
)

func (a *App) Export(ctx context.Context, arg string) error {
	record, err := a.gallery.Get(ctx, arg)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	key, err := a.exporter.Export(ctx, record)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	fmt.Println("Exported to", key)
	return nil
}
