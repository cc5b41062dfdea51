// Package cli implements the interactive GenStudio shell: generate images
// and video clips, browse the local gallery, and manage prompt history.
package cli

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/genstudio/internal/backend"
	"github.com/dmitrijs2005/genstudio/internal/config"
	"github.com/dmitrijs2005/genstudio/internal/export"
	"github.com/dmitrijs2005/genstudio/internal/gallery"
	"github.com/dmitrijs2005/genstudio/internal/history"
	"github.com/dmitrijs2005/genstudio/internal/logging"
	"github.com/dmitrijs2005/genstudio/internal/media"
	"github.com/dmitrijs2005/genstudio/internal/models"
	"github.com/dmitrijs2005/genstudio/internal/storage"
	"github.com/dmitrijs2005/genstudio/internal/studio"

	_ "modernc.org/sqlite"
)

type App struct {
	config   *config.Config
	studio   *studio.Service
	gallery  *gallery.Service
	history  history.Repository
	exporter *export.Exporter
	reader   *bufio.Reader

	// artifacts of the most recent generation, addressable by 1-based
	// index from the save/variations/upscale commands
	lastBatch []models.Artifact
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewDefault(slog.LevelInfo)
	reader := bufio.NewReader(os.Stdin)

	db, err := storage.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiKey := c.APIKey
	if apiKey == "" {
		key, err := GetAPIKey(reader, os.Stdout)
		if err != nil {
			return nil, err
		}
		apiKey = key
	}

	client, err := backend.NewGenAIClient(ctx, apiKey, logger)
	if err != nil {
		return nil, err
	}

	fetcher := media.NewFetcher(logger)

	return &App{
		config:   c,
		studio:   studio.NewService(client, c, logger),
		gallery:  gallery.NewService(db, fetcher, logger),
		history:  history.NewSQLiteRepository(db),
		exporter: export.NewExporter(c, logger),
		reader:   reader,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}
