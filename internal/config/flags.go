package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/genstudio/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path of the local gallery database (default from Config)
//	-m string   image generation model (default from Config)
//	-v string   video generation model (default from Config)
//	-i int      video job poll interval in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-m", "-v", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "path of the local gallery database")
	fs.StringVar(&cfg.ImageModel, "m", cfg.ImageModel, "image generation model")
	fs.StringVar(&cfg.VideoModel, "v", cfg.VideoModel, "video generation model")
	pollInterval := fs.Int("i", int(cfg.PollInterval.Seconds()), "video job poll interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PollInterval = time.Duration(*pollInterval) * time.Second
}
