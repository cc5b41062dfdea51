package config

import "time"

// Config holds runtime settings for the GenStudio CLI.
//
// Fields:
//   - APIKey: credential for the generation backend; supplied out-of-band
//     (environment or interactive prompt), never via flags.
//   - ImageModel: multimodal model used for image generation and upscales.
//   - ImagenModel: alternate image model family (prompt-only, returns bytes).
//   - VideoModel: long-running video generation model.
//   - DatabaseDSN: path of the local sqlite gallery database.
//   - PollInterval: fixed delay between video job polls.
//   - S3*: optional settings for the gallery export command.
//
// Units: PollInterval is a time.Duration (e.g., 5*time.Second).
type Config struct {
	APIKey         string
	ImageModel     string
	ImagenModel    string
	VideoModel     string
	DatabaseDSN    string
	PollInterval   time.Duration
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ImageModel = "gemini-2.5-flash-image"
	c.ImagenModel = "imagen-4.0-generate-001"
	c.VideoModel = "veo-3.0-generate-001"
	c.DatabaseDSN = "gallery.db"
	c.PollInterval = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including an optional .env file), a JSON file (if present)
// and command-line flags (if present). Later sources take precedence over
// earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
