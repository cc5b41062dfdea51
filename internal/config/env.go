package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/genstudio/internal/common"
)

// parseEnv overlays Config with values from the process environment.
// A .env file in the working directory is loaded first, if present; missing
// files are not an error. Real environment variables win over .env entries
// (godotenv never overrides existing variables).
//
// Recognized variables:
//
//	GENAI_API_KEY       backend credential
//	GENSTUDIO_DB        sqlite database path
//	GENSTUDIO_S3_BUCKET, GENSTUDIO_S3_REGION, GENSTUDIO_S3_ENDPOINT,
//	GENSTUDIO_S3_ACCESS_KEY, GENSTUDIO_S3_SECRET_KEY
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv(common.APIKeyEnvName); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("GENSTUDIO_DB"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("GENSTUDIO_S3_BUCKET"); v != "" {
		cfg.S3Bucket = v
	}
	if v := os.Getenv("GENSTUDIO_S3_REGION"); v != "" {
		cfg.S3Region = v
	}
	if v := os.Getenv("GENSTUDIO_S3_ENDPOINT"); v != "" {
		cfg.S3BaseEndpoint = v
	}
	if v := os.Getenv("GENSTUDIO_S3_ACCESS_KEY"); v != "" {
		cfg.S3AccessKey = v
	}
	if v := os.Getenv("GENSTUDIO_S3_SECRET_KEY"); v != "" {
		cfg.S3SecretKey = v
	}
}
