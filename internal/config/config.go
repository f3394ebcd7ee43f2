// package config provides the environment-backed configuration loader used
// by the pipeline bootstrap (cmd/supervision-pipeline/main.go).
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the runtime config values used by main.go.
type Config struct {
	DatabaseURL string // DATABASE_URL (required)

	DataDir    string // DATA_DIR (default ./data)
	ArchiveDir string // ARCHIVE_DIR (default <DataDir>/transformed_supervision_daily/archived)

	KafkaBrokers []string // KAFKA_BROKERS (comma-separated; notification disabled when empty)
	KafkaTopic   string   // KAFKA_TOPIC

	S3Bucket string // S3_BUCKET (archive mirroring disabled when empty)
	S3Prefix string // S3_PREFIX (optional)

	NotifyTimeout time.Duration // NOTIFY_TIMEOUT_SECONDS (default 30)
}

// LoadFromEnv reads config values from environment variables and returns a
// Config pointer with defaults applied. Validation of required values is the
// caller's responsibility.
func LoadFromEnv() *Config {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DataDir:     os.Getenv("DATA_DIR"),
		ArchiveDir:  os.Getenv("ARCHIVE_DIR"),
		KafkaTopic:  strings.TrimSpace(os.Getenv("KAFKA_TOPIC")),
		S3Bucket:    strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Prefix:    strings.TrimSpace(os.Getenv("S3_PREFIX")),
	}

	// sensible defaults
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.ArchiveDir == "" {
		cfg.ArchiveDir = filepath.Join(cfg.DataDir, "transformed_supervision_daily", "archived")
	}

	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	cfg.NotifyTimeout = 30 * time.Second
	if v := strings.TrimSpace(os.Getenv("NOTIFY_TIMEOUT_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NotifyTimeout = time.Duration(n) * time.Second
		}
	}

	return cfg
}
