package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nextstep-aba/supervision-pipeline/internal/config"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@h/insights")
	t.Setenv("DATA_DIR", "")
	t.Setenv("ARCHIVE_DIR", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("NOTIFY_TIMEOUT_SECONDS", "")

	cfg := config.LoadFromEnv()
	assert.Equal(t, "postgres://u:p@h/insights", cfg.DatabaseURL)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "data/transformed_supervision_daily/archived", cfg.ArchiveDir)
	assert.Nil(t, cfg.KafkaBrokers)
	assert.Equal(t, 30*time.Second, cfg.NotifyTimeout)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/reports")
	t.Setenv("ARCHIVE_DIR", "/srv/archive")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,")
	t.Setenv("KAFKA_TOPIC", "report-outcomes")
	t.Setenv("NOTIFY_TIMEOUT_SECONDS", "10")

	cfg := config.LoadFromEnv()
	assert.Equal(t, "/var/lib/reports", cfg.DataDir)
	assert.Equal(t, "/srv/archive", cfg.ArchiveDir)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "report-outcomes", cfg.KafkaTopic)
	assert.Equal(t, 10*time.Second, cfg.NotifyTimeout)
}
