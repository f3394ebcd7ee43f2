package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/nextstep-aba/supervision-pipeline/internal/archive"
	"github.com/nextstep-aba/supervision-pipeline/internal/config"
	"github.com/nextstep-aba/supervision-pipeline/internal/export"
	"github.com/nextstep-aba/supervision-pipeline/internal/notify"
	"github.com/nextstep-aba/supervision-pipeline/internal/pipeline"
	"github.com/nextstep-aba/supervision-pipeline/internal/report"
	"github.com/nextstep-aba/supervision-pipeline/internal/warehouse"
)

func main() {
	os.Exit(run())
}

func run() int {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	startDateArg := flag.String("start-date", "", "explicit start date (YYYY-MM-DD) overriding the calendar logic")
	flag.Parse()

	var explicitStart time.Time
	if *startDateArg != "" {
		var err error
		explicitStart, err = time.Parse(report.DateLayout, *startDateArg)
		if err != nil {
			log.Printf("invalid --start-date %q: %v", *startDateArg, err)
			return 1
		}
	}

	// Load configuration; a missing warehouse URL is fatal before any stage.
	cfg := config.LoadFromEnv()
	if cfg.DatabaseURL == "" {
		log.Printf("DATABASE_URL not configured")
		return 1
	}

	ctx := context.Background()

	source, err := warehouse.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("failed to open warehouse: %v", err)
		return 1
	}
	defer source.Close()

	exporter := &export.FileExporter{DataDir: cfg.DataDir, ArchiveDir: cfg.ArchiveDir}
	if cfg.S3Bucket != "" {
		mirror, err := export.NewS3Mirror(ctx, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			log.Printf("failed to initialize s3 mirror: %v", err)
			return 1
		}
		exporter.Mirror = mirror
		log.Printf("s3 mirror initialized (bucket=%s prefix=%s)", cfg.S3Bucket, cfg.S3Prefix)
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic != "" {
		kn, err := notify.NewKafkaNotifier(notify.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			log.Printf("failed to initialize kafka notifier: %v", err)
			return 1
		}
		notifier = kn
		log.Printf("kafka notifier initialized (brokers=%v topic=%s)", cfg.KafkaBrokers, cfg.KafkaTopic)
	}
	defer func() { _ = notifier.Close() }()

	resolver := archive.NewResolver(cfg.ArchiveDir)
	scheduler := &pipeline.Scheduler{
		Chain: &pipeline.Chain{
			Source:   source,
			Exporter: exporter,
			Archive:  resolver,
		},
		Archive:       resolver,
		Notifier:      notifier,
		NotifyTimeout: cfg.NotifyTimeout,
	}

	outcome := scheduler.Execute(ctx, time.Now().UTC(), explicitStart)
	return outcome.ExitCode
}
