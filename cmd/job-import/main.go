package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"jobboard_backend/internal/adapters/storage"
	"jobboard_backend/internal/jobs/importer"
	"jobboard_backend/internal/jobs/repository"
	"jobboard_backend/internal/maps"
	"jobboard_backend/internal/scheduler"
	"jobboard_backend/platform/config"
	"jobboard_backend/platform/db"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/validator"

	"golang.org/x/time/rate"
)

// nominatimRate is the public instance's usage policy limit.
const nominatimRate = rate.Limit(1)

func main() {
	file := flag.String("file", "", "path to the YAML import document")
	geocode := flag.Bool("geocode", true, "look up coordinates for jobs without them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	if *file == "" {
		log.Error("missing -file flag")
		os.Exit(2)
	}
	log.Info("starting job import", "file", *file)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f, err := os.Open(*file)
	if err != nil {
		log.Error("failed to open import document", "error", err)
		os.Exit(1)
	}
	doc, err := importer.Decode(f)
	_ = f.Close()
	if err != nil {
		log.Error("failed to decode import document", "error", err)
		os.Exit(1)
	}

	if err := db.RunMigrations(ctx, cfg); err != nil {
		log.Error("failed to run database migrations", "error", err)
		os.Exit(1)
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	im := importer.New(repository.New(pool), validator.New(), log)

	if *geocode {
		im.SetGeocoder(maps.NewService(cfg, log), nominatimRate)
	}

	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Warn("storage unavailable; logos skipped", "error", err)
		} else if err := storageSvc.EnsureBucketExists(ctx, cfg.GetMinioBucketJobLogos()); err != nil {
			log.Warn("logo bucket unavailable; logos skipped", "error", err)
		} else {
			im.SetLogoUploader(storageSvc, cfg.GetMinioBucketJobLogos())
		}
	}

	if cfg.GetRedisURL() != "" {
		client, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Warn("scheduler client unavailable; filter options refresh skipped", "error", err)
		} else {
			defer func() { _ = client.Close() }()
			im.SetRefreshRequester(client)
		}
	}

	res, err := im.Import(ctx, doc, filepath.Dir(*file))
	if err != nil {
		log.Error("import failed", "error", err, "employers", res.Employers, "jobs", res.Jobs)
		os.Exit(1)
	}

	log.Info("import complete", "employers", res.Employers, "jobs", res.Jobs, "geocoded", res.Geocoded, "failed", res.Failed)
}
