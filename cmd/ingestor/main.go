package main

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"
	"golang.org/x/sync/semaphore"

	"vibescout/internal/adapters/observability"
	redisad "vibescout/internal/adapters/redis"
	"vibescout/internal/app"
	"vibescout/internal/catalog"
	"vibescout/internal/domain"
	"vibescout/internal/shared"
	mysqlrepo "vibescout/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Str("venues", cfg.VenuesPath).
		Str("metadata", cfg.MetadataPath).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	// 2) load and merge the two datasets
	base, meta, err := catalog.LoadFiles(cfg.VenuesPath, cfg.MetadataPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load datasets failed")
	}
	meta, err = catalog.CheckMetadata(meta)
	for _, e := range multierr.Errors(err) {
		log.Warn().Err(e).Msg("metadata record skipped")
	}
	venues := catalog.Merge(base, meta)
	log.Info().Int("venues", len(venues)).Int("metadata", len(meta)).Msg("catalog merged")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	ing := app.NewIngestionService(repo, cache)

	// 3) upsert with bounded concurrency
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup
	var failed atomic.Int64

	for i, v := range venues {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(position int, v domain.Venue) {
			defer wg.Done()
			defer sem.Release(1)

			if err := ing.IngestVenue(ctx, position, v); err != nil {
				failed.Add(1)
				log.Warn().Str("id", v.ID).Err(err).Msg("ingest failed")
				return
			}
			log.Debug().Str("id", v.ID).Str("name", v.Name).Msg("ingest ok")
		}(i+1, v)
	}
	wg.Wait()

	// 4) readers must not keep serving the previous catalog
	if err := ing.Finish(ctx); err != nil {
		log.Warn().Err(err).Msg("catalog cache eviction failed")
	}
	log.Info().Int("venues", len(venues)).Int64("failed", failed.Load()).Msg("ingestion completed")
}
