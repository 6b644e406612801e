package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "vibescout/internal/adapters/http_server"
	"vibescout/internal/adapters/llm"
	"vibescout/internal/adapters/observability"
	redisad "vibescout/internal/adapters/redis"
	"vibescout/internal/app"
	"vibescout/internal/domain"
	"vibescout/internal/shared"
	mysqlrepo "vibescout/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	metricsSrv := observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, serving uncached")
	}

	// a missing key leaves chat on its canned replies
	var completer domain.ChatCompleter
	if c, err := llm.New(cfg.LLMBase, cfg.LLMKey, cfg.LLMModel, cfg.LLMRPS); err != nil {
		log.Warn().Err(err).Msg("chat model disabled")
	} else {
		completer = c
	}

	// deps
	repo := mysqlrepo.New(db)
	q := app.NewQueryService(repo, repo, cache, cfg.CacheTTL)
	explorer := app.NewExploreService(ctx, q, cfg.SessionSettle)
	go sweepSessions(ctx, explorer, cfg.SessionIdle)

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Q: q,
		P: app.NewProfileService(repo, cache),
		C: app.NewChatService(q, completer),
		E: explorer,
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(shutdownCtx)
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

// sweepSessions drops explore sessions nobody has touched for idle.
func sweepSessions(ctx context.Context, e *app.ExploreService, idle time.Duration) {
	if idle <= 0 {
		return
	}
	t := time.NewTicker(idle / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := e.Sweep(idle); n > 0 {
				log.Info().Int("sessions", n).Msg("idle explore sessions closed")
			}
		}
	}
}
