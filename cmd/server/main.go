package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"vigil/internal/event"
	"vigil/internal/monitor"
	"vigil/internal/platform/config"
	"vigil/internal/platform/httpserver"
	"vigil/internal/platform/logger"
	"vigil/internal/platform/metrics"
	platformredis "vigil/internal/platform/redis"
	"vigil/internal/recording"
	recordinghandler "vigil/internal/recording/handler"
	"vigil/internal/report"
	reporthandler "vigil/internal/report/handler"
	"vigil/internal/session"
	sessionhandler "vigil/internal/session/handler"
	httptransport "vigil/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionStore, eventStore, cleanup, err := buildStores(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize stores", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	recordingStore, err := recording.NewStore(cfg.RecordingsDir)
	if err != nil {
		log.Error("failed to initialize recording store", "error", err)
		os.Exit(1)
	}

	var firehose *monitor.Firehose
	if len(cfg.KafkaBrokers) > 0 {
		firehose, err = monitor.NewFirehose(cfg.KafkaBrokers, log)
		if err != nil {
			log.Error("failed to connect observation firehose", "error", err)
			os.Exit(1)
		}
		defer firehose.Close()
	}

	m := metrics.New()
	pipeline := monitor.NewPipeline(eventStore, firehose, log, m, cfg.ObservationBuffer)
	sessions := session.NewService(sessionStore, eventStore, recordingStore, log)
	engine := report.NewEngine(sessionStore, eventStore, log, m)

	router := httptransport.NewRouter(log,
		recordinghandler.New(recordingStore, log, m),
		sessionhandler.New(sessions, pipeline, log),
		reporthandler.New(engine, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting vigil", "addr", cfg.Addr)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		if err := pipeline.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// buildStores selects persistence from configuration: postgres wins over
// redis, and in-memory stores are the zero-config fallback.
func buildStores(ctx context.Context, cfg config.Config) (session.Store, event.Store, func(), error) {
	switch {
	case cfg.PostgresURL != "":
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, nil, err
		}

		sessionStore := session.NewPostgresStore(db)
		eventStore := event.NewPostgresStore(db)
		if err := sessionStore.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		if err := eventStore.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return sessionStore, eventStore, func() { db.Close() }, nil

	case cfg.RedisURL != "":
		client, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return session.NewRedisStore(client.Client), event.NewRedisStore(client.Client), func() { client.Close() }, nil

	default:
		return session.NewInMemoryStore(), event.NewInMemoryStore(), func() {}, nil
	}
}
