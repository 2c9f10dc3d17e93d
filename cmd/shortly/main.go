package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/httplog/v2"
	"github.com/shortlyhq/shortly/internal/config"
	"github.com/shortlyhq/shortly/internal/database/postgres"
	"github.com/shortlyhq/shortly/internal/service"
	"github.com/shortlyhq/shortly/internal/shortcode"
	"golang.org/x/sync/errgroup"

	myhttp "github.com/shortlyhq/shortly/internal/api/http"
	pgpool "github.com/shortlyhq/shortly/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		panic(err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	db, err := pgpool.New(
		ctx,
		cfg.Postgres.DSN(),
		pgpool.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		pgpool.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		pgpool.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		pgpool.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return err
	}

	if err := pgpool.RunMigrations("file://migrations", cfg.Postgres.DSN()); err != nil {
		return err
	}

	urlRepo := postgres.NewURLRepository(db)
	urlSvc := service.NewURLService(urlRepo, shortcode.NewGenerator(cfg.ShortCodeLength))

	logger := httplog.NewLogger("shortly", httplog.Options{
		JSON:     cfg.Env == config.EnvProd,
		LogLevel: logLevel(cfg.Env),
		Concise:  cfg.Env == config.EnvDev,
	})

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        myhttp.NewRouter(logger, urlSvc, cfg.BaseURL),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		return db.Close()
	})

	g.Go(func() error {
		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return server.Shutdown(context.Background())
	})

	return g.Wait()
}

func logLevel(env string) slog.Level {
	if env == config.EnvProd {
		return slog.LevelInfo
	}

	return slog.LevelDebug
}
