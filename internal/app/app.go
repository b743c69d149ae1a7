// Package app assembles the pipeline from configuration: provider, sinks,
// services and the operational HTTP server.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/courtdata/statpipe/internal/config"
	"github.com/courtdata/statpipe/internal/domain/dataset"
	providermem "github.com/courtdata/statpipe/internal/infrastructure/provider/memory"
	sinkfile "github.com/courtdata/statpipe/internal/infrastructure/sink/file"
	sinkpg "github.com/courtdata/statpipe/internal/infrastructure/sink/postgres"
	"github.com/courtdata/statpipe/internal/interfaces/httpapi"
	"github.com/courtdata/statpipe/internal/platform/logging"
	"github.com/courtdata/statpipe/internal/qa"
	"github.com/courtdata/statpipe/internal/usecase"
)

// App is the assembled pipeline: batch runner, run registry and the optional
// HTTP server. Close releases the database handle when one was opened.
type App struct {
	BatchService *usecase.BatchService
	Registry     *usecase.RunRegistry
	Server       *http.Server

	db *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	sink, db, err := buildSink(cfg)
	if err != nil {
		return nil, err
	}

	runner := usecase.NewGoldenSeasonService(providermem.NewProvider(), sink, logger)
	registry := usecase.NewRunRegistry(nil)
	batch := usecase.NewBatchService(runner, registry, logger)

	app := &App{
		BatchService: batch,
		Registry:     registry,
		db:           db,
	}

	if cfg.HTTPEnabled {
		if cfg.HTTPAddr == "" {
			return nil, fmt.Errorf("http server addr cannot be empty")
		}
		handler := httpapi.NewHandler(batch, registry, cfg.RunOptions(), logger)
		app.Server = &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      httpapi.NewRouter(handler, logger),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}
	}

	return app, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// buildSink always writes files; a configured DB_URL adds Postgres
// persistence on top.
func buildSink(cfg config.Config) (usecase.DatasetSink, *sqlx.DB, error) {
	fileSink := sinkfile.NewSink(cfg.OutputDir)
	if cfg.DBURL == "" {
		return fileSink, nil, nil
	}

	db, err := otelsqlx.Connect("postgres", cfg.DBURL,
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}

	return multiSink{fileSink, sinkpg.NewSink(db)}, db, nil
}

// multiSink fans every save out to each member, stopping on the first error.
type multiSink []usecase.DatasetSink

func (m multiSink) SaveDataset(ctx context.Context, table *dataset.Table) error {
	for _, sink := range m {
		if err := sink.SaveDataset(ctx, table); err != nil {
			return err
		}
	}
	return nil
}

func (m multiSink) SaveReport(ctx context.Context, league, season string, report *qa.Report) error {
	for _, sink := range m {
		if err := sink.SaveReport(ctx, league, season, report); err != nil {
			return err
		}
	}
	return nil
}
