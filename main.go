package main

import (
	"fmt"
	"github.com/litetable/litetable-hut/internal/config"
	"github.com/litetable/litetable-hut/internal/metrics"
	"github.com/litetable/litetable-hut/internal/store/boltstore"
	"github.com/litetable/litetable-hut/internal/table"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"os"
	"path/filepath"
	"time"
)

const serviceName = "LiteTable Hut"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("hut failed")
	}
}

// env holds what every command needs. It is built in Before and released in After.
type env struct {
	cfg      *config.Config
	db       *boltstore.Store
	table    *table.Table
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func newApp() *cli.App {
	e := &env{}

	return &cli.App{
		Name:  "hut",
		Usage: "merge-on-read tables of update-as-append rows",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML configuration file (default: ~/.litetable/hut.yaml)",
				EnvVars: []string{"HUT_CONFIG"},
			},
		},
		Before: func(c *cli.Context) error {
			return e.open(c.String("config"))
		},
		After: func(c *cli.Context) error {
			return e.close()
		},
		Commands: []*cli.Command{
			appendCommand(e),
			getCommand(e),
			scanCommand(e),
			compactCommand(e),
			serveCommand(e),
		},
	}
}

func (e *env) open(path string) error {
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	e.cfg = cfg
	setupLogger(cfg.Level())

	reducer, err := cfg.NewReducer()
	if err != nil {
		return err
	}
	compactionReducer, err := cfg.NewCompactionReducer()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	e.db, err = boltstore.New(&boltstore.Config{
		Path:      cfg.Store.Path,
		Bucket:    cfg.Store.Bucket,
		BatchSize: cfg.Store.BatchSize,
	})
	if err != nil {
		return err
	}

	e.registry = prometheus.NewRegistry()
	e.metrics = metrics.New(e.registry)

	e.table, err = table.New(&table.Config{
		Store:             table.Adapt[*boltstore.Scanner](e.db),
		Reducer:           reducer,
		CompactionReducer: compactionReducer,
		WriteBack:         cfg.WriteBack,
		Metrics:           e.metrics,
	})
	return err
}

func (e *env) close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

func setupLogger(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
