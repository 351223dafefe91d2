package main

import (
	"context"
	"fmt"
	"github.com/litetable/litetable-hut/internal/app"
	"github.com/litetable/litetable-hut/internal/compaction"
	"github.com/litetable/litetable-hut/internal/litetable"
	"github.com/litetable/litetable-hut/internal/merge"
	"github.com/litetable/litetable-hut/internal/rowkey"
	"github.com/litetable/litetable-hut/internal/server"
	"github.com/urfave/cli/v2"
	"io"
	"time"
)

func appendCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "append",
		Usage: "append a delta row",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Required: true},
			&cli.StringSliceFlag{
				Name:     "column",
				Usage:    "family:qualifier=value, or family:qualifier to delete the column",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			cells, err := litetable.DecodeCells(c.StringSlice("column"))
			if err != nil {
				return err
			}

			key, err := e.table.Append([]byte(c.String("key")), cells...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, rowkey.Format(key))
			return err
		},
	}
}

func getCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "get",
		Usage: "print the logical row of a key",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Required: true},
		},
		Action: func(c *cli.Context) error {
			row, err := e.table.Get([]byte(c.String("key")))
			if err != nil {
				return err
			}
			return printRow(c.App.Writer, row)
		},
	}
}

func scanCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "print the logical rows in [start, stop)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "start"},
			&cli.StringFlag{Name: "stop"},
			&cli.IntFlag{Name: "limit", Value: 100},
			&cli.BoolFlag{Name: "write-back", Usage: "compact every merged group"},
		},
		Action: func(c *cli.Context) error {
			var start, stop []byte
			if v := c.String("start"); v != "" {
				start = []byte(v)
			}
			if v := c.String("stop"); v != "" {
				stop = []byte(v)
			}

			var (
				s   *merge.Scanner
				err error
			)
			if c.Bool("write-back") {
				s, err = e.table.Compact(start, stop)
			} else {
				s, err = e.table.Scan(start, stop)
			}
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := s.NextN(c.Int("limit"))
			if err != nil {
				return err
			}
			for _, row := range rows {
				if err := printRow(c.App.Writer, row); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func compactCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "compact",
		Usage: "merge and write back every group once",
		Action: func(c *cli.Context) error {
			job, err := compaction.New(&compaction.Config{
				Table:    e.table,
				Interval: time.Minute,
				Metrics:  e.metrics,
			})
			if err != nil {
				return err
			}

			stats, err := job.RunOnce(c.Context)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.App.Writer, "rows: %d, merged: %d\n", stats.Rows, stats.Merged)
			return err
		},
	}
}

func serveCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve rows and metrics over HTTP and run the periodic compaction",
		Action: func(c *cli.Context) error {
			var deps []app.Dependency

			if e.cfg.Compaction.Enabled {
				job, err := compaction.New(&compaction.Config{
					Table:    e.table,
					Interval: e.cfg.Compaction.Interval,
					Metrics:  e.metrics,
				})
				if err != nil {
					return err
				}
				deps = append(deps, job)
			}

			srv, err := server.New(&server.Config{
				Address:  e.cfg.Metrics.Address,
				Table:    e.table,
				Gatherer: e.registry,
			})
			if err != nil {
				return err
			}
			deps = append(deps, srv)

			application, err := app.New(&app.Config{
				ServiceName: serviceName,
				StopTimeout: 30 * time.Second,
			}, deps...)
			if err != nil {
				return err
			}

			ctx := c.Context
			if ctx == nil {
				ctx = context.Background()
			}
			return application.Run(ctx)
		},
	}
}

func printRow(w io.Writer, row *litetable.Row) error {
	if _, err := fmt.Fprintln(w, rowkey.Format(row.Key)); err != nil {
		return err
	}
	for _, c := range row.Cells {
		if _, err := fmt.Fprintf(w, "  %s = %s (%s)\n", c.Column(), c.Value,
			time.Unix(0, c.Timestamp).UTC().Format(time.RFC3339Nano)); err != nil {
			return err
		}
	}
	return nil
}
