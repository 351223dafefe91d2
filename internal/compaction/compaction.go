// Package compaction periodically rewrites every group of delta rows as a single interval row.
package compaction

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/litetable/litetable-hut/internal/merge"
	"github.com/litetable/litetable-hut/internal/metrics"
	"github.com/rs/zerolog/log"
	"sync"
	"time"
)

// compactor opens scans that write merged groups back to the store.
type compactor interface {
	Compact(start, stop []byte) (*merge.Scanner, error)
}

// Stats summarizes a compaction pass.
type Stats struct {
	RunID  string
	Rows   int
	Merged int
}

type Job struct {
	table    compactor
	interval time.Duration
	metrics  *metrics.Metrics

	// mutex serializes passes; a tick never overlaps a manual run
	mutex sync.Mutex
	wg    sync.WaitGroup

	procCtx context.Context
	cancel  context.CancelFunc
}

type Config struct {
	Table    compactor
	Interval time.Duration
	Metrics  *metrics.Metrics
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Table == nil {
		errGrp = append(errGrp, errors.New("table cannot be nil"))
	}
	if c.Interval <= 0 {
		errGrp = append(errGrp, errors.New("interval must be greater than 0"))
	}
	return errors.Join(errGrp...)
}

// New creates a new compaction Job.
func New(cfg *Config) (*Job, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// cancelling the process context stops a running pass between two rows
	ctx, cancel := context.WithCancel(context.Background())

	return &Job{
		table:    cfg.Table,
		interval: cfg.Interval,
		metrics:  cfg.Metrics,
		procCtx:  ctx,
		cancel:   cancel,
	}, nil
}

func (j *Job) Start() error {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-j.procCtx.Done():
				return
			case <-ticker.C:
				if _, err := j.RunOnce(j.procCtx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error().Err(err).Msg("compaction failed")
				}
			}
		}
	}()
	return nil
}

func (j *Job) Stop() error {
	if j.cancel != nil {
		j.cancel()
	}

	// wait for a running pass to return
	j.wg.Wait()
	return nil
}

func (j *Job) Name() string {
	return "Compaction"
}

// RunOnce compacts the whole table. It stops early, with ctx.Err(), when ctx is done.
func (j *Job) RunOnce(ctx context.Context) (Stats, error) {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	stats := Stats{RunID: uuid.NewString()}
	begin := time.Now()

	err := j.run(ctx, &stats)
	j.metrics.CompactionDone(time.Since(begin).Seconds(), err)
	if err != nil {
		return stats, err
	}

	log.Info().Str("run", stats.RunID).
		Int("rows", stats.Rows).
		Int("merged", stats.Merged).
		Dur("took", time.Since(begin)).
		Msg("compaction complete")
	return stats, nil
}

func (j *Job) run(ctx context.Context, stats *Stats) (err error) {
	s, err := j.table.Compact(nil, nil)
	if err != nil {
		return fmt.Errorf("open compaction scan: %w", err)
	}
	defer func() {
		stats.Merged = s.Merged()
		err = errors.Join(err, s.Close())
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		row, err := s.Next()
		if err != nil {
			return err
		}
		if row == nil {
			return nil
		}
		stats.Rows++
	}
}
