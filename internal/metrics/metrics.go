// Package metrics holds the prometheus instrumentation of the merge read path and the
// compaction job. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "litetable_hut"

type Metrics struct {
	RowsScanned      prometheus.Counter
	RowsYielded      prometheus.Counter
	GroupsMerged     prometheus.Counter
	GroupsSkipped    prometheus.Counter
	RowsSkipped      *prometheus.CounterVec
	WriteBacks       *prometheus.CounterVec
	CompactionRuns   *prometheus.CounterVec
	CompactionLength prometheus.Histogram
}

// New registers the metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RowsScanned: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_scanned_total",
			Help:      "Physical rows read from the store",
		}),
		RowsYielded: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_yielded_total",
			Help:      "Logical rows returned to callers",
		}),
		GroupsMerged: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "groups_merged_total",
			Help:      "Groups of delta rows reduced into one row",
		}),
		GroupsSkipped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "groups_skipped_total",
			Help:      "Groups the reducer opted out of merging",
		}),
		RowsSkipped: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_skipped_total",
			Help:      "Leftover rows of interrupted write-backs skipped while merging",
		}, []string{"reason"}), // reason: duplicate/processed
		WriteBacks: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_backs_total",
			Help:      "Merged rows written back to the store",
		}, []string{"status"}), // status: success/error
		CompactionRuns: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compaction_runs_total",
			Help:      "Full compaction passes",
		}, []string{"status"}),
		CompactionLength: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compaction_duration_seconds",
			Help:      "Duration of full compaction passes",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) RowScanned() {
	if m != nil {
		m.RowsScanned.Inc()
	}
}

func (m *Metrics) RowYielded() {
	if m != nil {
		m.RowsYielded.Inc()
	}
}

func (m *Metrics) GroupMerged() {
	if m != nil {
		m.GroupsMerged.Inc()
	}
}

func (m *Metrics) GroupSkipped() {
	if m != nil {
		m.GroupsSkipped.Inc()
	}
}

func (m *Metrics) DuplicateSkipped() {
	if m != nil {
		m.RowsSkipped.WithLabelValues("duplicate").Inc()
	}
}

func (m *Metrics) ProcessedSkipped() {
	if m != nil {
		m.RowsSkipped.WithLabelValues("processed").Inc()
	}
}

func (m *Metrics) WriteBackDone() {
	if m != nil {
		m.WriteBacks.WithLabelValues("success").Inc()
	}
}

func (m *Metrics) WriteBackFailed() {
	if m != nil {
		m.WriteBacks.WithLabelValues("error").Inc()
	}
}

// CompactionDone records a finished compaction pass.
func (m *Metrics) CompactionDone(seconds float64, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.CompactionRuns.WithLabelValues(status).Inc()
	m.CompactionLength.Observe(seconds)
}
