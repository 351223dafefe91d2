// Package server exposes the logical rows of a table, the prometheus metrics and a health check
// over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/litetable/litetable-hut/internal/litetable"
	"github.com/litetable/litetable-hut/internal/merge"
	"github.com/litetable/litetable-hut/internal/rowkey"
	"github.com/litetable/litetable-hut/internal/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"net"
	"net/http"
	"strconv"
	"time"
)

const (
	serverName      = "Hut HTTP Server"
	contentTypeJSON = "application/json"
	shutdownTimeout = 5 * time.Second
	defaultLimit    = 100
	maxLimit        = 10000
)

// reader serves reads that never write to the store.
type reader interface {
	Lookup(originalKey []byte) (*litetable.Row, error)
	Read(start, stop []byte) (*merge.Scanner, error)
}

type Server struct {
	listener net.Listener
	server   *http.Server
	table    reader
	gatherer prometheus.Gatherer
}

type Config struct {
	Address  string
	Table    reader
	Gatherer prometheus.Gatherer
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Address == "" {
		errGrp = append(errGrp, errors.New("address is required"))
	}
	if c.Table == nil {
		errGrp = append(errGrp, errors.New("table is required"))
	}
	if c.Gatherer == nil {
		errGrp = append(errGrp, errors.New("gatherer is required"))
	}
	return errors.Join(errGrp...)
}

// New returns a server listening on cfg.Address. Requests are only served once Start is called.
func New(cfg *Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to create listener: %w", err)
	}

	s := &Server{
		listener: listener,
		table:    cfg.Table,
		gatherer: cfg.Gatherer,
	}
	s.server = &http.Server{
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Start serves requests until Stop is called.
func (s *Server) Start() error {
	log.Info().Msgf("serving on %s", s.Addr())
	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop waits for in-flight requests to finish.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) Name() string {
	return serverName
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/rows", s.handleScan)
	r.Get("/rows/{key}", s.handleGet)

	return r
}

// rowView is the wire form of a logical row.
type rowView struct {
	Key   string           `json:"key"`
	Start int64            `json:"start"`
	End   int64            `json:"end"`
	Cells []litetable.Cell `json:"cells"`
}

func newRowView(r *litetable.Row) rowView {
	start, end, _ := rowkey.Interval(r.Key)
	return rowView{
		Key:   string(rowkey.Original(r.Key)),
		Start: start,
		End:   end,
		Cells: r.Cells,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	row, err := s.table.Lookup([]byte(key))
	switch {
	case errors.Is(err, table.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
		return
	case errors.Is(err, rowkey.ErrInvalidKey):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		log.Error().Err(err).Msgf("failed to read %q", key)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, newRowView(row))
}

// handleScan returns up to limit logical rows with original keys in [start, stop).
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := defaultLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxLimit {
			writeError(w, http.StatusBadRequest, fmt.Errorf("limit must be between 1 and %d", maxLimit))
			return
		}
		limit = n
	}

	var start, stop []byte
	if v := q.Get("start"); v != "" {
		start = []byte(v)
	}
	if v := q.Get("stop"); v != "" {
		stop = []byte(v)
	}

	scanner, err := s.table.Read(start, stop)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer func() {
		if err := scanner.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close scan")
		}
	}()

	rows, err := scanner.NextN(limit)
	if err != nil {
		log.Error().Err(err).Msg("scan failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	views := make([]rowView, len(rows))
	for i, row := range rows {
		views[i] = newRowView(row)
	}
	writeJSON(w, http.StatusOK, views)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
