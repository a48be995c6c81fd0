package metrics

import (
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	// Toggle metrics
	TogglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dutywatch_toggles_total",
			Help: "Total duty toggles recorded in the log channel",
		},
		[]string{"direction"},
	)

	// Report metrics
	ReportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dutywatch_reports_total",
			Help: "Total weekly reports served",
		},
		[]string{"command"},
	)

	// Log reader metrics
	LogPagesFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dutywatch_log_pages_fetched_total",
			Help: "History pages fetched from the log channel",
		},
	)

	LogMessagesFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dutywatch_log_messages_fetched_total",
			Help: "Raw messages fetched from the log channel",
		},
	)

	// Extractor metrics
	EventsExtracted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dutywatch_events_extracted_total",
			Help: "Duty events parsed from log entries",
		},
	)

	EntriesSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dutywatch_log_entries_skipped_total",
			Help: "Bot-authored log messages without the duty embed shape",
		},
	)

	// Handler metrics
	HandlerErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dutywatch_handler_errors_total",
			Help: "Handler invocations that ended in a transport error",
		},
		[]string{"handler"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(
		TogglesTotal,
		ReportsTotal,
		LogPagesFetched,
		LogMessagesFetched,
		EventsExtracted,
		EntriesSkipped,
		HandlerErrors,
	)
}

// Server is the metrics HTTP server
type Server struct {
	server   *http.Server
	logger   zerolog.Logger
	listener net.Listener // Optional pre-created listener (for systemd socket activation)
}

// NewServer creates a new metrics server
func NewServer(addr string, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
		logger: logger.With().Str("component", "metrics").Logger(),
	}
}

// SetListener sets a pre-created listener for systemd socket activation
func (s *Server) SetListener(ln net.Listener) {
	s.listener = ln
}

// Start starts the metrics server
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("Starting metrics server")
	go func() {
		var err error
		if s.listener != nil {
			// Use systemd socket-activated listener
			s.logger.Debug().Msg("Using systemd socket-activated metrics listener")
			err = s.server.Serve(s.listener)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Metrics server error")
		}
	}()
	return nil
}

// Stop stops the metrics server
func (s *Server) Stop() error {
	s.logger.Info().Msg("Stopping metrics server")
	return s.server.Close()
}
