package metrics

import (
	"errors"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	// Session lifecycle metrics
	SessionsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "divinewithin_sessions_started_total",
			Help: "Total sessions started",
		},
		[]string{"kind"},
	)

	SessionsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "divinewithin_sessions_completed_total",
			Help: "Total sessions that counted down to zero",
		},
		[]string{"kind", "focus"},
	)

	SessionsStopped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "divinewithin_sessions_stopped_total",
			Help: "Total sessions abandoned before completion",
		},
		[]string{"kind"},
	)

	PracticeSeconds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "divinewithin_practice_seconds_total",
			Help: "Planned seconds of completed sessions",
		},
		[]string{"kind"},
	)

	// Breathwork metrics
	BreathCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "divinewithin_breath_cycles_total",
			Help: "Completed breathing cycles",
		},
		[]string{"technique"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "divinewithin_active_sessions",
			Help: "Number of running or paused sessions",
		},
	)

	StreakDays = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "divinewithin_streak_days",
			Help: "Current meditation streak in days",
		},
	)
)

func init() {
	prometheus.MustRegister(
		SessionsStarted,
		SessionsCompleted,
		SessionsStopped,
		PracticeSeconds,
		BreathCycles,
		ActiveSessions,
		StreakDays,
	)
}

// Server is the metrics HTTP server
type Server struct {
	server   *http.Server
	logger   zerolog.Logger
	listener net.Listener
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

// Start binds the listen address and serves in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.logger.Info().Str("addr", listener.Addr().String()).Msg("Starting metrics server")
	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("Metrics server error")
		}
	}()
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.server.Addr
	}
	return s.listener.Addr().String()
}

// Stop stops the metrics server
func (s *Server) Stop() error {
	s.logger.Info().Msg("Stopping metrics server")
	return s.server.Close()
}
