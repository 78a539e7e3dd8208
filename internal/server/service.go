// Package server provides the HTTP API for uploading deal files and
// computing forecasts against them.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/theirongolddev/dealcast/internal/cli"
	"github.com/theirongolddev/dealcast/internal/logging"
	"github.com/theirongolddev/dealcast/internal/model"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr               string
	SessionTTL         time.Duration
	MaxUploadBytes     int64
	DefaultDisposition model.Disposition
	DefaultPeriod      string // year-relative token, e.g. "Q3"; empty for the first option
	Sheet              string
	EventsBuffer       int
	Now                func() time.Time
	Logger             *slog.Logger
}

// Event is emitted whenever an upload is created, changed or removed.
type Event struct {
	ID        int64            `json:"id"`
	Type      string           `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	UploadID  string           `json:"upload_id,omitempty"`
	Period    string           `json:"period,omitempty"`
	Totals    *cli.TotalsEntry `json:"totals,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Uploads         int       `json:"uploads"`
	SessionTTLSec   int       `json:"session_ttl_sec"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the HTTP API.
type Service struct {
	cfg      Config
	log      *slog.Logger
	sessions *Sessions

	mu          sync.RWMutex
	startedAt   time.Time
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new service with the provided config.
func New(cfg Config) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if !cfg.DefaultDisposition.Valid() {
		cfg.DefaultDisposition = model.DispositionWin
	}

	return &Service{
		cfg:       cfg,
		log:       logging.Component(cfg.Logger, "server"),
		sessions:  NewSessions(cfg.SessionTTL),
		startedAt: cfg.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run serves the API until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.Info("listening", "addr", s.cfg.Addr, "session_ttl", s.cfg.SessionTTL)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

// Handler returns the chi router for the API.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/periods", s.handlePeriods)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)

		r.Post("/uploads", s.handleUpload)
		r.Route("/uploads/{id}", func(r chi.Router) {
			r.Use(s.uploadCtx)
			r.Get("/", s.handleGetUpload)
			r.Delete("/", s.handleDeleteUpload)
			r.Put("/dispositions", s.handleSetDispositions)
			r.Get("/forecast", s.handleForecast)
			r.Get("/chart", s.handleChart)
			r.Get("/export.xlsx", s.handleExport)
		})
	})

	return r
}

func (s *Service) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.cfg.Now()
	}
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		Uploads:         s.sessions.Len(),
		SessionTTLSec:   int(s.cfg.SessionTTL.Seconds()),
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) recentEvents() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
