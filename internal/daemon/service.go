// Package daemon provides a long-running progress watcher. It polls the
// dashboard and serves the latest snapshot and change events over local HTTP.
package daemon

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

	"github.com/moneymap/moneytree/internal/dashboard"
	"github.com/moneymap/moneytree/internal/goals"
	"github.com/moneymap/moneytree/internal/model"
)

// Config controls the daemon runtime behavior.
type Config struct {
	UserID       string
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Logger       *slog.Logger
}

// Loader fetches the dashboard aggregate. *dashboard.Dashboard satisfies it.
type Loader interface {
	Load(ctx context.Context) (*model.Dashboard, error)
}

// Snapshot is a compact progress state for status/event payloads.
type Snapshot struct {
	At                time.Time `json:"at"`
	Goals             int       `json:"goals"`
	OnRoadmap         int       `json:"on_roadmap"`
	Saved             float64   `json:"saved"`
	Target            float64   `json:"target"`
	ActiveMissions    int       `json:"active_missions"`
	CompletedMissions int       `json:"completed_missions"`
	Streak            int       `json:"streak"`
	Level             string    `json:"level"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Goals             int     `json:"goals"`
	Saved             float64 `json:"saved"`
	CompletedMissions int     `json:"completed_missions"`
	Streak            int     `json:"streak"`
}

func (d Delta) isZero() bool {
	return d.Goals == 0 &&
		d.Saved == 0 &&
		d.CompletedMissions == 0 &&
		d.Streak == 0
}

// Event types.
const (
	EventSnapshot = "snapshot"
	EventProgress = "progress"
	EventLevelUp  = "level_up"
)

// Event is emitted whenever the snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	UserID          string    `json:"user_id"`
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg    Config
	loader Loader
	log    *slog.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	levels      goals.LevelTracker
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service polling loader.
func New(cfg Config, loader Loader) *Service {
	if cfg.Interval < 5*time.Second {
		cfg.Interval = time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		loader:    loader,
		log:       log.With("user_id", cfg.UserID),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the daemon's HTTP routes.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/status", s.handleStatus)
	r.Get("/v1/events", s.handleEvents)
	r.Get("/v1/stream", s.handleStream)
	return r
}

// Run starts HTTP endpoints and polling until ctx is canceled.
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

	// Seed initial snapshot so status is useful immediately.
	s.PollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.PollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// PollOnce loads the dashboard and publishes any change.
func (s *Service) PollOnce(ctx context.Context) {
	data, err := s.loader.Load(ctx)
	now := time.Now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.Warn("daemon poll failed", "err", err)
		return
	}

	sum := dashboard.Summarize(data)
	snap := snapshotFromSummary(sum, now)

	var pending []Event

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.levels.Reset(sum.Level)
		pending = append(pending, s.newEventLocked(EventSnapshot, now, snap, Delta{}))
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			pending = append(pending, s.newEventLocked(EventProgress, now, snap, delta))
		}
		if _, leveled := s.levels.Observe(sum.Level); leveled {
			pending = append(pending, s.newEventLocked(EventLevelUp, now, snap, delta))
		}
	}
	s.mu.Unlock()

	for _, ev := range pending {
		if ev.Type == EventLevelUp {
			s.log.Info("tree leveled up", "level", ev.Snapshot.Level)
		}
		s.publishEvent(ev)
	}
}

func (s *Service) newEventLocked(typ string, at time.Time, snap Snapshot, delta Delta) Event {
	s.nextEventID++
	return Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: at,
		Snapshot:  snap,
		Delta:     delta,
	}
}

func snapshotFromSummary(sum dashboard.Summary, at time.Time) Snapshot {
	return Snapshot{
		At:                at,
		Goals:             sum.Goals,
		OnRoadmap:         sum.OnRoadmap,
		Saved:             sum.Saved,
		Target:            sum.Target,
		ActiveMissions:    sum.ActiveMissions,
		CompletedMissions: sum.CompletedMissions,
		Streak:            sum.Streak,
		Level:             sum.Level.String(),
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Goals:             curr.Goals - prev.Goals,
		Saved:             curr.Saved - prev.Saved,
		CompletedMissions: curr.CompletedMissions - prev.CompletedMissions,
		Streak:            curr.Streak - prev.Streak,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
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
		UserID:          s.cfg.UserID,
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	writeSSE(w, Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
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
