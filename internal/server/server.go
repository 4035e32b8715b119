// Package server exposes the dashboard queries over HTTP and keeps a
// periodically refreshed KPI snapshot with a change-event stream.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/cashflow90/internal/dataservice"
	"github.com/theirongolddev/cashflow90/internal/model"
)

// Resolver is the query surface the server publishes.
type Resolver interface {
	DailyActuals(ctx context.Context, companyID string, days int) dataservice.Result[[]model.DailyActual]
	LatestForecast(ctx context.Context, companyID string) dataservice.Result[[]model.DailyForecast]
	ScenarioForecast(ctx context.Context, companyID, scenarioID string) dataservice.Result[[]model.DailyForecast]
	Alerts(ctx context.Context, companyID string) dataservice.Result[[]model.AlertEvent]
	WorkingCapital(ctx context.Context, companyID string) dataservice.Result[model.WorkingCapitalSummary]
	Scenarios(ctx context.Context, companyID string) dataservice.Result[[]model.Scenario]
	CreateScenario(ctx context.Context, companyID string, req model.ScenarioRequest) (model.Scenario, error)
	Dashboard(ctx context.Context, companyID string, days int) dataservice.Dashboard
	ScenarioComparison(ctx context.Context, companyID, scenarioID string) []model.ScenarioPoint
}

// Config controls the server runtime behavior.
type Config struct {
	CompanyID    string
	Days         int
	Addr         string
	Schedule     string
	EventsBuffer int
	PollTimeout  time.Duration
}

// Snapshot is the compact KPI state carried by status and event payloads.
type Snapshot struct {
	At                time.Time                   `json:"at"`
	CompanyID         string                      `json:"company_id"`
	CurrentCash       float64                     `json:"current_cash"`
	RunwayBase        model.Runway                `json:"runway_base"`
	RunwayWorst       model.Runway                `json:"runway_worst"`
	Next30DayNet      float64                     `json:"next_30_day_net"`
	NetWorkingCapital float64                     `json:"net_working_capital"`
	Alerts            int                         `json:"alerts"`
	Provenance        map[string]model.Provenance `json:"provenance"`
}

// Delta captures KPI changes between refreshes.
type Delta struct {
	CurrentCash       float64 `json:"current_cash"`
	RunwayBaseDays    int     `json:"runway_base_days"`
	RunwayWorstDays   int     `json:"runway_worst_days"`
	Next30DayNet      float64 `json:"next_30_day_net"`
	NetWorkingCapital float64 `json:"net_working_capital"`
	Alerts            int     `json:"alerts"`
}

func (d Delta) isZero() bool {
	return d.CurrentCash == 0 &&
		d.RunwayBaseDays == 0 &&
		d.RunwayWorstDays == 0 &&
		d.Next30DayNet == 0 &&
		d.NetWorkingCapital == 0 &&
		d.Alerts == 0
}

// Event types.
const (
	EventSnapshot        = "snapshot"
	EventKPIDelta        = "kpi_delta"
	EventScenarioCreated = "scenario_created"
)

// Event is emitted whenever the snapshot changes or a scenario is created.
type Event struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Snapshot  Snapshot        `json:"snapshot"`
	Delta     Delta           `json:"delta"`
	Scenario  *model.Scenario `json:"scenario,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	Schedule        string    `json:"schedule"`
	PollCount       int64     `json:"poll_count"`
	CompanyID       string    `json:"company_id"`
	Days            int       `json:"days"`
	Summary         Snapshot  `json:"summary"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Server provides the HTTP API and KPI refresh loop.
type Server struct {
	cfg Config
	res Resolver
	log *logrus.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a server with the provided config.
func New(cfg Config, res Resolver, log *logrus.Logger) *Server {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 1m"
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8790"
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 30 * time.Second
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	return &Server{
		cfg:       cfg,
		res:       res,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run serves HTTP and refreshes the KPI snapshot on the configured schedule
// until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	sched := cron.New()
	if _, err := sched.AddFunc(s.cfg.Schedule, func() { s.pollOnce(ctx) }); err != nil {
		return fmt.Errorf("refresh schedule %q: %w", s.cfg.Schedule, err)
	}

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
	s.log.WithFields(logrus.Fields{"addr": s.cfg.Addr, "schedule": s.cfg.Schedule}).Info("serving")

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce(ctx)
	sched.Start()
	defer func() { <-sched.Stop().Done() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func (s *Server) pollOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.PollTimeout)
	defer cancel()

	d := s.res.Dashboard(ctx, s.cfg.CompanyID, s.cfg.Days)
	now := time.Now()
	snap := snapshotFromDashboard(d, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++

	if !prevExists {
		ev = Event{Type: EventSnapshot, Timestamp: now, Snapshot: snap}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		ev = Event{Type: EventKPIDelta, Timestamp: now, Snapshot: snap, Delta: delta}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
	s.log.WithFields(logrus.Fields{
		"company_id":   snap.CompanyID,
		"current_cash": snap.CurrentCash,
		"runway_base":  snap.RunwayBase.String(),
		"published":    publish,
	}).Debug("kpi refresh")
}

func snapshotFromDashboard(d dataservice.Dashboard, at time.Time) Snapshot {
	snap := Snapshot{
		At:           at,
		CompanyID:    d.CompanyID,
		CurrentCash:  d.KPIs.CurrentCash,
		RunwayBase:   d.KPIs.RunwayBase,
		RunwayWorst:  d.KPIs.RunwayWorst,
		Next30DayNet: d.KPIs.Next30DayNet,
		Alerts:       len(d.Alerts.Data),
		Provenance: map[string]model.Provenance{
			"actuals":         d.Actuals.Provenance,
			"forecast":        d.Forecast.Provenance,
			"alerts":          d.Alerts.Provenance,
			"working_capital": d.WorkingCapital.Provenance,
		},
	}
	if d.KPIs.NetWorkingCapital != nil {
		snap.NetWorkingCapital = *d.KPIs.NetWorkingCapital
	}
	return snap
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		CurrentCash:       curr.CurrentCash - prev.CurrentCash,
		RunwayBaseDays:    curr.RunwayBase.Days - prev.RunwayBase.Days,
		RunwayWorstDays:   curr.RunwayWorst.Days - prev.RunwayWorst.Days,
		Next30DayNet:      curr.Next30DayNet - prev.Next30DayNet,
		NetWorkingCapital: curr.NetWorkingCapital - prev.NetWorkingCapital,
		Alerts:            curr.Alerts - prev.Alerts,
	}
}

// publishEvent assigns the next id, appends to the ring buffer, and fans out
// to subscribers without blocking.
func (s *Server) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
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

func (s *Server) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		Schedule:        s.cfg.Schedule,
		PollCount:       s.pollCount,
		CompanyID:       s.cfg.CompanyID,
		Days:            s.cfg.Days,
		Summary:         s.snapshot,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Server) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
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

	// Send current snapshot immediately.
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

func writeSSE(w io.Writer, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Server) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Server) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

// Handler returns the full route table.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/v1/events", s.handleEvents).Methods(http.MethodGet)
	r.HandleFunc("/v1/stream", s.handleStream).Methods(http.MethodGet)

	c := r.PathPrefix("/v1/companies/{company}").Subrouter()
	c.HandleFunc("/actuals", s.handleActuals).Methods(http.MethodGet)
	c.HandleFunc("/forecast", s.handleForecast).Methods(http.MethodGet)
	c.HandleFunc("/alerts", s.handleAlerts).Methods(http.MethodGet)
	c.HandleFunc("/working-capital", s.handleWorkingCapital).Methods(http.MethodGet)
	c.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	c.HandleFunc("/scenarios", s.handleScenarios).Methods(http.MethodGet)
	c.HandleFunc("/scenarios", s.handleCreateScenario).Methods(http.MethodPost)
	c.HandleFunc("/scenarios/{scenario}/forecast", s.handleScenarioForecast).Methods(http.MethodGet)
	c.HandleFunc("/scenarios/{scenario}/comparison", s.handleScenarioComparison).Methods(http.MethodGet)
	return r
}
