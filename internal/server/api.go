package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/theirongolddev/cashflow90/internal/dataservice"
	"github.com/theirongolddev/cashflow90/internal/model"
)

const maxRequestBody = 64 << 10

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type createdBody struct {
	Success bool           `json:"success"`
	Data    model.Scenario `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func companyVar(r *http.Request) string {
	return mux.Vars(r)["company"]
}

func daysParam(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("days must be a positive integer, got %q", raw)
	}
	return n, nil
}

func (s *Server) handleActuals(w http.ResponseWriter, r *http.Request) {
	days, err := daysParam(r, s.cfg.Days)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.res.DailyActuals(r.Context(), companyVar(r), days))
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.res.LatestForecast(r.Context(), companyVar(r)))
}

func (s *Server) handleScenarioForecast(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.res.ScenarioForecast(r.Context(), companyVar(r), mux.Vars(r)["scenario"]))
}

func (s *Server) handleScenarioComparison(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.res.ScenarioComparison(r.Context(), companyVar(r), mux.Vars(r)["scenario"]))
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.res.Alerts(r.Context(), companyVar(r)))
}

func (s *Server) handleWorkingCapital(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.res.WorkingCapital(r.Context(), companyVar(r)))
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.res.Scenarios(r.Context(), companyVar(r)))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	days, err := daysParam(r, s.cfg.Days)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.res.Dashboard(r.Context(), companyVar(r), days))
}

func (s *Server) handleCreateScenario(w http.ResponseWriter, r *http.Request) {
	var req model.ScenarioRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	sc, err := s.res.CreateScenario(r.Context(), companyVar(r), req)
	switch {
	case errors.Is(err, dataservice.ErrInvalidScenario):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, err)
		return
	}

	s.publishEvent(Event{
		Type:      EventScenarioCreated,
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
		Scenario:  &sc,
	})
	writeJSON(w, http.StatusAccepted, createdBody{Success: true, Data: sc})
}
