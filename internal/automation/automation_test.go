package automation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/cashflow90/internal/model"
)

func TestWebhookPostsPayload(t *testing.T) {
	var got map[string]any
	var method, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, time.Second)
	err := wh.TriggerScenario(context.Background(), model.ScenarioRequest{Name: "Hire", GrowthAdjustment: 10, PayrollAdjustment: -2})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, map[string]any{"name": "Hire", "growth_adjustment": 10.0, "payroll_adjustment": -2.0}, got)
}

func TestWebhookErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad payload", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL, 0).TriggerScenario(context.Background(), model.ScenarioRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrTriggerRejected)
	assert.Contains(t, err.Error(), "bad payload")

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()
	err = NewWebhook(down.URL, 0).TriggerScenario(context.Background(), model.ScenarioRequest{Name: "x"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTriggerRejected)
}

func TestNewWebhookEmpty(t *testing.T) {
	assert.Nil(t, NewWebhook("", time.Second))
}

func TestSimulated(t *testing.T) {
	start := time.Now()
	require.NoError(t, Simulated{Delay: 20 * time.Millisecond}.TriggerScenario(context.Background(), model.ScenarioRequest{}))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Simulated{Delay: time.Hour}.TriggerScenario(ctx, model.ScenarioRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}
