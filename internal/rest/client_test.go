package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/cashflow90/internal/model"
	"github.com/theirongolddev/cashflow90/internal/source"
)

func TestNewClientEmpty(t *testing.T) {
	assert.Nil(t, NewClient("  ", "key"))
}

func TestFetchBuildsPostgRESTQuery(t *testing.T) {
	var gotPath, gotKey, gotAuth string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[{"id":"a1","company_id":"acme","severity":"critical","message":"low cash","created_at":"2025-03-01T10:00:00+00:00"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "anon")
	alerts, err := source.Fetch[model.AlertEvent](context.Background(), c,
		source.From(source.TableAlertEvents).Eq("company_id", "acme").Desc("created_at").Limit(10))
	require.NoError(t, err)

	assert.Equal(t, "/rest/v1/alert_events", gotPath)
	assert.Equal(t, []string{"eq.acme"}, gotQuery["company_id"])
	assert.Equal(t, []string{"created_at.desc"}, gotQuery["order"])
	assert.Equal(t, []string{"10"}, gotQuery["limit"])
	assert.Equal(t, []string{"*"}, gotQuery["select"])
	assert.Equal(t, "anon", gotKey)
	assert.Equal(t, "Bearer anon", gotAuth)

	require.Len(t, alerts, 1)
	assert.Equal(t, model.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, 2025, alerts[0].CreatedAt.Year())
}

func TestFetchNeqAndDates(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Fetch(context.Background(), source.From(source.TableInvoicesAR).
		Neq("status", model.StatusPaid).Neq("status", model.StatusVoid).Eq("issue_date", model.NewDate(2025, 1, 2)))
	require.NoError(t, err)
	assert.Equal(t, []string{"neq.paid", "neq.void"}, gotQuery["status"])
	assert.Equal(t, []string{"eq.2025-01-02"}, gotQuery["issue_date"])
}

func TestFetchStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusTooManyRequests, ErrRateLimited},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		}))
		_, err := NewClient(srv.URL, "k").Fetch(context.Background(), source.From(source.TableScenarios))
		assert.ErrorIs(t, err, tt.want)
		srv.Close()
	}
}

func TestFetchServerErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"42P01","message":"relation does not exist"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k").Fetch(context.Background(), source.From(source.TableScenarios))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "42P01 relation does not exist")
}

func TestFetchRejectsUnknownTable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "")
	_, err := c.Fetch(context.Background(), source.From("auth_users"))
	assert.ErrorIs(t, err, source.ErrUnknownTable)
}
