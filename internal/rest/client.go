// Package rest reads dashboard tables through a PostgREST endpoint such as
// the one Supabase exposes.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/cashflow90/internal/source"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 8 << 20 // 8 MB
	apiPrefix      = "/rest/v1/"
)

var (
	// ErrUnauthorized indicates the API key is missing, expired, or lacks access.
	ErrUnauthorized = errors.New("rest: unauthorized (api key invalid or missing grants)")
	// ErrRateLimited indicates the endpoint rejected the request for rate.
	ErrRateLimited = errors.New("rest: rate limited")
)

// Client is a source.Source backed by PostgREST.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a client for the project at baseURL.
// Returns nil if baseURL is empty.
func NewClient(baseURL, apiKey string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		http:    &http.Client{},
	}
}

// Fetch implements source.Source.
func (c *Client) Fetch(ctx context.Context, q source.Query) ([]source.Row, error) {
	u, err := c.buildURL(q)
	if err != nil {
		return nil, err
	}
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var rows []source.Row
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("rest: parsing %s: %w", q.Table, err)
	}
	return rows, nil
}

// buildURL renders q in PostgREST's query-string grammar, e.g.
// /rest/v1/alert_events?select=*&company_id=eq.X&order=created_at.desc&limit=10
func (c *Client) buildURL(q source.Query) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}

	v := url.Values{}
	v.Set("select", "*")
	for _, f := range q.Filters {
		v.Add(f.Field, string(f.Op)+"."+filterValue(f.Value))
	}
	if len(q.Orders) > 0 {
		parts := make([]string, len(q.Orders))
		for i, o := range q.Orders {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			parts[i] = o.Field + "." + dir
		}
		v.Set("order", strings.Join(parts, ","))
	}
	limit := q.Max
	if q.Single && (limit == 0 || limit > 2) {
		limit = 2
	}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	return c.baseURL + apiPrefix + q.Table + "?" + v.Encode(), nil
}

func filterValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// get performs an authenticated GET request and returns the response body.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("rest: creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "github.com/theirongolddev/cashflow90/1.0")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rest: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("rest: reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("rest: unexpected status %d: %s", resp.StatusCode, apiMessage(body))
	}
	return body, nil
}

// apiMessage extracts PostgREST's error message, falling back to the raw body.
func apiMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		if e.Code != "" {
			return e.Code + " " + e.Message
		}
		return e.Message
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
