// Package testutil holds helpers shared by the package tests: a fake
// analytics backend and builders for Grafana queries and settings.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ticket-analytics-plugin/pkg/models"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/grafana/grafana-plugin-sdk-go/data"
	"github.com/stretchr/testify/require"
)

// Canned backend responses, one per dataset.
const (
	CategoryJSON       = `[{"name":"Bug","count":6,"color":"#ef4444"},{"name":"Feature","count":3,"color":"#3b82f6"},{"name":"Question","count":1,"color":"#10b981"}]`
	ResolutionTimeJSON = `{"overall":{"average_hours":18.5,"resolved_count":42},"by_category":[{"category":"Bug","avg_hours":20.25,"count":30,"color":"#ef4444"},{"category":"Feature","avg_hours":12,"count":12,"color":"#3b82f6"}]}`
	TimeSeriesJSON     = `[{"date":"2024-03-01","created":4,"resolved":2},{"date":"2024-03-02","created":6,"resolved":5}]`
	PriorityJSON       = `[{"priority":"low","count":2,"color":"#10b981"},{"priority":"high","count":5,"color":"#f59e0b"}]`
	StatusJSON         = `[{"status":"open","count":4,"color":"#3b82f6"},{"status":"in_progress","count":2,"color":"#f59e0b"},{"status":"resolved","count":4,"color":"#10b981"}]`
	AgentJSON          = `[{"agent":"alice","total_tickets":20,"resolved_tickets":18,"resolution_rate":90},{"agent":"bob","total_tickets":10,"resolved_tickets":5,"resolution_rate":50}]`
)

// Backend is a fake analytics backend serving the six dataset endpoints.
type Backend struct {
	Server *httptest.Server

	mu     sync.Mutex
	bodies map[models.DatasetKind]string
	status map[models.DatasetKind]int
	hits   map[models.DatasetKind]int
	days   []string
}

// NewBackend starts a backend serving the canned responses. It is closed
// when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		bodies: map[models.DatasetKind]string{
			models.KindCategory:         CategoryJSON,
			models.KindResolutionTime:   ResolutionTimeJSON,
			models.KindTimeSeries:       TimeSeriesJSON,
			models.KindPriority:         PriorityJSON,
			models.KindStatus:           StatusJSON,
			models.KindAgentPerformance: AgentJSON,
		},
		status: make(map[models.DatasetKind]int),
		hits:   make(map[models.DatasetKind]int),
	}

	mux := http.NewServeMux()
	for _, kind := range models.AllKinds() {
		mux.HandleFunc(kind.Endpoint(), func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			b.hits[kind]++
			if kind == models.KindTimeSeries {
				b.days = append(b.days, r.URL.Query().Get("days"))
			}
			status, body := b.status[kind], b.bodies[kind]
			b.mu.Unlock()

			w.Header().Set("Content-Type", "application/json")
			if status != 0 {
				w.WriteHeader(status)
			}
			_, _ = w.Write([]byte(body))
		})
	}
	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the base URL of the backend.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Respond replaces the response for kind.
func (b *Backend) Respond(kind models.DatasetKind, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status[kind] = status
	b.bodies[kind] = body
}

// Hits reports how many requests kind has received.
func (b *Backend) Hits(kind models.DatasetKind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[kind]
}

// Days returns the days parameter of every time-series request.
func (b *Backend) Days() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.days...)
}

// MockTimeNow returns a fixed time for testing
func MockTimeNow() time.Time {
	return time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
}

// CreateTestQuery creates a dataset query with the given refID.
func CreateTestQuery(t *testing.T, refID string, model models.QueryModel) backend.DataQuery {
	t.Helper()

	jsonBytes, err := json.Marshal(model)
	require.NoError(t, err)

	now := MockTimeNow()
	return backend.DataQuery{
		RefID: refID,
		JSON:  jsonBytes,
		TimeRange: backend.TimeRange{
			From: now.Add(-7 * 24 * time.Hour),
			To:   now,
		},
	}
}

// CreateTestSettings creates datasource settings pointing at baseURL.
func CreateTestSettings(t *testing.T, baseURL string) *backend.DataSourceInstanceSettings {
	t.Helper()

	jsonData, err := json.Marshal(map[string]interface{}{
		"baseURL":        baseURL,
		"timeoutSeconds": 5,
	})
	require.NoError(t, err)

	return &backend.DataSourceInstanceSettings{
		JSONData: jsonData,
		DecryptedSecureJSONData: map[string]string{
			"apiToken": "test-token",
		},
	}
}

// AssertFrameFields checks if a data frame has the expected fields
func AssertFrameFields(t *testing.T, frame *data.Frame, expectedFields []string) {
	t.Helper()

	require.Equal(t, len(expectedFields), len(frame.Fields), "number of fields")
	for i, field := range frame.Fields {
		require.Equal(t, expectedFields[i], field.Name, "field name")
	}
}

// CreateTestPluginContext creates a test plugin context
func CreateTestPluginContext(t *testing.T, settings *backend.DataSourceInstanceSettings) backend.PluginContext {
	t.Helper()
	return backend.PluginContext{
		DataSourceInstanceSettings: settings,
	}
}
