package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticket-analytics-plugin/pkg/config"
	"ticket-analytics-plugin/pkg/models"
	"ticket-analytics-plugin/pkg/testutil"
	"ticket-analytics-plugin/pkg/utils"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDatasetFetcher implements the datasetiface.DatasetFetcher interface for testing
type mockDatasetFetcher struct {
	err      error
	requests []models.DatasetRequest
}

func (m *mockDatasetFetcher) FetchDataset(ctx context.Context, req models.DatasetRequest) (models.DatasetResult, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return models.DatasetResult{}, m.err
	}
	result := models.DatasetResult{Kind: req.Kind, Request: req}
	switch req.Kind {
	case models.KindCategory:
		result.Categories = []models.CategoryCount{{Name: "Bug", Count: 2}}
	case models.KindTimeSeries:
		result.TimeSeries = []models.TimeSeriesPoint{{Date: testutil.MockTimeNow(), Created: 3}}
	}
	return result, nil
}

func TestBuildRequest(t *testing.T) {
	settings := &config.Settings{DefaultDays: 14}

	tests := []struct {
		name     string
		model    models.QueryModel
		settings *config.Settings
		expected models.DatasetRequest
		wantErr  string
	}{
		{
			name:     "empty dataset defaults to category",
			model:    models.QueryModel{},
			settings: settings,
			expected: models.NewRequest(models.KindCategory, 0),
		},
		{
			name:     "time series with explicit days",
			model:    models.QueryModel{Dataset: "time-series", Days: 30},
			settings: settings,
			expected: models.NewRequest(models.KindTimeSeries, 30),
		},
		{
			name:     "time series falls back to configured days",
			model:    models.QueryModel{Dataset: "time-series"},
			settings: settings,
			expected: models.NewRequest(models.KindTimeSeries, 14),
		},
		{
			name:     "time series falls back to default days",
			model:    models.QueryModel{Dataset: "time-series"},
			expected: models.NewRequest(models.KindTimeSeries, models.DefaultDays),
		},
		{
			name:     "time series from grafana time range",
			model:    models.QueryModel{Dataset: "time-series", Days: 90, UseGrafanaTime: true},
			settings: settings,
			expected: models.NewRequest(models.KindTimeSeries, 7),
		},
		{
			name:     "days ignored for other datasets",
			model:    models.QueryModel{Dataset: "status", Days: 30},
			settings: settings,
			expected: models.NewRequest(models.KindStatus, 0),
		},
		{
			name:    "unknown dataset",
			model:   models.QueryModel{Dataset: "revenue"},
			wantErr: "invalid dataset",
		},
		{
			name:    "negative days",
			model:   models.QueryModel{Dataset: "time-series", Days: -2},
			wantErr: "days must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := testutil.CreateTestQuery(t, "A", tt.model)
			req, err := BuildRequest(tt.settings, query)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, req)
		})
	}
}

func TestBuildRequest_InvalidJSON(t *testing.T) {
	_, err := BuildRequest(nil, backend.DataQuery{RefID: "B", JSON: []byte(`{invalid`)})
	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "B", queryErr.RefID)
}

func TestHandleQuery(t *testing.T) {
	settings := &config.Settings{DefaultDays: 7}

	tests := []struct {
		name           string
		query          backend.DataQuery
		fetcher        *mockDatasetFetcher
		expectedError  string
		expectedFrames int
		expectedFields []string
	}{
		{
			name:           "category dataset",
			query:          testutil.CreateTestQuery(t, "A", models.QueryModel{Dataset: "category"}),
			fetcher:        &mockDatasetFetcher{},
			expectedFrames: 1,
			expectedFields: []string{utils.LabelFieldName, utils.CountFieldName, utils.PercentFieldName, utils.ColorFieldName},
		},
		{
			name:           "time series dataset",
			query:          testutil.CreateTestQuery(t, "A", models.QueryModel{Dataset: "time-series", Days: 30}),
			fetcher:        &mockDatasetFetcher{},
			expectedFrames: 2,
			expectedFields: []string{utils.TimeFieldName, utils.CreatedFieldName, utils.ResolvedFieldName},
		},
		{
			name:          "fetch error",
			query:         testutil.CreateTestQuery(t, "A", models.QueryModel{Dataset: "status"}),
			fetcher:       &mockDatasetFetcher{err: errors.New("connection refused")},
			expectedError: "connection refused",
		},
		{
			name:          "invalid dataset",
			query:         testutil.CreateTestQuery(t, "A", models.QueryModel{Dataset: "nope"}),
			fetcher:       &mockDatasetFetcher{},
			expectedError: "invalid dataset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := HandleQuery(context.Background(), tt.fetcher, settings, tt.query)
			require.NotNil(t, resp)

			if tt.expectedError != "" {
				require.Error(t, resp.Error)
				assert.Contains(t, resp.Error.Error(), tt.expectedError)
				return
			}
			require.NoError(t, resp.Error)
			require.Len(t, resp.Frames, tt.expectedFrames)
			testutil.AssertFrameFields(t, resp.Frames[0], tt.expectedFields)
		})
	}
}

func TestHandleQuery_NilFetcher(t *testing.T) {
	query := testutil.CreateTestQuery(t, "A", models.QueryModel{})
	resp := HandleQuery(context.Background(), nil, nil, query)
	require.Error(t, resp.Error)
	assert.Contains(t, resp.Error.Error(), "fetcher is nil")
}

func TestHandleQuery_GrafanaTimeRange(t *testing.T) {
	fetcher := &mockDatasetFetcher{}
	query := testutil.CreateTestQuery(t, "A", models.QueryModel{Dataset: "time-series", UseGrafanaTime: true})
	query.TimeRange.From = query.TimeRange.To.Add(-36 * time.Hour)

	resp := HandleQuery(context.Background(), fetcher, nil, query)
	require.NoError(t, resp.Error)
	require.Len(t, fetcher.requests, 1)
	assert.Equal(t, 2, fetcher.requests[0].Days)
}
