package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-analytics-plugin/pkg/config"
	"ticket-analytics-plugin/pkg/models"
)

// MockDatasetFetcher implements the datasetiface.DatasetFetcher interface for testing
type MockDatasetFetcher struct {
	shouldFail bool
	result     models.DatasetResult
	err        error
}

func (m *MockDatasetFetcher) FetchDataset(ctx context.Context, req models.DatasetRequest) (models.DatasetResult, error) {
	if m.shouldFail {
		return models.DatasetResult{}, m.err
	}
	res := m.result
	res.Kind = req.Kind
	res.Request = req
	return res, nil
}

func TestExecutor_Execute(t *testing.T) {
	mockResult := models.DatasetResult{
		Categories: []models.CategoryCount{{Name: "Bug", Count: 3, Color: "#fff"}},
	}

	tests := []struct {
		name       string
		executor   *Executor
		req        models.DatasetRequest
		shouldFail bool
		errMsg     string
	}{
		{
			name:     "success",
			executor: NewExecutor(&MockDatasetFetcher{result: mockResult}),
			req:      models.NewRequest(models.KindCategory, 0),
		},
		{
			name:       "nil fetcher",
			executor:   &Executor{fetcher: nil},
			req:        models.NewRequest(models.KindCategory, 0),
			shouldFail: true,
			errMsg:     "dataset fetcher is nil",
		},
		{
			name:       "unknown kind",
			executor:   NewExecutor(&MockDatasetFetcher{}),
			req:        models.DatasetRequest{Kind: "revenue"},
			shouldFail: true,
			errMsg:     "unknown dataset kind",
		},
		{
			name:       "time series without days",
			executor:   NewExecutor(&MockDatasetFetcher{}),
			req:        models.NewRequest(models.KindTimeSeries, 0),
			shouldFail: true,
			errMsg:     "days must be a positive number",
		},
		{
			name:       "fetch error",
			executor:   NewExecutor(&MockDatasetFetcher{shouldFail: true, err: errors.New("connection refused")}),
			req:        models.NewRequest(models.KindStatus, 0),
			shouldFail: true,
			errMsg:     "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.executor.Execute(context.Background(), tt.req)

			if tt.shouldFail {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.req.Kind, result.Kind)
			assert.Equal(t, mockResult.Categories, result.Categories)
		})
	}
}

func TestExecutor_FetchDataset(t *testing.T) {
	boom := errors.New("boom")
	e := NewExecutor(&MockDatasetFetcher{shouldFail: true, err: boom})

	_, err := e.FetchDataset(context.Background(), models.NewRequest(models.KindPriority, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, models.KindPriority, execErr.Request.Kind)
}

func TestExecutionError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ExecutionError
		expected string
	}{
		{
			name: "with wrapped error",
			err: &ExecutionError{
				Request: models.NewRequest(models.KindTimeSeries, 7),
				Msg:     "test message",
				Err:     errors.New("wrapped error"),
			},
			expected: "dataset request error for 'time-series(days=7)': test message: wrapped error",
		},
		{
			name: "without wrapped error",
			err: &ExecutionError{
				Request: models.NewRequest(models.KindCategory, 0),
				Msg:     "test message",
			},
			expected: "dataset request error for 'category': test message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.Equal(t, tt.err.Err, tt.err.Unwrap())
		})
	}
}

func TestNewFromSettings(t *testing.T) {
	_, err := NewFromSettings(&config.Settings{})
	require.Error(t, err)

	e, err := NewFromSettings(&config.Settings{BaseURL: "http://tickets.local", TimeoutSeconds: 1})
	require.NoError(t, err)
	assert.NotNil(t, e)
}
