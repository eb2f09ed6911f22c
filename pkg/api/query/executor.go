// Package query provides functionality for executing dataset requests against
// the analytics backend. It handles request validation, execution, and error
// handling.
package query

import (
	"context"
	"fmt"
	"time"

	"ticket-analytics-plugin/pkg/datasetiface"
	"ticket-analytics-plugin/pkg/metrics"
	"ticket-analytics-plugin/pkg/models"
)

// ExecutionError represents an error during dataset request execution.
type ExecutionError struct {
	Request models.DatasetRequest
	Msg     string
	Err     error // Wrapped error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dataset request error for '%s': %s: %v", e.Request, e.Msg, e.Err)
	}
	return fmt.Sprintf("dataset request error for '%s': %s", e.Request, e.Msg)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Executor handles the execution of dataset requests. It implements
// datasetiface.DatasetFetcher so it can stand in for the raw fetcher.
type Executor struct {
	fetcher datasetiface.DatasetFetcher
}

var _ datasetiface.DatasetFetcher = (*Executor)(nil)

// NewExecutor creates a new executor around the given dataset fetcher.
func NewExecutor(fetcher datasetiface.DatasetFetcher) *Executor {
	return &Executor{fetcher: fetcher}
}

// Validate checks that req names a known dataset and, for the time series,
// a positive day count.
func Validate(req models.DatasetRequest) error {
	if _, err := models.ParseKind(string(req.Kind)); err != nil {
		return &ExecutionError{Request: req, Msg: "unknown dataset kind"}
	}
	if req.Kind == models.KindTimeSeries && req.Days <= 0 {
		return &ExecutionError{Request: req, Msg: "days must be a positive number"}
	}
	return nil
}

// Execute fetches and decodes the dataset for req.
func (e *Executor) Execute(ctx context.Context, req models.DatasetRequest) (*models.DatasetResult, error) {
	if e.fetcher == nil {
		return nil, &ExecutionError{Request: req, Msg: "dataset fetcher is nil, cannot execute request"}
	}
	if err := Validate(req); err != nil {
		return nil, err
	}

	metrics.IncrementConcurrentFetches()
	defer metrics.DecrementConcurrentFetches()

	start := time.Now()
	result, err := e.fetcher.FetchDataset(ctx, req)
	metrics.RecordFetch(req.Kind.String(), time.Since(start), err)
	if err != nil {
		return nil, &ExecutionError{Request: req, Msg: "error from analytics backend", Err: err}
	}
	return &result, nil
}

// FetchDataset implements datasetiface.DatasetFetcher.
func (e *Executor) FetchDataset(ctx context.Context, req models.DatasetRequest) (models.DatasetResult, error) {
	result, err := e.Execute(ctx, req)
	if err != nil {
		return models.DatasetResult{}, err
	}
	return *result, nil
}
