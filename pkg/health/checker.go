// Package health implements the datasource health check: it loads the
// settings, builds a backend client and delegates the connectivity check to
// the validator package.
package health

import (
	"context"
	"fmt"

	"ticket-analytics-plugin/pkg/api/query"
	"ticket-analytics-plugin/pkg/config"
	"ticket-analytics-plugin/pkg/validator"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/grafana/grafana-plugin-sdk-go/backend/log"
)

// PerformHealthCheck validates the settings and fetches a dataset from the
// backend. Every expected failure is reported through the returned result;
// the error is reserved for internal failures.
func PerformHealthCheck(ctx context.Context, dsSettings backend.DataSourceInstanceSettings) (*backend.CheckHealthResult, error) {
	logger := log.DefaultLogger.FromContext(ctx)
	logger.Debug("Starting health check")

	settings, err := config.LoadSettings(dsSettings)
	if err != nil {
		logger.Error("Failed to load settings", "error", err)
		return &backend.CheckHealthResult{
			Status:  backend.HealthStatusError,
			Message: fmt.Sprintf("Failed to load datasource configuration: %s", err.Error()),
		}, nil
	}

	if err := validator.ValidateSettings(settings); err != nil {
		return &backend.CheckHealthResult{
			Status:  backend.HealthStatusError,
			Message: err.Error(),
		}, nil
	}

	executor, err := query.NewFromSettings(settings)
	if err != nil {
		logger.Error("Failed to create backend client", "error", err)
		return &backend.CheckHealthResult{
			Status:  backend.HealthStatusError,
			Message: fmt.Sprintf("Backend client failed to initialize: %s", err.Error()),
		}, nil
	}

	result, err := validator.CheckHealth(ctx, settings, executor)
	if err != nil {
		logger.Error("Unexpected error from validator.CheckHealth", "error", err)
		return &backend.CheckHealthResult{
			Status:  backend.HealthStatusError,
			Message: fmt.Sprintf("Internal error during backend check: %s", err.Error()),
		}, nil
	}

	logger.Debug("Health check completed", "status", result.Status.String(), "message", result.Message)
	return result, nil
}

// ExecuteHealthCheck is a variable so tests can replace the health check.
var ExecuteHealthCheck = PerformHealthCheck
