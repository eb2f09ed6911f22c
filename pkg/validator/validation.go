// Package validator provides validation functions for dashboard settings and
// health checks. It ensures that configuration parameters are valid and that
// the analytics backend is reachable before any dataset is fetched.
package validator

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"ticket-analytics-plugin/pkg/api/client"
	"ticket-analytics-plugin/pkg/config"
	"ticket-analytics-plugin/pkg/datasetiface"
	"ticket-analytics-plugin/pkg/models"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
)

// ValidateSettings validates the dashboard settings.
func ValidateSettings(settings *config.Settings) error {
	if settings == nil {
		return &config.SettingsError{Msg: "settings cannot be nil"}
	}

	if settings.BaseURL == "" {
		return &config.SettingsError{Msg: "Enter the analytics backend URL"}
	}
	u, err := url.Parse(settings.BaseURL)
	if err != nil {
		return &config.SettingsError{Msg: "backend URL is not a valid URL", Err: err}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &config.SettingsError{Msg: fmt.Sprintf("backend URL must be an absolute http(s) URL, got '%s'", settings.BaseURL)}
	}

	if settings.DefaultDays <= 0 {
		return &config.SettingsError{Msg: "default days must be a positive number"}
	}
	if settings.TimeoutSeconds < 0 {
		return &config.SettingsError{Msg: "timeout cannot be negative"}
	}
	if settings.RequestsPerSecond < 0 {
		return &config.SettingsError{Msg: "requests per second cannot be negative"}
	}

	if settings.Telemetry.AccountID < 0 {
		return &config.SettingsError{Msg: "telemetry account ID must be a positive number"}
	}
	if settings.Telemetry.AccountID > 0 && (settings.Secrets == nil || settings.Secrets.TelemetryInsertKey == "") {
		return &config.SettingsError{Msg: "Enter a New Relic insert key to publish telemetry"}
	}

	return nil
}

// CheckHealth checks that the backend serves the category dataset with the
// configured credentials.
func CheckHealth(ctx context.Context, settings *config.Settings, fetcher datasetiface.DatasetFetcher) (*backend.CheckHealthResult, error) {
	if fetcher == nil {
		return &backend.CheckHealthResult{
			Status:  backend.HealthStatusError,
			Message: "Dataset fetcher is not initialized for health check.",
		}, nil
	}

	// First, perform basic settings validation
	if err := ValidateSettings(settings); err != nil {
		return &backend.CheckHealthResult{
			Status:  backend.HealthStatusError,
			Message: fmt.Sprintf("Configuration validation failed: %s", err.Error()),
		}, nil
	}

	result, err := fetcher.FetchDataset(ctx, models.NewRequest(models.KindCategory, 0))
	if err != nil {
		var fetchErr *client.FetchError
		if errors.As(err, &fetchErr) && fetchErr.Unauthorized() {
			return &backend.CheckHealthResult{
				Status:  backend.HealthStatusError,
				Message: fmt.Sprintf("Authentication failed for %s. Please verify the session cookie or API token has analytics access.", settings.BaseURL),
			}, nil
		}
		var decodeErr *models.DecodeError
		if errors.As(err, &decodeErr) {
			return &backend.CheckHealthResult{
				Status:  backend.HealthStatusError,
				Message: fmt.Sprintf("Backend at %s did not return analytics data: %s", settings.BaseURL, decodeErr.Error()),
			}, nil
		}
		return &backend.CheckHealthResult{
			Status:  backend.HealthStatusError,
			Message: fmt.Sprintf("Failed to connect to analytics backend at %s. Error: %s", settings.BaseURL, err.Error()),
		}, nil
	}

	return &backend.CheckHealthResult{
		Status:  backend.HealthStatusOk,
		Message: fmt.Sprintf("Successfully connected to analytics backend. %d ticket categories available.", len(result.Categories)),
	}, nil
}
