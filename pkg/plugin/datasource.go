// Package plugin implements the ticket analytics Grafana datasource plugin.
// It exposes the analytics datasets to Grafana panels.
package plugin

import (
	"context"
	"fmt"
	"sync"

	"ticket-analytics-plugin/pkg/api/query"
	"ticket-analytics-plugin/pkg/config"
	"ticket-analytics-plugin/pkg/datasetiface"
	"ticket-analytics-plugin/pkg/handler"
	"ticket-analytics-plugin/pkg/health"
	"ticket-analytics-plugin/pkg/validator"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/grafana/grafana-plugin-sdk-go/backend/instancemgmt"
	"github.com/grafana/grafana-plugin-sdk-go/backend/log"
)

var (
	_ backend.QueryDataHandler      = (*Datasource)(nil)
	_ backend.CheckHealthHandler    = (*Datasource)(nil)
	_ instancemgmt.InstanceDisposer = (*Datasource)(nil)
)

// Datasource implements the ticket analytics datasource plugin.
// It handles data queries, health checks, and resource management.
type Datasource struct {
	// newFetcher builds the dataset fetcher; tests replace it.
	newFetcher func(settings *config.Settings) (datasetiface.DatasetFetcher, error)

	// fetcher is built on first use and shared by every request to this
	// instance, so its transport and rate limiter span requests. Grafana
	// creates a new instance when the settings change.
	mu      sync.Mutex
	fetcher datasetiface.DatasetFetcher
}

// NewDatasource creates a new instance of the datasource.
// It is called by the Grafana plugin SDK when a new datasource instance is needed.
func NewDatasource(ctx context.Context, settings backend.DataSourceInstanceSettings) (instancemgmt.Instance, error) {
	return &Datasource{newFetcher: defaultFetcher}, nil
}

func defaultFetcher(settings *config.Settings) (datasetiface.DatasetFetcher, error) {
	return query.NewFromSettings(settings)
}

func (d *Datasource) fetcherFor(settings *config.Settings) (datasetiface.DatasetFetcher, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fetcher != nil {
		return d.fetcher, nil
	}
	fetcher, err := d.fetcherFor(settings)
	if err != nil {
		return nil, err
	}
	d.fetcher = fetcher
	return fetcher, nil
}

// Dispose cleans up resources when a datasource instance is no longer needed.
func (d *Datasource) Dispose() {
	d.mu.Lock()
	d.fetcher = nil
	d.mu.Unlock()
	log.DefaultLogger.Debug("Ticket analytics datasource instance disposed")
}

// QueryData handles incoming data queries from Grafana. Queries run
// concurrently and each one reports its own failure in its DataResponse.
func (d *Datasource) QueryData(ctx context.Context, req *backend.QueryDataRequest) (*backend.QueryDataResponse, error) {
	logger := log.DefaultLogger.FromContext(ctx)
	response := backend.NewQueryDataResponse()

	if req.PluginContext.DataSourceInstanceSettings == nil {
		return nil, fmt.Errorf("missing datasource instance settings")
	}
	dsSettings := req.PluginContext.DataSourceInstanceSettings

	settings, err := config.LoadSettings(*dsSettings)
	if err != nil {
		logger.Error("Failed to load settings", "error", err, "datasourceID", dsSettings.ID)
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if err := validator.ValidateSettings(settings); err != nil {
		logger.Error("Invalid datasource configuration", "error", err, "datasourceID", dsSettings.ID)
		return nil, fmt.Errorf("invalid datasource configuration: %w", err)
	}

	fetcher, err := d.fetcherFor(settings)
	if err != nil {
		logger.Error("Failed to create backend client", "error", err, "datasourceID", dsSettings.ID)
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	queryResults := make(chan struct {
		refID string
		res   backend.DataResponse
	}, len(req.Queries))

	for _, q := range req.Queries {
		go func(q backend.DataQuery) {
			res := handler.HandleQuery(ctx, fetcher, settings, q)
			queryResults <- struct {
				refID string
				res   backend.DataResponse
			}{q.RefID, *res}
		}(q)
	}

	for i := 0; i < len(req.Queries); i++ {
		result := <-queryResults
		response.Responses[result.refID] = result.res
	}

	return response, nil
}

// CheckHealth performs a health check of the datasource.
// It validates the configuration and fetches a dataset from the backend.
func (d *Datasource) CheckHealth(ctx context.Context, req *backend.CheckHealthRequest) (*backend.CheckHealthResult, error) {
	if req.PluginContext.DataSourceInstanceSettings == nil {
		return &backend.CheckHealthResult{
			Status:  backend.HealthStatusError,
			Message: "Datasource settings are missing.",
		}, nil
	}

	healthResult, err := health.ExecuteHealthCheck(ctx, *req.PluginContext.DataSourceInstanceSettings)
	if err != nil {
		log.DefaultLogger.Error("Health check failed internally", "error", err)
		return &backend.CheckHealthResult{
			Status:  backend.HealthStatusError,
			Message: fmt.Sprintf("Health check encountered an internal error: %s", err.Error()),
		}, nil
	}

	return healthResult, nil
}
