// Package handler processes incoming query requests from Grafana. It parses
// the per-query JSON model into a dataset request, runs it through the
// executor and formats the decoded dataset as data frames.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ticket-analytics-plugin/pkg/config"
	"ticket-analytics-plugin/pkg/datasetiface"
	"ticket-analytics-plugin/pkg/formatter"
	"ticket-analytics-plugin/pkg/models"
	"ticket-analytics-plugin/pkg/utils"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/grafana/grafana-plugin-sdk-go/backend/log"
)

// QueryError represents a query that could not be turned into a request.
type QueryError struct {
	RefID string
	Msg   string
	Err   error // Wrapped error
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("query '%s': %s: %v", e.RefID, e.Msg, e.Err)
	}
	return fmt.Sprintf("query '%s': %s", e.RefID, e.Msg)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// BuildRequest turns a Grafana query into a dataset request. An empty
// dataset defaults to the category breakdown; time-series days fall back to
// the panel time range when requested, then to the configured default.
func BuildRequest(settings *config.Settings, query backend.DataQuery) (models.DatasetRequest, error) {
	var qm models.QueryModel
	if len(query.JSON) > 0 {
		if err := json.Unmarshal(query.JSON, &qm); err != nil {
			return models.DatasetRequest{}, &QueryError{RefID: query.RefID, Msg: "error parsing query JSON", Err: err}
		}
	}

	dataset := strings.TrimSpace(qm.Dataset)
	if dataset == "" {
		dataset = string(models.KindCategory)
	}
	kind, err := models.ParseKind(dataset)
	if err != nil {
		return models.DatasetRequest{}, &QueryError{RefID: query.RefID, Msg: "invalid dataset", Err: err}
	}

	days := qm.Days
	switch {
	case qm.UseGrafanaTime:
		days = utils.DaysFromTimeRange(query.TimeRange)
	case days < 0:
		return models.DatasetRequest{}, &QueryError{RefID: query.RefID, Msg: fmt.Sprintf("days must be positive, got %d", days)}
	case days == 0:
		days = models.DefaultDays
		if settings != nil && settings.DefaultDays > 0 {
			days = settings.DefaultDays
		}
	}

	return models.NewRequest(kind, days), nil
}

// HandleQuery processes a single Grafana data query.
func HandleQuery(ctx context.Context, fetcher datasetiface.DatasetFetcher, settings *config.Settings, query backend.DataQuery) *backend.DataResponse {
	logger := log.DefaultLogger.FromContext(ctx)
	resp := &backend.DataResponse{}

	req, err := BuildRequest(settings, query)
	if err != nil {
		resp.Error = err
		logger.Error("Error building dataset request", "refId", query.RefID, "error", err)
		return resp
	}

	logger.Debug("Processing query", "refId", query.RefID, "request", req.String())

	if fetcher == nil {
		resp.Error = &QueryError{RefID: query.RefID, Msg: "dataset fetcher is nil, cannot execute query"}
		return resp
	}

	result, err := fetcher.FetchDataset(ctx, req)
	if err != nil {
		resp.Error = fmt.Errorf("dataset request failed: %w", err)
		logger.Error("Dataset request failed", "refId", query.RefID, "kind", req.Kind, "endpoint", req.Path(), "error", err)
		return resp
	}

	return formatter.FormatDataset(result)
}
