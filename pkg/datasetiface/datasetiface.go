// Package datasetiface provides interfaces for fetching analytics datasets.
// This package enables dependency injection and testing by abstracting the
// concrete backend client behind interfaces.
package datasetiface

import (
	"context"

	"ticket-analytics-plugin/pkg/models"
)

// BodyFetcher returns the raw response body for a dataset request.
type BodyFetcher interface {
	Fetch(ctx context.Context, req models.DatasetRequest) ([]byte, error)
}

// DatasetFetcher fetches and decodes one dataset. Every failure, whether
// transport, status or decoding, comes back as the error.
type DatasetFetcher interface {
	FetchDataset(ctx context.Context, req models.DatasetRequest) (models.DatasetResult, error)
}

// RealDatasetFetcher is a wrapper around a BodyFetcher that implements
// DatasetFetcher by decoding the body for the request's kind.
type RealDatasetFetcher struct {
	Client BodyFetcher
}

// FetchDataset fetches req through the client and decodes the response.
func (r *RealDatasetFetcher) FetchDataset(ctx context.Context, req models.DatasetRequest) (models.DatasetResult, error) {
	body, err := r.Client.Fetch(ctx, req)
	if err != nil {
		return models.DatasetResult{}, err
	}
	return models.Decode(req, body)
}

// FetcherFunc adapts a function to DatasetFetcher.
type FetcherFunc func(ctx context.Context, req models.DatasetRequest) (models.DatasetResult, error)

// FetchDataset calls f.
func (f FetcherFunc) FetchDataset(ctx context.Context, req models.DatasetRequest) (models.DatasetResult, error) {
	return f(ctx, req)
}
