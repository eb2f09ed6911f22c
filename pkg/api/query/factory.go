package query

import (
	"fmt"

	"ticket-analytics-plugin/pkg/api/client"
	"ticket-analytics-plugin/pkg/config"
	"ticket-analytics-plugin/pkg/datasetiface"
)

// NewFromSettings builds an executor backed by a live backend client.
func NewFromSettings(settings *config.Settings) (*Executor, error) {
	c, err := client.NewClient(client.ConfigFromSettings(settings))
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}
	return NewExecutor(&datasetiface.RealDatasetFetcher{Client: c}), nil
}
