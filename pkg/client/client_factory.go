package client

import (
	"github.com/newrelic/newrelic-client-go/v2/newrelic"
)

// NewRelicClientFactory defines an interface for creating New Relic clients.
// It lets tests replace client creation without making API calls.
type NewRelicClientFactory interface {
	CreateClient(config ClientConfig) (*newrelic.NewRelic, error)
}

// DefaultNewRelicClientFactory is the concrete implementation of the
// NewRelicClientFactory interface backed by newrelic.New.
type DefaultNewRelicClientFactory struct{}

// CreateClient validates config and creates a live New Relic client.
func (f *DefaultNewRelicClientFactory) CreateClient(config ClientConfig) (*newrelic.NewRelic, error) {
	if config.InsertKey == "" {
		return nil, &NewRelicClientError{Msg: "New Relic insert key cannot be empty"}
	}
	if config.AccountID <= 0 {
		return nil, &NewRelicClientError{Msg: "New Relic account ID must be a positive number"}
	}

	client, err := newrelicNewFunc(config.options()...)
	if err != nil {
		return nil, &NewRelicClientError{Msg: "failed to initialize New Relic client", Err: err}
	}
	return client, nil
}

// GetClient initializes and returns a New Relic client using the provided configuration
// and a NewRelicClientFactory.
func GetClient(config ClientConfig, factory NewRelicClientFactory) (*newrelic.NewRelic, error) {
	if factory == nil {
		factory = &DefaultNewRelicClientFactory{}
	}
	return factory.CreateClient(config)
}
