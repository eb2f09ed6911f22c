// Package client creates the New Relic client used to publish dashboard
// telemetry events.
package client

import (
	"fmt"
	"time"

	"ticket-analytics-plugin/pkg/config"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/newrelic/newrelic-client-go/v2/newrelic"
)

// ClientConfig holds configuration options for the New Relic client
type ClientConfig struct {
	InsertKey string
	AccountID int
	Region    string
	Timeout   time.Duration
	UserAgent string
}

// DefaultConfig returns a ClientConfig with sensible defaults
func DefaultConfig() ClientConfig {
	return ClientConfig{
		Region:    "US",
		Timeout:   30 * time.Second,
		UserAgent: "ticket-analytics-plugin",
	}
}

// ConfigFromSettings builds the telemetry client configuration.
func ConfigFromSettings(s *config.Settings) ClientConfig {
	cfg := DefaultConfig()
	cfg.AccountID = s.Telemetry.AccountID
	if s.Telemetry.Region != "" {
		cfg.Region = s.Telemetry.Region
	}
	if s.Secrets != nil {
		cfg.InsertKey = s.Secrets.TelemetryInsertKey
	}
	return cfg
}

// NewRelicClientError represents an error specifically related to New Relic client operations.
type NewRelicClientError struct {
	Msg string
	Err error
}

func (e *NewRelicClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("new relic client error: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("new relic client error: %s", e.Msg)
}

func (e *NewRelicClientError) Unwrap() error {
	return e.Err
}

// newrelicNewFunc is swapped out in tests.
var newrelicNewFunc = newrelic.New

// options converts the configuration into New Relic client options.
func (c ClientConfig) options() []newrelic.ConfigOption {
	transport := cleanhttp.DefaultPooledTransport()
	return []newrelic.ConfigOption{
		newrelic.ConfigInsightsInsertKey(c.InsertKey),
		newrelic.ConfigRegion(c.Region),
		newrelic.ConfigUserAgent(c.UserAgent),
		newrelic.ConfigHTTPTimeout(c.Timeout),
		newrelic.ConfigHTTPTransport(transport),
	}
}
