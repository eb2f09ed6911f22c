// Package telemetry publishes dashboard refresh events to New Relic.
package telemetry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"ticket-analytics-plugin/pkg/client"
	"ticket-analytics-plugin/pkg/config"

	"github.com/grafana/grafana-plugin-sdk-go/backend/log"
	"github.com/newrelic/newrelic-client-go/v2/newrelic"
)

// RefreshEventType is the New Relic custom event type for dashboard refreshes.
const RefreshEventType = "TicketDashboardRefresh"

// RefreshEvent describes one completed dashboard refresh.
type RefreshEvent struct {
	EventType   string `json:"eventType"`
	DurationMs  int64  `json:"durationMs"`
	Days        int    `json:"days"`
	Succeeded   int    `json:"succeeded"`
	Failed      int    `json:"failed"`
	FailedKinds string `json:"failedKinds,omitempty"`
}

// NewRefreshEvent builds the event for a refresh that took d. failed lists
// the datasets that did not render.
func NewRefreshEvent(d time.Duration, days, succeeded int, failed []string) RefreshEvent {
	sorted := append([]string(nil), failed...)
	sort.Strings(sorted)
	return RefreshEvent{
		EventType:   RefreshEventType,
		DurationMs:  d.Milliseconds(),
		Days:        days,
		Succeeded:   succeeded,
		Failed:      len(failed),
		FailedKinds: strings.Join(sorted, ","),
	}
}

// Sink receives refresh events.
type Sink interface {
	Publish(ctx context.Context, event RefreshEvent) error
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Publish(context.Context, RefreshEvent) error { return nil }

// EventPoster is the part of the New Relic Events API used here.
type EventPoster interface {
	CreateEventWithContext(ctx context.Context, accountID int, event interface{}) error
}

// NewRelicSink posts refresh events as New Relic custom events.
type NewRelicSink struct {
	events    EventPoster
	accountID int
}

// NewNewRelicSink creates a sink posting through events for accountID.
func NewNewRelicSink(events EventPoster, accountID int) *NewRelicSink {
	return &NewRelicSink{events: events, accountID: accountID}
}

func (s *NewRelicSink) Publish(ctx context.Context, event RefreshEvent) error {
	if err := s.events.CreateEventWithContext(ctx, s.accountID, event); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.EventType, err)
	}
	return nil
}

// FromSettings returns a New Relic sink when telemetry is configured and a
// NopSink otherwise.
func FromSettings(s *config.Settings, factory client.NewRelicClientFactory) (Sink, error) {
	if s == nil || !s.TelemetryEnabled() {
		return NopSink{}, nil
	}
	cfg := client.ConfigFromSettings(s)
	nr, err := client.GetClient(cfg, factory)
	if err != nil {
		return nil, err
	}
	log.DefaultLogger.Debug("Telemetry enabled", "accountID", cfg.AccountID, "region", cfg.Region)
	return newSinkFromClient(nr, cfg.AccountID), nil
}

func newSinkFromClient(nr *newrelic.NewRelic, accountID int) *NewRelicSink {
	return NewNewRelicSink(&nr.Events, accountID)
}
