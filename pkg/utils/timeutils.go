// Package utils provides utility functions for the ticket analytics plugin
package utils

import (
	"math"
	"time"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
)

// DateLabelLayout formats time-series axis labels, e.g. "Jan 2".
const DateLabelLayout = "Jan 2"

// DaysFromTimeRange converts a Grafana time range into a whole number of
// days, rounded up. The result is never less than 1.
func DaysFromTimeRange(timeRange backend.TimeRange) int {
	duration := timeRange.To.Sub(timeRange.From)
	if duration <= 0 {
		return 1
	}
	days := int(math.Ceil(duration.Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// FormatDateLabel formats a time-series date as a short axis label.
func FormatDateLabel(t time.Time) string {
	return t.Format(DateLabelLayout)
}
