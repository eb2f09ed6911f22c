// Package utils defines shared constants and helpers used throughout the
// ticket analytics plugin. The constants name the fields and frames built
// from the analytics datasets.
package utils

const (
	// Field names used in Grafana DataFrames
	LabelFieldName       = "label"    // Category, priority or status label
	CountFieldName       = "count"    // Ticket count for a label
	ColorFieldName       = "color"    // Backend-assigned display color
	PercentFieldName     = "percent"  // Share of the total, one decimal
	TimeFieldName        = "time"     // Day of a time-series point
	CreatedFieldName     = "created"  // Tickets created on a day
	ResolvedFieldName    = "resolved" // Tickets resolved on a day
	AvgHoursFieldName    = "avg_hours"
	AgentFieldName       = "agent"
	TotalFieldName       = "total_tickets"
	ResolvedTicketsField = "resolved_tickets"
	RateFieldName        = "resolution_rate"
	RateClassField       = "rate_class"

	// Frame names used for Grafana DataFrames
	DistributionFrameName = "distribution" // Label/count frames (category, priority, status)
	TimeSeriesFrameName   = "time_series"  // Created/resolved per day
	ResolutionFrameName   = "resolution_by_category"
	SummaryFrameName      = "summary" // Single-row derived metrics
	AgentTableFrameName   = "agent_performance"

	// NoAgentDataMessage is shown in place of an empty agent table.
	NoAgentDataMessage = "No agent data available"

	// ThisWeekWindow is the number of trailing days summed for the
	// this-week metric.
	ThisWeekWindow = 7
)
