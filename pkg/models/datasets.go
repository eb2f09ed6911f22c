package models

import "time"

// CategoryCount is one slice of the tickets-by-category breakdown.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// ResolutionSummary is the overall resolution-time record.
type ResolutionSummary struct {
	AverageHours  float64 `json:"average_hours"`
	ResolvedCount int     `json:"resolved_count"`
}

// CategoryResolution is the average resolution time of one category.
type CategoryResolution struct {
	Category string  `json:"category"`
	AvgHours float64 `json:"avg_hours"`
	Count    int     `json:"count"`
	Color    string  `json:"color"`
}

// ResolutionTime is the resolution-time dataset. Overall is nil when the
// backend omitted it.
type ResolutionTime struct {
	Overall    *ResolutionSummary   `json:"overall"`
	ByCategory []CategoryResolution `json:"by_category"`
}

// TimeSeriesPoint holds the tickets created and resolved on one day.
type TimeSeriesPoint struct {
	Date     time.Time `json:"date"`
	Created  int       `json:"created"`
	Resolved int       `json:"resolved"`
}

// PriorityCount is the ticket count of one priority.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
	Color    string `json:"color"`
}

// StatusCount is the ticket count of one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Color  string `json:"color"`
}

// AgentPerformance is one row of the agent performance table.
// ResolutionRate is a percentage in the range 0-100.
type AgentPerformance struct {
	Agent           string  `json:"agent"`
	TotalTickets    int     `json:"total_tickets"`
	ResolvedTickets int     `json:"resolved_tickets"`
	ResolutionRate  float64 `json:"resolution_rate"`
}

// DatasetResult is the decoded response for one DatasetRequest. Only the
// field matching Kind is populated.
type DatasetResult struct {
	Kind       DatasetKind
	Request    DatasetRequest
	Categories []CategoryCount
	Resolution *ResolutionTime
	TimeSeries []TimeSeriesPoint
	Priorities []PriorityCount
	Statuses   []StatusCount
	Agents     []AgentPerformance
}

// Len reports the number of records in the result.
func (r DatasetResult) Len() int {
	switch r.Kind {
	case KindCategory:
		return len(r.Categories)
	case KindResolutionTime:
		if r.Resolution == nil {
			return 0
		}
		return len(r.Resolution.ByCategory)
	case KindTimeSeries:
		return len(r.TimeSeries)
	case KindPriority:
		return len(r.Priorities)
	case KindStatus:
		return len(r.Statuses)
	case KindAgentPerformance:
		return len(r.Agents)
	}
	return 0
}
