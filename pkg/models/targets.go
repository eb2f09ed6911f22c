package models

// Target is the logical name of a mount point in the host document.
type Target string

const (
	TargetCategoryChart       Target = "categoryChart"
	TargetPriorityChart       Target = "priorityChart"
	TargetTimeSeriesChart     Target = "timeSeriesChart"
	TargetStatusChart         Target = "statusChart"
	TargetResolutionTimeChart Target = "resolutionTimeChart"
	TargetAgentTable          Target = "agentPerformanceTable"
	TargetResolutionRate      Target = "resolutionRate"
	TargetTotalResolved       Target = "totalResolved"
	TargetThisWeekTickets     Target = "thisWeekTickets"
	TargetAvgResolutionTime   Target = "avgResolutionTime"
)

// AllTargets lists every mount point the dashboard writes to.
func AllTargets() []Target {
	return []Target{
		TargetCategoryChart,
		TargetPriorityChart,
		TargetTimeSeriesChart,
		TargetStatusChart,
		TargetResolutionTimeChart,
		TargetAgentTable,
		TargetResolutionRate,
		TargetTotalResolved,
		TargetThisWeekTickets,
		TargetAvgResolutionTime,
	}
}

// PrimaryTarget returns the chart or table a dataset kind is drawn into.
func (k DatasetKind) PrimaryTarget() Target {
	switch k {
	case KindCategory:
		return TargetCategoryChart
	case KindResolutionTime:
		return TargetResolutionTimeChart
	case KindTimeSeries:
		return TargetTimeSeriesChart
	case KindPriority:
		return TargetPriorityChart
	case KindStatus:
		return TargetStatusChart
	case KindAgentPerformance:
		return TargetAgentTable
	}
	return ""
}
