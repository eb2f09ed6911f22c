package formatter

import (
	"time"

	"ticket-analytics-plugin/pkg/models"
	"ticket-analytics-plugin/pkg/utils"

	"github.com/grafana/grafana-plugin-sdk-go/data"
)

// ThisWeekCount sums the tickets created over the trailing seven entries.
func ThisWeekCount(points []models.TimeSeriesPoint) int {
	start := len(points) - utils.ThisWeekWindow
	if start < 0 {
		start = 0
	}
	total := 0
	for _, p := range points[start:] {
		total += p.Created
	}
	return total
}

// TimeSeriesFrame creates the created/resolved trend frame.
func TimeSeriesFrame(points []models.TimeSeriesPoint) *data.Frame {
	times := make([]time.Time, len(points))
	created := make([]float64, len(points))
	resolved := make([]float64, len(points))
	for i, p := range points {
		times[i] = p.Date
		created[i] = float64(p.Created)
		resolved[i] = float64(p.Resolved)
	}

	frame := data.NewFrame(utils.TimeSeriesFrameName,
		data.NewField(utils.TimeFieldName, nil, times),
		data.NewField(utils.CreatedFieldName, nil, created),
		data.NewField(utils.ResolvedFieldName, nil, resolved),
	)
	frame.Meta = &data.FrameMeta{
		PreferredVisualization: data.VisTypeGraph,
	}
	return frame
}

// AgentTableFrame creates the agent performance table frame, with the rate
// class of each row alongside the backend's columns.
func AgentTableFrame(agents []models.AgentPerformance) *data.Frame {
	names := make([]string, len(agents))
	total := make([]float64, len(agents))
	resolved := make([]float64, len(agents))
	rates := make([]float64, len(agents))
	classes := make([]string, len(agents))
	for i, a := range agents {
		names[i] = a.Agent
		total[i] = float64(a.TotalTickets)
		resolved[i] = float64(a.ResolvedTickets)
		rates[i] = a.ResolutionRate
		classes[i] = utils.RateClass(a.ResolutionRate)
	}

	frame := data.NewFrame(utils.AgentTableFrameName,
		data.NewField(utils.AgentFieldName, nil, names),
		data.NewField(utils.TotalFieldName, nil, total),
		data.NewField(utils.ResolvedTicketsField, nil, resolved),
		data.NewField(utils.RateFieldName, nil, rates),
		data.NewField(utils.RateClassField, nil, classes),
	)
	frame.Meta = &data.FrameMeta{
		PreferredVisualization: data.VisTypeTable,
	}
	if len(agents) == 0 {
		frame.AppendNotices(data.Notice{
			Severity: data.NoticeSeverityInfo,
			Text:     utils.NoAgentDataMessage,
		})
	}
	return frame
}
