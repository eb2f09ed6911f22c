// Package formatter handles the conversion of analytics datasets into
// Grafana data frames. Each dataset kind maps onto a frame shaped for the
// panel that displays it: distributions for pie and bar charts, a time
// series for the trend graph and a table for agent performance.
package formatter

import (
	"ticket-analytics-plugin/pkg/models"
	"ticket-analytics-plugin/pkg/utils"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/grafana/grafana-plugin-sdk-go/backend/log"
	"github.com/grafana/grafana-plugin-sdk-go/data"
)

// FormatDataset creates the Grafana frames for one decoded dataset. The
// first frame is always the primary visualization; derived metrics follow
// in a summary frame where the dataset has any.
func FormatDataset(result models.DatasetResult) *backend.DataResponse {
	resp := &backend.DataResponse{}

	log.DefaultLogger.Debug("Formatting dataset", "kind", result.Kind, "records", result.Len())

	switch result.Kind {
	case models.KindCategory:
		resp.Frames = append(resp.Frames, CategoryFrame(result.Categories))
	case models.KindPriority:
		resp.Frames = append(resp.Frames, PriorityFrame(result.Priorities))
	case models.KindStatus:
		resp.Frames = append(resp.Frames,
			StatusFrame(result.Statuses),
			SummaryFrame(Metric{Name: "resolution_rate", Value: ResolutionRate(result.Statuses)}),
		)
	case models.KindResolutionTime:
		resp.Frames = append(resp.Frames, ResolutionFrame(result.Resolution))
		avg, resolved := OverallResolution(result.Resolution)
		resp.Frames = append(resp.Frames, SummaryFrame(
			Metric{Name: "average_hours", Value: avg},
			Metric{Name: "resolved_count", Value: float64(resolved)},
		))
	case models.KindTimeSeries:
		resp.Frames = append(resp.Frames,
			TimeSeriesFrame(result.TimeSeries),
			SummaryFrame(Metric{Name: "this_week", Value: float64(ThisWeekCount(result.TimeSeries))}),
		)
	case models.KindAgentPerformance:
		resp.Frames = append(resp.Frames, AgentTableFrame(result.Agents))
	default:
		resp.Error = &FormatError{Kind: result.Kind}
	}

	return resp
}

// FormatError reports a dataset kind the formatter has no frame shape for.
type FormatError struct {
	Kind models.DatasetKind
}

func (e *FormatError) Error() string {
	return "no frame format for dataset '" + string(e.Kind) + "'"
}

// Metric is one named value of a summary frame.
type Metric struct {
	Name  string
	Value float64
}

// SummaryFrame builds a single-row frame of derived metrics for stat panels.
func SummaryFrame(metrics ...Metric) *data.Frame {
	frame := data.NewFrame(utils.SummaryFrameName)
	for _, m := range metrics {
		frame.Fields = append(frame.Fields, data.NewField(m.Name, nil, []float64{m.Value}))
	}
	frame.Meta = &data.FrameMeta{
		PreferredVisualization: data.VisTypeTable,
	}
	return frame
}
