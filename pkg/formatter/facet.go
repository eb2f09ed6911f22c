package formatter

import (
	"ticket-analytics-plugin/pkg/models"
	"ticket-analytics-plugin/pkg/utils"

	"github.com/grafana/grafana-plugin-sdk-go/data"
)

// OverallResolution returns the overall average hours and resolved count,
// both zero when the backend omitted the overall record.
func OverallResolution(res *models.ResolutionTime) (float64, int) {
	if res == nil || res.Overall == nil {
		return 0, 0
	}
	return res.Overall.AverageHours, res.Overall.ResolvedCount
}

// ResolutionFrame creates the horizontal bar frame of average resolution
// hours per category.
func ResolutionFrame(res *models.ResolutionTime) *data.Frame {
	var rows []models.CategoryResolution
	if res != nil {
		rows = res.ByCategory
	}

	categories := make([]string, len(rows))
	hours := make([]float64, len(rows))
	counts := make([]float64, len(rows))
	colors := make([]string, len(rows))
	for i, r := range rows {
		categories[i] = r.Category
		hours[i] = r.AvgHours
		counts[i] = float64(r.Count)
		colors[i] = r.Color
	}

	frame := data.NewFrame(utils.ResolutionFrameName,
		data.NewField(utils.LabelFieldName, nil, categories),
		data.NewField(utils.AvgHoursFieldName, nil, hours),
		data.NewField(utils.CountFieldName, nil, counts),
		data.NewField(utils.ColorFieldName, nil, colors),
	)
	frame.Meta = &data.FrameMeta{
		PreferredVisualization: data.VisTypeTable,
		Custom: map[string]interface{}{
			"chartType": "horizontalBar",
		},
	}
	return frame
}
