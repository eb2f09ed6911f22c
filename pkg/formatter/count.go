package formatter

import (
	"ticket-analytics-plugin/pkg/models"
	"ticket-analytics-plugin/pkg/utils"

	"github.com/grafana/grafana-plugin-sdk-go/data"
)

// Slice is one labelled count of a distribution chart.
type Slice struct {
	Label string
	Count int
	Color string
}

// Total sums the counts of slices.
func Total(slices []Slice) int {
	total := 0
	for _, s := range slices {
		total += s.Count
	}
	return total
}

// CategorySlices converts the category breakdown into chart slices.
func CategorySlices(categories []models.CategoryCount) []Slice {
	slices := make([]Slice, len(categories))
	for i, c := range categories {
		slices[i] = Slice{Label: c.Name, Count: c.Count, Color: c.Color}
	}
	return slices
}

// PrioritySlices converts the priority distribution into chart slices with
// capitalised labels.
func PrioritySlices(priorities []models.PriorityCount) []Slice {
	slices := make([]Slice, len(priorities))
	for i, p := range priorities {
		slices[i] = Slice{Label: utils.PriorityLabel(p.Priority), Count: p.Count, Color: p.Color}
	}
	return slices
}

// StatusSlices converts the status distribution into chart slices with
// display labels.
func StatusSlices(statuses []models.StatusCount) []Slice {
	slices := make([]Slice, len(statuses))
	for i, s := range statuses {
		slices[i] = Slice{Label: utils.StatusLabel(s.Status), Count: s.Count, Color: s.Color}
	}
	return slices
}

// ResolutionRate is the share of tickets in the "resolved" status.
func ResolutionRate(statuses []models.StatusCount) float64 {
	total, resolved := 0, 0
	for _, s := range statuses {
		total += s.Count
		if s.Status == "resolved" {
			resolved += s.Count
		}
	}
	return utils.Percentage(float64(resolved), float64(total))
}

// CategoryFrame creates the doughnut chart frame for the category dataset.
func CategoryFrame(categories []models.CategoryCount) *data.Frame {
	return DistributionFrame(CategorySlices(categories), "doughnut")
}

// PriorityFrame creates the bar chart frame for the priority dataset.
func PriorityFrame(priorities []models.PriorityCount) *data.Frame {
	return DistributionFrame(PrioritySlices(priorities), "bar")
}

// StatusFrame creates the pie chart frame for the status dataset.
func StatusFrame(statuses []models.StatusCount) *data.Frame {
	return DistributionFrame(StatusSlices(statuses), "pie")
}

// DistributionFrame creates a label/count frame. Each row carries its share
// of the total so tooltips can show "<label>: <count> (<pct>%)".
func DistributionFrame(slices []Slice, chartType string) *data.Frame {
	total := float64(Total(slices))

	labels := make([]string, len(slices))
	counts := make([]float64, len(slices))
	percents := make([]float64, len(slices))
	colors := make([]string, len(slices))
	for i, s := range slices {
		labels[i] = s.Label
		counts[i] = float64(s.Count)
		percents[i] = utils.Percentage(float64(s.Count), total)
		colors[i] = s.Color
	}

	frame := data.NewFrame(utils.DistributionFrameName,
		data.NewField(utils.LabelFieldName, nil, labels),
		data.NewField(utils.CountFieldName, nil, counts),
		data.NewField(utils.PercentFieldName, nil, percents),
		data.NewField(utils.ColorFieldName, nil, colors),
	)

	// Pie chart VisType is not available in the SDK; hint through Custom.
	frame.Meta = &data.FrameMeta{
		PreferredVisualization: data.VisTypeTable,
		Custom: map[string]interface{}{
			"chartType": chartType,
		},
	}
	return frame
}
