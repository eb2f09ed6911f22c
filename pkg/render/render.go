// Package render turns decoded datasets into the visuals the dashboard
// shows: chart instances, metric texts and the agent table. Building a
// visual is pure; committing it to a Surface is left to the caller so that
// a target is always replaced in one step.
package render

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"ticket-analytics-plugin/pkg/formatter"
	"ticket-analytics-plugin/pkg/models"
	"ticket-analytics-plugin/pkg/utils"

	"github.com/wcharczuk/go-chart/v2"
)

// Visual is the complete output of rendering one dataset.
type Visual struct {
	Kind  models.DatasetKind
	Chart *Chart
	Table string
	Texts map[models.Target]string
}

// Targets lists every mount point the visual writes to.
func (v *Visual) Targets() []models.Target {
	return TargetsFor(v.Kind)
}

// TargetsFor lists the mount points written when a dataset kind is rendered.
func TargetsFor(kind models.DatasetKind) []models.Target {
	switch kind {
	case models.KindTimeSeries:
		return []models.Target{models.TargetTimeSeriesChart, models.TargetThisWeekTickets}
	case models.KindStatus:
		return []models.Target{models.TargetStatusChart, models.TargetResolutionRate}
	case models.KindResolutionTime:
		return []models.Target{models.TargetResolutionTimeChart, models.TargetAvgResolutionTime, models.TargetTotalResolved}
	}
	if t := kind.PrimaryTarget(); t != "" {
		return []models.Target{t}
	}
	return nil
}

// Renderer builds visuals. Charts it creates are counted by its Tracker.
type Renderer struct {
	tracker *Tracker
}

// NewRenderer creates a Renderer reporting to tracker. A nil tracker gets a
// private one.
func NewRenderer(tracker *Tracker) *Renderer {
	if tracker == nil {
		tracker = NewTracker()
	}
	return &Renderer{tracker: tracker}
}

// Tracker returns the tracker counting this renderer's charts.
func (r *Renderer) Tracker() *Tracker {
	return r.tracker
}

// Build creates the visual for a decoded dataset. The chart is drawn once
// before it is returned, so a visual that cannot be exported is an error
// here and never replaces a working chart.
func (r *Renderer) Build(result models.DatasetResult) (*Visual, error) {
	var v *Visual
	switch result.Kind {
	case models.KindCategory:
		v = r.buildCategory(result.Categories)
	case models.KindPriority:
		v = r.buildPriority(result.Priorities)
	case models.KindTimeSeries:
		v = r.buildTimeSeries(result.TimeSeries)
	case models.KindStatus:
		v = r.buildStatus(result.Statuses)
	case models.KindResolutionTime:
		v = r.buildResolution(result.Resolution)
	case models.KindAgentPerformance:
		return &Visual{Kind: result.Kind, Table: AgentTable(result.Agents)}, nil
	default:
		return nil, fmt.Errorf("no renderer for dataset '%s'", result.Kind)
	}
	if v.Chart != nil {
		if err := v.Chart.RenderSVG(io.Discard); err != nil {
			v.Chart.Destroy()
			return nil, err
		}
	}
	return v, nil
}

// Tooltip formats a distribution slice as "<label>: <count> (<pct>%)".
func Tooltip(s formatter.Slice, total int) string {
	return fmt.Sprintf("%s: %d (%s)", s.Label, s.Count, utils.FormatPercent(utils.Percentage(float64(s.Count), float64(total))))
}

func sliceValues(slices []formatter.Slice) ([]chart.Value, []string) {
	total := formatter.Total(slices)
	values := make([]chart.Value, len(slices))
	tooltips := make([]string, len(slices))
	for i, s := range slices {
		values[i] = chart.Value{
			Label: s.Label,
			Value: float64(s.Count),
			Style: chart.Style{FillColor: parseColor(s.Color)},
		}
		tooltips[i] = Tooltip(s, total)
	}
	return values, tooltips
}

func (r *Renderer) buildCategory(categories []models.CategoryCount) *Visual {
	slices := formatter.CategorySlices(categories)
	values, tooltips := sliceValues(slices)

	c := r.tracker.newChart(models.KindCategory, "doughnut", "Tickets by Category", formatter.DistributionFrame(slices, "doughnut"))
	c.Tooltips = tooltips
	c.empty = formatter.Total(slices) == 0
	c.graph = chart.DonutChart{
		Title:  c.Title,
		Width:  chartWidth,
		Height: chartHeight,
		Values: values,
	}
	return &Visual{Kind: models.KindCategory, Chart: c}
}

func (r *Renderer) buildPriority(priorities []models.PriorityCount) *Visual {
	slices := formatter.PrioritySlices(priorities)
	values, tooltips := sliceValues(slices)

	c := r.tracker.newChart(models.KindPriority, "bar", "Priority Distribution", formatter.DistributionFrame(slices, "bar"))
	c.Tooltips = tooltips
	c.empty = formatter.Total(slices) == 0
	c.graph = chart.BarChart{
		Title:    c.Title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 60,
		YAxis:    chart.YAxis{Range: barRange(slices)},
		Bars:     values,
	}
	return &Visual{Kind: models.KindPriority, Chart: c}
}

// barRange keeps zero on the axis and never collapses to a zero height,
// which go-chart rejects for a single bar or equal counts.
func barRange(slices []formatter.Slice) *chart.ContinuousRange {
	lo, hi := 0.0, 1.0
	for _, s := range slices {
		lo = min(lo, float64(s.Count))
		hi = max(hi, float64(s.Count))
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func (r *Renderer) buildStatus(statuses []models.StatusCount) *Visual {
	slices := formatter.StatusSlices(statuses)
	values, tooltips := sliceValues(slices)

	total, resolved := 0, 0
	for _, s := range statuses {
		total += s.Count
		if s.Status == "resolved" {
			resolved += s.Count
		}
	}

	c := r.tracker.newChart(models.KindStatus, "pie", "Status Distribution", formatter.DistributionFrame(slices, "pie"))
	c.Tooltips = tooltips
	c.empty = total == 0
	c.graph = chart.PieChart{
		Title:  c.Title,
		Width:  chartWidth,
		Height: chartHeight,
		Values: values,
	}
	return &Visual{
		Kind:  models.KindStatus,
		Chart: c,
		Texts: map[models.Target]string{
			models.TargetResolutionRate: utils.ShareText(float64(resolved), float64(total)),
		},
	}
}

func (r *Renderer) buildResolution(res *models.ResolutionTime) *Visual {
	frame := formatter.ResolutionFrame(res)
	var rows []models.CategoryResolution
	if res != nil {
		rows = res.ByCategory
	}

	bars := make([]chart.StackedBar, 0, len(rows))
	tooltips := make([]string, len(rows))
	hasValue := false
	for i, row := range rows {
		bars = append(bars, chart.StackedBar{
			Name: row.Category,
			Values: []chart.Value{{
				Label: row.Category,
				Value: row.AvgHours,
				Style: chart.Style{FillColor: parseColor(row.Color)},
			}},
		})
		tooltips[i] = fmt.Sprintf("%s: %sh (%d tickets)", row.Category, strconv.FormatFloat(row.AvgHours, 'f', -1, 64), row.Count)
		if row.AvgHours > 0 {
			hasValue = true
		}
	}

	c := r.tracker.newChart(models.KindResolutionTime, "horizontalBar", "Average Resolution Time by Category", frame)
	c.Tooltips = tooltips
	c.empty = !hasValue
	c.graph = chart.StackedBarChart{
		Title:        c.Title,
		Width:        chartWidth,
		Height:       chartHeight,
		IsHorizontal: true,
		Bars:         bars,
	}

	avg, resolved := formatter.OverallResolution(res)
	return &Visual{
		Kind:  models.KindResolutionTime,
		Chart: c,
		Texts: map[models.Target]string{
			models.TargetAvgResolutionTime: utils.FormatHours(avg),
			models.TargetTotalResolved:     strconv.Itoa(resolved),
		},
	}
}

func (r *Renderer) buildTimeSeries(points []models.TimeSeriesPoint) *Visual {
	times := make([]time.Time, len(points))
	created := make([]float64, len(points))
	resolved := make([]float64, len(points))
	tooltips := make([]string, len(points))
	maxValue := 1.0
	var first, last time.Time
	for i, p := range points {
		times[i] = p.Date
		if first.IsZero() || p.Date.Before(first) {
			first = p.Date
		}
		if p.Date.After(last) {
			last = p.Date
		}
		created[i] = float64(p.Created)
		resolved[i] = float64(p.Resolved)
		tooltips[i] = fmt.Sprintf("%s: %d created, %d resolved", utils.FormatDateLabel(p.Date), p.Created, p.Resolved)
		maxValue = max(maxValue, created[i], resolved[i])
	}

	// go-chart needs two points to draw a line and a non-zero x range.
	if len(points) == 1 {
		times = append(times, times[0].Add(24*time.Hour))
		created = append(created, created[0])
		resolved = append(resolved, resolved[0])
	}
	if !last.After(first) {
		last = first.Add(24 * time.Hour)
	}

	c := r.tracker.newChart(models.KindTimeSeries, "line", "Ticket Trends", formatter.TimeSeriesFrame(points))
	c.Tooltips = tooltips
	c.empty = len(points) == 0

	graph := chart.Chart{
		Title:  c.Title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat(utils.DateLabelLayout),
			Range:          &chart.ContinuousRange{Min: chart.TimeToFloat64(first), Max: chart.TimeToFloat64(last)},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue},
		},
		Series: []chart.Series{
			chart.TimeSeries{Name: "Created", XValues: times, YValues: created, Style: chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2}},
			chart.TimeSeries{Name: "Resolved", XValues: times, YValues: resolved, Style: chart.Style{StrokeColor: chart.ColorGreen, StrokeWidth: 2}},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	c.graph = graph

	return &Visual{
		Kind:  models.KindTimeSeries,
		Chart: c,
		Texts: map[models.Target]string{
			models.TargetThisWeekTickets: strconv.Itoa(formatter.ThisWeekCount(points)),
		},
	}
}
