package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ticket-analytics-plugin/pkg/models"
	"ticket-analytics-plugin/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestRenderer_Build(t *testing.T) {
	tests := []struct {
		name     string
		result   models.DatasetResult
		validate func(t *testing.T, v *Visual)
	}{
		{
			name: "category tooltips carry share of total",
			result: models.DatasetResult{
				Kind: models.KindCategory,
				Categories: []models.CategoryCount{
					{Name: "Bug", Count: 1, Color: "#ff0000"},
					{Name: "Feature", Count: 3, Color: "#0f0"},
				},
			},
			validate: func(t *testing.T, v *Visual) {
				require.NotNil(t, v.Chart)
				assert.Equal(t, "doughnut", v.Chart.Type)
				assert.Equal(t, []string{"Bug: 1 (25.0%)", "Feature: 3 (75.0%)"}, v.Chart.Tooltips)
				assert.False(t, v.Chart.Empty())
			},
		},
		{
			name: "priority labels capitalised",
			result: models.DatasetResult{
				Kind:       models.KindPriority,
				Priorities: []models.PriorityCount{{Priority: "low", Count: 2}},
			},
			validate: func(t *testing.T, v *Visual) {
				assert.Equal(t, "bar", v.Chart.Type)
				assert.Equal(t, []string{"Low: 2 (100.0%)"}, v.Chart.Tooltips)
			},
		},
		{
			name: "status sets resolution rate",
			result: models.DatasetResult{
				Kind: models.KindStatus,
				Statuses: []models.StatusCount{
					{Status: "open", Count: 6},
					{Status: "resolved", Count: 2},
				},
			},
			validate: func(t *testing.T, v *Visual) {
				assert.Equal(t, "pie", v.Chart.Type)
				assert.Equal(t, "25.0%", v.Texts[models.TargetResolutionRate])
			},
		},
		{
			name:   "status with no tickets",
			result: models.DatasetResult{Kind: models.KindStatus},
			validate: func(t *testing.T, v *Visual) {
				assert.True(t, v.Chart.Empty())
				assert.Equal(t, "0%", v.Texts[models.TargetResolutionRate])
			},
		},
		{
			name: "resolution time",
			result: models.DatasetResult{
				Kind: models.KindResolutionTime,
				Resolution: &models.ResolutionTime{
					Overall:    &models.ResolutionSummary{AverageHours: 18.5, ResolvedCount: 40},
					ByCategory: []models.CategoryResolution{{Category: "Bug", AvgHours: 10, Count: 4}},
				},
			},
			validate: func(t *testing.T, v *Visual) {
				assert.Equal(t, "horizontalBar", v.Chart.Type)
				assert.Equal(t, "18.5h", v.Texts[models.TargetAvgResolutionTime])
				assert.Equal(t, "40", v.Texts[models.TargetTotalResolved])
			},
		},
		{
			name: "resolution time without overall",
			result: models.DatasetResult{
				Kind:       models.KindResolutionTime,
				Resolution: &models.ResolutionTime{},
			},
			validate: func(t *testing.T, v *Visual) {
				assert.True(t, v.Chart.Empty())
				assert.Equal(t, "N/A", v.Texts[models.TargetAvgResolutionTime])
				assert.Equal(t, "0", v.Texts[models.TargetTotalResolved])
			},
		},
		{
			name: "time series this week",
			result: models.DatasetResult{
				Kind: models.KindTimeSeries,
				TimeSeries: []models.TimeSeriesPoint{
					{Date: day(1), Created: 2, Resolved: 1},
				},
			},
			validate: func(t *testing.T, v *Visual) {
				assert.Equal(t, "line", v.Chart.Type)
				assert.Equal(t, "2", v.Texts[models.TargetThisWeekTickets])
				assert.Equal(t, []string{"Mar 1: 2 created, 1 resolved"}, v.Chart.Tooltips)
			},
		},
		{
			name:   "empty time series",
			result: models.DatasetResult{Kind: models.KindTimeSeries, Request: models.NewRequest(models.KindTimeSeries, 30)},
			validate: func(t *testing.T, v *Visual) {
				assert.True(t, v.Chart.Empty())
				assert.Equal(t, "0", v.Texts[models.TargetThisWeekTickets])
			},
		},
		{
			name:   "empty agents",
			result: models.DatasetResult{Kind: models.KindAgentPerformance},
			validate: func(t *testing.T, v *Visual) {
				assert.Nil(t, v.Chart)
				assert.Equal(t, utils.NoAgentDataMessage, v.Table)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewRenderer(nil).Build(tt.result)
			require.NoError(t, err)
			assert.Equal(t, tt.result.Kind, v.Kind)
			tt.validate(t, v)
		})
	}
}

func TestRenderer_BuildUnknownKind(t *testing.T) {
	_, err := NewRenderer(nil).Build(models.DatasetResult{Kind: "revenue"})
	require.Error(t, err)
}

func TestAgentTable(t *testing.T) {
	table := AgentTable([]models.AgentPerformance{
		{Agent: "ana", TotalTickets: 10, ResolvedTickets: 9, ResolutionRate: 90},
		{Agent: "bo", TotalTickets: 5, ResolvedTickets: 1, ResolutionRate: 20},
	})

	assert.Contains(t, table, "Agent")
	assert.Contains(t, table, "ana")
	assert.Contains(t, table, "90%")
	assert.Contains(t, table, "good")
	assert.Contains(t, table, "poor")
	assert.NotContains(t, table, utils.NoAgentDataMessage)
}

func TestTracker(t *testing.T) {
	r := NewRenderer(nil)
	v1, err := r.Build(models.DatasetResult{Kind: models.KindCategory})
	require.NoError(t, err)
	v2, err := r.Build(models.DatasetResult{Kind: models.KindCategory})
	require.NoError(t, err)

	assert.Equal(t, 2, r.Tracker().Live())
	assert.NotEqual(t, v1.Chart.ID, v2.Chart.ID)

	v1.Chart.Destroy()
	v1.Chart.Destroy()
	assert.True(t, v1.Chart.Destroyed())
	assert.Equal(t, 1, r.Tracker().Live())

	var buf bytes.Buffer
	assert.Error(t, v1.Chart.RenderSVG(&buf))
}

func TestChart_RenderSVG(t *testing.T) {
	r := NewRenderer(nil)

	t.Run("placeholder for empty chart", func(t *testing.T) {
		v, err := r.Build(models.DatasetResult{Kind: models.KindPriority})
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, v.Chart.RenderSVG(&buf))
		assert.Contains(t, buf.String(), "No data")
	})

	t.Run("single priority bar", func(t *testing.T) {
		v, err := r.Build(models.DatasetResult{
			Kind:       models.KindPriority,
			Priorities: []models.PriorityCount{{Priority: "high", Count: 3, Color: "#f00"}},
		})
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, v.Chart.RenderSVG(&buf))
		assert.True(t, strings.HasPrefix(buf.String(), "<svg"))
	})

	t.Run("equal priority counts", func(t *testing.T) {
		v, err := r.Build(models.DatasetResult{
			Kind: models.KindPriority,
			Priorities: []models.PriorityCount{
				{Priority: "low", Count: 4},
				{Priority: "medium", Count: 4},
				{Priority: "high", Count: 4},
			},
		})
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, v.Chart.RenderSVG(&buf))
		assert.True(t, strings.HasPrefix(buf.String(), "<svg"))
	})

	t.Run("time series points on one date", func(t *testing.T) {
		v, err := r.Build(models.DatasetResult{
			Kind: models.KindTimeSeries,
			TimeSeries: []models.TimeSeriesPoint{
				{Date: day(4), Created: 2, Resolved: 1},
				{Date: day(4), Created: 3, Resolved: 2},
			},
		})
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, v.Chart.RenderSVG(&buf))
		assert.True(t, strings.HasPrefix(buf.String(), "<svg"))
	})

	t.Run("time series", func(t *testing.T) {
		v, err := r.Build(models.DatasetResult{
			Kind: models.KindTimeSeries,
			TimeSeries: []models.TimeSeriesPoint{
				{Date: day(1), Created: 2, Resolved: 1},
				{Date: day(2), Created: 5, Resolved: 3},
			},
		})
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, v.Chart.RenderSVG(&buf))
		assert.True(t, strings.HasPrefix(buf.String(), "<svg"))
	})
}

func TestParseColor(t *testing.T) {
	assert.True(t, parseColor("").IsZero())
	assert.True(t, parseColor("not-a-color").IsZero())
	assert.Equal(t, parseColor("#ff0000"), parseColor("#f00"))
	c := parseColor("#3b82f6")
	assert.Equal(t, uint8(0x3b), c.R)
	assert.Equal(t, uint8(0x82), c.G)
	assert.Equal(t, uint8(0xf6), c.B)
}

func TestMemorySurface(t *testing.T) {
	s := NewMemorySurface(models.TargetCategoryChart, models.TargetResolutionRate)

	assert.True(t, s.HasMount(models.TargetCategoryChart))
	assert.False(t, s.HasMount(models.TargetStatusChart))

	v, err := NewRenderer(nil).Build(models.DatasetResult{Kind: models.KindStatus})
	require.NoError(t, err)
	err = s.MountChart(models.TargetStatusChart, v.Chart)
	var mountErr *MountError
	require.ErrorAs(t, err, &mountErr)
	assert.Equal(t, models.TargetStatusChart, mountErr.Target)

	s.SetText(models.TargetResolutionRate, "10.0%")
	s.SetText(models.TargetThisWeekTickets, "3")
	assert.Equal(t, "10.0%", s.Text(models.TargetResolutionRate))
	assert.Equal(t, 0, s.Writes(models.TargetThisWeekTickets))

	s.SetLoading(true)
	s.SetLoading(false)
	assert.False(t, s.Loading())
	assert.Equal(t, []bool{true, false}, s.LoadingToggles())
}

func TestDirSurface_Flush(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDirSurface(filepath.Join(dir, "out"), nil)
	require.NoError(t, err)

	r := NewRenderer(nil)
	status, err := r.Build(models.DatasetResult{
		Kind:     models.KindStatus,
		Statuses: []models.StatusCount{{Status: "resolved", Count: 3}, {Status: "open", Count: 1}},
	})
	require.NoError(t, err)
	require.NoError(t, s.MountChart(models.TargetStatusChart, status.Chart))
	s.SetText(models.TargetResolutionRate, status.Texts[models.TargetResolutionRate])
	s.SetTable(models.TargetAgentTable, AgentTable(nil))

	require.NoError(t, s.Flush())

	svg, err := os.ReadFile(filepath.Join(s.Dir(), "statusChart.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	metrics, err := os.ReadFile(filepath.Join(s.Dir(), MetricsFileName))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `"resolutionRate": "75.0%"`)

	table, err := os.ReadFile(filepath.Join(s.Dir(), TableFileName))
	require.NoError(t, err)
	assert.Equal(t, utils.NoAgentDataMessage, string(table))
}

func TestDirSurface_FlushSkipsUnexportableChart(t *testing.T) {
	s, err := NewDirSurface(t.TempDir(), nil)
	require.NoError(t, err)

	r := NewRenderer(nil)
	priority, err := r.Build(models.DatasetResult{
		Kind:       models.KindPriority,
		Priorities: []models.PriorityCount{{Priority: "high", Count: 3}},
	})
	require.NoError(t, err)
	require.NoError(t, s.MountChart(models.TargetPriorityChart, priority.Chart))
	require.NoError(t, s.Flush())

	previous, err := os.ReadFile(filepath.Join(s.Dir(), "priorityChart.svg"))
	require.NoError(t, err)

	category, err := r.Build(models.DatasetResult{
		Kind:       models.KindCategory,
		Categories: []models.CategoryCount{{Name: "Bug", Count: 2}, {Name: "Feature", Count: 1}},
	})
	require.NoError(t, err)
	require.NoError(t, s.MountChart(models.TargetCategoryChart, category.Chart))
	s.SetText(models.TargetThisWeekTickets, "5")
	s.SetTable(models.TargetAgentTable, AgentTable(nil))

	// A destroyed chart still bound to its target cannot be exported.
	priority.Chart.Destroy()
	require.NoError(t, s.Flush())

	kept, err := os.ReadFile(filepath.Join(s.Dir(), "priorityChart.svg"))
	require.NoError(t, err)
	assert.Equal(t, previous, kept)

	assert.FileExists(t, filepath.Join(s.Dir(), "categoryChart.svg"))
	assert.FileExists(t, filepath.Join(s.Dir(), TableFileName))
	metrics, err := os.ReadFile(filepath.Join(s.Dir(), MetricsFileName))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `"thisWeekTickets": "5"`)
}
