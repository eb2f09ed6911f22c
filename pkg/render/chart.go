package render

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"ticket-analytics-plugin/pkg/models"

	"github.com/grafana/grafana-plugin-sdk-go/data"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth  = 640
	chartHeight = 400
)

// drawable is satisfied by every go-chart chart type.
type drawable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// Tracker hands out chart IDs and counts the chart instances that have been
// created and not yet destroyed.
type Tracker struct {
	next atomic.Uint64
	live atomic.Int64
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Live reports the number of chart instances not yet destroyed.
func (t *Tracker) Live() int {
	return int(t.live.Load())
}

// Chart is a live chart instance bound to one mount point. It carries the
// go-chart definition used for export and the data frame it was built from.
type Chart struct {
	ID       uint64
	Kind     models.DatasetKind
	Type     string
	Title    string
	Frame    *data.Frame
	Tooltips []string

	graph     drawable
	empty     bool
	tracker   *Tracker
	destroyed atomic.Bool
}

func (t *Tracker) newChart(kind models.DatasetKind, chartType, title string, frame *data.Frame) *Chart {
	t.live.Add(1)
	return &Chart{
		ID:      t.next.Add(1),
		Kind:    kind,
		Type:    chartType,
		Title:   title,
		Frame:   frame,
		tracker: t,
	}
}

// Destroy releases the instance. Calling it more than once is a no-op.
func (c *Chart) Destroy() {
	if c == nil || !c.destroyed.CompareAndSwap(false, true) {
		return
	}
	c.tracker.live.Add(-1)
}

// Destroyed reports whether Destroy has been called.
func (c *Chart) Destroyed() bool {
	return c.destroyed.Load()
}

// Empty reports whether the chart has nothing to plot.
func (c *Chart) Empty() bool {
	return c.empty
}

// RenderSVG writes the chart as SVG. Charts with nothing to plot are written
// as a titled placeholder since go-chart refuses empty ranges.
func (c *Chart) RenderSVG(w io.Writer) error {
	if c.Destroyed() {
		return fmt.Errorf("chart %d (%s) has been destroyed", c.ID, c.Kind)
	}
	if c.empty || c.graph == nil {
		_, err := io.WriteString(w, placeholderSVG(c.Title))
		return err
	}
	if err := c.graph.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render %s chart: %w", c.Kind, err)
	}
	return nil
}

func placeholderSVG(title string) string {
	title = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(title)
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+
		`<text x="50%%" y="45%%" text-anchor="middle">%s</text>`+
		`<text x="50%%" y="55%%" text-anchor="middle">No data</text></svg>`,
		chartWidth, chartHeight, title)
}

// parseColor converts a backend "#rrggbb" or "#rgb" color. Anything else
// yields the zero color, which lets go-chart pick from its palette.
func parseColor(hex string) drawing.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return drawing.Color{}
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return drawing.Color{}
		}
	}
	return drawing.ColorFromHex(hex)
}
