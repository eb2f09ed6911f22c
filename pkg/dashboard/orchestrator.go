// Package dashboard implements the dashboard refresh orchestrator. It fetches
// every analytics dataset concurrently, renders each one independently and
// keeps the dashboard usable when some of them fail.
//
// Superseded requests are not cancelled. When two refreshes of the same
// dataset overlap, the one issued last wins even if it completes first; an
// older completion is dropped instead of overwriting newer data.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"ticket-analytics-plugin/pkg/datasetiface"
	"ticket-analytics-plugin/pkg/metrics"
	"ticket-analytics-plugin/pkg/models"
	"ticket-analytics-plugin/pkg/render"
	"ticket-analytics-plugin/pkg/telemetry"

	"github.com/grafana/grafana-plugin-sdk-go/backend/log"
)

// ErrInvalidDays is returned when a time range is not a positive number of days.
var ErrInvalidDays = errors.New("days must be a positive integer")

// InitError reports mount points missing from the surface.
type InitError struct {
	Missing []models.Target
}

func (e *InitError) Error() string {
	names := make([]string, len(e.Missing))
	for i, t := range e.Missing {
		names[i] = string(t)
	}
	return fmt.Sprintf("dashboard is missing mount points: %s", strings.Join(names, ", "))
}

// Summary is the outcome of one RefreshAll.
type Summary struct {
	Succeeded []models.DatasetKind
	Failed    map[models.DatasetKind]error
	Duration  time.Duration
}

// FailedKinds lists the datasets that did not render, sorted.
func (s Summary) FailedKinds() []string {
	kinds := make([]string, 0, len(s.Failed))
	for k := range s.Failed {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	return kinds
}

// Orchestrator drives dashboard refreshes.
type Orchestrator struct {
	fetcher  datasetiface.DatasetFetcher
	surface  render.Surface
	renderer *render.Renderer
	state    *State
	sink     telemetry.Sink
	logger   log.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. The default is log.DefaultLogger.
func WithLogger(logger log.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithSink sets where refresh telemetry is published.
func WithSink(sink telemetry.Sink) Option {
	return func(o *Orchestrator) { o.sink = sink }
}

// WithRenderer sets the renderer, mostly so tests can share its tracker.
func WithRenderer(r *render.Renderer) Option {
	return func(o *Orchestrator) { o.renderer = r }
}

// WithDays sets the initial time range selection.
func WithDays(days int) Option {
	return func(o *Orchestrator) { o.state = NewState(days) }
}

// New creates an Orchestrator fetching through fetcher and drawing on surface.
func New(fetcher datasetiface.DatasetFetcher, surface render.Surface, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		fetcher: fetcher,
		surface: surface,
		state:   NewState(models.DefaultDays),
		sink:    telemetry.NopSink{},
		logger:  log.DefaultLogger,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.renderer == nil {
		o.renderer = render.NewRenderer(nil)
	}
	return o
}

// State returns the orchestrator's dashboard state.
func (o *Orchestrator) State() *State {
	return o.state
}

// Init checks that every mount point exists and performs the initial
// refresh. Missing mount points are shown as a blocking error.
func (o *Orchestrator) Init(ctx context.Context) error {
	var missing []models.Target
	for _, target := range models.AllTargets() {
		if !o.surface.HasMount(target) {
			missing = append(missing, target)
		}
	}
	if len(missing) > 0 {
		err := &InitError{Missing: missing}
		o.logger.Error("Failed to initialize dashboard", "error", err)
		o.surface.ShowBlockingError("Failed to load dashboard. Please refresh the page.")
		return err
	}

	summary := o.RefreshAll(ctx)
	o.logger.Info("Dashboard initialized", "succeeded", len(summary.Succeeded), "failed", len(summary.Failed))
	return nil
}

// RefreshAll fetches and renders every dataset concurrently. A dataset that
// fails leaves its widgets untouched; the others render regardless.
func (o *Orchestrator) RefreshAll(ctx context.Context) Summary {
	days := o.state.Days()
	summary := o.refreshKinds(ctx, days, models.AllKinds())

	metrics.RecordRefresh(len(summary.Failed))
	event := telemetry.NewRefreshEvent(summary.Duration, days, len(summary.Succeeded), summary.FailedKinds())
	if err := o.sink.Publish(ctx, event); err != nil {
		o.logger.Warn("Failed to publish refresh telemetry", "error", err)
	}

	o.logger.Debug("Dashboard refreshed", "duration", summary.Duration, "failed", summary.FailedKinds())
	return summary
}

// refreshKinds runs one refresh per kind and waits for all of them. The
// loading indicator is hidden before it returns.
func (o *Orchestrator) refreshKinds(ctx context.Context, days int, kinds []models.DatasetKind) Summary {
	start := time.Now()
	o.state.beginLoading(o.surface)
	defer o.state.endLoading(o.surface)

	results := make(chan struct {
		kind models.DatasetKind
		err  error
	}, len(kinds))

	for _, kind := range kinds {
		go func(kind models.DatasetKind) {
			err := o.refreshDataset(ctx, models.NewRequest(kind, days))
			results <- struct {
				kind models.DatasetKind
				err  error
			}{kind, err}
		}(kind)
	}

	summary := Summary{Failed: make(map[models.DatasetKind]error)}
	for i := 0; i < len(kinds); i++ {
		result := <-results
		if result.err != nil {
			summary.Failed[result.kind] = result.err
			continue
		}
		summary.Succeeded = append(summary.Succeeded, result.kind)
	}
	summary.Duration = time.Since(start)
	return summary
}

// RefreshTimeSeries changes the time range selection and re-renders the
// time-series chart and the this-week metric. Nothing is cached, so every
// call fetches again.
func (o *Orchestrator) RefreshTimeSeries(ctx context.Context, days int) error {
	if days <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDays, days)
	}
	o.state.setDays(days)
	return o.refreshDataset(ctx, models.NewRequest(models.KindTimeSeries, days))
}

// refreshDataset fetches, renders and commits one dataset. Failures are
// logged and returned; the dataset's widgets are left as they were.
func (o *Orchestrator) refreshDataset(ctx context.Context, req models.DatasetRequest) error {
	seq := o.state.issue(req.Kind)

	result, err := o.fetcher.FetchDataset(ctx, req)
	if err != nil {
		o.logger.Error("Failed to fetch dataset", "kind", req.Kind, "endpoint", req.Path(), "error", err)
		return err
	}

	visual, err := o.renderer.Build(result)
	if err != nil {
		o.logger.Error("Failed to render dataset", "kind", req.Kind, "endpoint", req.Path(), "error", err)
		return err
	}

	applied, err := o.state.commit(o.surface, seq, visual)
	if err != nil {
		o.logger.Error("Failed to mount dataset", "kind", req.Kind, "endpoint", req.Path(), "error", err)
		return err
	}
	if !applied {
		o.logger.Debug("Discarded stale dataset", "kind", req.Kind, "request", req.String(), "sequence", seq)
	}
	return nil
}

// Close destroys every chart instance the orchestrator mounted.
func (o *Orchestrator) Close() {
	o.state.Dispose(o.surface)
}
