package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"ticket-analytics-plugin/pkg/api/query"
	"ticket-analytics-plugin/pkg/client"
	"ticket-analytics-plugin/pkg/config"
	"ticket-analytics-plugin/pkg/dashboard"
	"ticket-analytics-plugin/pkg/metrics"
	"ticket-analytics-plugin/pkg/render"
	"ticket-analytics-plugin/pkg/telemetry"
	"ticket-analytics-plugin/pkg/validator"

	"github.com/grafana/grafana-plugin-sdk-go/backend/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"
)

// session bundles what one CLI run works with.
type session struct {
	orchestrator *dashboard.Orchestrator
	surface      *render.DirSurface
	logger       log.Logger
}

func newSession(configPath, outDir string, logger log.Logger) (*session, error) {
	settings, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateSettings(settings); err != nil {
		return nil, err
	}

	executor, err := query.NewFromSettings(settings)
	if err != nil {
		return nil, err
	}
	sink, err := telemetry.FromSettings(settings, &client.DefaultNewRelicClientFactory{})
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}
	surface, err := render.NewDirSurface(outDir, logger)
	if err != nil {
		return nil, err
	}

	o := dashboard.New(executor, surface,
		dashboard.WithLogger(logger),
		dashboard.WithSink(sink),
		dashboard.WithDays(settings.DefaultDays),
	)
	return &session{orchestrator: o, surface: surface, logger: logger}, nil
}

// start runs the initial refresh and writes the result. An init failure is
// the only error that aborts the run.
func (s *session) start(ctx context.Context) error {
	if err := s.orchestrator.Init(ctx); err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	s.flush()
	return nil
}

// flush writes the dashboard files. Write failures are logged; the next
// refresh writes them again.
func (s *session) flush() {
	if err := s.surface.Flush(); err != nil {
		s.logger.Error("Failed to write dashboard files", "dir", s.surface.Dir(), "error", err)
	}
}

func runRefresh(ctx context.Context, configPath, outDir string, logger log.Logger) error {
	s, err := newSession(configPath, outDir, logger)
	if err != nil {
		return err
	}
	defer s.orchestrator.Close()

	if err := s.start(ctx); err != nil {
		return err
	}
	logger.Info("Dashboard written", "dir", s.surface.Dir())
	return nil
}

func runWatch(ctx context.Context, configPath, outDir string, in io.Reader, logger log.Logger) error {
	s, err := newSession(configPath, outDir, logger)
	if err != nil {
		return err
	}
	defer s.orchestrator.Close()

	if err := s.start(ctx); err != nil {
		return err
	}

	dispatcher := dashboard.NewDispatcher(s.orchestrator)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		cmd, err := dashboard.ParseCommand(line)
		if err != nil {
			logger.Warn("Ignoring command", "error", err)
			continue
		}
		summary, err := dispatcher.Dispatch(ctx, cmd)
		if err != nil {
			logger.Warn("Command failed", "command", line, "error", err)
			continue
		}
		if summary != nil && len(summary.Failed) > 0 {
			logger.Warn("Some datasets failed to refresh", "failed", summary.FailedKinds())
		}
		s.flush()
	}
	return scanner.Err()
}

// serveMetrics exposes the Prometheus registry on addr until ctx is done.
func serveMetrics(ctx context.Context, addr string, logger log.Logger) (func(), error) {
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", "error", err)
		}
	}()
	logger.Info("Serving metrics", "addr", addr)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}, nil
}

func refreshAction(c *cli.Context) error {
	return runRefresh(context.Background(), c.String("config"), c.String("out"), log.New())
}

func watchAction(c *cli.Context) error {
	ctx := context.Background()
	logger := log.New()

	if addr := c.String("metrics-addr"); addr != "" {
		stop, err := serveMetrics(ctx, addr, logger)
		if err != nil {
			return err
		}
		defer stop()
	}
	return runWatch(ctx, c.String("config"), c.String("out"), os.Stdin, logger)
}
