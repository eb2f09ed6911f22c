package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ticket-analytics-plugin/pkg/models"

	"github.com/grafana/grafana-plugin-sdk-go/backend/log"
)

const (
	MetricsFileName = "metrics.json"
	TableFileName   = "agents.txt"
	ErrorFileName   = "error.txt"
)

// DirSurface is a Surface backed by a directory. Charts are exported as
// "<target>.svg", metric texts as metrics.json and the agent table as
// agents.txt when Flush is called.
type DirSurface struct {
	*MemorySurface

	dir    string
	logger log.Logger
	mu     sync.Mutex
}

// NewDirSurface creates a surface writing into dir, creating it if needed.
func NewDirSurface(dir string, logger log.Logger) (*DirSurface, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if logger == nil {
		logger = log.DefaultLogger
	}
	return &DirSurface{
		MemorySurface: NewMemorySurface(),
		dir:           dir,
		logger:        logger,
	}, nil
}

// Dir returns the output directory.
func (s *DirSurface) Dir() string {
	return s.dir
}

func (s *DirSurface) SetLoading(visible bool) {
	s.MemorySurface.SetLoading(visible)
	s.logger.Debug("Loading indicator", "visible", visible)
}

func (s *DirSurface) ShowBlockingError(msg string) {
	s.MemorySurface.ShowBlockingError(msg)
	s.logger.Error("Dashboard failed to initialize", "message", msg)
	if err := os.WriteFile(filepath.Join(s.dir, ErrorFileName), []byte(msg+"\n"), 0o644); err != nil {
		s.logger.Error("Failed to write blocking error", "error", err)
	}
}

// Flush writes the current state of every mount point to the directory.
// metrics.json maps each metric target to its text. A chart that cannot be
// exported is logged and its previous file is left in place; only write
// failures are returned.
func (s *DirSurface) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	texts := make(map[string]string)
	for _, target := range models.AllTargets() {
		if c := s.Chart(target); c != nil {
			var buf bytes.Buffer
			if err := c.RenderSVG(&buf); err != nil {
				s.logger.Error("Failed to export chart", "target", target, "kind", c.Kind, "error", err)
			} else if err := s.write(string(target)+".svg", buf.Bytes()); err != nil {
				errs = append(errs, err)
			}
		}
		if text := s.Text(target); text != "" {
			texts[string(target)] = text
		}
	}

	body, err := json.MarshalIndent(texts, "", "  ")
	if err != nil {
		return errors.Join(append(errs, fmt.Errorf("failed to encode metrics: %w", err))...)
	}
	if err := s.write(MetricsFileName, append(body, '\n')); err != nil {
		errs = append(errs, err)
	}

	if table := s.Table(models.TargetAgentTable); table != "" {
		if err := s.write(TableFileName, []byte(table)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *DirSurface) write(name string, body []byte) error {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	s.logger.Debug("Wrote dashboard file", "path", path, "bytes", len(body))
	return nil
}
