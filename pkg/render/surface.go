package render

import (
	"sync"

	"ticket-analytics-plugin/pkg/models"
)

// Surface is the host document the dashboard draws into. Each widget is
// addressed by a named mount point.
type Surface interface {
	// HasMount reports whether the mount point exists.
	HasMount(target models.Target) bool
	MountChart(target models.Target, c *Chart) error
	UnmountChart(target models.Target)
	SetText(target models.Target, text string)
	SetTable(target models.Target, table string)
	SetLoading(visible bool)
	// ShowBlockingError replaces the dashboard with a message the user
	// cannot dismiss.
	ShowBlockingError(msg string)
}

// MemorySurface is a Surface that keeps everything in memory and records
// how often each mount point was written.
type MemorySurface struct {
	mu sync.Mutex

	mounts   map[models.Target]bool
	charts   map[models.Target]*Chart
	texts    map[models.Target]string
	tables   map[models.Target]string
	writes   map[models.Target]int
	loading  bool
	toggles  []bool
	blocking string
}

// NewMemorySurface creates a surface with the given mount points, or with
// every dashboard mount point when none are given.
func NewMemorySurface(targets ...models.Target) *MemorySurface {
	if len(targets) == 0 {
		targets = models.AllTargets()
	}
	s := &MemorySurface{
		mounts: make(map[models.Target]bool, len(targets)),
		charts: make(map[models.Target]*Chart),
		texts:  make(map[models.Target]string),
		tables: make(map[models.Target]string),
		writes: make(map[models.Target]int),
	}
	for _, t := range targets {
		s.mounts[t] = true
	}
	return s
}

func (s *MemorySurface) HasMount(target models.Target) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounts[target]
}

func (s *MemorySurface) MountChart(target models.Target, c *Chart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounts[target] {
		return &MountError{Target: target}
	}
	s.charts[target] = c
	s.writes[target]++
	return nil
}

func (s *MemorySurface) UnmountChart(target models.Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.charts, target)
}

func (s *MemorySurface) SetText(target models.Target, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounts[target] {
		return
	}
	s.texts[target] = text
	s.writes[target]++
}

func (s *MemorySurface) SetTable(target models.Target, table string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounts[target] {
		return
	}
	s.tables[target] = table
	s.writes[target]++
}

func (s *MemorySurface) SetLoading(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = visible
	s.toggles = append(s.toggles, visible)
}

func (s *MemorySurface) ShowBlockingError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocking = msg
}

// Chart returns the chart mounted on target, if any.
func (s *MemorySurface) Chart(target models.Target) *Chart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.charts[target]
}

// Text returns the text last written to target.
func (s *MemorySurface) Text(target models.Target) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.texts[target]
}

// Table returns the table last written to target.
func (s *MemorySurface) Table(target models.Target) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables[target]
}

// Writes reports how many times target has been written.
func (s *MemorySurface) Writes(target models.Target) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[target]
}

// Loading reports whether the loading indicator is visible.
func (s *MemorySurface) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LoadingToggles returns every SetLoading call in order.
func (s *MemorySurface) LoadingToggles() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]bool(nil), s.toggles...)
}

// BlockingError returns the blocking message, empty when none was shown.
func (s *MemorySurface) BlockingError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocking
}

// MountError reports a write to a mount point the surface does not have.
type MountError struct {
	Target models.Target
}

func (e *MountError) Error() string {
	return "mount point '" + string(e.Target) + "' not found"
}
