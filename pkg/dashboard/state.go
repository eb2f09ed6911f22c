package dashboard

import (
	"sync"

	"ticket-analytics-plugin/pkg/models"
	"ticket-analytics-plugin/pkg/render"
)

// State is the dashboard state retained across refresh cycles. Every
// mutation of the surface goes through State so that commits never
// interleave.
type State struct {
	mu sync.Mutex

	days      int
	loading   int
	charts    map[models.Target]*render.Chart
	issued    map[models.DatasetKind]uint64
	committed map[models.DatasetKind]uint64
}

// NewState creates the state with the given time range selection.
func NewState(days int) *State {
	if days <= 0 {
		days = models.DefaultDays
	}
	return &State{
		days:      days,
		charts:    make(map[models.Target]*render.Chart),
		issued:    make(map[models.DatasetKind]uint64),
		committed: make(map[models.DatasetKind]uint64),
	}
}

// Days returns the selected time range.
func (s *State) Days() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.days
}

func (s *State) setDays(days int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days = days
}

// issue stamps a new request for kind with the next issue sequence.
func (s *State) issue(kind models.DatasetKind) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[kind]++
	return s.issued[kind]
}

// beginLoading shows the loading indicator when no refresh was in flight.
func (s *State) beginLoading(surface render.Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading++
	if s.loading == 1 {
		surface.SetLoading(true)
	}
}

// endLoading hides the loading indicator once the last refresh settles.
func (s *State) endLoading(surface render.Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading == 0 {
		return
	}
	s.loading--
	if s.loading == 0 {
		surface.SetLoading(false)
	}
}

// Loading reports the number of refreshes in flight.
func (s *State) Loading() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Chart returns the live chart instance bound to target.
func (s *State) Chart(target models.Target) *render.Chart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.charts[target]
}

// Mount binds c to target, destroying the instance previously bound there.
func (s *State) Mount(surface render.Surface, target models.Target, c *render.Chart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mountLocked(surface, target, c)
}

func (s *State) mountLocked(surface render.Surface, target models.Target, c *render.Chart) error {
	if old := s.charts[target]; old != nil {
		surface.UnmountChart(target)
		old.Destroy()
		delete(s.charts, target)
	}
	if err := surface.MountChart(target, c); err != nil {
		c.Destroy()
		return err
	}
	s.charts[target] = c
	return nil
}

// commit applies v to the surface in one step. A visual issued before the
// last one committed for the same dataset is discarded and commit reports
// false.
func (s *State) commit(surface render.Surface, seq uint64, v *render.Visual) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.committed[v.Kind] {
		if v.Chart != nil {
			v.Chart.Destroy()
		}
		return false, nil
	}
	s.committed[v.Kind] = seq

	if v.Chart != nil {
		if err := s.mountLocked(surface, v.Kind.PrimaryTarget(), v.Chart); err != nil {
			return false, err
		}
	}
	if v.Kind == models.KindAgentPerformance {
		surface.SetTable(models.TargetAgentTable, v.Table)
	}
	for _, target := range v.Targets() {
		if text, ok := v.Texts[target]; ok {
			surface.SetText(target, text)
		}
	}
	return true, nil
}

// Dispose destroys every live chart instance.
func (s *State) Dispose(surface render.Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for target, c := range s.charts {
		surface.UnmountChart(target)
		c.Destroy()
		delete(s.charts, target)
	}
}
