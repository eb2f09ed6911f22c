package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Command is a user action on the dashboard.
type Command interface {
	command()
}

// SelectTimeRange is the time range selector being changed.
type SelectTimeRange struct {
	Days int
}

// Refresh is the refresh button being pressed.
type Refresh struct{}

func (SelectTimeRange) command() {}
func (Refresh) command() {}

// CommandError reports a text command that could not be parsed.
type CommandError struct {
	Input string
	Msg   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("invalid command %q: %s", e.Input, e.Msg)
}

// ParseCommand parses "refresh" or "range <days>".
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil, &CommandError{Input: line, Msg: "empty command"}
	}

	switch fields[0] {
	case "refresh":
		if len(fields) != 1 {
			return nil, &CommandError{Input: line, Msg: "refresh takes no arguments"}
		}
		return Refresh{}, nil
	case "range":
		if len(fields) != 2 {
			return nil, &CommandError{Input: line, Msg: "usage: range <days>"}
		}
		days, err := strconv.Atoi(fields[1])
		if err != nil || days <= 0 {
			return nil, &CommandError{Input: line, Msg: "days must be a positive integer"}
		}
		return SelectTimeRange{Days: days}, nil
	}
	return nil, &CommandError{Input: line, Msg: "unknown command"}
}

// Dispatcher routes commands to the orchestrator.
type Dispatcher struct {
	orchestrator *Orchestrator
}

// NewDispatcher creates a Dispatcher for o.
func NewDispatcher(o *Orchestrator) *Dispatcher {
	return &Dispatcher{orchestrator: o}
}

// Dispatch runs cmd. A refresh never fails as a whole; its per-dataset
// failures are in the returned Summary.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (*Summary, error) {
	switch c := cmd.(type) {
	case SelectTimeRange:
		return nil, d.orchestrator.RefreshTimeSeries(ctx, c.Days)
	case Refresh:
		summary := d.orchestrator.RefreshAll(ctx)
		return &summary, nil
	}
	return nil, fmt.Errorf("unsupported command %T", cmd)
}
