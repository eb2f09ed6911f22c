package models

import (
	"fmt"
	"time"

	"github.com/valyala/fastjson"
)

// DecodeError represents a response body that could not be turned into a
// DatasetResult.
type DecodeError struct {
	Kind DatasetKind
	Msg  string
	Err  error // Wrapped error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode error for %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("decode error for %s: %s", e.Kind, e.Msg)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

var parserPool fastjson.ParserPool

// dateLayouts are tried in order when reading time-series dates.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Decode parses body into the DatasetResult for req. Only the top-level shape
// is enforced; missing record fields decode to zero values.
func Decode(req DatasetRequest, body []byte) (DatasetResult, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		return DatasetResult{}, &DecodeError{Kind: req.Kind, Msg: "response is not valid JSON", Err: err}
	}

	result := DatasetResult{Kind: req.Kind, Request: req}

	if req.Kind == KindResolutionTime {
		if v.Type() != fastjson.TypeObject {
			return DatasetResult{}, &DecodeError{Kind: req.Kind, Msg: fmt.Sprintf("expected object, got %s", v.Type())}
		}
		result.Resolution = decodeResolution(v)
		return result, nil
	}

	if v.Type() != fastjson.TypeArray {
		return DatasetResult{}, &DecodeError{Kind: req.Kind, Msg: fmt.Sprintf("expected array, got %s", v.Type())}
	}
	items, _ := v.Array()

	switch req.Kind {
	case KindCategory:
		result.Categories = make([]CategoryCount, 0, len(items))
		for _, item := range items {
			result.Categories = append(result.Categories, CategoryCount{
				Name:  getString(item, "name"),
				Count: item.GetInt("count"),
				Color: getString(item, "color"),
			})
		}
	case KindTimeSeries:
		result.TimeSeries = make([]TimeSeriesPoint, 0, len(items))
		for i, item := range items {
			date, err := parseDate(getString(item, "date"))
			if err != nil {
				return DatasetResult{}, &DecodeError{Kind: req.Kind, Msg: fmt.Sprintf("entry %d has an invalid date", i), Err: err}
			}
			result.TimeSeries = append(result.TimeSeries, TimeSeriesPoint{
				Date:     date,
				Created:  item.GetInt("created"),
				Resolved: item.GetInt("resolved"),
			})
		}
	case KindPriority:
		result.Priorities = make([]PriorityCount, 0, len(items))
		for _, item := range items {
			result.Priorities = append(result.Priorities, PriorityCount{
				Priority: getString(item, "priority"),
				Count:    item.GetInt("count"),
				Color:    getString(item, "color"),
			})
		}
	case KindStatus:
		result.Statuses = make([]StatusCount, 0, len(items))
		for _, item := range items {
			result.Statuses = append(result.Statuses, StatusCount{
				Status: getString(item, "status"),
				Count:  item.GetInt("count"),
				Color:  getString(item, "color"),
			})
		}
	case KindAgentPerformance:
		result.Agents = make([]AgentPerformance, 0, len(items))
		for _, item := range items {
			result.Agents = append(result.Agents, AgentPerformance{
				Agent:           getString(item, "agent"),
				TotalTickets:    item.GetInt("total_tickets"),
				ResolvedTickets: item.GetInt("resolved_tickets"),
				ResolutionRate:  item.GetFloat64("resolution_rate"),
			})
		}
	default:
		return DatasetResult{}, &DecodeError{Kind: req.Kind, Msg: "unknown dataset kind"}
	}

	return result, nil
}

func decodeResolution(v *fastjson.Value) *ResolutionTime {
	res := &ResolutionTime{}

	if overall := v.Get("overall"); overall != nil && overall.Type() == fastjson.TypeObject {
		res.Overall = &ResolutionSummary{
			AverageHours:  overall.GetFloat64("average_hours"),
			ResolvedCount: overall.GetInt("resolved_count"),
		}
	}

	rows := v.GetArray("by_category")
	res.ByCategory = make([]CategoryResolution, 0, len(rows))
	for _, row := range rows {
		res.ByCategory = append(res.ByCategory, CategoryResolution{
			Category: getString(row, "category"),
			AvgHours: row.GetFloat64("avg_hours"),
			Count:    row.GetInt("count"),
			Color:    getString(row, "color"),
		})
	}
	return res
}

func getString(v *fastjson.Value, key string) string {
	return string(v.GetStringBytes(key))
}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ErrorMessage extracts the "error" field from a backend error body, or ""
// when the body carries none.
func ErrorMessage(body []byte) string {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil || v.Type() != fastjson.TypeObject {
		return ""
	}
	return getString(v, "error")
}
