// Package models defines the datasets exchanged with the ticket analytics
// backend, the requests that fetch them and the widgets they are drawn into.
package models

import (
	"fmt"
	"net/url"
	"strconv"
)

// DatasetKind identifies one of the fixed analytics datasets.
type DatasetKind string

const (
	KindCategory         DatasetKind = "category"
	KindResolutionTime   DatasetKind = "resolution-time"
	KindTimeSeries       DatasetKind = "time-series"
	KindPriority         DatasetKind = "priority"
	KindStatus           DatasetKind = "status"
	KindAgentPerformance DatasetKind = "agent-performance"
)

// DefaultDays is the time range selected when the dashboard first loads.
const DefaultDays = 7

var endpoints = map[DatasetKind]string{
	KindCategory:         "/analytics/api/tickets-by-category",
	KindResolutionTime:   "/analytics/api/resolution-time",
	KindTimeSeries:       "/analytics/api/time-series",
	KindPriority:         "/analytics/api/priority-distribution",
	KindStatus:           "/analytics/api/status-distribution",
	KindAgentPerformance: "/analytics/api/agent-performance",
}

// AllKinds returns every dataset kind in dashboard order.
func AllKinds() []DatasetKind {
	return []DatasetKind{
		KindCategory,
		KindResolutionTime,
		KindTimeSeries,
		KindPriority,
		KindStatus,
		KindAgentPerformance,
	}
}

// ParseKind converts a string into a known DatasetKind.
func ParseKind(s string) (DatasetKind, error) {
	k := DatasetKind(s)
	if _, ok := endpoints[k]; !ok {
		return "", fmt.Errorf("unknown dataset %q", s)
	}
	return k, nil
}

// Endpoint returns the backend path serving the dataset.
func (k DatasetKind) Endpoint() string {
	return endpoints[k]
}

func (k DatasetKind) String() string {
	return string(k)
}

// DatasetRequest identifies one analytics query. Days is only meaningful for
// the time-series dataset and is ignored for every other kind.
type DatasetRequest struct {
	Kind DatasetKind
	Days int
}

// NewRequest builds the request for kind. days is dropped for kinds that do
// not take a range.
func NewRequest(kind DatasetKind, days int) DatasetRequest {
	if kind != KindTimeSeries {
		days = 0
	}
	return DatasetRequest{Kind: kind, Days: days}
}

// Path returns the endpoint path for the request.
func (r DatasetRequest) Path() string {
	return r.Kind.Endpoint()
}

// Query returns the URL query parameters for the request.
func (r DatasetRequest) Query() url.Values {
	q := url.Values{}
	if r.Kind == KindTimeSeries && r.Days > 0 {
		q.Set("days", strconv.Itoa(r.Days))
	}
	return q
}

func (r DatasetRequest) String() string {
	if r.Kind == KindTimeSeries {
		return fmt.Sprintf("%s(days=%d)", r.Kind, r.Days)
	}
	return string(r.Kind)
}
