package models

// QueryModel represents the structure of a single query sent from Grafana.
// This struct will be unmarshaled from the JSON data in backend.DataQuery.
type QueryModel struct {
	Dataset        string `json:"dataset"`
	Days           int    `json:"days"`           // Only used by the time-series dataset
	UseGrafanaTime bool   `json:"useGrafanaTime"` // Derive days from Grafana's time picker
}
