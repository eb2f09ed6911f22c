// Package config provides configuration management for the ticket analytics
// dashboard. Settings come either from Grafana's datasource instance settings
// or, for the command line tool, from a YAML file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"gopkg.in/yaml.v3"

	"ticket-analytics-plugin/pkg/models"
)

const (
	defaultTimeoutSeconds = 15
	defaultRegion         = "US"
)

// SettingsError represents an error specifically related to dashboard settings.
type SettingsError struct {
	Msg string
	Err error // Wrapped error
}

func (e *SettingsError) Error() string {
	if e.Err != nil {
		if e.Msg != "" {
			return fmt.Sprintf("%s: %v", e.Msg, e.Err)
		}
		return fmt.Sprintf("%v", e.Err)
	}
	return e.Msg
}

func (e *SettingsError) Unwrap() error {
	return e.Err
}

// Settings holds the configuration for talking to the analytics backend.
type Settings struct {
	BaseURL           string            `json:"baseURL" yaml:"baseURL"`
	TimeoutSeconds    int               `json:"timeoutSeconds" yaml:"timeoutSeconds"`
	DefaultDays       int               `json:"defaultDays" yaml:"defaultDays"`
	RequestsPerSecond float64           `json:"requestsPerSecond" yaml:"requestsPerSecond"`
	Burst             int               `json:"burst" yaml:"burst"`
	Telemetry         TelemetrySettings `json:"telemetry" yaml:"telemetry"`
	Secrets           *SecretSettings   `json:"-" yaml:"secrets"`
}

// TelemetrySettings configures publishing refresh events to New Relic.
// Telemetry is off unless AccountID is set.
type TelemetrySettings struct {
	AccountID int    `json:"accountID" yaml:"accountID"`
	Region    string `json:"region" yaml:"region"`
}

// SecretSettings holds credentials that Grafana stores encrypted.
type SecretSettings struct {
	SessionCookie      string `yaml:"sessionCookie"`
	APIToken           string `yaml:"apiToken"`
	TelemetryInsertKey string `yaml:"telemetryInsertKey"`
}

// Timeout returns the per-request timeout.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// TelemetryEnabled reports whether refresh events should be published.
func (s *Settings) TelemetryEnabled() bool {
	return s.Telemetry.AccountID > 0 && s.Secrets != nil && s.Secrets.TelemetryInsertKey != ""
}

// LoadSettings unmarshals the JSON data and decrypted secure JSON data
// from Grafana's DataSourceInstanceSettings into a Settings struct.
func LoadSettings(source backend.DataSourceInstanceSettings) (*Settings, error) {
	settings := Settings{}
	if len(source.JSONData) > 0 {
		if err := json.Unmarshal(source.JSONData, &settings); err != nil {
			return nil, &SettingsError{Msg: "could not unmarshal Settings JSON", Err: err}
		}
	}

	// Grafana keeps the datasource URL outside JSONData.
	if settings.BaseURL == "" {
		settings.BaseURL = source.URL
	}

	settings.Secrets = loadSecretSettings(source.DecryptedSecureJSONData)

	if v, ok := source.DecryptedSecureJSONData["telemetryAccountID"]; ok && v != "" && settings.Telemetry.AccountID == 0 {
		accountID, err := strconv.Atoi(v)
		if err != nil {
			return nil, &SettingsError{Msg: fmt.Sprintf("could not convert telemetryAccountID '%s' to int", v), Err: err}
		}
		settings.Telemetry.AccountID = accountID
	}

	applyDefaults(&settings)
	return &settings, nil
}

// LoadFile reads settings from a YAML file.
func LoadFile(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &SettingsError{Msg: fmt.Sprintf("could not read settings file %s", path), Err: err}
	}

	settings := Settings{}
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return nil, &SettingsError{Msg: "could not unmarshal Settings YAML", Err: err}
	}
	if settings.Secrets == nil {
		settings.Secrets = &SecretSettings{}
	}

	applyDefaults(&settings)
	return &settings, nil
}

// loadSecretSettings extracts secure data from the decrypted map.
func loadSecretSettings(source map[string]string) *SecretSettings {
	return &SecretSettings{
		SessionCookie:      source["sessionCookie"],
		APIToken:           source["apiToken"],
		TelemetryInsertKey: source["telemetryInsertKey"],
	}
}

func applyDefaults(s *Settings) {
	if s.TimeoutSeconds == 0 {
		s.TimeoutSeconds = defaultTimeoutSeconds
	}
	if s.DefaultDays == 0 {
		s.DefaultDays = models.DefaultDays
	}
	if s.Burst == 0 {
		s.Burst = 1
	}
	if s.Telemetry.Region == "" {
		s.Telemetry.Region = defaultRegion
	}
}
