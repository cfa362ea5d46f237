// Package config loads run configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. YAML config file.
// 4. Default values (lowest priority).
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // business timezone must resolve without system zoneinfo

	"gopkg.in/yaml.v3"

	"appointment-visit-audit/internal/model"
)

const (
	DefaultTimezone = "America/New_York"
	DefaultInclude  = "yes"
	DefaultSchema   = "visit_audit"
)

// Config holds one run's configuration.
type Config struct {
	Appointments string   `yaml:"appointments"`
	References   string   `yaml:"references"`
	Identity     []string `yaml:"identity" validate:"min=1,unique,dive,oneof=calendar first_name last_name phone email"`
	Include      string   `yaml:"include" validate:"oneof=yes no unset"`
	Timezone     string   `yaml:"timezone" validate:"required,timezone"`
	// Now is RFC3339 or YYYY-MM-DD; empty means the current time.
	Now      string         `yaml:"now"`
	Client   string         `yaml:"client"`
	JSONOut  string         `yaml:"json_out"`
	TableOut string         `yaml:"table_out"`
	Log      LogConfig      `yaml:"log"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// PostgresConfig points at source tables holding the two uploads.
type PostgresConfig struct {
	Enabled           bool   `yaml:"enabled"`
	URL               string `yaml:"url" validate:"required_if=Enabled true"`
	Schema            string `yaml:"schema" validate:"required_if=Enabled true,omitempty,sqlident"`
	AppointmentsTable string `yaml:"appointments_table" validate:"required_if=Enabled true,omitempty,sqlident"`
	ReferencesTable   string `yaml:"references_table" validate:"required_if=Enabled true,omitempty,sqlident"`
}

func Defaults() *Config {
	return &Config{
		Identity: []string{string(model.AttrCalendar), string(model.AttrFirstName), string(model.AttrPhone)},
		Include:  DefaultInclude,
		Timezone: DefaultTimezone,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Postgres: PostgresConfig{
			Schema:            DefaultSchema,
			AppointmentsTable: "appointments",
			ReferencesTable:   "appointment_types",
		},
	}
}

// Load parses args and merges every configuration layer. getenv is usually
// os.Getenv. flag.ErrHelp is returned unchanged when -h is given.
func Load(args []string, getenv func(string) string) (*Config, error) {
	fs := flag.NewFlagSet("visit-audit", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to YAML config file")
	appointments := fs.String("appointments", "", "Path to appointment upload (.csv or .xlsx)")
	references := fs.String("references", "", "Path to appointment type reference upload (.csv or .xlsx)")
	identity := fs.String("identity", "", "Comma-separated identity attributes (calendar, first_name, last_name, phone, email)")
	include := fs.String("include", "", "Inclusion selector: yes, no or unset")
	timezone := fs.String("timezone", "", "Business timezone (default America/New_York)")
	now := fs.String("now", "", "Reference time for recency (RFC3339 or YYYY-MM-DD)")
	client := fs.String("client", "", "Full name of the client to summarize")
	jsonOut := fs.String("json", "", "Optional JSON output path")
	tableOut := fs.String("table-csv", "", "Optional CSV output path for the sequenced table")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (json, text)")
	dbEnabled := fs.Bool("db", false, "Read uploads from Postgres (requires VISIT_AUDIT_DB_URL or DATABASE_URL)")
	dbSchema := fs.String("db-schema", "", "Postgres schema holding the source tables")
	dbAppointments := fs.String("db-appointments", "", "Postgres table holding appointments")
	dbReferences := fs.String("db-references", "", "Postgres table holding appointment types")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := Defaults()

	path := *configPath
	if path == "" {
		path = getenv("VISIT_AUDIT_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv(getenv)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "appointments":
			cfg.Appointments = *appointments
		case "references":
			cfg.References = *references
		case "identity":
			cfg.Identity = splitList(*identity)
		case "include":
			cfg.Include = *include
		case "timezone":
			cfg.Timezone = *timezone
		case "now":
			cfg.Now = *now
		case "client":
			cfg.Client = *client
		case "json":
			cfg.JSONOut = *jsonOut
		case "table-csv":
			cfg.TableOut = *tableOut
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-format":
			cfg.Log.Format = *logFormat
		case "db":
			cfg.Postgres.Enabled = *dbEnabled
		case "db-schema":
			cfg.Postgres.Schema = *dbSchema
		case "db-appointments":
			cfg.Postgres.AppointmentsTable = *dbAppointments
		case "db-references":
			cfg.Postgres.ReferencesTable = *dbReferences
		}
	})

	cfg.tidy()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	envOverride(getenv, &c.Appointments, "VISIT_AUDIT_APPOINTMENTS")
	envOverride(getenv, &c.References, "VISIT_AUDIT_REFERENCES")
	envOverride(getenv, &c.Include, "VISIT_AUDIT_INCLUDE")
	envOverride(getenv, &c.Timezone, "VISIT_AUDIT_TIMEZONE")
	envOverride(getenv, &c.Now, "VISIT_AUDIT_NOW")
	envOverride(getenv, &c.Client, "VISIT_AUDIT_CLIENT")
	envOverride(getenv, &c.Log.Level, "VISIT_AUDIT_LOG_LEVEL")
	envOverride(getenv, &c.Log.Format, "VISIT_AUDIT_LOG_FORMAT")
	envOverride(getenv, &c.Postgres.Schema, "VISIT_AUDIT_DB_SCHEMA")
	if value := strings.TrimSpace(getenv("VISIT_AUDIT_IDENTITY")); value != "" {
		c.Identity = splitList(value)
	}
	if value := strings.TrimSpace(getenv("VISIT_AUDIT_DB_URL")); value != "" {
		c.Postgres.URL = value
	} else if value := strings.TrimSpace(getenv("DATABASE_URL")); value != "" && c.Postgres.URL == "" {
		c.Postgres.URL = value
	}
}

func (c *Config) tidy() {
	c.Include = strings.ToLower(strings.TrimSpace(c.Include))
	for i, name := range c.Identity {
		c.Identity[i] = strings.ToLower(strings.TrimSpace(name))
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Client = strings.TrimSpace(c.Client)
}

// Attributes returns the configured identity attributes in order.
func (c *Config) Attributes() ([]model.Attribute, error) {
	return model.ParseAttributes(c.Identity)
}

func (c *Config) Selector() (model.Selector, error) {
	return model.ParseSelector(c.Include)
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ResolveNow returns the configured reference time in loc, or clock() when
// none is set.
func (c *Config) ResolveNow(loc *time.Location, clock func() time.Time) (time.Time, error) {
	value := strings.TrimSpace(c.Now)
	if value == "" {
		return clock().In(loc), nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.In(loc), nil
	}
	layouts := []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, value, loc); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errors.New("invalid now value: " + value)
}

func envOverride(getenv func(string) string, dst *string, key string) {
	if value := strings.TrimSpace(getenv(key)); value != "" {
		*dst = value
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
