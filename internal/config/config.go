// Package config loads ganttboard settings from defaults, an optional YAML
// file and GANTTBOARD_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/ganttboard/internal/dateutil"
	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/timeline"
)

type Config struct {
	DB       DBConfig       `yaml:"db"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Project  ProjectConfig  `yaml:"project"`
	Timeline TimelineConfig `yaml:"timeline"`
	Palette  PaletteConfig  `yaml:"palette"`
	Chart    ChartConfig    `yaml:"chart"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// Mode is the gin mode: debug, release or test.
	Mode string `yaml:"mode"`
	// RefreshSchedule is a cron expression for reloading the snapshot from
	// the database. Empty disables scheduled refresh.
	RefreshSchedule string `yaml:"refresh_schedule"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ProjectConfig struct {
	Name             string   `yaml:"name"`
	Description      string   `yaml:"description"`
	StartDate        string   `yaml:"start_date"`
	EndDate          string   `yaml:"end_date"`
	DefaultAssignees []string `yaml:"default_assignees"`
	Theme            string   `yaml:"theme"`
}

type TimelineConfig struct {
	Scale string  `yaml:"scale"`
	Zoom  float64 `yaml:"zoom"`
}

type PaletteConfig struct {
	// Mode is round-robin, seeded or fixed.
	Mode string `yaml:"mode"`
	Seed uint64 `yaml:"seed"`
}

// ChartConfig styles the SVG export.
type ChartConfig struct {
	Font struct {
		Family string `yaml:"family"`
		Size   int    `yaml:"size"`
	} `yaml:"font"`
	Colors struct {
		Background string `yaml:"background"`
		Grid       string `yaml:"grid"`
		Text       string `yaml:"text"`
		Header     string `yaml:"header"`
		GroupRow   string `yaml:"group_row"`
		Progress   string `yaml:"progress"`
	} `yaml:"colors"`
	Layout struct {
		RowHeight    int `yaml:"row_height"`
		HeaderHeight int `yaml:"header_height"`
		LabelWidth   int `yaml:"label_width"`
		Margin       int `yaml:"margin"`
		BarRadius    int `yaml:"bar_radius"`
	} `yaml:"layout"`
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	c.DB.Path = defaultDBPath()
	c.Server = ServerConfig{Host: "127.0.0.1", Port: 8080, Mode: "release"}
	c.Log = LogConfig{Level: "info", Format: "text"}
	c.Project = ProjectConfig{Name: "Project", Theme: "light"}
	c.Timeline = TimelineConfig{Scale: string(domain.ScaleDays), Zoom: domain.DefaultZoom}
	c.Palette = PaletteConfig{Mode: "round-robin"}
	c.Chart = defaultChart()
	return c
}

func defaultChart() ChartConfig {
	var ch ChartConfig
	ch.Font.Family = "Arial, sans-serif"
	ch.Font.Size = 12
	ch.Colors.Background = "#ffffff"
	ch.Colors.Grid = "#e5e7eb"
	ch.Colors.Text = "#111827"
	ch.Colors.Header = "#f9fafb"
	ch.Colors.GroupRow = "#f3f4f6"
	ch.Colors.Progress = "#000000"
	ch.Layout.RowHeight = 32
	ch.Layout.HeaderHeight = 40
	ch.Layout.LabelWidth = 240
	ch.Layout.Margin = 16
	ch.Layout.BarRadius = 4
	return ch
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ganttboard.db"
	}
	return filepath.Join(home, ".ganttboard", "ganttboard.db")
}

// Load builds the configuration. path may be empty, in which case
// GANTTBOARD_CONFIG is consulted; with neither set only defaults and
// environment variables apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("GANTTBOARD_CONFIG")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Environment
// variables are not consulted.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("GANTTBOARD_DB"); v != "" {
		cfg.DB.Path = v
	}
	if v := os.Getenv("GANTTBOARD_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("GANTTBOARD_SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid GANTTBOARD_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("GANTTBOARD_SERVER_MODE"); v != "" {
		cfg.Server.Mode = v
	}
	if v, ok := os.LookupEnv("GANTTBOARD_REFRESH_SCHEDULE"); ok {
		cfg.Server.RefreshSchedule = v
	}
	if v := os.Getenv("GANTTBOARD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("GANTTBOARD_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("GANTTBOARD_PROJECT_NAME"); v != "" {
		cfg.Project.Name = v
	}
	if v := os.Getenv("GANTTBOARD_ASSIGNEES"); v != "" {
		cfg.Project.DefaultAssignees = splitList(v)
	}
	if v := os.Getenv("GANTTBOARD_SCALE"); v != "" {
		cfg.Timeline.Scale = v
	}
	if v := os.Getenv("GANTTBOARD_ZOOM"); v != "" {
		z, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: invalid GANTTBOARD_ZOOM: %w", err)
		}
		cfg.Timeline.Zoom = z
	}
	if v := os.Getenv("GANTTBOARD_PALETTE"); v != "" {
		cfg.Palette.Mode = v
	}
	if v := os.Getenv("GANTTBOARD_PALETTE_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: invalid GANTTBOARD_PALETTE_SEED: %w", err)
		}
		cfg.Palette.Seed = seed
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.DB.Path == "" {
		c.DB.Path = d.DB.Path
	}
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.Mode == "" {
		c.Server.Mode = d.Server.Mode
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	c.Log.Format = strings.ToLower(c.Log.Format)
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Timeline.Scale == "" {
		c.Timeline.Scale = d.Timeline.Scale
	}
	if c.Timeline.Zoom == 0 {
		c.Timeline.Zoom = d.Timeline.Zoom
	}
	if c.Palette.Mode == "" {
		c.Palette.Mode = d.Palette.Mode
	}
	if c.Chart.Layout.RowHeight <= 0 {
		c.Chart.Layout.RowHeight = d.Chart.Layout.RowHeight
	}
	if c.Chart.Layout.HeaderHeight <= 0 {
		c.Chart.Layout.HeaderHeight = d.Chart.Layout.HeaderHeight
	}
	if c.Chart.Font.Size <= 0 {
		c.Chart.Font.Size = d.Chart.Font.Size
	}
}

var (
	logLevels    = []string{"debug", "info", "warn", "error"}
	logFormats   = []string{"text", "json"}
	ginModes     = []string{"debug", "release", "test"}
	paletteModes = []string{"round-robin", "seeded", "fixed"}
)

func (c *Config) validate() error {
	var errs []string
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if !slices.Contains(ginModes, c.Server.Mode) {
		errs = append(errs, fmt.Sprintf("server.mode %q must be one of %s", c.Server.Mode, strings.Join(ginModes, ", ")))
	}
	if c.Server.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.Server.RefreshSchedule); err != nil {
			errs = append(errs, fmt.Sprintf("server.refresh_schedule: %v", err))
		}
	}
	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Sprintf("log.level %q must be one of %s", c.Log.Level, strings.Join(logLevels, ", ")))
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		errs = append(errs, fmt.Sprintf("log.format %q must be one of %s", c.Log.Format, strings.Join(logFormats, ", ")))
	}
	if _, err := timeline.ParseScale(c.Timeline.Scale); err != nil {
		errs = append(errs, fmt.Sprintf("timeline.scale %q must be days, weeks or months", c.Timeline.Scale))
	}
	if c.Timeline.Zoom < domain.MinZoom || c.Timeline.Zoom > domain.MaxZoom {
		errs = append(errs, fmt.Sprintf("timeline.zoom %.2f outside %.1f-%.1f", c.Timeline.Zoom, domain.MinZoom, domain.MaxZoom))
	}
	if !slices.Contains(paletteModes, c.Palette.Mode) {
		errs = append(errs, fmt.Sprintf("palette.mode %q must be one of %s", c.Palette.Mode, strings.Join(paletteModes, ", ")))
	}
	for _, f := range []struct{ name, value string }{
		{"project.start_date", c.Project.StartDate},
		{"project.end_date", c.Project.EndDate},
	} {
		if f.value == "" {
			continue
		}
		if _, err := dateutil.ParseDate(f.value); err != nil {
			errs = append(errs, fmt.Sprintf("%s %q is not YYYY-MM-DD", f.name, f.value))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ProjectSettings converts the project section into domain settings.
// Dates have already been validated.
func (c Config) ProjectSettings() domain.ProjectSettings {
	p := domain.ProjectSettings{
		Name:             c.Project.Name,
		Description:      c.Project.Description,
		DefaultAssignees: slices.Clone(c.Project.DefaultAssignees),
		Theme:            c.Project.Theme,
	}
	if t, err := dateutil.ParseDate(c.Project.StartDate); err == nil {
		p.StartDate = t
	}
	if t, err := dateutil.ParseDate(c.Project.EndDate); err == nil {
		p.EndDate = t
	}
	return p
}

// Scale returns the configured initial scale.
func (c Config) Scale() domain.Scale {
	s, err := timeline.ParseScale(c.Timeline.Scale)
	if err != nil {
		return domain.ScaleDays
	}
	return s
}
