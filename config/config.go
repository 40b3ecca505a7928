package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/orayew2002/paperwork/domain"
	"github.com/orayew2002/paperwork/template"
	"github.com/orayew2002/paperwork/week"
)

// FileName is the config file looked up when no path is given.
const FileName = "config.toml"

// AppConfig is the whole configuration.
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Paths  PathsConfig  `toml:"paths"`
	PDF    PDFConfig    `toml:"pdf"`
	Week   WeekConfig   `toml:"week"`
	Layout LayoutConfig `toml:"layout"`
	Log    LogConfig    `toml:"log"`
}

type ServerConfig struct {
	Host  string `toml:"host"`
	Port  int    `toml:"port"`
	Debug bool   `toml:"debug"`
}

type PathsConfig struct {
	Templates  string `toml:"templates"`
	Signatures string `toml:"signatures"`
	Output     string `toml:"output"`
}

type PDFConfig struct {
	Enabled        bool   `toml:"enabled"`
	Binary         string `toml:"binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// WeekConfig picks the week naming convention ("ending" or "starting").
type WeekConfig struct {
	Anchor string `toml:"anchor"`
}

// LayoutConfig sizes the repeating regions of the current templates.
type LayoutConfig struct {
	CarCapacity  int `toml:"car_capacity"`
	InlineLoads  int `toml:"inline_loads"`
	OverflowRows int `toml:"overflow_rows"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // json or console
}

// LoadInfo says where the configuration came from.
type LoadInfo struct {
	Path    string // empty when running on defaults
	EnvUsed []string
	BaseDir string
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{Host: "::", Port: 8000},
		Paths: PathsConfig{
			Templates:  "templates",
			Signatures: "signatures",
			Output:     "output",
		},
		PDF: PDFConfig{
			Enabled:        true,
			Binary:         "libreoffice",
			TimeoutSeconds: 60,
		},
		Week: WeekConfig{Anchor: week.Ending.String()},
		Layout: LayoutConfig{
			CarCapacity:  template.DefaultCarCapacity,
			InlineLoads:  template.DefaultInlineLoads,
			OverflowRows: template.DefaultOverflowRows,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// Load reads the configuration. With an empty path it tries config.toml in
// the working directory, then next to the executable, and falls back to
// defaults. Environment variables override the file. Relative paths in a
// file are resolved against the file's directory.
func Load(path string) (*AppConfig, LoadInfo, error) {
	cfg := DefaultConfig()
	info := LoadInfo{BaseDir: "."}

	if path == "" {
		path = findConfig()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, info, fmt.Errorf("read %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", path, err)
		}
		info.Path = path
		info.BaseDir = filepath.Dir(path)
		cfg.Paths.resolve(info.BaseDir)
	}

	used, err := cfg.applyEnv(os.LookupEnv)
	if err != nil {
		return nil, info, err
	}
	info.EnvUsed = used

	if err := cfg.Validate(); err != nil {
		return nil, info, err
	}
	return cfg, info, nil
}

func findConfig() string {
	candidates := []string{FileName}
	if dir, err := GetExeDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, FileName))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		} else if !errors.Is(err, fs.ErrNotExist) {
			return c // let Load report it
		}
	}
	return ""
}

func (p *PathsConfig) resolve(base string) {
	for _, s := range []*string{&p.Templates, &p.Signatures, &p.Output} {
		if *s != "" && !filepath.IsAbs(*s) {
			*s = filepath.Join(base, *s)
		}
	}
}

// applyEnv overlays the environment and returns the variables it used.
func (c *AppConfig) applyEnv(lookup func(string) (string, bool)) ([]string, error) {
	var used []string
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
			used = append(used, key)
		}
	}

	str("PAPERWORK_TEMPLATES_DIR", &c.Paths.Templates)
	str("PAPERWORK_SIGNATURES_DIR", &c.Paths.Signatures)
	str("PAPERWORK_OUTPUT_DIR", &c.Paths.Output)
	str("PAPERWORK_LIBREOFFICE", &c.PDF.Binary)
	str("PAPERWORK_WEEK_ANCHOR", &c.Week.Anchor)
	str("PAPERWORK_LOG_LEVEL", &c.Log.Level)
	str("HOST", &c.Server.Host)

	if v, ok := lookup("PAPERWORK_DISABLE_PDF"); ok && v != "" {
		c.PDF.Enabled = !strings.EqualFold(strings.TrimSpace(v), "true")
		used = append(used, "PAPERWORK_DISABLE_PDF")
	}
	if v, ok := lookup("DEBUG"); ok && v != "" {
		c.Server.Debug = strings.EqualFold(strings.TrimSpace(v), "true")
		used = append(used, "DEBUG")
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return used, fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
		used = append(used, "PORT")
	}
	return used, nil
}

// Validate rejects values the rest of the program cannot run with.
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if _, err := week.ParseAnchor(c.Week.Anchor); err != nil {
		return fmt.Errorf("week.anchor: %w", err)
	}
	if c.PDF.TimeoutSeconds <= 0 {
		return fmt.Errorf("pdf.timeout_seconds must be positive")
	}
	if c.Layout.CarCapacity < 0 || c.Layout.InlineLoads < 0 || c.Layout.OverflowRows < 0 {
		return fmt.Errorf("layout capacities must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Addr is the listen address.
func (c *AppConfig) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// WeekAnchor returns the configured week convention.
func (c *AppConfig) WeekAnchor() week.Anchor {
	a, _ := week.ParseAnchor(c.Week.Anchor)
	return a
}

func (c *AppConfig) PDFTimeout() time.Duration {
	return time.Duration(c.PDF.TimeoutSeconds) * time.Second
}

func (c *AppConfig) Capacities() template.Capacities {
	return template.Capacities{
		Cars:         c.Layout.CarCapacity,
		InlineLoads:  c.Layout.InlineLoads,
		OverflowRows: c.Layout.OverflowRows,
	}
}

// SignatureDir is the image directory of one slot.
func (c *AppConfig) SignatureDir(slot domain.Slot) string {
	return filepath.Join(c.Paths.Signatures, string(slot))
}

// EnsureDirs creates the templates, signature and output directories.
func EnsureDirs(c *AppConfig) error {
	dirs := []string{c.Paths.Templates, c.Paths.Signatures, c.Paths.Output}
	for _, slot := range domain.Slots() {
		dirs = append(dirs, c.SignatureDir(slot))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// NewLogger builds the process logger from the log section.
func (c LogConfig) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// Save writes c to path as TOML.
func Save(c *AppConfig, path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
