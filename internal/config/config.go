// Package config loads ktopo settings from a YAML file, KTOPO_* environment
// variables and command line flags, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	"github.com/renato0307/ktopo/internal/k8s"
	"github.com/renato0307/ktopo/internal/logging"
	"github.com/renato0307/ktopo/internal/topology"
	"github.com/renato0307/ktopo/internal/ui"
)

// LogConfig controls the rotated log file
type LogConfig struct {
	File       string `json:"file,omitempty"`
	Level      string `json:"level,omitempty"`
	Format     string `json:"format,omitempty"`
	MaxSizeMB  int    `json:"maxSizeMB,omitempty"`
	MaxBackups int    `json:"maxBackups,omitempty"`
}

// ServeConfig controls the HTTP API
type ServeConfig struct {
	Addr string `json:"addr,omitempty"`
	// Token is sent as a bearer token by the resource lister proxy
	Token string `json:"token,omitempty"`
}

type Config struct {
	Kubeconfig      string           `json:"kubeconfig,omitempty"`
	Context         string           `json:"context,omitempty"`
	Namespace       string           `json:"namespace,omitempty"`
	IncludeKinds    []string         `json:"includeKinds,omitempty"`
	CheURL          string           `json:"cheURL,omitempty"`
	Filters         topology.Filters `json:"filters"`
	Theme           string           `json:"theme,omitempty"`
	RefreshInterval metav1.Duration  `json:"refreshInterval"`
	Log             LogConfig        `json:"log"`
	Serve           ServeConfig      `json:"serve"`
}

// Default returns the built-in settings
func Default() *Config {
	kinds := make([]string, 0, len(k8s.WorkloadKinds))
	for _, k := range k8s.WorkloadKinds {
		kinds = append(kinds, string(k))
	}

	return &Config{
		IncludeKinds:    kinds,
		Filters:         topology.DefaultFilters(),
		Theme:           "charm",
		RefreshInterval: metav1.Duration{Duration: 2 * time.Second},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/ktopo/config.yaml, falling back to ~/.config
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "ktopo", "config.yaml")
}

// Load reads the config file and applies environment overrides. An empty
// path means DefaultPath, which may be missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Kubeconfig = envOrDefault("KTOPO_KUBECONFIG", c.Kubeconfig)
	c.Context = envOrDefault("KTOPO_CONTEXT", c.Context)
	c.Namespace = envOrDefault("KTOPO_NAMESPACE", c.Namespace)
	c.CheURL = envOrDefault("KTOPO_CHE_URL", c.CheURL)
	c.Theme = envOrDefault("KTOPO_THEME", c.Theme)
	c.Log.File = envOrDefault("KTOPO_LOG_FILE", c.Log.File)
	c.Log.Level = envOrDefault("KTOPO_LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOrDefault("KTOPO_LOG_FORMAT", c.Log.Format)
	c.Serve.Addr = envOrDefault("KTOPO_SERVE_ADDR", c.Serve.Addr)
	c.Serve.Token = envOrDefault("KTOPO_SERVE_TOKEN", c.Serve.Token)

	if v := os.Getenv("KTOPO_INCLUDE_KINDS"); v != "" {
		c.IncludeKinds = splitList(v)
	}
	if v := os.Getenv("KTOPO_REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("KTOPO_REFRESH_INTERVAL: %w", err)
		}
		c.RefreshInterval.Duration = d
	}
	return nil
}

// RegisterFlags defines the flags ApplyFlags understands. Defaults are left
// empty so that only flags set on the command line override the file and env.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to config file (default: $XDG_CONFIG_HOME/ktopo/config.yaml)")
	fs.String("kubeconfig", "", "Path to kubeconfig file (default: $HOME/.kube/config)")
	fs.String("context", "", "Kubernetes context to use")
	fs.StringP("namespace", "n", "", "Namespace to watch (default: the context namespace)")
	fs.StringSlice("kinds", nil, "Workload kinds to include (e.g. deployments,statefulSets)")
	fs.String("che-url", "", "Che workspace URL used to build edit links")
	fs.String("theme", "", "Theme to use ("+strings.Join(ui.AvailableThemes(), ", ")+")")
	fs.Duration("refresh", 0, "Snapshot refresh interval")
	fs.String("log-file", "", "Log file path (logging is off when empty)")
	fs.String("log-level", "", "Log level (debug, info, warn, error)")
	fs.String("log-format", "", "Log format (text, json)")
}

// ApplyFlags copies every flag that was set on the command line into c
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	strs := map[string]*string{
		"kubeconfig": &c.Kubeconfig,
		"context":    &c.Context,
		"namespace":  &c.Namespace,
		"che-url":    &c.CheURL,
		"theme":      &c.Theme,
		"log-file":   &c.Log.File,
		"log-level":  &c.Log.Level,
		"log-format": &c.Log.Format,
		"addr":       &c.Serve.Addr,
	}
	for name, dst := range strs {
		if fs.Lookup(name) == nil || !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return fmt.Errorf("flag --%s: %w", name, err)
		}
		*dst = v
	}

	if fs.Lookup("kinds") != nil && fs.Changed("kinds") {
		kinds, err := fs.GetStringSlice("kinds")
		if err != nil {
			return fmt.Errorf("flag --kinds: %w", err)
		}
		c.IncludeKinds = kinds
	}
	if fs.Lookup("refresh") != nil && fs.Changed("refresh") {
		d, err := fs.GetDuration("refresh")
		if err != nil {
			return fmt.Errorf("flag --refresh: %w", err)
		}
		c.RefreshInterval.Duration = d
	}
	return nil
}

// Validate rejects settings the rest of ktopo cannot work with
func (c *Config) Validate() error {
	if _, unknown := k8s.ParseKinds(c.IncludeKinds); len(unknown) > 0 {
		return fmt.Errorf("unknown kinds: %s", strings.Join(unknown, ", "))
	}
	if !slices.Contains(ui.AvailableThemes(), c.Theme) {
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	if c.RefreshInterval.Duration <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", c.RefreshInterval.Duration)
	}
	return nil
}

// Kinds returns IncludeKinds as snapshot kinds, dropping unknown values
func (c *Config) Kinds() []k8s.Kind {
	kinds, _ := k8s.ParseKinds(c.IncludeKinds)
	return kinds
}

// TransformOptions builds the options for topology.Transform
func (c *Config) TransformOptions() topology.Options {
	filters := c.Filters
	return topology.Options{
		CheURL:         c.CheURL,
		ExtensionFuncs: topology.KnativeExtensions,
		Filters:        &filters,
	}
}

// Logging converts the log section into a logging.Config
func (c *Config) Logging() logging.Config {
	return logging.Config{
		FilePath:   c.Log.File,
		Level:      logging.ParseLevel(c.Log.Level),
		Format:     logging.ParseFormat(c.Log.Format),
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
	}
}

// Marshal renders the effective configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
