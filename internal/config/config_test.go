package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/ktopo/internal/k8s"
	"github.com/renato0307/ktopo/internal/topology"
)

var envVars = []string{
	"KTOPO_KUBECONFIG", "KTOPO_CONTEXT", "KTOPO_NAMESPACE", "KTOPO_CHE_URL",
	"KTOPO_THEME", "KTOPO_LOG_FILE", "KTOPO_LOG_LEVEL", "KTOPO_LOG_FORMAT",
	"KTOPO_SERVE_ADDR", "KTOPO_SERVE_TOKEN", "KTOPO_INCLUDE_KINDS", "KTOPO_REFRESH_INTERVAL",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, []string{"deploymentConfigs", "deployments", "statefulSets", "daemonSets"}, cfg.IncludeKinds)
	assert.Equal(t, topology.DefaultFilters(), cfg.Filters)
	assert.Equal(t, "charm", cfg.Theme)
	assert.Equal(t, 2*time.Second, cfg.RefreshInterval.Duration)
	assert.Equal(t, ":8080", cfg.Serve.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	clearAllEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearAllEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_File(t *testing.T) {
	clearAllEnv(t)
	path := writeFile(t, `
namespace: testproject1
includeKinds: [deployments]
cheURL: https://che.example.com
filters:
  display:
    eventSources: false
refreshInterval: 5s
log:
  level: debug
serve:
  addr: ":9090"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "testproject1", cfg.Namespace)
	assert.Equal(t, []k8s.Kind{k8s.KindDeployment}, cfg.Kinds())
	assert.Equal(t, "https://che.example.com", cfg.CheURL)
	assert.False(t, cfg.Filters.Display.EventSources)
	assert.True(t, cfg.Filters.Display.KnativeServices, "unset keys keep their default")
	assert.Equal(t, 5*time.Second, cfg.RefreshInterval.Duration)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ":9090", cfg.Serve.Addr)
}

func TestLoad_DefaultPathFromXDG(t *testing.T) {
	clearAllEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ktopo"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ktopo", "config.yaml"), []byte("theme: nord\n"), 0o600))

	assert.Equal(t, filepath.Join(dir, "ktopo", "config.yaml"), DefaultPath())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "nord", cfg.Theme)
}

func TestLoad_InvalidFile(t *testing.T) {
	clearAllEnv(t)

	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown key", content: "colour: blue\n"},
		{name: "bad duration", content: "refreshInterval: soon\n"},
		{name: "not yaml", content: "::: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to parse")
		})
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearAllEnv(t)
	path := writeFile(t, "namespace: from-file\ntheme: nord\n")

	t.Setenv("KTOPO_NAMESPACE", "from-env")
	t.Setenv("KTOPO_INCLUDE_KINDS", "deployments, daemonSets,")
	t.Setenv("KTOPO_REFRESH_INTERVAL", "10s")
	t.Setenv("KTOPO_SERVE_TOKEN", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Namespace)
	assert.Equal(t, "nord", cfg.Theme)
	assert.Equal(t, []string{"deployments", "daemonSets"}, cfg.IncludeKinds)
	assert.Equal(t, 10*time.Second, cfg.RefreshInterval.Duration)
	assert.Equal(t, "secret", cfg.Serve.Token)
}

func TestLoad_InvalidEnvDuration(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("KTOPO_REFRESH_INTERVAL", "forever")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KTOPO_REFRESH_INTERVAL")
}

func TestApplyFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	fs.String("addr", "", "listen address")

	require.NoError(t, fs.Parse([]string{
		"--namespace", "from-flag",
		"--kinds", "statefulSets",
		"--refresh", "1s",
		"--addr", ":7070",
	}))

	cfg := Default()
	cfg.Theme = "nord"
	require.NoError(t, cfg.ApplyFlags(fs))

	assert.Equal(t, "from-flag", cfg.Namespace)
	assert.Equal(t, []string{"statefulSets"}, cfg.IncludeKinds)
	assert.Equal(t, time.Second, cfg.RefreshInterval.Duration)
	assert.Equal(t, ":7070", cfg.Serve.Addr)
	assert.Equal(t, "nord", cfg.Theme, "unset flags leave values alone")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{name: "unknown kind", mutate: func(c *Config) { c.IncludeKinds = []string{"widgets"} }, errMsg: "unknown kinds: widgets"},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "trace" }, errMsg: "invalid log level"},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, errMsg: "invalid log format"},
		{name: "unknown theme", mutate: func(c *Config) { c.Theme = "solarized" }, errMsg: "unknown theme \"solarized\""},
		{name: "zero refresh", mutate: func(c *Config) { c.RefreshInterval.Duration = 0 }, errMsg: "refresh interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestTransformOptions(t *testing.T) {
	cfg := Default()
	cfg.CheURL = "https://che.example.com"
	cfg.Filters.Display.KnativeServices = false

	opts := cfg.TransformOptions()
	assert.Equal(t, "https://che.example.com", opts.CheURL)
	assert.Len(t, opts.ExtensionFuncs, 3)
	require.NotNil(t, opts.Filters)
	assert.False(t, opts.Filters.Display.KnativeServices)

	// options never alias the config
	opts.Filters.Display.EventSources = false
	assert.True(t, cfg.Filters.Display.EventSources)
}

func TestLogging(t *testing.T) {
	cfg := Default()
	cfg.Log.File = "/tmp/ktopo.log"
	cfg.Log.Format = "json"

	lc := cfg.Logging()
	assert.Equal(t, "/tmp/ktopo.log", lc.FilePath)
	assert.Equal(t, "json", string(lc.Format))
	assert.Equal(t, 10, lc.MaxSizeMB)
}

func TestMarshal(t *testing.T) {
	out, err := Default().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), "refreshInterval: 2s")
	assert.Contains(t, string(out), "theme: charm")
}
