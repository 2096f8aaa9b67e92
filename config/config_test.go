package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/sdiscovery/errors"
	"github.com/kbukum/sdiscovery/validation"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return p
}

func TestClientConfigApplyDefaults(t *testing.T) {
	cfg := ClientConfig{}
	cfg.ApplyDefaults()
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Timeout)
	}
	if cfg.UserAgent != "sdiscovery" {
		t.Errorf("expected default user agent, got %q", cfg.UserAgent)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging level 'info', got %q", cfg.Logging.Level)
	}
	if cfg.Telemetry.ServiceName != "" {
		t.Error("expected telemetry defaults to stay unset while disabled")
	}
}

func TestClientConfigValidate(t *testing.T) {
	valid := func() ClientConfig {
		c := ClientConfig{Endpoints: []string{"http://a:8080", "https://b"}}
		c.ApplyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*ClientConfig)
		wantErr string
	}{
		{"valid", func(*ClientConfig) {}, ""},
		{"no endpoints", func(c *ClientConfig) { c.Endpoints = nil }, "Must specify list of discovery service URLS"},
		{"bad scheme", func(c *ClientConfig) { c.Endpoints = []string{"ftp://a"} }, "endpoints[0]"},
		{"missing host", func(c *ClientConfig) { c.Endpoints = []string{"http://ok", "http://"} }, "endpoints[1]"},
		{"bad timeout", func(c *ClientConfig) { c.Timeout = -1 }, "timeout"},
		{"bad logging", func(c *ClientConfig) { c.Logging.Level = "loud" }, "config.logging"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.IsCode(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("expected INVALID_CONFIG, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestClientConfigValidate_ReportsEveryEndpoint(t *testing.T) {
	cfg := ClientConfig{Endpoints: []string{"nope", "http://fine", "also nope"}}
	cfg.ApplyDefaults()

	appErr, ok := errors.AsAppError(cfg.Validate())
	if !ok {
		t.Fatal("expected an AppError")
	}
	fields, ok := appErr.Details["fields"].([]validation.FieldError)
	if !ok {
		t.Fatalf("expected field errors in details, got %T", appErr.Details["fields"])
	}
	if len(fields) != 2 || fields[0].Field != "endpoints[0]" || fields[1].Field != "endpoints[2]" {
		t.Errorf("unexpected field errors: %+v", fields)
	}
}

func TestLoadClientConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sdiscovery.yml", `
endpoints:
  - http://discovery-1:8080
  - http://discovery-2:8080
timeout: 5s
headers:
  X-Team: platform
tls:
  skip_verify: true
logging:
  level: debug
  format: json
`)

	cfg, err := LoadClientConfig("sdiscovery", WithConfigFile(path), WithEnvFile(filepath.Join(dir, "none.env")))
	if err != nil {
		t.Fatalf("LoadClientConfig failed: %v", err)
	}

	if len(cfg.Endpoints) != 2 || cfg.Endpoints[1] != "http://discovery-2:8080" {
		t.Errorf("unexpected endpoints %v", cfg.Endpoints)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.Timeout)
	}
	if cfg.Headers["x-team"] != "platform" {
		t.Errorf("expected header from file, got %v", cfg.Headers)
	}
	if cfg.TLS == nil || !cfg.TLS.SkipVerify {
		t.Errorf("expected tls.skip_verify=true, got %+v", cfg.TLS)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected loaded config to validate, got %v", err)
	}
}

func TestLoadClientConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "logging:\n  level: debug\n  format: json\n")
	t.Setenv("LOGGING_LEVEL", "warn")

	cfg, err := LoadClientConfig("sdiscovery", WithConfigFile(path), WithEnvFile(filepath.Join(dir, "none.env")))
	if err != nil {
		t.Fatalf("LoadClientConfig failed: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected env to override file level, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected file format to survive, got %q", cfg.Logging.Format)
	}
}

func TestLoadClientConfig_DiscoveryURLs(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDiscoveryURLs, " http://a:8080 , http://b:8080,")

	cfg, err := LoadClientConfig("sdiscovery",
		WithConfigFile(filepath.Join(dir, "missing.yml")),
		WithEnvFile(filepath.Join(dir, "none.env")))
	if err != nil {
		t.Fatalf("LoadClientConfig failed: %v", err)
	}
	want := []string{"http://a:8080", "http://b:8080"}
	if strings.Join(cfg.Endpoints, "|") != strings.Join(want, "|") {
		t.Errorf("expected %v, got %v", want, cfg.Endpoints)
	}
}

func TestLoadClientConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "USER_AGENT=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("USER_AGENT") })

	cfg, err := LoadClientConfig("sdiscovery",
		WithConfigFile(filepath.Join(dir, "missing.yml")),
		WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("LoadClientConfig failed: %v", err)
	}
	if cfg.UserAgent != "from-dotenv" {
		t.Errorf("expected user agent from .env, got %q", cfg.UserAgent)
	}
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "endpoints: [unterminated\n")

	var cfg ClientConfig
	err := LoadConfig("sdiscovery", &cfg, WithConfigFile(path))
	if !errors.IsCode(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG for unreadable file, got %v", err)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	var cfg ClientConfig
	if err := LoadConfig("nonexistent", &cfg, WithConfigFile("/nonexistent/path.yml")); err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

type mockFS struct {
	files map[string]bool
	home  string
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(string) error     { return nil }
func (m *mockFS) HomeDir() (string, error) { return m.home, nil }

func TestResolverLookupOrder(t *testing.T) {
	homeCfg := filepath.Join("/home/dev", ".config", "sdiscovery", "config.yml")

	tests := []struct {
		name       string
		files      []string
		wantConfig string
		wantEnv    string
	}{
		{"nothing", nil, "", ""},
		{"named file first", []string{"./sdiscovery.yml", "./config.yml"}, "./sdiscovery.yml", ""},
		{"generic file", []string{"./config.yml", homeCfg}, "./config.yml", ""},
		{"home config", []string{homeCfg}, homeCfg, ""},
		{"named env first", []string{".env.sdiscovery", ".env"}, "", ".env.sdiscovery"},
		{"plain env", []string{".env"}, "", ".env"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fs := &mockFS{files: map[string]bool{}, home: "/home/dev"}
			for _, f := range tc.files {
				fs.files[f] = true
			}
			r := &Resolver{FileSystem: fs}
			got := r.ResolveFiles("sdiscovery", LoaderConfig{})
			if got.ConfigFile != tc.wantConfig {
				t.Errorf("ConfigFile = %q, want %q", got.ConfigFile, tc.wantConfig)
			}
			if got.EnvFile != tc.wantEnv {
				t.Errorf("EnvFile = %q, want %q", got.EnvFile, tc.wantEnv)
			}
		})
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./config.yml": true, ".env": true}}
	r := &Resolver{FileSystem: fs}
	got := r.ResolveFiles("sdiscovery", LoaderConfig{ConfigFile: "/etc/x.yml", EnvFile: "/etc/x.env"})
	if got.ConfigFile != "/etc/x.yml" || got.EnvFile != "/etc/x.env" {
		t.Errorf("expected explicit paths, got %+v", got)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	for _, opt := range []LoaderOption{WithFileSystem(fs), WithConfigFile("/c.yml"), WithEnvFile("/e.env")} {
		opt(&lc)
	}
	if lc.FileSystem != fs || lc.ConfigFile != "/c.yml" || lc.EnvFile != "/e.env" {
		t.Errorf("options not applied: %+v", lc)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("TLS_SKIP_VERIFY")
	want := []string{"tls_skip_verify", "tls.skip.verify", "tls.skip_verify", "tls_skip.verify"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("envKeyVariants = %v, want %v", got, want)
	}
	if got := envKeyVariants("TIMEOUT"); len(got) != 1 || got[0] != "timeout" {
		t.Errorf("expected single variant for plain key, got %v", got)
	}
}
