package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestCheckConfigValidityValid(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	v.Set("data_dir", "/tmp/aicode")

	if err := CheckConfigValidity(v); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestCheckConfigValidityInvalid(t *testing.T) {
	v := viper.New()
	v.Set("data_dir", "")
	v.Set("service.base_url", "not a url")
	v.Set("service.timeout", "soon")
	v.Set("auth.provider", "vault")
	v.Set("history.page_size", 0)
	v.Set("output.mode", "html")
	v.Set("pretty.word_wrap", -1)
	v.Set("tui.copied_timeout", "0")

	err := CheckConfigValidity(v)
	if err == nil {
		t.Fatalf("expected error for invalid config")
	}

	msg := err.Error()
	expected := []string{
		"data_dir is required",
		"service.base_url has invalid url",
		"service.timeout:",
		"auth.provider must be config or keyring",
		"history.page_size must be greater than 0",
		"output.mode must be plain, pretty or json",
		"pretty.word_wrap must not be negative",
		"tui.copied_timeout must be greater than 0",
	}
	for _, want := range expected {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected error to contain %q, got %q", want, msg)
		}
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	content := "[service]\nbase_url = \"http://review.local/api/\"\ntimeout = \"5s\"\n"
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0o600))
	t.Setenv("AICODE_SERVICE_TIMEOUT", "9s")

	v := viper.New()
	v.SetConfigFile(cfg)
	require.NoError(t, Load(context.Background(), v))

	require.Equal(t, "http://review.local/api/", v.GetString("service.base_url"))
	require.Equal(t, 9*time.Second, Duration(v, "service.timeout", time.Minute))
	require.Equal(t, "plain", v.GetString("output.mode"))
	require.True(t, v.GetBool("history.enabled"))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "/data")
	v := viper.New()
	require.NoError(t, Load(context.Background(), v))
	require.Equal(t, defaultBaseURL, v.GetString("service.base_url"))
	require.Equal(t, filepath.Join("/data", "aicode", "aicode.db"), ResolveDBPath(v))
}

func TestDurationFallback(t *testing.T) {
	v := viper.New()
	require.Equal(t, 2*time.Second, Duration(v, "tui.copied_timeout", 2*time.Second))
	v.Set("tui.copied_timeout", "bogus")
	require.Equal(t, 2*time.Second, Duration(v, "tui.copied_timeout", 2*time.Second))
	v.Set("tui.copied_timeout", "500ms")
	require.Equal(t, 500*time.Millisecond, Duration(v, "tui.copied_timeout", 2*time.Second))
}
