package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// CheckConfigValidity reports every problem found in v as one joined error.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}

	base := strings.TrimSpace(v.GetString("service.base_url"))
	if base == "" {
		errs = append(errs, errors.New("service.base_url is required"))
	} else if u, err := url.Parse(base); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("service.base_url has invalid url %q", base))
	}

	if d, err := parseDuration(v.GetString("service.timeout")); err != nil {
		errs = append(errs, fmt.Errorf("service.timeout: %w", err))
	} else if d < 0 {
		errs = append(errs, errors.New("service.timeout must not be negative"))
	}

	switch p := v.GetString("auth.provider"); p {
	case "config", "keyring":
	default:
		errs = append(errs, fmt.Errorf("auth.provider must be config or keyring, got %q", p))
	}

	if v.GetInt("history.page_size") <= 0 {
		errs = append(errs, errors.New("history.page_size must be greater than 0"))
	}

	switch m := v.GetString("output.mode"); m {
	case "plain", "pretty", "json":
	default:
		errs = append(errs, fmt.Errorf("output.mode must be plain, pretty or json, got %q", m))
	}

	if v.GetInt("pretty.word_wrap") < 0 {
		errs = append(errs, errors.New("pretty.word_wrap must not be negative"))
	}

	if d, err := parseDuration(v.GetString("tui.copied_timeout")); err != nil {
		errs = append(errs, fmt.Errorf("tui.copied_timeout: %w", err))
	} else if d <= 0 {
		errs = append(errs, errors.New("tui.copied_timeout must be greater than 0"))
	}

	return errors.Join(errs...)
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// Duration reads a duration option, falling back to def when unset or invalid.
func Duration(v *viper.Viper, key string, def time.Duration) time.Duration {
	d, err := parseDuration(v.GetString(key))
	if err != nil || (d == 0 && strings.TrimSpace(v.GetString(key)) == "") {
		return def
	}
	return d
}
