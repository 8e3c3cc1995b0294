// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hugoce17/hugocodes/internal/effects"
)

// DefaultImageDomains are the hosts remote images may be loaded from.
var DefaultImageDomains = []string{
	"tailwindui.com",
	"images.unsplash.com",
	"avatars.githubusercontent.com",
}

// Config holds server and effect settings. Durations are parsed with
// time.ParseDuration ("60ms", "1s").
type Config struct {
	Port    int    `validate:"min=1,max=65535"`
	GinMode string `validate:"omitempty,oneof=debug release test"`

	// ResumeData is an optional YAML file replacing the embedded resume.
	ResumeData string
	// Download links for the resume. Empty links are not rendered.
	ResumePDFURL  string `validate:"omitempty,uri"`
	ResumeDOCXURL string `validate:"omitempty,uri"`

	ImageDomains []string `validate:"dive,hostname_rfc1123"`

	// LogSalt is mixed into hashed client addresses. Empty means a random salt per process.
	LogSalt string

	TypingSpeed      time.Duration `validate:"gt=0"`
	TypingStartDelay time.Duration `validate:"gte=0"`

	GlitchWaitMin   time.Duration `validate:"gt=0"`
	GlitchWaitMax   time.Duration `validate:"gtefield=GlitchWaitMin"`
	GlitchActiveMin time.Duration `validate:"gt=0"`
	GlitchActiveMax time.Duration `validate:"gtefield=GlitchActiveMin,ltfield=GlitchWaitMin"`

	FlowBand float64 `validate:"gt=0"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:             8080,
		ImageDomains:     append([]string(nil), DefaultImageDomains...),
		TypingSpeed:      60 * time.Millisecond,
		TypingStartDelay: time.Second,
		GlitchWaitMin:    effects.DefaultGlitchWait.Min,
		GlitchWaitMax:    effects.DefaultGlitchWait.Max,
		GlitchActiveMin:  effects.DefaultGlitchActive.Min,
		GlitchActiveMax:  effects.DefaultGlitchActive.Max,
		FlowBand:         effects.DefaultFlowBand,
	}
}

// Load reads the environment on top of Default and validates the result.
func Load() (*Config, error) {
	cfg := Default()
	var err error

	if cfg.Port, err = getEnvInt("PORT", cfg.Port); err != nil {
		return nil, err
	}
	cfg.GinMode = getEnvString("GIN_MODE", cfg.GinMode)
	cfg.ResumeData = getEnvString("RESUME_DATA", cfg.ResumeData)
	cfg.ResumePDFURL = getEnvString("RESUME_PDF_URL", cfg.ResumePDFURL)
	cfg.ResumeDOCXURL = getEnvString("RESUME_DOCX_URL", cfg.ResumeDOCXURL)
	cfg.ImageDomains = getEnvList("IMAGE_DOMAINS", cfg.ImageDomains)
	cfg.LogSalt = getEnvString("LOG_SALT", cfg.LogSalt)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"TYPING_SPEED", &cfg.TypingSpeed},
		{"TYPING_START_DELAY", &cfg.TypingStartDelay},
		{"GLITCH_WAIT_MIN", &cfg.GlitchWaitMin},
		{"GLITCH_WAIT_MAX", &cfg.GlitchWaitMax},
		{"GLITCH_ACTIVE_MIN", &cfg.GlitchActiveMin},
		{"GLITCH_ACTIVE_MAX", &cfg.GlitchActiveMax},
	}
	for _, d := range durations {
		if *d.dst, err = getEnvDuration(d.key, *d.dst); err != nil {
			return nil, err
		}
	}

	if cfg.FlowBand, err = getEnvFloat("FLOW_BAND", cfg.FlowBand); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and the ordering of the glitch windows. A glitch
// must stay active for less time than the shortest idle wait.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// GlitchWait is the idle window between random glitches.
func (c *Config) GlitchWait() effects.Window {
	return effects.Window{Min: c.GlitchWaitMin, Max: c.GlitchWaitMax}
}

// GlitchActive is the length window of a random glitch.
func (c *Config) GlitchActive() effects.Window {
	return effects.Window{Min: c.GlitchActiveMin, Max: c.GlitchActiveMax}
}

// AllowsImage reports whether an image URL's host is in the allow-list.
func (c *Config) AllowsImage(host string) bool {
	for _, d := range c.ImageDomains {
		if strings.EqualFold(d, host) {
			return true
		}
	}
	return false
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
