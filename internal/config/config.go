// Package config reads agent configuration from environment variables and an
// optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the markets view agent.
type Config struct {
	// Backend proxy
	ProxyBaseURL string

	// CDP connection settings
	CDPAddress string
	CDPPort    int

	// Markets tab and canvas
	TabURLFilter   string
	CanvasSelector string
	EvalTimeoutMS  int

	// Initial selection
	DefaultSymbol   string
	DefaultRange    string
	DefaultInterval string

	// News
	PreviewLimit int

	// HTTP API
	BindAddr         string
	BindCandidates   []string
	PortAutoFallback bool

	// Logging
	LogLevel string
	LogFile  string

	// Optional browser launch
	LaunchBrowser bool
	StartURL      string
	ProfileDir    string
}

// Load reads configuration from environment variables and an optional .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		ProxyBaseURL:     getEnvOrDefault("MARKETVIEW_PROXY_URL", "http://127.0.0.1:5000"),
		CDPAddress:       getEnvOrDefault("CHROMIUM_CDP_ADDRESS", "127.0.0.1"),
		CDPPort:          getEnvIntOrDefault("CHROMIUM_CDP_PORT", 9222),
		TabURLFilter:     getEnvOrDefault("MARKETVIEW_TAB_URL_FILTER", "/markets"),
		CanvasSelector:   getEnvOrDefault("MARKETVIEW_CANVAS_SELECTOR", "#market-chart"),
		EvalTimeoutMS:    getEnvIntOrDefault("MARKETVIEW_EVAL_TIMEOUT_MS", 5000),
		DefaultSymbol:    getEnvOrDefault("MARKETVIEW_DEFAULT_SYMBOL", "TSM"),
		DefaultRange:     strings.ToLower(getEnvOrDefault("MARKETVIEW_DEFAULT_RANGE", "6mo")),
		DefaultInterval:  strings.ToLower(getEnvOrDefault("MARKETVIEW_DEFAULT_INTERVAL", "1d")),
		PreviewLimit:     getEnvIntOrDefault("MARKETVIEW_PREVIEW_LIMIT", 380),
		BindAddr:         getEnvOrDefault("MARKETVIEW_BIND_ADDR", "127.0.0.1:8288"),
		PortAutoFallback: getEnvBoolOrDefault("MARKETVIEW_PORT_AUTO_FALLBACK", true),
		LogLevel:         strings.ToLower(getEnvOrDefault("MARKETVIEW_LOG_LEVEL", "info")),
		LogFile:          getEnvOrDefault("MARKETVIEW_LOG_FILE", "logs/marketview.log"),
		LaunchBrowser:    getEnvBoolOrDefault("MARKETVIEW_LAUNCH_BROWSER", false),
		ProfileDir:       getEnvOrDefault("MARKETVIEW_PROFILE_DIR", "./browser_profile"),
	}
	cfg.StartURL = getEnvOrDefault("MARKETVIEW_START_URL", cfg.ProxyBaseURL+"/markets")
	cfg.BindCandidates = splitCSV(getEnvOrDefault("MARKETVIEW_BIND_CANDIDATES",
		"127.0.0.1:8288,127.0.0.1:8289,127.0.0.1:8290"))

	if cfg.EvalTimeoutMS < 1000 {
		cfg.EvalTimeoutMS = 1000
	}
	return cfg, nil
}

// CDPURL returns the CDP HTTP endpoint used by both browser transports.
func (c *Config) CDPURL() string {
	return fmt.Sprintf("http://%s:%d", c.CDPAddress, c.CDPPort)
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
