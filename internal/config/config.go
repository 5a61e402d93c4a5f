package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultModel         = "qwen/qwen-2.5-instruct"
	defaultBaseURL       = "https://openrouter.ai/api/v1"
	defaultUpstreamLimit = 60 * time.Second
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost",
	"http://127.0.0.1",
	"*",
}

// Config holds runtime configuration values for the API service.
// It is built once at startup and never mutated afterwards.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	LogLevel           string
	OpenRouterAPIKey   string
	OpenRouterModel    string
	OpenRouterBaseURL  string
	OpenRouterAppURL   string
	OpenRouterAppName  string
	UpstreamTimeout    time.Duration
	CORSAllowedOrigins []string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Configured reports whether an upstream credential is available.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.OpenRouterAPIKey) != ""
}

// Load reads configuration values from environment variables and optional .env file.
// A missing API key is not an error here: the server still starts and each
// upstream-facing request fails fast instead.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "AI Stoic Companion Backend")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8000")
	v.SetDefault("log.level", "info")
	v.SetDefault("openrouter.model", defaultModel)
	v.SetDefault("openrouter.base_url", defaultBaseURL)
	v.SetDefault("openrouter.app_url", "http://localhost")
	v.SetDefault("openrouter.app_name", "AI Stoic Companion")
	v.SetDefault("openrouter.timeout", defaultUpstreamLimit.String())
	v.SetDefault("cors.allow_origins", strings.Join(defaultCORSOrigins, ","))

	timeoutString := strings.TrimSpace(v.GetString("openrouter.timeout"))
	if timeoutString == "" {
		timeoutString = defaultUpstreamLimit.String()
	}

	timeout, err := time.ParseDuration(timeoutString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid openrouter timeout: %w", err)
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("openrouter timeout must be positive, got %s", timeout)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		LogLevel:           strings.ToLower(v.GetString("log.level")),
		OpenRouterAPIKey:   strings.TrimSpace(v.GetString("openrouter.api_key")),
		OpenRouterModel:    strings.TrimSpace(v.GetString("openrouter.model")),
		OpenRouterBaseURL:  strings.TrimRight(strings.TrimSpace(v.GetString("openrouter.base_url")), "/"),
		OpenRouterAppURL:   v.GetString("openrouter.app_url"),
		OpenRouterAppName:  v.GetString("openrouter.app_name"),
		UpstreamTimeout:    timeout,
		CORSAllowedOrigins: splitAndTrim(v.GetString("cors.allow_origins")),
	}

	if cfg.OpenRouterModel == "" {
		cfg.OpenRouterModel = defaultModel
	}

	if cfg.OpenRouterBaseURL == "" {
		cfg.OpenRouterBaseURL = defaultBaseURL
	}

	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = append([]string(nil), defaultCORSOrigins...)
	}

	return cfg, nil
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
