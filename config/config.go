package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the AtlasIQ backend.
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Agent     AgentConfig     `mapstructure:"agent"`
	Places    PlacesConfig    `mapstructure:"places"`
	Search    SearchConfig    `mapstructure:"search"`
	News      NewsConfig      `mapstructure:"news"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address     string   `mapstructure:"address"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// LLMConfig contains the completion gateway configuration
type LLMConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	Model          string        `mapstructure:"model"`
	FallbackModels []string      `mapstructure:"fallback_models"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// AgentConfig bounds the ReAct loop
type AgentConfig struct {
	MaxIterations int `mapstructure:"max_iterations"`
	MaxTokens     int `mapstructure:"max_tokens"`
}

// PlacesConfig contains Google Places settings
type PlacesConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// SearchConfig contains web search provider keys
type SearchConfig struct {
	BraveAPIKey  string `mapstructure:"brave_api_key"`
	SerperAPIKey string `mapstructure:"serper_api_key"`
}

// NewsConfig contains NewsAPI settings
type NewsConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
}

// CacheConfig selects the cache backend. Redis is used when host is set,
// otherwise an in-process cache.
type CacheConfig struct {
	TTL   time.Duration `mapstructure:"ttl"`
	Redis RedisConfig   `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// TelemetryConfig contains metrics settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func (l LLMConfig) Validate() error {
	if l.APIKey == "" {
		return fmt.Errorf("llm.api_key not configured (ATLASIQ_LLM_API_KEY)")
	}
	if l.Model == "" {
		return fmt.Errorf("llm.model not configured")
	}
	return nil
}

// LoadConfig reads configuration from a JSON file plus ATLASIQ_* env overrides.
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("general.version", "0.1.0")
	viper.SetDefault("server.address", ":8000")
	viper.SetDefault("server.cors_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})
	viper.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	viper.SetDefault("llm.model", "openai/gpt-4o-mini")
	viper.SetDefault("llm.fallback_models", []string{
		"google/gemma-3-27b-it:free",
		"mistralai/mistral-small-3.1-24b-instruct:free",
		"meta-llama/llama-3.3-70b-instruct:free",
		"nousresearch/hermes-3-llama-3.1-405b:free",
	})
	viper.SetDefault("llm.timeout", "60s")
	viper.SetDefault("agent.max_iterations", 5)
	viper.SetDefault("agent.max_tokens", 1024)
	viper.SetDefault("places.cache_ttl", "10m")
	viper.SetDefault("news.endpoint", "https://newsapi.org/v2/everything")
	viper.SetDefault("cache.ttl", "5m")
	viper.SetDefault("telemetry.enabled", true)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("ATLASIQ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Config file is optional: env vars and defaults are enough to run.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		panic(fmt.Errorf("unmarshal config: %w", err))
	}
	return &cfg
}
