package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Duration is a time.Duration readable from TOML strings such as "10m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

type AppConfig struct {
	OpenWeatherAPIKey  string `toml:"openweather_api_key"`
	OpenWeatherBaseURL string `toml:"openweather_base_url"`

	// GeocoderProvider selects the location lookup backend: openweather or google.
	GeocoderProvider     string `toml:"geocoder_provider"`
	GoogleGeocoderAPIKey string `toml:"google_geocoder_api_key"`

	HTTPTimeout        Duration `toml:"http_timeout"`
	UpstreamMaxRetries int      `toml:"upstream_max_retries"`

	// WeatherSampleFallback serves the fixed sample payload when no API key is set.
	WeatherSampleFallback bool `toml:"weather_sample_fallback"`

	// Lookup cache.
	CacheBackend       string   `toml:"cache_backend"` // memory, redis or none
	LookupCacheTTL     Duration `toml:"lookup_cache_ttl"`
	CacheMaxEntries    int      `toml:"cache_max_entries"`
	CacheSweepInterval Duration `toml:"cache_sweep_interval"`
	RedisAddress       string   `toml:"redis_address"`

	// Preferences persistence. An empty path disables the preferences API.
	PreferencesDB            string   `toml:"preferences_db"`
	PreferencesMaxAge        Duration `toml:"preferences_max_age"`
	PreferencesPruneInterval Duration `toml:"preferences_prune_interval"`

	Port               string `toml:"port"`
	CORSAllowedOrigins string `toml:"cors_allowed_origins"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *AppConfig {
	return &AppConfig{
		GeocoderProvider:         "openweather",
		HTTPTimeout:              Duration{10 * time.Second},
		CacheBackend:             "memory",
		LookupCacheTTL:           Duration{10 * time.Minute},
		CacheMaxEntries:          1000,
		CacheSweepInterval:       Duration{time.Minute},
		RedisAddress:             "localhost:6379",
		PreferencesDB:            "weather-dashboard.db",
		PreferencesMaxAge:        Duration{30 * 24 * time.Hour},
		PreferencesPruneInterval: Duration{time.Hour},
		Port:                     "8080",
		CORSAllowedOrigins:       "*",
		LogLevel:                 "info",
		LogFormat:                "json",
	}
}

// Load builds the configuration from defaults, then the optional TOML file at
// path (or CONFIG_FILE), then the environment, including a .env file if present.
func Load(path string) (*AppConfig, error) {
	// A missing .env file is normal.
	_ = godotenv.Load()

	cfg := Defaults()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyEnv() error {
	overrideString(&c.OpenWeatherAPIKey, "OPENWEATHER_API_KEY")
	overrideString(&c.OpenWeatherBaseURL, "OPENWEATHER_BASE_URL")
	overrideString(&c.GeocoderProvider, "GEOCODER_PROVIDER")
	overrideString(&c.GoogleGeocoderAPIKey, "GOOGLE_GEOCODER_API_KEY")
	overrideString(&c.CacheBackend, "CACHE_BACKEND")
	overrideString(&c.RedisAddress, "REDIS_ADDRESS")
	overrideString(&c.PreferencesDB, "PREFERENCES_DB")
	overrideString(&c.Port, "PORT")
	overrideString(&c.CORSAllowedOrigins, "CORS_ALLOWED_ORIGINS")
	overrideString(&c.LogLevel, "LOG_LEVEL")
	overrideString(&c.LogFormat, "LOG_FORMAT")

	durations := map[string]*Duration{
		"HTTP_TIMEOUT":               &c.HTTPTimeout,
		"LOOKUP_CACHE_TTL":           &c.LookupCacheTTL,
		"CACHE_SWEEP_INTERVAL":       &c.CacheSweepInterval,
		"PREFERENCES_MAX_AGE":        &c.PreferencesMaxAge,
		"PREFERENCES_PRUNE_INTERVAL": &c.PreferencesPruneInterval,
	}
	for key, dst := range durations {
		if v := os.Getenv(key); v != "" {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
		}
	}

	ints := map[string]*int{
		"UPSTREAM_MAX_RETRIES": &c.UpstreamMaxRetries,
		"CACHE_MAX_ENTRIES":    &c.CacheMaxEntries,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = n
		}
	}

	if v := os.Getenv("WEATHER_SAMPLE_FALLBACK"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid WEATHER_SAMPLE_FALLBACK: %w", err)
		}
		c.WeatherSampleFallback = b
	}
	return nil
}

// Validate rejects unknown enum values and impossible limits.
func (c *AppConfig) Validate() error {
	c.GeocoderProvider = strings.ToLower(c.GeocoderProvider)
	c.CacheBackend = strings.ToLower(c.CacheBackend)

	switch c.GeocoderProvider {
	case "openweather", "google":
	default:
		return fmt.Errorf("invalid GEOCODER_PROVIDER %q: use openweather or google", c.GeocoderProvider)
	}
	switch c.CacheBackend {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("invalid CACHE_BACKEND %q: use memory, redis or none", c.CacheBackend)
	}
	if c.UpstreamMaxRetries < 0 {
		return fmt.Errorf("UPSTREAM_MAX_RETRIES must not be negative")
	}
	if c.HTTPTimeout.Duration <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
