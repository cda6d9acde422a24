package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("OPENWEATHER_API_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "openweather", cfg.GeocoderProvider)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, 10*time.Minute, cfg.LookupCacheTTL.Duration)
	assert.Equal(t, 0, cfg.UpstreamMaxRetries)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.WeatherSampleFallback)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
openweather_api_key = "from-file"
cache_backend = "redis"
lookup_cache_ttl = "30s"
port = "9000"
`), 0o600))

	t.Setenv("PORT", "9100")
	t.Setenv("OPENWEATHER_API_KEY", "")
	t.Setenv("UPSTREAM_MAX_RETRIES", "2")
	t.Setenv("WEATHER_SAMPLE_FALLBACK", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.OpenWeatherAPIKey)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.Equal(t, 30*time.Second, cfg.LookupCacheTTL.Duration)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, 2, cfg.UpstreamMaxRetries)
	assert.True(t, cfg.WeatherSampleFallback)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"CACHE_BACKEND":        "memcached",
		"GEOCODER_PROVIDER":    "bing",
		"LOOKUP_CACHE_TTL":     "ten minutes",
		"UPSTREAM_MAX_RETRIES": "-1",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", "")
			t.Setenv(key, value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
