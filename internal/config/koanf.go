package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnv names the environment variable that points at a YAML file.
const ConfigPathEnv = "CRATEDIG_CONFIG"

var defaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// envKeys maps the supported environment variables onto koanf paths.
var envKeys = map[string]string{
	"SPOTIFY_BASE_URL":      "spotify.base_url",
	"SPOTIFY_TOKEN_URL":     "spotify.token_url",
	"SPOTIFY_MARKET":        "spotify.market",
	"SPOTIFY_ACCESS_TOKEN":  "spotify.access_token",
	"SPOTIFY_CLIENT_ID":     "spotify.client_id",
	"SPOTIFY_CLIENT_SECRET": "spotify.client_secret",
	"SPOTIFY_MAX_RETRIES":   "retry.server_retries",
	"SPOTIFY_RETRY_BACKOFF": "retry.backoff_base",
	"ARTIST_CACHE_TTL":      "cache.artist_ttl",
	"TASTE_CACHE_TTL":       "cache.taste_ttl",
	"FAN_OUT_LIMIT":         "discovery.fan_out_limit",
	"POPULARITY_BIAS":       "settings.popularity_bias",
	"FRESHNESS_DAYS":        "settings.freshness_days",
	"OBSCURITY_MIN_SCORE":   "settings.obscurity_min_score",
	"HTTP_ADDR":             "server.addr",
	"STORAGE_PATH":          "storage.path",
	"LOG_LEVEL":             "logging.level",
	"LOG_FORMAT":            "logging.format",
}

// envTransformFunc returns "" for unknown variables so koanf skips them.
func envTransformFunc(s string) string {
	return envKeys[s]
}

// Load reads configuration from defaults, the discovered YAML file and the
// environment, then validates the result.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit YAML path. An empty path skips the file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
