package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures environment driven configuration values for the planner service.
type Config struct {
	HTTPPort            int
	SQLiteDSN           string
	Timezone            string
	Location            *time.Location
	ForecastTTL         time.Duration
	CacheSize           int
	ForecastConcurrency int
	LogFormat           string
	LogLevel            string
}

// setting is a raw configuration value plus the name of the variable or
// file key that supplied it, so errors point at the right place.
type setting struct {
	value  string
	source string
}

type rawConfig struct {
	httpPort            setting
	sqliteDSN           setting
	timezone            setting
	forecastTTL         setting
	cacheSize           setting
	forecastConcurrency setting
	logFormat           setting
	logLevel            setting
}

// fileConfig mirrors Config for the optional YAML overlay. Pointer fields
// distinguish absent keys from zero values.
type fileConfig struct {
	HTTPPort            *int    `yaml:"http_port"`
	SQLiteDSN           *string `yaml:"sqlite_dsn"`
	Timezone            *string `yaml:"timezone"`
	ForecastTTL         *string `yaml:"forecast_ttl"`
	CacheSize           *int    `yaml:"cache_size"`
	ForecastConcurrency *int    `yaml:"forecast_concurrency"`
	Log                 struct {
		Format *string `yaml:"format"`
		Level  *string `yaml:"level"`
	} `yaml:"log"`
}

// Load parses configuration values from the current process environment.
//
// Values are resolved in three layers: built-in defaults, then the YAML file
// named by PLANNER_CONFIG_FILE when set, then individual environment
// variables. Every invalid value is collected and reported together with a
// localized message.
func Load() (Config, error) {
	raw := rawConfig{
		httpPort:            setting{"8080", "PLANNER_HTTP_PORT"},
		sqliteDSN:           setting{"file:planner.db?_pragma=foreign_keys(1)", "PLANNER_SQLITE_DSN"},
		timezone:            setting{"UTC", "PLANNER_TIMEZONE"},
		forecastTTL:         setting{"24h", "PLANNER_FORECAST_TTL"},
		cacheSize:           setting{"256", "PLANNER_CACHE_SIZE"},
		forecastConcurrency: setting{"4", "PLANNER_FORECAST_CONCURRENCY"},
		logFormat:           setting{"auto", "PLANNER_LOG_FORMAT"},
		logLevel:            setting{"info", "PLANNER_LOG_LEVEL"},
	}

	if path := strings.TrimSpace(os.Getenv("PLANNER_CONFIG_FILE")); path != "" {
		if err := raw.overlayFile(path); err != nil {
			return Config{}, err
		}
	}
	raw.overlayEnv()

	return raw.resolve()
}

func (r *rawConfig) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルを読み込めません: %s: %w", path, err)
	}
	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("設定ファイルの形式が不正です: %s: %w", path, err)
	}

	if file.HTTPPort != nil {
		r.httpPort = setting{strconv.Itoa(*file.HTTPPort), "http_port"}
	}
	if file.SQLiteDSN != nil {
		r.sqliteDSN = setting{*file.SQLiteDSN, "sqlite_dsn"}
	}
	if file.Timezone != nil {
		r.timezone = setting{*file.Timezone, "timezone"}
	}
	if file.ForecastTTL != nil {
		r.forecastTTL = setting{*file.ForecastTTL, "forecast_ttl"}
	}
	if file.CacheSize != nil {
		r.cacheSize = setting{strconv.Itoa(*file.CacheSize), "cache_size"}
	}
	if file.ForecastConcurrency != nil {
		r.forecastConcurrency = setting{strconv.Itoa(*file.ForecastConcurrency), "forecast_concurrency"}
	}
	if file.Log.Format != nil {
		r.logFormat = setting{*file.Log.Format, "log.format"}
	}
	if file.Log.Level != nil {
		r.logLevel = setting{*file.Log.Level, "log.level"}
	}
	return nil
}

func (r *rawConfig) overlayEnv() {
	bindings := []struct {
		key    string
		target *setting
	}{
		{"PLANNER_HTTP_PORT", &r.httpPort},
		{"PLANNER_SQLITE_DSN", &r.sqliteDSN},
		{"PLANNER_TIMEZONE", &r.timezone},
		{"PLANNER_FORECAST_TTL", &r.forecastTTL},
		{"PLANNER_CACHE_SIZE", &r.cacheSize},
		{"PLANNER_FORECAST_CONCURRENCY", &r.forecastConcurrency},
		{"PLANNER_LOG_FORMAT", &r.logFormat},
		{"PLANNER_LOG_LEVEL", &r.logLevel},
	}
	for _, binding := range bindings {
		if value := strings.TrimSpace(os.Getenv(binding.key)); value != "" {
			*binding.target = setting{value, binding.key}
		}
	}
}

func (r *rawConfig) resolve() (Config, error) {
	var cfg Config
	invalid := make([]string, 0, 2)

	if port, err := strconv.Atoi(r.httpPort.value); err != nil || port <= 0 || port > 65535 {
		invalid = append(invalid, r.httpPort.source)
	} else {
		cfg.HTTPPort = port
	}

	cfg.SQLiteDSN = r.sqliteDSN.value

	if loc, err := time.LoadLocation(r.timezone.value); err != nil {
		invalid = append(invalid, r.timezone.source)
	} else {
		cfg.Timezone = r.timezone.value
		cfg.Location = loc
	}

	if ttl, err := time.ParseDuration(r.forecastTTL.value); err != nil || ttl <= 0 {
		invalid = append(invalid, r.forecastTTL.source)
	} else {
		cfg.ForecastTTL = ttl
	}

	if size, err := strconv.Atoi(r.cacheSize.value); err != nil || size <= 0 {
		invalid = append(invalid, r.cacheSize.source)
	} else {
		cfg.CacheSize = size
	}

	if workers, err := strconv.Atoi(r.forecastConcurrency.value); err != nil || workers <= 0 {
		invalid = append(invalid, r.forecastConcurrency.source)
	} else {
		cfg.ForecastConcurrency = workers
	}

	switch format := strings.ToLower(r.logFormat.value); format {
	case "auto", "json", "text":
		cfg.LogFormat = format
	default:
		invalid = append(invalid, r.logFormat.source)
	}

	switch level := strings.ToLower(r.logLevel.value); level {
	case "debug", "info", "warn", "error":
		cfg.LogLevel = level
	default:
		invalid = append(invalid, r.logLevel.source)
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("環境変数の値が不正です: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}
