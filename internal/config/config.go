// Package config loads settings from nadcal.yaml, NADCAL_* environment
// variables and built-in defaults, in that order of precedence after env.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"nadcal/internal/event"
	"nadcal/internal/store"
	"nadcal/internal/timeline"
	"nadcal/internal/validate"
)

const (
	FileName  = "nadcal"
	EnvPrefix = "NADCAL"
)

type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Timezone string         `mapstructure:"timezone"`
	Store    StoreConfig    `mapstructure:"store"`
	NER      NERConfig      `mapstructure:"ner"`
	Dates    DatesConfig    `mapstructure:"dates"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type StoreConfig struct {
	Backend     string `mapstructure:"backend"`
	Dir         string `mapstructure:"dir"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	RedisAddr   string `mapstructure:"redis_addr"`
	RedisDB     int    `mapstructure:"redis_db"`
	RedisPrefix string `mapstructure:"redis_prefix"`
}

type NERConfig struct {
	// Endpoint of a remote model; empty uses the built-in gazetteer only.
	Endpoint  string        `mapstructure:"endpoint"`
	Timeout   time.Duration `mapstructure:"timeout"`
	CacheSize int           `mapstructure:"cache_size"`
	Lexicon   string        `mapstructure:"lexicon"`
}

type DatesConfig struct {
	TwoDigitPivot     int `mapstructure:"two_digit_pivot"`
	BuddhistThreshold int `mapstructure:"buddhist_threshold"`
}

type DefaultsConfig struct {
	Time     string `mapstructure:"time"`
	Location string `mapstructure:"location"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper, workspaceRoot string) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("timezone", "Asia/Bangkok")
	v.SetDefault("store.backend", "file")
	v.SetDefault("store.dir", filepath.Join(workspaceRoot, "sessions"))
	v.SetDefault("store.sqlite_path", filepath.Join(workspaceRoot, "events.db"))
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_db", 0)
	v.SetDefault("store.redis_prefix", "nadcal:events:")
	v.SetDefault("ner.endpoint", "")
	v.SetDefault("ner.timeout", 2*time.Second)
	v.SetDefault("ner.cache_size", 512)
	v.SetDefault("ner.lexicon", "")
	v.SetDefault("dates.two_digit_pivot", timeline.DefaultYearRules.TwoDigitPivot)
	v.SetDefault("dates.buddhist_threshold", timeline.DefaultYearRules.BuddhistThreshold)
	v.SetDefault("defaults.time", validate.DefaultDefaults.Time)
	v.SetDefault("defaults.location", event.Placeholder)
	v.SetDefault("metrics.addr", "")
}

// Default returns the configuration used when no file or environment
// overrides exist.
func Default(workspaceRoot string) Config {
	v := viper.New()
	setDefaults(v, workspaceRoot)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Load reads path, or nadcal.yaml from workspaceRoot and the working
// directory when path is empty. A missing default file is not an error.
func Load(path, workspaceRoot string) (Config, error) {
	v := viper.New()
	setDefaults(v, workspaceRoot)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(workspaceRoot)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c Config) YearRules() timeline.YearRules {
	return timeline.YearRules{
		TwoDigitPivot:     c.Dates.TwoDigitPivot,
		BuddhistThreshold: c.Dates.BuddhistThreshold,
		BuddhistOffset:    timeline.DefaultYearRules.BuddhistOffset,
	}
}

func (c Config) ValidationDefaults() validate.Defaults {
	return validate.Defaults{Time: c.Defaults.Time, Location: c.Defaults.Location}
}

func (c Config) StoreBackend() store.BackendConfig {
	return store.BackendConfig{
		Backend:     c.Store.Backend,
		Dir:         c.Store.Dir,
		SQLitePath:  c.Store.SQLitePath,
		RedisAddr:   c.Store.RedisAddr,
		RedisDB:     c.Store.RedisDB,
		RedisPrefix: c.Store.RedisPrefix,
	}
}
