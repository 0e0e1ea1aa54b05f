package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Listen       string           `mapstructure:"listen"`
	DebugListen  string           `mapstructure:"debug_listen"`
	DataDir      string           `mapstructure:"data_dir"`
	ListingFile  string           `mapstructure:"listing_file"`
	MarkersFile  string           `mapstructure:"markers_file"`
	TemplateFile string           `mapstructure:"template_file"`
	WidgetTTL    time.Duration    `mapstructure:"widget_ttl"`
	Pagination   PaginationConfig `mapstructure:"pagination"`
	Geocode      GeocodeConfig    `mapstructure:"geocode"`
	Redis        RedisConfig      `mapstructure:"redis"`
	Rabbit       RabbitConfig     `mapstructure:"rabbit"`
}

type PaginationConfig struct {
	VisiblePages int `mapstructure:"visible_pages"`
}

type GeocodeConfig struct {
	URL string `mapstructure:"url"`
	Key string `mapstructure:"key"`
	// PostalCodes is a csv file of postal code locations used before the
	// geocoding service.
	PostalCodes      string        `mapstructure:"postal_codes"`
	PostalCodeFormat string        `mapstructure:"postal_code_format"`
	Timeout          time.Duration `mapstructure:"timeout"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
}

type RedisConfig struct {
	URL      string `mapstructure:"url"`
	Password string `mapstructure:"password"`
}

type RabbitConfig struct {
	URL    string `mapstructure:"url"`
	Prefix string `mapstructure:"prefix"`
}

// Load reads configuration from an optional file and the environment.
// LISTING_CONFIG points at the file, otherwise listing.{yaml,json,toml} in
// the working directory is used when present. Env overrides use the prefix
// LISTING_, e.g. LISTING_GEOCODE_TIMEOUT=2s.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("listen", ":8080")
	v.SetDefault("debug_listen", ":8081")
	v.SetDefault("data_dir", "data")
	v.SetDefault("listing_file", "")
	v.SetDefault("markers_file", "")
	v.SetDefault("template_file", "")
	v.SetDefault("widget_ttl", 30*time.Minute)
	v.SetDefault("pagination.visible_pages", 7)
	v.SetDefault("geocode.url", "")
	v.SetDefault("geocode.key", "")
	v.SetDefault("geocode.postal_codes", "")
	v.SetDefault("geocode.postal_code_format", "default")
	v.SetDefault("geocode.timeout", 5*time.Second)
	v.SetDefault("geocode.cache_ttl", 24*time.Hour)
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("rabbit.url", "")
	v.SetDefault("rabbit.prefix", "listing")

	cfgPath := os.Getenv("LISTING_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("listing")
	}

	v.SetEnvPrefix("LISTING")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Pagination.VisiblePages < 5 {
		return Config{}, fmt.Errorf("pagination.visible_pages must be at least 5, got %d", c.Pagination.VisiblePages)
	}
	return c, nil
}
