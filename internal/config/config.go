// Package config loads service settings from defaults, a config file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vearutop/photoenhance"
)

// EnvPrefix prefixes environment variables, e.g. PHOTOENHANCE_MAX_UPLOAD.
const EnvPrefix = "PHOTOENHANCE"

// Flag names, also used as config file keys.
const (
	keyListen         = "listen"
	keyMetricsListen  = "metrics-listen"
	keyMaxUpload      = "max-upload"
	keyMaxPixels      = "max-pixels"
	keyMaxDimension   = "max-dim"
	keyFormat         = "format"
	keyQuality        = "quality"
	keyKeepMetadata   = "keep-meta"
	keyCacheSize      = "cache-size"
	keyRateLimit      = "rate-limit"
	keyRateBurst      = "rate-burst"
	keyAllowedOrigins = "allowed-origins"
	keyLocal          = "local"
	keyDebug          = "debug"
	keyWorkers        = "workers"
)

// Config holds settings of the HTTP service.
type Config struct {
	Listen        string
	MetricsListen string // empty disables the metrics listener

	MaxUploadBytes int64
	MaxPixels      int
	MaxDimension   int

	Format       string
	Quality      int // 0 keeps the source JPEG quality
	KeepMetadata bool

	CacheSize int

	RateLimit float64 // processing requests per second, 0 disables limiting
	RateBurst int

	AllowedOrigins []string

	Workers int // 0 uses GOMAXPROCS

	Local bool // disables HTTPS-only security headers
	Debug bool
}

// Default returns default settings.
func Default() Config {
	return Config{
		Listen:         ":8080",
		MetricsListen:  ":9090",
		MaxUploadBytes: 32 << 20,
		MaxPixels:      50_000_000,
		MaxDimension:   4096,
		Format:         "auto",
		KeepMetadata:   true,
		CacheSize:      64,
		RateLimit:      5,
		RateBurst:      10,
		AllowedOrigins: []string{"*"},
	}
}

// RegisterFlags adds service flags with default values to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()

	fs.String(keyListen, d.Listen, "HTTP listen address")
	fs.String(keyMetricsListen, d.MetricsListen, "metrics listen address, empty to disable")
	fs.Int64(keyMaxUpload, d.MaxUploadBytes, "max upload size in bytes")
	fs.Int(keyMaxPixels, d.MaxPixels, "max source image pixel count")
	fs.Int(keyMaxDimension, d.MaxDimension, "max working image side in pixels")
	fs.String(keyFormat, d.Format, "default output format: auto, png, jpeg")
	fs.Int(keyQuality, d.Quality, "JPEG quality, 0 to keep source quality")
	fs.Bool(keyKeepMetadata, d.KeepMetadata, "copy EXIF and ICC of JPEG sources")
	fs.Int(keyCacheSize, d.CacheSize, "number of results kept in memory")
	fs.Float64(keyRateLimit, d.RateLimit, "processing requests per second, 0 to disable")
	fs.Int(keyRateBurst, d.RateBurst, "processing requests burst")
	fs.StringSlice(keyAllowedOrigins, d.AllowedOrigins, "CORS allowed origins for /api")
	fs.Int(keyWorkers, d.Workers, "max goroutines per image operation, 0 for GOMAXPROCS")
	fs.Bool(keyLocal, d.Local, "running locally, disables HTTPS-only headers")
	fs.Bool(keyDebug, d.Debug, "enable debug logging")
}

// Load resolves settings from flags registered with RegisterFlags, environment variables
// and an optional config file (YAML, JSON or TOML by extension).
func Load(fs *pflag.FlagSet, configFile string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	c := Config{
		Listen:         v.GetString(keyListen),
		MetricsListen:  v.GetString(keyMetricsListen),
		MaxUploadBytes: v.GetInt64(keyMaxUpload),
		MaxPixels:      v.GetInt(keyMaxPixels),
		MaxDimension:   v.GetInt(keyMaxDimension),
		Format:         v.GetString(keyFormat),
		Quality:        v.GetInt(keyQuality),
		KeepMetadata:   v.GetBool(keyKeepMetadata),
		CacheSize:      v.GetInt(keyCacheSize),
		RateLimit:      v.GetFloat64(keyRateLimit),
		RateBurst:      v.GetInt(keyRateBurst),
		AllowedOrigins: v.GetStringSlice(keyAllowedOrigins),
		Workers:        v.GetInt(keyWorkers),
		Local:          v.GetBool(keyLocal),
		Debug:          v.GetBool(keyDebug),
	}

	return c, c.Validate()
}

// Validate checks settings for consistency.
func (c Config) Validate() error {
	var errs []error

	if c.Listen == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("max upload must be positive, got %d", c.MaxUploadBytes))
	}
	if c.MaxPixels <= 0 {
		errs = append(errs, fmt.Errorf("max pixels must be positive, got %d", c.MaxPixels))
	}
	if c.MaxDimension <= 0 {
		errs = append(errs, fmt.Errorf("max dimension must be positive, got %d", c.MaxDimension))
	}
	if _, err := photoenhance.ParseFormat(c.Format); err != nil {
		errs = append(errs, fmt.Errorf("format %q: %w", c.Format, err))
	}
	if c.Quality < 0 || c.Quality > 100 {
		errs = append(errs, fmt.Errorf("quality must be within 0-100, got %d", c.Quality))
	}
	if c.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("cache size must be positive, got %d", c.CacheSize))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate limit must not be negative, got %v", c.RateLimit))
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		errs = append(errs, fmt.Errorf("rate burst must be positive, got %d", c.RateBurst))
	}

	return errors.Join(errs...)
}

// OutputFormat returns the parsed default output format.
func (c Config) OutputFormat() photoenhance.Format {
	f, _ := photoenhance.ParseFormat(c.Format)
	return f
}
