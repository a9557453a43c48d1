// Package config resolves the process configuration once at startup from
// command-line flags, environment variables and defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"chartsrv/internal/httpkit"
)

const (
	defaultPort            = 3200
	defaultImagesDir       = "images"
	defaultCleanupInterval = 10 * time.Minute
	defaultImageMaxAge     = time.Hour
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
)

// Config is built once and handed to the components that need it.
type Config struct {
	Port            int
	PublicHost      string
	ImagesDir       string
	CleanupInterval time.Duration
	ImageMaxAge     time.Duration

	LogLevel  string
	LogFormat string
	LogSource bool

	CORSAllowedOrigins []string
}

// Addr is the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}

// Load parses args (without the program name) and merges them with the
// environment. Explicit flags win over environment variables, which win
// over defaults.
func Load(args []string) (Config, error) {
	fs := pflag.NewFlagSet("chartsrv", pflag.ContinueOnError)
	fs.Int("port", defaultPort, "HTTP listen port")
	fs.String("public-host", "", "base URL for returned image links (default http://localhost:<port>)")
	fs.String("images-dir", defaultImagesDir, "directory for generated images")
	fs.Duration("cleanup-interval", defaultCleanupInterval, "how often old images are swept")
	fs.Duration("image-max-age", defaultImageMaxAge, "age after which an image is deleted")
	fs.String("log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	fs.String("log-format", defaultLogFormat, "log format (json, text)")
	fs.Bool("log-source", false, "add source location to log records")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, err
	}
	bindEnv(v, map[string]string{
		"port":                 "PORT",
		"public-host":          "PUBLIC_HOST",
		"images-dir":           "IMAGES_DIR",
		"cleanup-interval":     "CLEANUP_INTERVAL",
		"image-max-age":        "IMAGE_MAX_AGE",
		"log-level":            "LOG_LEVEL",
		"log-format":           "LOG_FORMAT",
		"log-source":           "LOG_SOURCE",
		"cors-allowed-origins": "CORS_ALLOWED_ORIGINS",
	})

	return fromViper(v)
}

func bindEnv(v *viper.Viper, keys map[string]string) {
	for key, env := range keys {
		_ = v.BindEnv(key, env)
	}
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:               v.GetInt("port"),
		PublicHost:         strings.TrimSpace(v.GetString("public-host")),
		ImagesDir:          strings.TrimSpace(v.GetString("images-dir")),
		LogLevel:           v.GetString("log-level"),
		LogFormat:          v.GetString("log-format"),
		LogSource:          v.GetBool("log-source"),
		CORSAllowedOrigins: httpkit.SplitCSV(v.GetString("cors-allowed-origins")),
	}

	var err error
	if cfg.CleanupInterval, err = duration(v, "cleanup-interval"); err != nil {
		return Config{}, err
	}
	if cfg.ImageMaxAge, err = duration(v, "image-max-age"); err != nil {
		return Config{}, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %q", v.GetString("port"))
	}
	if cfg.PublicHost == "" {
		cfg.PublicHost = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	if cfg.ImagesDir == "" {
		cfg.ImagesDir = defaultImagesDir
	}

	return cfg, nil
}

// duration reads key as a Go duration. viper's GetDuration swallows parse
// errors, so the raw string is parsed here to surface them.
func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return d, nil
}
