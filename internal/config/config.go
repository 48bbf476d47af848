package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/dherslof/racing-companion/internal/db"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type (
	Config struct {
		DataDir string
		HTTP    HTTP
		Log     Log
		API     API
	}

	HTTP struct {
		Addr string
	}

	Log struct {
		Level  string
		Format string
	}

	API struct {
		Passphrase string
		JWTSecret  string
		TokenExp   time.Duration
	}
)

const (
	defaultHTTPAddr = "127.0.0.1:8081"
	defaultTokenExp = 24 * time.Hour
)

// Load reads the optional .env file at envFile (".env" when empty) and then
// the RC_* environment variables. Variables already set in the environment
// win over the file.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	dataDir := os.Getenv("RC_DATA_DIR")
	if dataDir == "" {
		dir, err := db.DefaultBaseDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}

	cfg := &Config{
		DataDir: dataDir,
		HTTP:    HTTP{Addr: getenv("RC_HTTP_ADDR", defaultHTTPAddr)},
		Log: Log{
			Level:  getenv("RC_LOG_LEVEL", "info"),
			Format: getenv("RC_LOG_FORMAT", "text"),
		},
		API: API{
			Passphrase: os.Getenv("RC_API_PASSPHRASE"),
			JWTSecret:  os.Getenv("RC_JWT_SECRET"),
			TokenExp:   defaultTokenExp,
		},
	}

	if v := os.Getenv("RC_JWT_EXPIRY"); v != "" {
		exp, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RC_JWT_EXPIRY %q: %w", v, err)
		}
		cfg.API.TokenExp = exp
	}
	if cfg.API.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.API.JWTSecret = secret
	}
	return cfg, nil
}

// AuthEnabled reports whether the local API requires a token.
func (c *Config) AuthEnabled() bool {
	return c.API.Passphrase != ""
}

// ConfigureLogger applies the log level and format to logger.
func (c *Config) ConfigureLogger(logger *log.Logger) error {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid RC_LOG_LEVEL: %w", err)
	}
	logger.SetLevel(level)
	switch strings.ToLower(c.Log.Format) {
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid RC_LOG_FORMAT %q", c.Log.Format)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate jwt secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
