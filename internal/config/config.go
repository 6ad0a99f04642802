// Package config loads bizzctl settings from an optional .env file and the
// environment.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL     = "https://api.teenytechtrek.com"
	DefaultStoreKey   = "authToken"
	DefaultListenAddr = ":8573"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	// Remote services
	APIURL          string
	DashboardAPIURL string // defaults to APIURL
	TrainerURL      string // defaults to DashboardAPIURL
	RequestTimeout  time.Duration

	// Session store
	Store         string
	StorePath     string // file or sqlite location
	StoreKey      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// serve
	ListenAddr string

	// ActivityLog appends session events as JSON lines when set
	ActivityLog string

	Verbose bool
}

// Load reads envFiles (".env" when none are given; missing files are
// ignored) and then the environment. Values already set in the environment
// win over the files.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{
		APIURL:          ensureScheme(getEnv("BIZZ_API_URL", DefaultAPIURL)),
		DashboardAPIURL: ensureScheme(os.Getenv("BIZZ_DASHBOARD_API_URL")),
		TrainerURL:      ensureScheme(os.Getenv("BIZZ_TRAINER_URL")),
		RequestTimeout:  getEnvDuration("BIZZ_REQUEST_TIMEOUT", 0),

		Store:         strings.ToLower(getEnv("BIZZ_STORE", StoreFile)),
		StorePath:     os.Getenv("BIZZ_STORE_PATH"),
		StoreKey:      getEnv("BIZZ_STORE_KEY", DefaultStoreKey),
		RedisAddr:     getEnv("BIZZ_REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("BIZZ_REDIS_PASSWORD"),
		RedisDB:       getEnvInt("BIZZ_REDIS_DB", 0),

		ListenAddr:  getEnv("BIZZ_LISTEN_ADDR", DefaultListenAddr),
		ActivityLog: os.Getenv("BIZZ_ACTIVITY_LOG"),
		Verbose:     getEnvBool("BIZZ_VERBOSE", false),
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults derives the service URLs and the store path left empty.
func (c *Config) ApplyDefaults() {
	if c.DashboardAPIURL == "" {
		c.DashboardAPIURL = c.APIURL
	}
	if c.TrainerURL == "" {
		c.TrainerURL = c.DashboardAPIURL
	}
	if c.StorePath == "" {
		c.StorePath = defaultStorePath(c.Store)
	}
}

// Validate will validate the configuration
func (c *Config) Validate() error {
	var pathRules, redisRules []validation.Rule
	switch c.Store {
	case StoreFile, StoreSQLite:
		pathRules = append(pathRules, validation.Required)
	case StoreRedis:
		redisRules = append(redisRules, validation.Required)
	}

	return validation.ValidateStruct(c,
		validation.Field(&c.APIURL, validation.Required, is.URL),
		validation.Field(&c.DashboardAPIURL, validation.Required, is.URL),
		validation.Field(&c.TrainerURL, validation.Required, is.URL),
		validation.Field(&c.RequestTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.Store, validation.Required, validation.In(StoreFile, StoreSQLite, StoreRedis, StoreMemory)),
		validation.Field(&c.StorePath, pathRules...),
		validation.Field(&c.StoreKey, validation.Required),
		validation.Field(&c.RedisAddr, redisRules...),
		validation.Field(&c.RedisDB, validation.Min(0)),
		validation.Field(&c.ListenAddr, validation.Required),
	)
}

func defaultStorePath(store string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	switch store {
	case StoreSQLite:
		return filepath.Join(dir, "bizz", "session.db")
	case StoreFile:
		return filepath.Join(dir, "bizz", "session.json")
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}
