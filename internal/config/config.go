package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider exposes configuration values to the rest of the application.
// Depending on the interface keeps handlers and stores testable with small fakes.
type Provider interface {
	GetDBURL() string
	GetDBNs() string
	GetDBDb() string
	GetDBUser() string
	GetDBPass() string
	GetDBAccess() string
	GetDBQueryTimeout() time.Duration
	GetSessionSecret() string
	GetAppBaseURL() string
	GetServerAddr() string
	GetStaticDir() string
	GetSplashDelay() time.Duration
	GetAuthTimeout() time.Duration
	GetProfileCollection() string
}

// Config holds all configuration for the application.
type Config struct {
	DBUrl             string
	DBNs              string
	DBDb              string
	DBUser            string
	DBPass            string
	DBAccess          string
	DBQueryTimeout    time.Duration
	SessionSecret     string
	AppBaseURL        string
	ServerAddr        string
	StaticDir         string
	SplashDelay       time.Duration
	AuthTimeout       time.Duration
	ProfileCollection string
}

// Defaults applied when the matching environment variable is unset.
const (
	defaultDBAccess          = "account"
	defaultServerAddr        = ":8080"
	defaultAppBaseURL        = "http://localhost:8080"
	defaultStaticDir         = "web/static"
	defaultProfileCollection = "user"
	defaultSplashDelay       = 2 * time.Second
	defaultAuthTimeout       = 30 * time.Second
	defaultDBQueryTimeout    = 10 * time.Second
)

// New loads configuration from a .env file, if present, and the environment.
// It exits the process when required values are missing, matching how the
// server treats an unusable configuration at startup.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := Load()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// Load reads configuration from the environment only.
func Load() (*Config, error) {
	cfg := &Config{
		DBUrl:             os.Getenv("SURREAL_URL"),
		DBUser:            os.Getenv("SURREAL_USER"),
		DBPass:            os.Getenv("SURREAL_PASS"),
		DBNs:              os.Getenv("SURREAL_NS"),
		DBDb:              os.Getenv("SURREAL_DB"),
		DBAccess:          getenv("SURREAL_ACCESS", defaultDBAccess),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		AppBaseURL:        strings.TrimRight(getenv("APP_BASE_URL", defaultAppBaseURL), "/"),
		ServerAddr:        getenv("SERVER_ADDR", defaultServerAddr),
		StaticDir:         getenv("STATIC_DIR", defaultStaticDir),
		ProfileCollection: getenv("PROFILE_COLLECTION", defaultProfileCollection),
	}

	var err error
	if cfg.DBQueryTimeout, err = durationEnv("DB_QUERY_TIMEOUT", defaultDBQueryTimeout); err != nil {
		return nil, err
	}
	if cfg.SplashDelay, err = durationEnv("SPLASH_DELAY", defaultSplashDelay); err != nil {
		return nil, err
	}
	if cfg.AuthTimeout, err = durationEnv("AUTH_TIMEOUT", defaultAuthTimeout); err != nil {
		return nil, err
	}

	if cfg.DBUrl == "" || cfg.DBNs == "" || cfg.DBDb == "" {
		return nil, fmt.Errorf("required environment variables SURREAL_URL, SURREAL_NS, or SURREAL_DB are not set")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("required environment variable SESSION_SECRET is not set")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, v)
	}
	return d, nil
}

func (c *Config) GetDBURL() string                 { return c.DBUrl }
func (c *Config) GetDBNs() string                  { return c.DBNs }
func (c *Config) GetDBDb() string                  { return c.DBDb }
func (c *Config) GetDBUser() string                { return c.DBUser }
func (c *Config) GetDBPass() string                { return c.DBPass }
func (c *Config) GetDBAccess() string              { return c.DBAccess }
func (c *Config) GetDBQueryTimeout() time.Duration { return c.DBQueryTimeout }
func (c *Config) GetSessionSecret() string         { return c.SessionSecret }
func (c *Config) GetAppBaseURL() string            { return c.AppBaseURL }
func (c *Config) GetServerAddr() string            { return c.ServerAddr }
func (c *Config) GetStaticDir() string             { return c.StaticDir }
func (c *Config) GetSplashDelay() time.Duration    { return c.SplashDelay }
func (c *Config) GetAuthTimeout() time.Duration    { return c.AuthTimeout }
func (c *Config) GetProfileCollection() string     { return c.ProfileCollection }
