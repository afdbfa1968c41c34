package main

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	"github.com/nkarpov/authd/internal/logger"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction

	defaultRedisHost = "localhost"
	defaultRedisPort = "6379"

	defaultAlgorithm         = "HS256"
	defaultAccessExpireMins  = 15
	defaultRefreshExpireDays = 7
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the service will be run
	ListenAddr string

	// Environment (dev, prod)
	Environment string

	// Full database DSN. Takes precedence over the DB_* parts
	DatabaseDSN string

	// Database connection parts, used when DatabaseDSN is not given
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Full redis URL. Takes precedence over RedisHost/RedisPort
	RedisURL string

	RedisHost string
	RedisPort string

	// Secret key to sign session tokens with
	SecretKey string

	// JWT MAC algorithm
	Algorithm string

	// Token lifetimes
	AccessExpireMins  int
	RefreshExpireDays int
}

func NewConfig() *Config {
	return &Config{
		LogLevel:          defaultLoggingLevel,
		ListenAddr:        defaultListenAddr,
		Environment:       defaultEnvironment,
		RedisHost:         defaultRedisHost,
		RedisPort:         defaultRedisPort,
		Algorithm:         defaultAlgorithm,
		AccessExpireMins:  defaultAccessExpireMins,
		RefreshExpireDays: defaultRefreshExpireDays,
	}
}

// Load variables from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}
	setInt := func(o *int) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			parsed, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("expected integer, got %q", value)
			}
			*o = parsed
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":                 setString(&c.ListenAddr),
		"LOG_LEVEL":                   setString(&c.LogLevel),
		"ENVIRONMENT":                 setString(&c.Environment),
		"DATABASE_URI":                setString(&c.DatabaseDSN),
		"DB_HOST":                     setString(&c.DBHost),
		"DB_PORT":                     setString(&c.DBPort),
		"DB_USER":                     setString(&c.DBUser),
		"DB_PASSWORD":                 setString(&c.DBPassword),
		"DB_NAME":                     setString(&c.DBName),
		"REDIS_URL":                   setString(&c.RedisURL),
		"REDIS_HOST":                  setString(&c.RedisHost),
		"REDIS_PORT":                  setString(&c.RedisPort),
		"JWT_SECRET_KEY":              setString(&c.SecretKey),
		"JWT_ALGORITHM":               setString(&c.Algorithm),
		"ACCESS_TOKEN_EXPIRE_MINUTES": setInt(&c.AccessExpireMins),
		"REFRESH_TOKEN_EXPIRE_DAYS":   setInt(&c.RefreshExpireDays),
	}

	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}

	return nil
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("authd", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.RedisURL, "redis", "r", c.RedisURL, "Redis connection URL")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key to sign tokens")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")

	return fs.Parse(args)
}

// DSN to connect to the user store
// Either the full DATABASE_URI or one composed from the DB_* parts
func (c *Config) DSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	return u.String()
}

// RedisOptions to connect to the revocation store
func (c *Config) RedisOptions() (*redis.Options, error) {
	if c.RedisURL != "" {
		return redis.ParseURL(c.RedisURL)
	}

	return &redis.Options{Addr: net.JoinHostPort(c.RedisHost, c.RedisPort)}, nil
}

// AccessTTL configured via ACCESS_TOKEN_EXPIRE_MINUTES
func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessExpireMins) * time.Minute
}

// RefreshTTL configured via REFRESH_TOKEN_EXPIRE_DAYS
func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshExpireDays) * 24 * time.Hour
}
