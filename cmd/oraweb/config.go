package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/oraweb/internal/logger"
	"github.com/nkiryanov/oraweb/internal/service/auth/password"
)

const (
	defaultListenAddr   = "localhost:5000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvDev
	defaultCORSOrigin   = "http://localhost:8080"
	defaultStoreTimeout = 5 * time.Second
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the service will be run
	ListenAddr string

	// Database to connect to
	// If empty users and layouts are kept in memory
	DatabaseDSN string

	// Keys to sign access and refresh tokens. Both required and must differ
	AccessSecret  string
	RefreshSecret string

	// Environment: dev or prod
	// In prod logs are JSON and refresh cookie is always Secure
	Environment string

	// Frontend origins allowed to call API with credentials
	CORSOrigins []string

	// Timeout for every store call
	StoreTimeout time.Duration

	// Bcrypt cost factor
	BcryptCost int
}

func NewConfig() *Config {
	return &Config{
		LogLevel:     defaultLoggingLevel,
		ListenAddr:   defaultListenAddr,
		Environment:  defaultEnvironment,
		CORSOrigins:  []string{defaultCORSOrigin},
		StoreTimeout: defaultStoreTimeout,
		BcryptCost:   password.DefaultCost,
	}
}

// Load variable from '.env' file (should be located at working directory)
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
	setList := func(o *[]string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = strings.Split(value, ",")
			}
			return nil
		}
	}
	setDuration := func(o *time.Duration) func(value string) error {
		return func(value string) (err error) {
			if value != "" {
				*o, err = time.ParseDuration(value)
			}
			return err
		}
	}
	setInt := func(o *int) func(value string) error {
		return func(value string) (err error) {
			if value != "" {
				*o, err = strconv.Atoi(value)
			}
			return err
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":          setString(&c.ListenAddr),
		"DATABASE_URI":         setString(&c.DatabaseDSN),
		"ACCESS_TOKEN_SECRET":  setString(&c.AccessSecret),
		"REFRESH_TOKEN_SECRET": setString(&c.RefreshSecret),
		"LOG_LEVEL":            setString(&c.LogLevel),
		"ENVIRONMENT":          setString(&c.Environment),
		"CORS_ORIGINS":         setList(&c.CORSOrigins),
		"STORE_TIMEOUT":        setDuration(&c.StoreTimeout),
		"BCRYPT_COST":          setInt(&c.BcryptCost),
	}

	var errs []error
	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			errs = append(errs, fmt.Errorf("env %s: %w", key, err))
		}
	}

	return errors.Join(errs...)
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("oraweb", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string, keep empty to store data in memory")
	fs.StringVar(&c.AccessSecret, "access-secret", c.AccessSecret, "Secret key to sign access tokens")
	fs.StringVar(&c.RefreshSecret, "refresh-secret", c.RefreshSecret, "Secret key to sign refresh tokens")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.StringSliceVar(&c.CORSOrigins, "cors-origins", c.CORSOrigins, "Allowed CORS origins, comma separated")
	fs.DurationVar(&c.StoreTimeout, "store-timeout", c.StoreTimeout, "Timeout for single store operation")
	fs.IntVar(&c.BcryptCost, "bcrypt-cost", c.BcryptCost, "Bcrypt cost factor")

	return fs.Parse(args)
}

// Validate checks options that can't be defaulted
func (c *Config) Validate() error {
	var errs []error

	if c.AccessSecret == "" {
		errs = append(errs, errors.New("access token secret is required"))
	}
	if c.RefreshSecret == "" {
		errs = append(errs, errors.New("refresh token secret is required"))
	}
	if c.AccessSecret != "" && c.AccessSecret == c.RefreshSecret {
		errs = append(errs, errors.New("access and refresh token secrets must differ"))
	}
	if c.Environment != logger.EnvDev && c.Environment != logger.EnvProd {
		errs = append(errs, fmt.Errorf("unknown environment %q", c.Environment))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, errors.New("store timeout must be positive"))
	}

	return errors.Join(errs...)
}
