package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"studytrack/internal/repository/db"
	"studytrack/internal/service"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// DefaultJWTSecret is only fit for local development.
const DefaultJWTSecret = "insecure-dev-secret"

type Config struct {
	Port string     `mapstructure:"port"`
	Log  LogConfig  `mapstructure:"log"`
	DB   DBConfig   `mapstructure:"db"`
	Auth AuthConfig `mapstructure:"auth"`
	CORS CORSConfig `mapstructure:"cors"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DBConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

var defaults = map[string]any{
	"port":                 "3000",
	"log.level":            "info",
	"log.format":           "console",
	"db.driver":            db.DriverPostgres,
	"db.host":              "db",
	"db.port":              5432,
	"db.user":              "postgres",
	"db.password":          "mysecretpassword",
	"db.name":              "postgres",
	"db.sslmode":           "disable",
	"db.path":              "studytrack.db",
	"db.max_open_conns":    10,
	"db.max_idle_conns":    5,
	"db.conn_max_lifetime": time.Hour,
	"auth.jwt_secret":      DefaultJWTSecret,
	"auth.token_ttl":       time.Hour,
	"auth.bcrypt_cost":     bcrypt.DefaultCost,
	"cors.allowed_origins": []string{"*"},
}

// envBindings maps config keys to the deployment environment variables.
var envBindings = map[string]string{
	"port":                 "PORT",
	"log.level":            "LOG_LEVEL",
	"log.format":           "LOG_FORMAT",
	"db.driver":            "DB_DRIVER",
	"db.host":              "DB_HOST",
	"db.port":              "DB_PORT",
	"db.user":              "DB_USER",
	"db.password":          "DB_PASSWORD",
	"db.name":              "DB_NAME",
	"db.sslmode":           "DB_SSLMODE",
	"db.path":              "DB_PATH",
	"db.max_open_conns":    "DB_MAX_OPEN_CONNS",
	"db.max_idle_conns":    "DB_MAX_IDLE_CONNS",
	"db.conn_max_lifetime": "DB_CONN_MAX_LIFETIME",
	"auth.jwt_secret":      "JWT_SECRET",
	"auth.token_ttl":       "TOKEN_TTL",
	"auth.bcrypt_cost":     "BCRYPT_COST",
	"cors.allowed_origins": "CORS_ALLOWED_ORIGINS",
}

// Load reads .env, the optional config file (CONFIG_PATH or configs/config.yml)
// and the environment, in increasing order of precedence.
func Load() (Config, error) {
	return LoadFrom(os.Getenv("CONFIG_PATH"), ".env")
}

// LoadFrom is Load with explicit file locations. An empty configFile searches
// configs/config.yml and tolerates its absence; a missing envFile is ignored.
func LoadFrom(configFile, envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.AddConfigPath("configs") // configs/config.yml
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port must not be empty"))
	}
	switch c.DB.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("db.driver must be %q or %q, got %q", db.DriverPostgres, db.DriverSQLite, c.DB.Driver))
	}
	if c.DB.Driver == db.DriverSQLite && c.DB.Path == "" {
		errs = append(errs, errors.New("db.path is required for sqlite"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret must not be empty"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL))
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("auth.bcrypt_cost must be within [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost))
	}
	return errors.Join(errs...)
}

// UsesDefaultSecret reports whether tokens would be signed with the built-in secret.
func (c Config) UsesDefaultSecret() bool {
	return c.Auth.JWTSecret == DefaultJWTSecret
}

// Database converts the db section into the connection options of package db.
func (c Config) Database() db.Config {
	return db.Config{
		Driver:          c.DB.Driver,
		Host:            c.DB.Host,
		Port:            c.DB.Port,
		User:            c.DB.User,
		Password:        c.DB.Password,
		Name:            c.DB.Name,
		SSLMode:         c.DB.SSLMode,
		Path:            c.DB.Path,
		MaxOpenConns:    c.DB.MaxOpenConns,
		MaxIdleConns:    c.DB.MaxIdleConns,
		ConnMaxLifetime: c.DB.ConnMaxLifetime,
	}
}

// AuthService converts the auth section into service settings.
func (c Config) AuthService() service.AuthConfig {
	return service.AuthConfig{
		SigningKey: c.Auth.JWTSecret,
		TokenTTL:   c.Auth.TokenTTL,
		BcryptCost: c.Auth.BcryptCost,
	}
}
