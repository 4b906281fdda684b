package cmd

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"db-fill/internal/provision"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Schema string `mapstructure:"schema"`
	Active bool   `mapstructure:"active"`
}

// GetActiveDBConfig returns the currently active database configuration.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, errNoActiveDB
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}

	return activeConfig, nil
}

var errNoActiveDB = errors.New("no active database found in config (set active: true)")

// ResolveDBConfig picks the connection to use: the --dsn flag first, then
// the active entry of databases, then the POSTGRES_* environment.
func ResolveDBConfig(getenv func(string) string) (*DBConfig, error) {
	if connStr := viper.GetString("database.dsn"); connStr != "" {
		driver := viper.GetString("database.driver")
		if driver == "" {
			driver = detectDriver(connStr)
		}
		return &DBConfig{Name: "cli", Driver: canonicalDriver(driver), DSN: connStr, Active: true}, nil
	}

	active, err := GetActiveDBConfig()
	if err == nil {
		active.Driver = canonicalDriver(active.Driver)
		return active, nil
	}
	if !errors.Is(err, errNoActiveDB) {
		return nil, err
	}

	if connStr, ok := PostgresDSNFromEnv(getenv); ok {
		return &DBConfig{Name: "env", Driver: "postgres", DSN: connStr, Active: true}, nil
	}
	return nil, fmt.Errorf("no database configured: use --dsn, an active entry in databases, or POSTGRES_* variables")
}

// PostgresDSNFromEnv builds a lib/pq URL from POSTGRES_HOST, POSTGRES_PORT,
// POSTGRES_DB, POSTGRES_USER and POSTGRES_PASSWORD. It reports false when
// neither host nor database is set.
func PostgresDSNFromEnv(getenv func(string) string) (string, bool) {
	host := getenv("POSTGRES_HOST")
	dbName := getenv("POSTGRES_DB")
	if host == "" && dbName == "" {
		return "", false
	}
	if host == "" {
		host = "localhost"
	}
	port := getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}
	sslMode := getenv("POSTGRES_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + dbName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	if user := getenv("POSTGRES_USER"); user != "" {
		if pass := getenv("POSTGRES_PASSWORD"); pass != "" {
			u.User = url.UserPassword(user, pass)
		} else {
			u.User = url.User(user)
		}
	}
	return u.String(), true
}

func detectDriver(connStr string) string {
	switch {
	case strings.HasPrefix(connStr, "postgres"), strings.Contains(connStr, "sslmode"):
		return "postgres"
	case strings.HasPrefix(connStr, "sqlserver://"):
		return "sqlserver"
	case strings.HasPrefix(connStr, "oracle://"):
		return "oracle"
	case strings.HasPrefix(connStr, "file:"), strings.HasSuffix(connStr, ".db"), connStr == ":memory:":
		return "sqlite3"
	default:
		return "mysql"
	}
}

// canonicalDriver maps config aliases to registered database/sql driver names.
func canonicalDriver(driver string) string {
	switch strings.ToLower(driver) {
	case "postgresql", "pg":
		return "postgres"
	case "mssql":
		return "sqlserver"
	case "sqlite":
		return "sqlite3"
	default:
		return strings.ToLower(driver)
	}
}

// provisionOptions reads the settings.* keys.
func provisionOptions(schemaName string) provision.Options {
	return provision.Options{
		Schema:           schemaName,
		Seed:             viper.GetInt64("settings.seed"),
		MaxAttempts:      viper.GetInt("settings.max_attempts"),
		MaxRows:          viper.GetInt("settings.max_rows"),
		RequestTimeout:   viper.GetDuration("settings.request_timeout"),
		StatementTimeout: viper.GetDuration("settings.statement_timeout"),
	}
}
