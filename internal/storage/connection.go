package storage

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/keyring"
	"github.com/julianstephens/habitkit/internal/logger"
)

// Backend names the storage implementation selected by --config
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

var ErrNoConnectionString = errors.New("no PostgreSQL connection string configured")

// IsPostgresURL reports whether config is a postgres:// or postgresql:// URL
func IsPostgresURL(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL URL carries a password
func HasEmbeddedCredentials(connStr string) bool {
	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return false
	}
	_, hasPassword := u.User.Password()
	return hasPassword
}

// Connection is the resolved storage target
type Connection struct {
	Backend Backend
	// Target is the SQLite path or the PostgreSQL connection string
	Target string
	// Source describes where a PostgreSQL connection string came from
	Source string
}

// Resolver decides which backend and connection string to use.
// Getenv and KeyringGet default to os.Getenv and keyring.GetConnectionString.
type Resolver struct {
	Getenv     func(string) string
	KeyringGet func() (string, error)
}

// Resolve maps the --config value to a Connection. The order is:
//
//  1. a postgres:// URL in --config, which must not hold a password
//  2. HABITKIT_DB_CONNECTION from the environment
//  3. the OS keyring, when --config is "postgres"
//  4. otherwise --config is a SQLite path, with a leading ~ expanded
func (r Resolver) Resolve(config string) (Connection, error) {
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	keyringGet := r.KeyringGet
	if keyringGet == nil {
		keyringGet = keyring.GetConnectionString
	}

	if IsPostgresURL(config) {
		if HasEmbeddedCredentials(config) {
			return Connection{}, fmt.Errorf("PostgreSQL connection strings passed with --config must not contain a password; store it with '%s config set-connection' or export %s", constants.AppName, constants.ConnectionEnvVar)
		}
		return Connection{Backend: BackendPostgres, Target: config, Source: "flag"}, nil
	}

	if connStr := getenv(constants.ConnectionEnvVar); connStr != "" {
		logger.Debug("using connection string from environment", "var", constants.ConnectionEnvVar)
		return Connection{Backend: BackendPostgres, Target: connStr, Source: "env"}, nil
	}

	if config == string(BackendPostgres) {
		connStr, err := keyringGet()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return Connection{}, fmt.Errorf("%w: set %s or run '%s config set-connection'", ErrNoConnectionString, constants.ConnectionEnvVar, constants.AppName)
			}
			return Connection{}, err
		}
		logger.Debug("using connection string from keyring")
		return Connection{Backend: BackendPostgres, Target: connStr, Source: "keyring"}, nil
	}

	path, err := ExpandPath(config)
	if err != nil {
		return Connection{}, err
	}
	return Connection{Backend: BackendSQLite, Target: path}, nil
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return home + strings.TrimPrefix(path, "~"), nil
}
