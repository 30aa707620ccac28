package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/keyring"
	"github.com/julianstephens/habitkit/internal/storage"
	"github.com/julianstephens/habitkit/internal/storage/postgres"
)

type ConfigCmd struct {
	SetConnection   SetConnectionCmd   `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	ClearConnection ClearConnectionCmd `cmd:"" help:"Remove the stored PostgreSQL connection string."`
	Status          ConfigStatusCmd    `cmd:"" help:"Show where the database connection comes from."`
}

// SetConnectionCmd stores the PostgreSQL connection string in the OS keyring
type SetConnectionCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring."`
}

func (cmd *SetConnectionCmd) Run(ctx *cli.Context) error {
	if !storage.IsPostgresURL(cmd.ConnectionString) && !strings.Contains(cmd.ConnectionString, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// The keyring is encrypted, so a password is acceptable here
		fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
		fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Println("✓ Connection string stored successfully in OS keyring")
	fmt.Printf("  Run %s with --config postgres to use it\n", constants.AppName)
	return nil
}

// ClearConnectionCmd removes the PostgreSQL connection string from the OS keyring
type ClearConnectionCmd struct{}

func (cmd *ClearConnectionCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	fmt.Println("✓ Connection string deleted from OS keyring")
	return nil
}

// ConfigStatusCmd reports keyring availability and the stored connection string
type ConfigStatusCmd struct{}

func (cmd *ConfigStatusCmd) Run(ctx *cli.Context) error {
	if ctx.Store != nil {
		fmt.Printf("Database: %s\n", maskPassword(ctx.Store.GetConfigPath()))
	}

	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		fmt.Printf("   Export %s to use PostgreSQL instead\n", constants.ConnectionEnvVar)
		return nil
	}
	fmt.Println("✓ OS keyring is available")

	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		fmt.Printf("✓ Connection string is stored in keyring: %s\n", maskPassword(connStr))
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Println("ℹ No connection string stored in keyring")
	default:
		return fmt.Errorf("failed to read keyring: %w", err)
	}
	return nil
}

// maskPassword masks passwords in connection strings for display
func maskPassword(connStr string) string {
	if storage.IsPostgresURL(connStr) {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			remaining := connStr[idx+3:]
			// The last @ separates user info from host
			if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
				userInfo := remaining[:atIdx]
				if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
					return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
				}
			}
		}
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}

	return connStr
}
