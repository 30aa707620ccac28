package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitkit/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Vault addresses one secret in the OS keyring
type Vault struct {
	Service string
	User    string
}

// Default returns the vault holding the PostgreSQL connection string
func Default() Vault {
	return Vault{Service: constants.AppName, User: constants.DefaultKeyringUser}
}

// Get retrieves the secret. Returns ErrNotFound if nothing is stored.
func (v Vault) Get() (string, error) {
	secret, err := keyring.Get(v.Service, v.User)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores the secret, replacing any previous value
func (v Vault) Set(secret string) error {
	if secret == "" {
		return errors.New("secret cannot be empty")
	}
	if err := keyring.Set(v.Service, v.User, secret); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// Delete removes the secret. Returns ErrNotFound if nothing is stored.
func (v Vault) Delete() error {
	if err := keyring.Delete(v.Service, v.User); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// GetConnectionString retrieves the database connection string from the OS keyring.
// Returns ErrNotFound if no credentials are stored.
func GetConnectionString() (string, error) {
	return Default().Get()
}

// SetConnectionString stores the database connection string in the OS keyring.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	return Default().Set(connStr)
}

// DeleteConnectionString removes the database connection string from the OS keyring.
func DeleteConnectionString() error {
	return Default().Delete()
}

// IsAvailable is a best-effort check that the OS keyring can be reached.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring answered and is just empty
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
