package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/export"
	"github.com/julianstephens/habitkit/internal/keyring"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/storage"
)

// Format formats an error message with a consistent "Error: " prefix.
// Known failures get a second line telling the user what to do next.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...any) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a suggestion for errors the user can fix, or "" otherwise
func Hint(err error) string {
	switch {
	case errors.Is(err, storage.ErrNotInitialized):
		return fmt.Sprintf("run '%s init' to create the database", constants.AppName)
	case errors.Is(err, storage.ErrHabitNotFound):
		return fmt.Sprintf("run '%s habit list --all' to see archived and deleted habits", constants.AppName)
	case errors.Is(err, storage.ErrNoConnectionString), errors.Is(err, keyring.ErrNotFound):
		return fmt.Sprintf("export %s or run '%s config set-connection'", constants.ConnectionEnvVar, constants.AppName)
	case errors.Is(err, keyring.ErrKeyringUnavailable):
		return fmt.Sprintf("no OS keyring is available; export %s instead", constants.ConnectionEnvVar)
	case errors.Is(err, export.ErrUnsupportedVersion):
		return fmt.Sprintf("the file was written by a newer version of %s", constants.AppName)
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
