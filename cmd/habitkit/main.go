package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/cli/backups"
	"github.com/julianstephens/habitkit/internal/cli/habits"
	"github.com/julianstephens/habitkit/internal/cli/settings"
	"github.com/julianstephens/habitkit/internal/cli/system"
	"github.com/julianstephens/habitkit/internal/cli/transfer"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/errors"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/storage"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite database path, a PostgreSQL URL without a password, or 'postgres' to use the keyring." type:"string" default:"${config_path}"`
	Debug    bool   `help:"Mirror debug logs to stderr."`
	LogLevel string `help:"Log level written to the log file (debug, info, warn, error)."`

	Init     system.InitCmd     `cmd:"" help:"Initialize habitkit storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit    habits.HabitCmd    `cmd:"" help:"Manage and track habits."`
	Export   transfer.ExportCmd `cmd:"" help:"Export habits to a JSON file."`
	Import   transfer.ImportCmd `cmd:"" help:"Import habits from a JSON export."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	ConfigCmd system.ConfigCmd    `cmd:"" name:"config" help:"Manage the stored PostgreSQL connection."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks, strength and time spent"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	)

	command := ctx.Command()
	isConfigCmd := strings.HasPrefix(command, "config")

	conn, resolveErr := storage.Resolver{}.Resolve(CLI.Config)

	logDir, err := cli.DefaultConfigDir()
	if resolveErr == nil && conn.Backend == storage.BackendSQLite {
		logDir, err = filepath.Dir(conn.Target), nil
	}
	if err == nil {
		err = logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: logDir, Level: CLI.LogLevel})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	defer logger.Close()

	appCtx := &cli.Context{}
	if resolveErr != nil {
		// The keyring commands are how a missing connection gets fixed
		if !isConfigCmd {
			errors.Fatal(resolveErr)
		}
	} else {
		appCtx.Store = cli.OpenStore(conn)
		logger.Debug("storage resolved", "backend", conn.Backend, "source", conn.Source)
	}

	// init creates the database, doctor reports on it and config never needs it
	if appCtx.Store != nil && !isConfigCmd && !strings.HasPrefix(command, "init") && !strings.HasPrefix(command, "doctor") {
		if err := appCtx.Store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	if appCtx.Store != nil {
		if closeErr := appCtx.Store.Close(); closeErr != nil {
			logger.Warn("Failed to close storage", "error", closeErr)
		}
	}
	errors.Fatal(err)
}
