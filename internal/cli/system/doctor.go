package system

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitkit/internal/backup"
	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/export"
	"github.com/julianstephens/habitkit/internal/utils"
	"github.com/julianstephens/habitkit/internal/validation"
)

type DoctorCmd struct {
	Fix bool `help:"Repair habit records whose conflicts have an unambiguous fix."`
}

type healthCheck struct {
	name     string
	run      func(*cli.Context) error
	needsDB  bool
	warnOnly bool
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	checks := []healthCheck{
		{name: "Database reachable", run: checkDBReachable},
		{name: "Schema version", run: checkSchemaVersion, needsDB: true},
		{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
		{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
		{name: "Settings", run: checkSettings, needsDB: true},
		{name: "Clock/timezone", run: checkClockTimezone},
		{name: "Habit data", run: cmd.checkHabitData, needsDB: true},
		{name: "Weekly export", run: checkExportSchedule, needsDB: true, warnOnly: true},
	}

	hasError := false
	dbReachable := false
	for i, check := range checks {
		if check.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", check.name)
			continue
		}

		err := check.run(ctx)
		var skip skipError
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", check.name)
			if i == 0 {
				dbReachable = true
			}
		case errors.As(err, &skip):
			fmt.Printf("⊘ %s: SKIPPED (%s)\n", check.name, skip)
		case check.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", check.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", check.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

// skipError marks a check that does not apply to the current setup
type skipError string

func (e skipError) Error() string { return string(e) }

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return skipError("backend has no schema version")
	}
	current, latest, err := m.SchemaVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return skipError("backend has no migrations")
	}
	pending, err := m.PendingMigrations()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}
	names := make([]string, 0, len(pending))
	for _, p := range pending {
		names = append(names, fmt.Sprintf("%03d_%s", p.Version, p.Name))
	}
	return fmt.Errorf("pending migrations: %s (run '%s migrate')", strings.Join(names, ", "), constants.AppName)
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return skipError("PostgreSQL databases are backed up externally")
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("invalid timezone %q", settings.Timezone)
	}
	if settings.MaxExports < 1 {
		return fmt.Errorf("max_exports must be at least 1, got %d", settings.MaxExports)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if ctx.Clock != nil {
		now = ctx.Clock()
	}
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func (cmd *DoctorCmd) checkHabitData(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(true, false)
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	now, err := ctx.Now()
	if err != nil {
		return err
	}

	result := validation.New().ValidateHabits(habits, now)
	if !result.HasConflicts() {
		return nil
	}

	if cmd.Fix {
		var fixed []string
		for i := range habits {
			actions := validation.AutoFixHabit(&habits[i])
			if len(actions) == 0 {
				continue
			}
			if err := ctx.Store.UpdateHabit(habits[i]); err != nil {
				return fmt.Errorf("failed to save fixed habit %q: %w", habits[i].Title, err)
			}
			for _, a := range actions {
				fixed = append(fixed, a.Action)
			}
		}
		for _, f := range fixed {
			fmt.Printf("   fixed: %s\n", f)
		}
		result = validation.New().ValidateHabits(habits, now)
		if !result.HasConflicts() {
			return nil
		}
	}

	var lines []string
	for _, c := range result.Conflicts {
		lines = append(lines, c.Description)
	}
	return fmt.Errorf("%d conflict(s):\n   - %s", len(lines), strings.Join(lines, "\n   - "))
}

func checkExportSchedule(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.AutoExportEnabled {
		return skipError("auto-export disabled")
	}
	now, err := ctx.Now()
	if err != nil {
		return err
	}
	if export.Due(settings.LastExportAt, now) {
		return fmt.Errorf("a weekly export is due - run '%s export --auto'", constants.AppName)
	}
	return nil
}
