package transfer

import (
	"context"
	"fmt"
	"os"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/export"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/notifier"
	"github.com/julianstephens/habitkit/internal/validation"
)

type ExportCmd struct {
	Output string `help:"Write the export to this file instead of the export directory." type:"path"`
	Auto   bool   `help:"Export only when the weekly export is due and auto-export is enabled."`
	List   bool   `help:"List exports in the export directory."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	now, err := ctx.Now()
	if err != nil {
		return err
	}
	mgr, err := exportManager(ctx, settings)
	if err != nil {
		return err
	}

	if c.List {
		return listExports(mgr)
	}

	if c.Auto {
		if !settings.AutoExportEnabled {
			fmt.Println("Auto-export is disabled. Enable it with 'habitkit settings --auto-export'.")
			return nil
		}
		if !export.Due(settings.LastExportAt, now) {
			next := export.NextRun(settings.LastExportAt.In(now.Location()))
			fmt.Printf("No export due. Next export: %s\n", next.Format(constants.DateFormat+" "+constants.TimeFormat))
			return nil
		}
	}

	habits, err := ctx.Store.GetAllHabits(true, false)
	if err != nil {
		return err
	}
	data, err := export.Encode(habits, now)
	if err != nil {
		return err
	}

	if c.Output != "" {
		if err := os.WriteFile(c.Output, data, 0600); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Printf("Exported %d habit(s) to %s\n", len(habits), c.Output)
		return nil
	}

	path, err := mgr.Write(data, now)
	if err != nil {
		return err
	}
	settings.LastExportAt = &now
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to record export time: %w", err)
	}
	fmt.Printf("Exported %d habit(s) to %s\n", len(habits), path)

	if c.Auto && settings.NotificationsEnabled {
		text := fmt.Sprintf("Weekly export saved: %d habit(s)", len(habits))
		if err := notifier.New().Notify(context.Background(), text); err != nil {
			logger.Warn("export notification failed", "error", err)
		}
	}
	return nil
}

// exportManager uses the configured export directory, or exports/ next to the database
func exportManager(ctx *cli.Context, settings models.Settings) (*export.Manager, error) {
	dir := settings.ExportDir
	if dir == "" {
		configDir, err := ctx.ConfigDir()
		if err != nil {
			return nil, err
		}
		dir = export.DefaultDir(configDir)
	}
	return export.NewManager(dir, settings.MaxExports), nil
}

func listExports(mgr *export.Manager) error {
	exports, err := mgr.List()
	if err != nil {
		return err
	}
	if len(exports) == 0 {
		fmt.Println("No exports found.")
		return nil
	}

	fmt.Printf("Available exports (%d):\n\n", len(exports))
	for i, e := range exports {
		fmt.Printf("%d. %s\n", i+1, e.Date.Format(constants.DateFormat))
		fmt.Printf("   Path: %s\n", e.Path)
		fmt.Printf("   Size: %.2f KB\n\n", float64(e.Size)/1024)
	}
	fmt.Printf("Export directory: %s\n", mgr.GetExportDir())
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"Export file to import." type:"existingfile"`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	loc, err := ctx.Location()
	if err != nil {
		return err
	}
	habits, err := export.Decode(data, loc)
	if err != nil {
		return err
	}
	for i := range habits {
		if err := habits[i].Validate(); err != nil {
			return fmt.Errorf("habit %d (%s): %w", i+1, habits[i].ID, err)
		}
	}

	ctx.PerformAutomaticBackup()

	for _, h := range habits {
		if err := ctx.Store.UpdateHabit(h); err != nil {
			return fmt.Errorf("failed to import habit %q: %w", h.Title, err)
		}
	}
	logger.Info("habits imported", "file", c.File, "count", len(habits))
	fmt.Printf("Imported %d habit(s) from %s\n", len(habits), c.File)

	now, err := ctx.Now()
	if err != nil {
		return err
	}
	result := validation.New().ValidateHabits(habits, now)
	if result.HasConflicts() {
		fmt.Println()
		fmt.Print(result.FormatReport())
		fmt.Println("Run 'habitkit doctor' for a full health check.")
	}
	return nil
}
