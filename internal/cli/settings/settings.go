package settings

import (
	"fmt"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/export"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone             *string `help:"IANA timezone that defines calendar days (\"Local\" for the system timezone)."`
	AutoExport           *bool   `help:"Enable or disable the weekly export."`
	ExportDir            *string `help:"Directory exports are written to (empty for the default)." type:"path"`
	MaxExports           *int    `help:"Number of exports kept in the export directory."`
	NotificationsEnabled *bool   `help:"Notify the tray app after an automatic export."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		printSettings(settings)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone %q", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.AutoExport != nil {
		settings.AutoExportEnabled = *c.AutoExport
		updated = true
	}
	if c.ExportDir != nil {
		settings.ExportDir = *c.ExportDir
		updated = true
	}
	if c.MaxExports != nil {
		if *c.MaxExports < 1 {
			return fmt.Errorf("max exports must be at least 1, got %d", *c.MaxExports)
		}
		settings.MaxExports = *c.MaxExports
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}

func printSettings(settings models.Settings) {
	exportDir := settings.ExportDir
	if exportDir == "" {
		exportDir = "(default)"
	}

	fmt.Println("Current Settings:")
	fmt.Printf("  Timezone:              %s\n", settings.Timezone)
	fmt.Println("\nExport Settings:")
	fmt.Printf("  Auto Export:           %v\n", settings.AutoExportEnabled)
	fmt.Printf("  Export Directory:      %s\n", exportDir)
	fmt.Printf("  Max Exports:           %d\n", settings.MaxExports)
	fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
	if settings.LastExportAt != nil {
		last := *settings.LastExportAt
		fmt.Printf("  Last Export:           %s\n", last.Format(constants.DateFormat+" "+constants.TimeFormat))
		if settings.AutoExportEnabled {
			fmt.Printf("  Next Export:           %s\n", export.NextRun(last).Format(constants.DateFormat+" "+constants.TimeFormat))
		}
	} else {
		fmt.Printf("  Last Export:           never\n")
	}
}
