package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

const logNameWidth = 20

type HabitLogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for specific habit only."`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if c.Days <= 0 {
		return fmt.Errorf("days must be positive, got %d", c.Days)
	}

	var selected []models.Habit
	if c.Habit != "" {
		habit, err := ctx.FindHabit(c.Habit)
		if err != nil {
			return err
		}
		selected = []models.Habit{habit}
	} else {
		habits, err := ctx.Store.GetAllHabits(false, false)
		if err != nil {
			return err
		}
		selected = habits
	}

	if len(selected) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	now, err := ctx.Now()
	if err != nil {
		return err
	}

	fmt.Printf("Habit log (last %d days):\n\n", c.Days)
	fmt.Print(renderLog(selected, now, c.Days))
	return nil
}

// renderLog draws one row per habit and one column per day ending today.
// Boolean days show "x", counter days show their count.
func renderLog(habits []models.Habit, now time.Time, days int) string {
	var b strings.Builder
	start := utils.TodayMinusDaysAgo(now, days-1)

	b.WriteString(fmt.Sprintf("%-*s", logNameWidth, "Habit"))
	for i := range days {
		fmt.Fprintf(&b, " %5s", utils.AddDays(start, i).Format("01/02"))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", logNameWidth+6*days))
	b.WriteString("\n")

	for _, habit := range habits {
		b.WriteString(truncateName(habit.Title, logNameWidth))
		for i := range days {
			day := utils.AddDays(start, i)
			mark := "."
			switch {
			case habit.IsCounter() && habit.CounterValue(day) > 0:
				mark = fmt.Sprintf("%d", habit.CounterValue(day))
			case habit.IsCompleted(day):
				mark = "x"
			}
			fmt.Fprintf(&b, "  %-4s", mark)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func truncateName(name string, width int) string {
	runes := []rune(name)
	if len(runes) > width {
		return string(runes[:width-3]) + "..."
	}
	return name + strings.Repeat(" ", width-len(runes))
}

type HabitEditCmd struct {
	Habit      string  `arg:"" help:"Habit title or ID."`
	Title      *string `help:"New title."`
	Motivation *string `help:"New motivation."`
	Color      *string `help:"New display color."`
	Weekly     *bool   `help:"Track the habit weekly."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	changed := false
	if c.Title != nil {
		title := strings.TrimSpace(*c.Title)
		if existing, err := ctx.Store.GetHabitByTitle(title); err == nil && existing.ID != habit.ID {
			return fmt.Errorf("habit with title %q already exists", title)
		}
		habit.Title = title
		changed = true
	}
	if c.Motivation != nil {
		habit.Motivation = *c.Motivation
		changed = true
	}
	if c.Color != nil {
		habit.Color = *c.Color
		changed = true
	}
	if c.Weekly != nil {
		habit.IsWeekly = *c.Weekly
		changed = true
	}

	if !changed {
		fmt.Println("No changes specified. Use --help to see available options.")
		return nil
	}

	if err := habit.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Updated habit: %s\n", habit.Title)
	return nil
}

type HabitArchiveCmd struct {
	Habit     string `arg:"" help:"Habit title or ID to archive."`
	Unarchive bool   `help:"Unarchive the habit instead."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	if c.Unarchive {
		if err := ctx.Store.UnarchiveHabit(habit.ID); err != nil {
			return err
		}
		fmt.Printf("Unarchived habit: %s\n", habit.Title)
		return nil
	}

	if err := ctx.Store.ArchiveHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Archived habit: %s\n", habit.Title)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit title or ID to delete."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted habit: %s\n", habit.Title)
	fmt.Printf("(This is a soft delete. Use '%s habit restore' to undo)\n", constants.AppName)
	return nil
}

type HabitRestoreCmd struct {
	Habit string `arg:"" help:"Habit title or ID to restore."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindDeletedHabit(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Store.RestoreHabit(habit.ID); err != nil {
		return err
	}

	fmt.Printf("Restored habit: %s\n", habit.Title)
	return nil
}
