package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Add a new habit."`
	List     HabitListCmd     `cmd:"" help:"List habits with today's state."`
	Show     HabitShowCmd     `cmd:"" help:"Show a habit's overview."`
	Mark     HabitMarkCmd     `cmd:"" help:"Toggle a habit's completion for a day."`
	Count    HabitCountCmd    `cmd:"" help:"Change a counter habit's count for a day."`
	Duration HabitDurationCmd `cmd:"" help:"Manage how long a habit takes."`
	Log      HabitLogCmd      `cmd:"" help:"Show habit log (ASCII history)."`
	Edit     HabitEditCmd     `cmd:"" help:"Edit a habit's details."`
	Archive  HabitArchiveCmd  `cmd:"" help:"Archive a habit."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Delete a habit (soft delete)."`
	Restore  HabitRestoreCmd  `cmd:"" help:"Restore a deleted habit."`
}

type HabitAddCmd struct {
	Title      string `arg:"" help:"Habit title."`
	Motivation string `help:"Why you keep this habit."`
	Type       string `help:"Habit type." enum:"boolean,counter" default:"boolean"`
	Weekly     bool   `help:"Track the habit weekly."`
	Color      string `help:"Display color." enum:"blue,green,orange,pink,purple,red,teal,yellow" default:"blue"`
	Duration   int    `help:"Minutes one completion takes (0 for untimed)." default:"0"`
	Backfill   string `help:"Mark every day from this date (YYYY-MM-DD) through today as done."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if _, err := ctx.Store.GetHabitByTitle(c.Title); err == nil {
		return fmt.Errorf("habit with title %q already exists", c.Title)
	}

	now, err := ctx.Now()
	if err != nil {
		return err
	}

	habit := models.Habit{
		ID:           uuid.New().String(),
		Title:        strings.TrimSpace(c.Title),
		Motivation:   c.Motivation,
		Color:        c.Color,
		Type:         models.ParseHabitType(c.Type),
		IsWeekly:     c.Weekly,
		CreationDate: now,
	}

	start := now
	if c.Backfill != "" {
		start, err = cli.ParseDay(c.Backfill, now)
		if err != nil {
			return err
		}
		habit.CreationDate = start
	}

	if c.Duration != 0 {
		if err := habit.SetDuration(c.Duration, start); err != nil {
			return err
		}
	}
	if c.Backfill != "" {
		habit.Backfill(start, now)
	}

	if err := habit.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.AddHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Added habit: %s\n", habit.Title)
	if c.Backfill != "" {
		fmt.Printf("Backfilled %d day(s) from %s\n", len(habit.CompletedDates), utils.DayKey(start))
	}
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
	Deleted  bool `help:"Include deleted habits."`
	All      bool `help:"Include archived and deleted habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits(c.Archived || c.All, c.Deleted || c.All)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	now, err := ctx.Now()
	if err != nil {
		return err
	}

	fmt.Printf("Habits for %s:\n\n", utils.DayKey(now))
	done := 0
	for _, habit := range habits {
		if habit.IsCompleted(now) {
			done++
		}
		fmt.Println(formatListLine(&habit, now))
	}
	fmt.Printf("\nCompleted today: %d/%d\n", done, len(habits))
	return nil
}

func formatListLine(h *models.Habit, now time.Time) string {
	state := "[ ]"
	if h.IsCompleted(now) {
		state = "[x]"
	}
	line := fmt.Sprintf("%s %s", state, h.Title)
	if h.IsCounter() {
		line += fmt.Sprintf(" (%d today)", h.CounterValue(now))
	}
	line += fmt.Sprintf("  streak %d %s, strength %d%%", h.Streak(now), h.StreakUnit(), h.StrengthPercentage(now))
	if h.DeletedAt != nil {
		line += " [DELETED]"
	} else if h.ArchivedAt != nil {
		line += " [ARCHIVED]"
	}
	return line
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	now, err := ctx.Now()
	if err != nil {
		return err
	}

	fmt.Print(formatOverview(&habit, now))
	return nil
}

func formatOverview(h *models.Habit, now time.Time) string {
	o := h.Overview(now)
	var b strings.Builder

	kind := string(h.Type)
	if h.IsWeekly {
		kind += ", weekly"
	}
	fmt.Fprintf(&b, "%s (%s)\n", h.Title, kind)
	if h.Motivation != "" {
		fmt.Fprintf(&b, "Motivation:  %s\n", h.Motivation)
	}
	fmt.Fprintf(&b, "Created:     %s\n", utils.DayKey(h.CreationDate))
	fmt.Fprintf(&b, "Strength:    %d%% (%+d%% this month, %+d%% this year)\n", o.Strength, o.StrengthGainMonth, o.StrengthGainYear)
	fmt.Fprintf(&b, "Completions: %d (%d this month, %d this year)\n", o.Completions, o.CompletionsMonth, o.CompletionsYear)
	fmt.Fprintf(&b, "Streak:      %d %s (longest %d %s)\n", o.Streak, o.StreakUnit, o.LongestStreak, o.StreakUnit)
	if minutes := h.EffectiveDuration(now); minutes > 0 {
		fmt.Fprintf(&b, "Duration:    %s per completion\n", utils.FormatMinutes(minutes))
	}
	if len(h.DurationHistory) > 0 {
		fmt.Fprintf(&b, "Time spent:  %s (%s this month, %s this year)\n",
			utils.FormatMinutes(o.TimeSpent), utils.FormatMinutes(o.TimeSpentMonth), utils.FormatMinutes(o.TimeSpentYear))
	}
	return b.String()
}
