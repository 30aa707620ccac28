package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

type HabitMarkCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitMarkCmd) Run(ctx *cli.Context) error {
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
	day, err := cli.ParseDay(c.Date, now)
	if err != nil {
		return err
	}

	// Counter habits toggle between no count and a single repetition
	if habit.IsCounter() {
		if habit.IsCompleted(day) {
			habit.SetCounterValue(0, day)
		} else {
			habit.SetCounterValue(1, day)
		}
		habit.CleanupDailyCounters()
	} else {
		habit.ToggleCompletion(now, utils.DaysBetween(now, day))
	}

	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}

	if habit.IsCompleted(day) {
		fmt.Printf("Marked habit %q for %s\n", habit.Title, utils.DayKey(day))
	} else {
		fmt.Printf("Unmarked habit %q for %s\n", habit.Title, utils.DayKey(day))
	}
	return nil
}

type HabitCountCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	By    int    `help:"Amount to change the count by. Negative values decrease it." default:"1"`
	Set   *int   `help:"Set the day's count to this value instead."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitCountCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	if !habit.IsCounter() {
		return fmt.Errorf("habit %q is not a counter habit; use 'habit mark' instead", habit.Title)
	}
	now, err := ctx.Now()
	if err != nil {
		return err
	}
	day, err := cli.ParseDay(c.Date, now)
	if err != nil {
		return err
	}

	switch {
	case c.Set != nil:
		habit.SetCounterValue(*c.Set, day)
	case c.By >= 0:
		for range c.By {
			habit.IncrementCounter(day)
		}
	default:
		for range -c.By {
			habit.DecrementCounter(day)
		}
	}
	habit.CleanupDailyCounters()

	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}

	fmt.Printf("%s on %s: %d\n", habit.Title, utils.DayKey(day), habit.CounterValue(day))
	return nil
}

type HabitDurationCmd struct {
	Set  HabitDurationSetCmd  `cmd:"" help:"Set the minutes one completion takes from a date on."`
	Stop HabitDurationStopCmd `cmd:"" help:"Stop timing a habit from a date on."`
	List HabitDurationListCmd `cmd:"" help:"Show a habit's duration history."`
}

type HabitDurationSetCmd struct {
	Habit   string `arg:"" help:"Habit title or ID."`
	Minutes int    `arg:"" help:"Minutes per completion."`
	From    string `help:"First day the duration applies to, YYYY-MM-DD (default: today)." default:""`
}

func (c *HabitDurationSetCmd) Run(ctx *cli.Context) error {
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
	from, err := cli.ParseDay(c.From, now)
	if err != nil {
		return err
	}

	if err := habit.SetDuration(c.Minutes, from); err != nil {
		return err
	}
	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}

	fmt.Printf("%s now takes %s from %s\n", habit.Title, utils.FormatMinutes(c.Minutes), utils.DayKey(from))
	return nil
}

type HabitDurationStopCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	From  string `help:"First untimed day, YYYY-MM-DD (default: today)." default:""`
}

func (c *HabitDurationStopCmd) Run(ctx *cli.Context) error {
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
	from, err := cli.ParseDay(c.From, now)
	if err != nil {
		return err
	}

	habit.StopDuration(from)
	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Stopped timing %s from %s\n", habit.Title, utils.DayKey(from))
	return nil
}

type HabitDurationListCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
}

func (c *HabitDurationListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	if len(habit.DurationHistory) == 0 {
		fmt.Printf("%s is not timed.\n", habit.Title)
		return nil
	}
	fmt.Print(formatDurationHistory(habit.DurationHistory))
	return nil
}

func formatDurationHistory(history []models.HabitDuration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %-12s %s\n", "FROM", "UNTIL", "DURATION")
	for _, d := range history {
		until := "-"
		if d.ExpirationDate != nil {
			until = utils.DayKey(*d.ExpirationDate)
		}
		fmt.Fprintf(&b, "%-12s %-12s %s\n", utils.DayKey(d.EffectiveDate), until, utils.FormatMinutes(d.Minutes))
	}
	return b.String()
}
