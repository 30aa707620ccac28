package constants

const (
	// StrengthCalculationPeriod is the number of days looked back when calculating
	// habit strength. 100% strength is reached with a completion on every day of it.
	StrengthCalculationPeriod = 60

	// StrengthScale is the maximum strength percentage.
	StrengthScale = 100

	// Trailing windows used by the overview.
	MonthWindowDays = 30
	YearWindowDays  = 365

	// DaysPerWeek divides completion counts of weekly habits for display.
	DaysPerWeek = 7

	// MaxCounterIntensity is the counter value rendered at full heatmap intensity.
	MaxCounterIntensity = 5

	// DefaultHabitColor is used when a habit has no color set.
	DefaultHabitColor = "blue"
)

// HabitColors lists the colors a habit can be given.
var HabitColors = []string{"blue", "green", "orange", "pink", "purple", "red", "teal", "yellow"}
