package export

import (
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/utils"
)

// NextRun returns the first weekly export slot (Monday at constants.ExportHour)
// strictly after after, in after's location.
func NextRun(after time.Time) time.Time {
	return utils.NextWeekdayAt(after, time.Monday, constants.ExportHour)
}

// Due reports whether an automatic export should run at now. Without a
// previous run an export is always due; otherwise the slot following the
// last run must have been reached.
func Due(lastRun *time.Time, now time.Time) bool {
	if lastRun == nil {
		return true
	}
	return !now.Before(NextRun(lastRun.In(now.Location())))
}
