package settlement

import "time"

// DayWindow returns the inclusive accrual-period bounds for the given
// calendar day in loc: 00:00:00.000 through 23:59:59.999. The builder
// stamps settlements with exactly these instants, so the engine's
// equality-based period lookup uses the same function.
func DayWindow(date time.Time, loc *time.Location) (time.Time, time.Time) {
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
	return start, end
}
