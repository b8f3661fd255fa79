package weather

import "time"

const (
	dateLayout = "Monday, 2 January 2006"

	// TimeOfDayLayout is used for sunrise/sunset and the widget clock.
	TimeOfDayLayout = "15:04:05"
)

// FormatDate renders t as "<Weekday>, <Day> <Month> <Year>" with full English names,
// e.g. "Monday, 1 January 2024". The date is taken in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatTimeOfDay converts an epoch-seconds timestamp into a HH:MM:SS string in loc.
// A nil loc means UTC.
func FormatTimeOfDay(epochSeconds int64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(epochSeconds, 0).In(loc).Format(TimeOfDayLayout)
}
