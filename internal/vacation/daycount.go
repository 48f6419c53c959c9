package vacation

import "time"

const dateLayout = "2006-01-02"

// DateOf truncates t to its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(v string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, v, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// AddMonths moves d forward by n calendar months, clamping to the last day
// of the target month instead of spilling into the next one.
func AddMonths(d time.Time, n int) time.Time {
	y, m, day := DateOf(d).Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

func daysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// TotalDays is the inclusive length of [start, end].
func TotalDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return daysBetween(start, end) + 1
}

// DaysInYear returns min(end, Dec 31) - max(start, Jan 1) + 1, or 0 without intersection.
func DaysInYear(start, end time.Time, year int) int {
	first := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	from := DateOf(start)
	if from.Before(first) {
		from = first
	}
	to := DateOf(end)
	if to.After(last) {
		to = last
	}
	if to.Before(from) {
		return 0
	}
	return daysBetween(from, to) + 1
}

type YearDays struct {
	Year int
	Days int
}

// SplitByYear attributes the days of [start, end] to each calendar year it touches.
// The parts always sum to TotalDays.
func SplitByYear(start, end time.Time) []YearDays {
	if end.Before(start) {
		return nil
	}
	out := make([]YearDays, 0, end.Year()-start.Year()+1)
	for y := start.Year(); y <= end.Year(); y++ {
		out = append(out, YearDays{Year: y, Days: DaysInYear(start, end, y)})
	}
	return out
}

// Overlaps reports whether two inclusive ranges share at least one day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// ConsumedInYear sums the days of Pending and Approved vacations attributed to year.
func ConsumedInYear(vacations []Vacation, year int) int {
	total := 0
	for _, v := range vacations {
		if !countsAgainstBudget(v.Status) {
			continue
		}
		total += DaysInYear(v.StartDate, v.EndDate, year)
	}
	return total
}

func countsAgainstBudget(status string) bool {
	switch status {
	case StatusPending, StatusApproved:
		return true
	default:
		return false
	}
}
