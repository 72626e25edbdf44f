package interval

import (
	"fmt"
	"strconv"
	"strings"
)

// Minute-of-week constants. Minute 0 is Monday 00:00 UTC.
const (
	MinutesPerDay  = 1440
	MinutesPerWeek = 10080
)

// Interval is a half-open [Start,End) span in minutes-of-week. End may exceed
// MinutesPerWeek when the span wraps past the end of the week.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Minutes returns the length of the interval.
func (iv Interval) Minutes() int {
	return iv.End - iv.Start
}

// Overlaps reports whether two intervals share at least one minute.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Day codes used in textual specs: Monday through Sunday.
// R is Thursday, U is Sunday.
var dayCodes = map[byte]int{
	'M': 0,
	'T': 1,
	'W': 2,
	'R': 3,
	'F': 4,
	'S': 5,
	'U': 6,
}

var dayLetters = [7]string{"M", "T", "W", "R", "F", "S", "U"}

// ParseSpec parses a comma-separated availability spec such as
// "M09:00 M10:00, T14:00 T15:00" into intervals. Each token holds a start and
// an end point; if the end does not come after the start the span is taken to
// wrap past the week boundary. Malformed tokens are skipped so that dirty
// upstream data degrades to partial availability instead of an error.
func ParseSpec(spec string) []Interval {
	if strings.TrimSpace(spec) == "" {
		return nil
	}

	var intervals []Interval
	for _, token := range strings.Split(spec, ",") {
		fields := strings.Fields(token)
		if len(fields) < 2 {
			continue
		}
		start, ok := parsePoint(fields[0])
		if !ok {
			continue
		}
		end, ok := parsePoint(fields[1])
		if !ok {
			continue
		}
		if end <= start {
			end += MinutesPerWeek
		}
		intervals = append(intervals, Interval{Start: start, End: end})
	}
	return intervals
}

// parsePoint converts a "M09:30" style point into a minute-of-week.
func parsePoint(s string) (int, bool) {
	if len(s) < 4 {
		return 0, false
	}
	day, ok := dayCodes[s[0]]
	if !ok {
		return 0, false
	}
	clock := strings.SplitN(s[1:], ":", 2)
	if len(clock) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(clock[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(clock[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return day*MinutesPerDay + hour*60 + minute, true
}

// FormatTimeRange renders an interval back into spec notation, e.g.
// "M09:00 M10:00". Wrapped ends are folded back onto the week.
func FormatTimeRange(iv Interval) string {
	return FormatMinute(iv.Start) + " " + FormatMinute(iv.End)
}

// FormatMinute renders a minute-of-week as a day letter plus HH:MM.
func FormatMinute(m int) string {
	m = ((m % MinutesPerWeek) + MinutesPerWeek) % MinutesPerWeek
	day := m / MinutesPerDay
	rem := m % MinutesPerDay
	return fmt.Sprintf("%s%02d:%02d", dayLetters[day], rem/60, rem%60)
}

// TotalMinutes sums the lengths of the given intervals. Overlap between
// intervals is not deduplicated.
func TotalMinutes(intervals []Interval) int {
	total := 0
	for _, iv := range intervals {
		total += iv.Minutes()
	}
	return total
}
