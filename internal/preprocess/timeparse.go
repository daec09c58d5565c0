package preprocess

import (
	"strconv"
	"strings"
	"time"
)

// Order exports come from SAP list views or workbooks, so several renderings
// of the same date occur. Dotted dates are day-first.
var dateLayouts = []string{
	"02.01.2006",
	"2.1.2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/06",
	"01-02-06",
	"02.01.2006 15:04:05",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseClock reads a time-of-day as "HH:MM:SS", "HH:MM" or an Excel day
// fraction ("0.5" is 12:00).
func parseClock(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if !strings.Contains(s, ":") {
		f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil || f < 0 || f >= 1 {
			return 0, false
		}
		return time.Duration(f * float64(24*time.Hour)).Round(time.Second), true
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	var sec float64
	if len(parts) == 3 {
		sec, err = strconv.ParseFloat(parts[2], 64)
		if err != nil || sec < 0 || sec >= 60 {
			return 0, false
		}
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec*float64(time.Second)), true
}

const (
	machineDayLayout      = "02.01.2006"
	machineDateTimeLayout = "02.01.2006 15:04:05"
)

func parseMachineDateTime(s string) (time.Time, bool) {
	t, err := time.Parse(machineDateTimeLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
