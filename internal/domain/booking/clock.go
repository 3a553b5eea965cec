package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinutesPerDay = 24 * 60

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ToMinutes converts a "HH:MM" wall-clock value into minutes since midnight.
// Hour must be 0-23 and minute 0-59; one-digit hours ("9:30") are accepted.
func ToMinutes(hm string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(hm), ":")
	if !ok {
		return 0, ErrInvalidTimeFormat(hm)
	}

	hour, ok := parseClockField(h, 23)
	if !ok {
		return 0, ErrInvalidTimeFormat(hm)
	}
	minute, ok := parseClockField(m, 59)
	if !ok || len(m) != 2 {
		return 0, ErrInvalidTimeFormat(hm)
	}

	return hour*60 + minute, nil
}

func parseClockField(s string, max int) (int, bool) {
	if s == "" || len(s) > 2 {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > max {
		return 0, false
	}
	return n, true
}

// ToTimeString formats minutes since midnight as zero-padded "HH:MM".
func ToTimeString(minutes int) (string, error) {
	if minutes < 0 || minutes >= MinutesPerDay {
		return "", ErrInvalidTimeFormat(strconv.Itoa(minutes))
	}
	return formatMinutes(minutes), nil
}

func formatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddMinutes shifts a "HH:MM" value by delta minutes. The result must stay
// within the same day.
func AddMinutes(hm string, delta int) (string, error) {
	m, err := ToMinutes(hm)
	if err != nil {
		return "", err
	}
	return ToTimeString(m + delta)
}

// ParseDate parses a "YYYY-MM-DD" calendar date. The result is midnight UTC
// and carries no timezone meaning beyond its weekday.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidTimeFormat(s)
	}
	return d, nil
}

// DateOnly drops the clock part of t, keeping its calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
