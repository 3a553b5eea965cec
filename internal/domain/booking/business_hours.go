package booking

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const DefaultSlotStep = 30

// DayHours is one day's open window in minutes since midnight.
type DayHours struct {
	Open  int
	Close int
}

// BusinessHours is the weekly opening policy plus the slot granularity.
// Days missing from the map are closed.
type BusinessHours struct {
	Days map[time.Weekday]DayHours
	Step int
}

// DefaultBusinessHours opens Saturday and Sunday, 09:00-18:00, 30 min steps.
func DefaultBusinessHours() BusinessHours {
	weekend := DayHours{Open: 9 * 60, Close: 18 * 60}
	return BusinessHours{
		Days: map[time.Weekday]DayHours{
			time.Saturday: weekend,
			time.Sunday:   weekend,
		},
		Step: DefaultSlotStep,
	}
}

// For returns the open window of a weekday, if the business opens that day.
func (bh BusinessHours) For(day time.Weekday) (DayHours, bool) {
	h, ok := bh.Days[day]
	return h, ok
}

// Contains reports whether iv fits inside the open window of date.
func (bh BusinessHours) Contains(date time.Time, iv Interval) bool {
	h, ok := bh.For(date.Weekday())
	if !ok {
		return false
	}
	return iv.Start >= h.Open && iv.End <= h.Close
}

func (bh BusinessHours) Validate() error {
	if bh.Step <= 0 {
		return fmt.Errorf("slot step must be positive, got %d", bh.Step)
	}
	for day, h := range bh.Days {
		if h.Open < 0 || h.Close > MinutesPerDay-1 || h.Open >= h.Close {
			return fmt.Errorf("invalid hours for %s: %s-%s", day, formatMinutes(h.Open), formatMinutes(h.Close))
		}
	}
	return nil
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// ParseBusinessHours reads a policy such as
// "mon-fri=10:00-19:00,sat=09:00-18:00". An empty spec yields the defaults
// with the given step.
func ParseBusinessHours(spec string, step int) (BusinessHours, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		bh := DefaultBusinessHours()
		if step > 0 {
			bh.Step = step
		}
		return bh, bh.Validate()
	}

	bh := BusinessHours{Days: map[time.Weekday]DayHours{}, Step: step}
	if bh.Step <= 0 {
		bh.Step = DefaultSlotStep
	}

	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		daysPart, hoursPart, ok := strings.Cut(entry, "=")
		if !ok {
			return BusinessHours{}, fmt.Errorf("business hours entry %q: missing '='", entry)
		}

		days, err := parseDayRange(daysPart)
		if err != nil {
			return BusinessHours{}, fmt.Errorf("business hours entry %q: %w", entry, err)
		}

		openStr, closeStr, ok := strings.Cut(hoursPart, "-")
		if !ok {
			return BusinessHours{}, fmt.Errorf("business hours entry %q: expected HH:MM-HH:MM", entry)
		}
		open, err := ToMinutes(openStr)
		if err != nil {
			return BusinessHours{}, fmt.Errorf("business hours entry %q: %w", entry, err)
		}
		closing, err := ToMinutes(closeStr)
		if err != nil {
			return BusinessHours{}, fmt.Errorf("business hours entry %q: %w", entry, err)
		}

		for _, d := range days {
			bh.Days[d] = DayHours{Open: open, Close: closing}
		}
	}

	return bh, bh.Validate()
}

func parseDayRange(s string) ([]time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	from, to, isRange := strings.Cut(s, "-")

	first, ok := weekdayNames[strings.TrimSpace(from)]
	if !ok {
		return nil, fmt.Errorf("unknown weekday %q", from)
	}
	if !isRange {
		return []time.Weekday{first}, nil
	}

	last, ok := weekdayNames[strings.TrimSpace(to)]
	if !ok {
		return nil, fmt.Errorf("unknown weekday %q", to)
	}

	var days []time.Weekday
	for d := first; ; d = (d + 1) % 7 {
		days = append(days, d)
		if d == last {
			break
		}
	}
	return days, nil
}

// OpenDays lists the weekdays with hours, Sunday first.
func (bh BusinessHours) OpenDays() []time.Weekday {
	days := make([]time.Weekday, 0, len(bh.Days))
	for d := range bh.Days {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// String renders the schedule for logs, e.g. "Sun 09:00-18:00, Sat 09:00-18:00".
func (bh BusinessHours) String() string {
	days := bh.OpenDays()
	if len(days) == 0 {
		return "closed"
	}
	parts := make([]string, 0, len(days))
	for _, d := range days {
		h := bh.Days[d]
		parts = append(parts, fmt.Sprintf("%s %s-%s", d.String()[:3], formatMinutes(h.Open), formatMinutes(h.Close)))
	}
	return strings.Join(parts, ", ")
}
