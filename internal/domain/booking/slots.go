package booking

import (
	"iter"
	"slices"
	"time"
)

type AvailabilityInput struct {
	ServiceID uint
	Date      string
}

type Slot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// SlotGenerator derives bookable start times from the business hours.
// It holds no state between calls.
type SlotGenerator struct {
	hours BusinessHours
}

func NewSlotGenerator(hours BusinessHours) SlotGenerator {
	return SlotGenerator{hours: hours}
}

func (g SlotGenerator) Hours() BusinessHours {
	return g.hours
}

// Slots yields, in time order, every candidate start from opening time to
// close-duration (stepping by the slot granularity) whose
// [start, start+duration) span overlaps none of the booked intervals.
// A closed day yields nothing.
func (g SlotGenerator) Slots(date time.Time, durationMinutes int, booked []Interval) iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		day, open := g.hours.For(date.Weekday())
		if !open || durationMinutes <= 0 || g.hours.Step <= 0 {
			return
		}

		for t := day.Open; t <= day.Close-durationMinutes; t += g.hours.Step {
			candidate := Interval{Start: t, End: t + durationMinutes}
			if CheckConflict(candidate, booked) != nil {
				continue
			}
			if !yield(Slot{
				Start:     candidate.StartTime(),
				End:       candidate.EndTime(),
				Available: true,
			}) {
				return
			}
		}
	}
}

// List collects Slots; the result is never nil.
func (g SlotGenerator) List(date time.Time, durationMinutes int, booked []Interval) []Slot {
	slots := slices.Collect(g.Slots(date, durationMinutes, booked))
	if slots == nil {
		return []Slot{}
	}
	return slots
}
