// Package timeslot partitions the 24-hour day into seven fixed named slots
// and aggregates location history and incident records into per-slot and
// per-route safety statistics.
package timeslot

// Slot is one of the seven fixed named partitions of the 24-hour day
type Slot struct {
	Name      string
	Label     string
	StartHour int // inclusive
	EndHour   int // exclusive; late_night wraps past midnight
	RepHour   int // representative hour used for rule-table scoring
}

// Slots enumerates the seven day-periods in canonical order. The order is
// the stable tie-break for ranking.
var Slots = [7]Slot{
	{Name: "early_morning", Label: "Early Morning", StartHour: 5, EndHour: 7, RepHour: 6},
	{Name: "morning", Label: "Morning", StartHour: 7, EndHour: 10, RepHour: 8},
	{Name: "late_morning", Label: "Late Morning", StartHour: 10, EndHour: 12, RepHour: 11},
	{Name: "afternoon", Label: "Afternoon", StartHour: 12, EndHour: 17, RepHour: 14},
	{Name: "evening", Label: "Evening", StartHour: 17, EndHour: 20, RepHour: 18},
	{Name: "night", Label: "Night", StartHour: 20, EndHour: 23, RepHour: 21},
	{Name: "late_night", Label: "Late Night", StartHour: 23, EndHour: 5, RepHour: 2},
}

// Contains reports whether the hour of day falls inside the slot
func (s Slot) Contains(hour int) bool {
	h := hour % 24
	if h < 0 {
		h += 24
	}
	if s.StartHour < s.EndHour {
		return h >= s.StartHour && h < s.EndHour
	}
	// Wrapping slot (late_night)
	return h >= s.StartHour || h < s.EndHour
}

// ForHour returns the slot containing the given hour of day
func ForHour(hour int) Slot {
	for _, s := range Slots {
		if s.Contains(hour) {
			return s
		}
	}
	// Unreachable: the slots cover all 24 hours
	return Slots[0]
}

// ByName looks up a slot by its name
func ByName(name string) (Slot, bool) {
	for _, s := range Slots {
		if s.Name == name {
			return s, true
		}
	}
	return Slot{}, false
}
