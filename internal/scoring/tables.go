package scoring

// Fixed hour-bucket rule tables. All scores are 0-100. The bucket boundaries
// and values are part of the scoring contract and are covered by tests;
// changing them changes every derived time-slot statistic.

// TimeOfDayScore returns the time-of-day sub-score for an hour of day (0-23).
// Daytime hours score strictly higher than late-night hours.
func TimeOfDayScore(hour int) float64 {
	h := normalizeHour(hour)
	switch {
	case h >= 7 && h < 17:
		return 90
	case h == 17:
		return 85
	case h == 6:
		return 80
	case h >= 18 && h < 20:
		return 70
	case h == 5:
		return 55
	case h >= 20 && h < 23:
		return 50
	default: // 23:00-05:00
		return 30
	}
}

// CrowdDensityScore returns the crowd-density sub-score for an hour of day.
// Commute peaks score highest; the small hours are close to deserted.
func CrowdDensityScore(hour int) float64 {
	h := normalizeHour(hour)
	switch {
	case h >= 7 && h < 9:
		return 90
	case h >= 17 && h < 19:
		return 90
	case h >= 9 && h < 17:
		return 75
	case h >= 19 && h < 22:
		return 60
	case h == 6:
		return 50
	case h == 5:
		return 40
	default: // 22:00-05:00
		return 25
	}
}

// LightingHourScore returns the lighting sub-score estimated from the hour
// alone. Used when no location is available to compute real sun events.
func LightingHourScore(hour int) float64 {
	h := normalizeHour(hour)
	switch {
	case h >= 7 && h < 17:
		return 95
	case h == 6 || h == 17 || h == 18:
		return 70
	case h >= 19 && h < 22:
		return 55 // street lighting
	default:
		return 35
	}
}

func normalizeHour(hour int) int {
	h := hour % 24
	if h < 0 {
		h += 24
	}
	return h
}
