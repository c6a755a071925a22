package services

import "time"

// TimeOfDay buckets a 0-23 hour into the labels the companion understands.
func TimeOfDay(hour int) string {
	switch {
	case hour < 6:
		return "late night"
	case hour < 12:
		return "morning"
	case hour < 17:
		return "afternoon"
	case hour < 21:
		return "evening"
	default:
		return "night"
	}
}

// CurrentTimeOfDay uses the server's local clock.
func CurrentTimeOfDay(now time.Time) string {
	return TimeOfDay(now.Local().Hour())
}
