package services

import (
	"fmt"
	"strings"
)

// Titled is anything shown to the model by its title (goals, events).
type Titled struct {
	Title string `json:"title"`
}

// Snapshot is the per-request user context used to personalize completions.
// Every field is optional; zero values and nil pointers mean "absent".
type Snapshot struct {
	UserID         string   `json:"userId,omitempty"`
	UserName       string   `json:"userName,omitempty"`
	RecoveryDays   *int     `json:"recoveryDays,omitempty"`
	CurrentStreak  *int     `json:"currentStreak,omitempty"`
	LongestStreak  *int     `json:"longestStreak,omitempty"`
	TimeOfDay      string   `json:"timeOfDay,omitempty"`
	Mood           string   `json:"mood,omitempty"`
	RecentGoals    []Titled `json:"recentGoals,omitempty"`
	UpcomingEvents []Titled `json:"upcomingEvents,omitempty"`
	Location       string   `json:"location,omitempty"`
}

// SnapshotOverride is the caller-supplied part of a snapshot. A non-nil field
// replaces the server value, even when it is empty.
type SnapshotOverride struct {
	UserName       *string  `json:"userName"`
	RecoveryDays   *int     `json:"recoveryDays"`
	CurrentStreak  *int     `json:"currentStreak"`
	LongestStreak  *int     `json:"longestStreak"`
	TimeOfDay      *string  `json:"timeOfDay"`
	Mood           *string  `json:"mood"`
	RecentGoals    []Titled `json:"recentGoals"`
	UpcomingEvents []Titled `json:"upcomingEvents"`
	Location       *string  `json:"location"`
}

// Apply overlays o onto s. UserID is never taken from the caller.
func (s Snapshot) Apply(o *SnapshotOverride) Snapshot {
	if o == nil {
		return s
	}
	if o.UserName != nil {
		s.UserName = *o.UserName
	}
	if o.RecoveryDays != nil {
		s.RecoveryDays = o.RecoveryDays
	}
	if o.CurrentStreak != nil {
		s.CurrentStreak = o.CurrentStreak
	}
	if o.LongestStreak != nil {
		s.LongestStreak = o.LongestStreak
	}
	if o.TimeOfDay != nil {
		s.TimeOfDay = *o.TimeOfDay
	}
	if o.Mood != nil {
		s.Mood = *o.Mood
	}
	if o.RecentGoals != nil {
		s.RecentGoals = o.RecentGoals
	}
	if o.UpcomingEvents != nil {
		s.UpcomingEvents = o.UpcomingEvents
	}
	if o.Location != nil {
		s.Location = *o.Location
	}
	return s
}

// BuildContextPreamble renders the present snapshot fields in a fixed order.
// An empty snapshot yields "".
func BuildContextPreamble(s Snapshot) string {
	lines := make([]string, 0, 8)
	if s.UserName != "" {
		lines = append(lines, "- User: "+s.UserName)
	}
	if s.RecoveryDays != nil {
		lines = append(lines, fmt.Sprintf("- Recovery Journey: %d days since starting", *s.RecoveryDays))
	}
	if s.CurrentStreak != nil {
		lines = append(lines, fmt.Sprintf("- Current Streak: %d days clean", *s.CurrentStreak))
	}
	if s.LongestStreak != nil && *s.LongestStreak > 0 {
		lines = append(lines, fmt.Sprintf("- Personal Best: %d days", *s.LongestStreak))
	}
	if s.TimeOfDay != "" {
		lines = append(lines, "- Time: "+s.TimeOfDay)
	}
	if s.Mood != "" {
		lines = append(lines, "- Current Mood: "+s.Mood)
	}
	if len(s.RecentGoals) > 0 {
		lines = append(lines, "- Active Goals: "+joinTitles(s.RecentGoals))
	}
	if len(s.UpcomingEvents) > 0 {
		lines = append(lines, "- Upcoming Events: "+joinTitles(s.UpcomingEvents))
	}
	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("**Current User Context:**\n")
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("\nTailor your response to their current situation and progress. Be specific and personal.")
	return b.String()
}

func joinTitles(items []Titled) string {
	titles := make([]string, 0, len(items))
	for _, it := range items {
		titles = append(titles, it.Title)
	}
	return strings.Join(titles, ", ")
}
