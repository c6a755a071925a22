package realtime

import (
	"strings"

	"github.com/google/uuid"
)

type SSEEvent string

const (
	SSEEventMessageCreated SSEEvent = "MessageCreated"
	SSEEventEventCreated   SSEEvent = "EventCreated"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

func GroupChannel(groupID uuid.UUID) string { return "group:" + groupID.String() }

func UserChannel(userID uuid.UUID) string { return "user:" + userID.String() }

// ParseGroupIDs reads a comma list of group ids, skipping blanks and junk.
func ParseGroupIDs(raw string) []uuid.UUID {
	out := []uuid.UUID{}
	seen := map[uuid.UUID]bool{}
	for _, part := range strings.Split(raw, ",") {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
