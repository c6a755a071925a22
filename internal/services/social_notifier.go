package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/ngooning-backend/internal/domain"
	"github.com/yungbote/ngooning-backend/internal/realtime"
)

// SocialNotifier publishes social change events to the realtime feed.
type SocialNotifier interface {
	MessageCreated(ctx context.Context, groupID uuid.UUID, msg *MessageView)
	EventCreated(ctx context.Context, userID uuid.UUID, ev *types.Event)
}

type socialNotifier struct {
	notify realtime.Notifier
}

func NewSocialNotifier(notify realtime.Notifier) SocialNotifier {
	return &socialNotifier{notify: notify}
}

func (n *socialNotifier) MessageCreated(ctx context.Context, groupID uuid.UUID, msg *MessageView) {
	if n == nil || n.notify == nil || groupID == uuid.Nil {
		return
	}
	n.notify.Notify(context.WithoutCancel(ctx), realtime.SSEMessage{
		Channel: realtime.GroupChannel(groupID),
		Event:   realtime.SSEEventMessageCreated,
		Data:    map[string]any{"message": msg},
	})
}

func (n *socialNotifier) EventCreated(ctx context.Context, userID uuid.UUID, ev *types.Event) {
	if n == nil || n.notify == nil || userID == uuid.Nil {
		return
	}
	n.notify.Notify(context.WithoutCancel(ctx), realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventEventCreated,
		Data:    map[string]any{"event": ev},
	})
}
