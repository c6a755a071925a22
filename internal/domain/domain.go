package domain

import (
	"github.com/yungbote/ngooning-backend/internal/domain/companion"
	"github.com/yungbote/ngooning-backend/internal/domain/habit"
	"github.com/yungbote/ngooning-backend/internal/domain/social"
	"github.com/yungbote/ngooning-backend/internal/domain/user"
)

type (
	User            = user.User
	UserSummary     = user.Summary
	Group           = social.Group
	GroupMembership = social.GroupMembership
	Event           = social.Event
	Message         = social.Message
	Habit           = habit.Habit
	HabitLog        = habit.HabitLog
	AILog           = companion.AILog
)

const (
	GroupRoleOwner  = social.RoleOwner
	GroupRoleMember = social.RoleMember
	InteractionChat = companion.InteractionChat
)

// AllModels lists every persisted model in migration order.
func AllModels() []any {
	return []any{
		&User{},
		&Group{},
		&GroupMembership{},
		&Event{},
		&Message{},
		&Habit{},
		&HabitLog{},
		&AILog{},
	}
}
