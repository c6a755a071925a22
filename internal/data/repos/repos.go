package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/ngooning-backend/internal/data/repoerr"
	"github.com/yungbote/ngooning-backend/internal/data/repos/companion"
	"github.com/yungbote/ngooning-backend/internal/data/repos/habit"
	"github.com/yungbote/ngooning-backend/internal/data/repos/social"
	"github.com/yungbote/ngooning-backend/internal/data/repos/user"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

var (
	ErrNotFound         = repoerr.ErrNotFound
	ErrConflict         = repoerr.ErrConflict
	ErrInvalidReference = repoerr.ErrInvalidReference
)

type UserRepo = user.UserRepo

type GroupRepo = social.GroupRepo
type MembershipRepo = social.MembershipRepo
type EventRepo = social.EventRepo
type MessageRepo = social.MessageRepo

type HabitRepo = habit.HabitRepo
type HabitLogRepo = habit.HabitLogRepo

type AILogRepo = companion.AILogRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewGroupRepo(db *gorm.DB, baseLog *logger.Logger) GroupRepo {
	return social.NewGroupRepo(db, baseLog)
}
func NewMembershipRepo(db *gorm.DB, baseLog *logger.Logger) MembershipRepo {
	return social.NewMembershipRepo(db, baseLog)
}
func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return social.NewEventRepo(db, baseLog)
}
func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	return social.NewMessageRepo(db, baseLog)
}

func NewHabitRepo(db *gorm.DB, baseLog *logger.Logger) HabitRepo {
	return habit.NewHabitRepo(db, baseLog)
}
func NewHabitLogRepo(db *gorm.DB, baseLog *logger.Logger) HabitLogRepo {
	return habit.NewHabitLogRepo(db, baseLog)
}

func NewAILogRepo(db *gorm.DB, baseLog *logger.Logger) AILogRepo {
	return companion.NewAILogRepo(db, baseLog)
}
