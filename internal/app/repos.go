package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/ngooning-backend/internal/data/repos"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

type Repos struct {
	User       repos.UserRepo
	Group      repos.GroupRepo
	Membership repos.MembershipRepo
	Event      repos.EventRepo
	Message    repos.MessageRepo
	Habit      repos.HabitRepo
	HabitLog   repos.HabitLogRepo
	AILog      repos.AILogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       repos.NewUserRepo(db, log),
		Group:      repos.NewGroupRepo(db, log),
		Membership: repos.NewMembershipRepo(db, log),
		Event:      repos.NewEventRepo(db, log),
		Message:    repos.NewMessageRepo(db, log),
		Habit:      repos.NewHabitRepo(db, log),
		HabitLog:   repos.NewHabitLogRepo(db, log),
		AILog:      repos.NewAILogRepo(db, log),
	}
}
