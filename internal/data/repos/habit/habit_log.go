package habit

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/ngooning-backend/internal/data/repoerr"
	types "github.com/yungbote/ngooning-backend/internal/domain"
	"github.com/yungbote/ngooning-backend/internal/platform/dbctx"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

type HabitLogRepo interface {
	Upsert(dbc dbctx.Context, l *types.HabitLog) (*types.HabitLog, error)
}

type habitLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHabitLogRepo(db *gorm.DB, baseLog *logger.Logger) HabitLogRepo {
	return &habitLogRepo{db: db, log: baseLog.With("repo", "HabitLogRepo")}
}

// Upsert writes the day's progress, replacing count and notes when the
// (habit_id, date) row already exists, and returns the stored row.
func (r *habitLogRepo) Upsert(dbc dbctx.Context, l *types.HabitLog) (*types.HabitLog, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "habit_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"count", "notes", "updated_at"}),
		}).
		Create(l).Error; err != nil {
		return nil, repoerr.Classify("upsert habit log", err)
	}
	var out types.HabitLog
	if err := txx.WithContext(dbc.Ctx).
		Where("habit_id = ? AND date = ?", l.HabitID, l.Date).
		First(&out).Error; err != nil {
		return nil, repoerr.Classify("reload habit log", err)
	}
	return &out, nil
}
