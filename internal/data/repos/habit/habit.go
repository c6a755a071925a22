package habit

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ngooning-backend/internal/data/repoerr"
	types "github.com/yungbote/ngooning-backend/internal/domain"
	"github.com/yungbote/ngooning-backend/internal/platform/dbctx"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

type HabitRepo interface {
	Create(dbc dbctx.Context, h *types.Habit) (*types.Habit, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Habit, error)
	ListActiveByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Habit, error)
}

type habitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHabitRepo(db *gorm.DB, baseLog *logger.Logger) HabitRepo {
	return &habitRepo{db: db, log: baseLog.With("repo", "HabitRepo")}
}

func (r *habitRepo) Create(dbc dbctx.Context, h *types.Habit) (*types.Habit, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(h).Error; err != nil {
		return nil, repoerr.Classify("create habit", err)
	}
	return h, nil
}

func (r *habitRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Habit, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Habit
	if err := txx.WithContext(dbc.Ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, repoerr.Classify("get habit", err)
	}
	return &out, nil
}

// ListActiveByUser returns active habits newest first, each with its logs (latest day first).
func (r *habitRepo) ListActiveByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Habit, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	out := []*types.Habit{}
	if err := txx.WithContext(dbc.Ctx).
		Preload("Logs", func(db *gorm.DB) *gorm.DB { return db.Order("date DESC") }).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, repoerr.Classify("list habits", err)
	}
	return out, nil
}
