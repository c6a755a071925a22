package social

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ngooning-backend/internal/data/repoerr"
	types "github.com/yungbote/ngooning-backend/internal/domain"
	"github.com/yungbote/ngooning-backend/internal/platform/dbctx"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

type EventRepo interface {
	Create(dbc dbctx.Context, e *types.Event) (*types.Event, error)
	ListUpcoming(dbc dbctx.Context, userID uuid.UUID, now time.Time, limit int) ([]*types.Event, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return &eventRepo{db: db, log: baseLog.With("repo", "EventRepo")}
}

func (r *eventRepo) Create(dbc dbctx.Context, e *types.Event) (*types.Event, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(e).Error; err != nil {
		return nil, repoerr.Classify("create event", err)
	}
	return e, nil
}

// ListUpcoming returns events starting at or after now that the user created
// or that belong to one of the user's groups, soonest first.
func (r *eventRepo) ListUpcoming(dbc dbctx.Context, userID uuid.UUID, now time.Time, limit int) ([]*types.Event, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if limit <= 0 {
		limit = 10
	}
	out := []*types.Event{}
	if err := txx.WithContext(dbc.Ctx).
		Where("start_time >= ?", now.UTC()).
		Where("created_by_id = ? OR group_id IN (SELECT group_id FROM group_memberships WHERE user_id = ?)", userID, userID).
		Order("start_time ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, repoerr.Classify("list upcoming events", err)
	}
	return out, nil
}
