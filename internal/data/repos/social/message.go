package social

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ngooning-backend/internal/data/repoerr"
	types "github.com/yungbote/ngooning-backend/internal/domain"
	"github.com/yungbote/ngooning-backend/internal/platform/dbctx"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

type MessageRepo interface {
	Create(dbc dbctx.Context, m *types.Message) (*types.Message, error)
	ListByGroup(dbc dbctx.Context, groupID uuid.UUID, limit int) ([]*types.Message, error)
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: baseLog.With("repo", "MessageRepo")}
}

func (r *messageRepo) Create(dbc dbctx.Context, m *types.Message) (*types.Message, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(m).Error; err != nil {
		return nil, repoerr.Classify("create message", err)
	}
	return m, nil
}

// ListByGroup returns the newest messages first with senders loaded.
func (r *messageRepo) ListByGroup(dbc dbctx.Context, groupID uuid.UUID, limit int) ([]*types.Message, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	out := []*types.Message{}
	if err := txx.WithContext(dbc.Ctx).
		Preload("Sender").
		Where("group_id = ?", groupID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, repoerr.Classify("list messages", err)
	}
	return out, nil
}
