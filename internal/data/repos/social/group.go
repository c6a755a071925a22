package social

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ngooning-backend/internal/data/repoerr"
	types "github.com/yungbote/ngooning-backend/internal/domain"
	"github.com/yungbote/ngooning-backend/internal/platform/dbctx"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

const memberCountSelect = `"groups".*, (SELECT COUNT(*) FROM group_memberships gm WHERE gm.group_id = "groups".id) AS member_count`

type GroupRepo interface {
	Create(dbc dbctx.Context, g *types.Group) (*types.Group, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Group, error)
	List(dbc dbctx.Context, limit, offset int) ([]*types.Group, error)
}

type groupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGroupRepo(db *gorm.DB, baseLog *logger.Logger) GroupRepo {
	return &groupRepo{db: db, log: baseLog.With("repo", "GroupRepo")}
}

func (r *groupRepo) Create(dbc dbctx.Context, g *types.Group) (*types.Group, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(g).Error; err != nil {
		return nil, repoerr.Classify("create group", err)
	}
	return g, nil
}

// GetByID loads one group with its computed member count.
func (r *groupRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Group, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Group
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Group{}).
		Select(memberCountSelect).
		Where(`"groups".id = ?`, id).
		First(&out).Error; err != nil {
		return nil, repoerr.Classify("get group", err)
	}
	return &out, nil
}

// List returns groups newest first with member counts.
func (r *groupRepo) List(dbc dbctx.Context, limit, offset int) ([]*types.Group, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	out := []*types.Group{}
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Group{}).
		Select(memberCountSelect).
		Order(`"groups".created_at DESC`).
		Limit(limit).
		Offset(offset).
		Find(&out).Error; err != nil {
		return nil, repoerr.Classify("list groups", err)
	}
	return out, nil
}
