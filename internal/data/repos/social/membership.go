package social

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ngooning-backend/internal/data/repoerr"
	types "github.com/yungbote/ngooning-backend/internal/domain"
	"github.com/yungbote/ngooning-backend/internal/platform/dbctx"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

type MembershipRepo interface {
	Create(dbc dbctx.Context, m *types.GroupMembership) (*types.GroupMembership, error)
	IsMember(dbc dbctx.Context, groupID, userID uuid.UUID) (bool, error)
	ListByGroup(dbc dbctx.Context, groupID uuid.UUID) ([]*types.GroupMembership, error)
}

type membershipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMembershipRepo(db *gorm.DB, baseLog *logger.Logger) MembershipRepo {
	return &membershipRepo{db: db, log: baseLog.With("repo", "MembershipRepo")}
}

// Create inserts a membership; a second join of the same user is ErrConflict.
func (r *membershipRepo) Create(dbc dbctx.Context, m *types.GroupMembership) (*types.GroupMembership, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(m).Error; err != nil {
		return nil, repoerr.Classify("create membership", err)
	}
	return m, nil
}

func (r *membershipRepo) IsMember(dbc dbctx.Context, groupID, userID uuid.UUID) (bool, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var count int64
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.GroupMembership{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error; err != nil {
		return false, repoerr.Classify("check membership", err)
	}
	return count > 0, nil
}

// ListByGroup returns memberships in join order with the member user loaded.
func (r *membershipRepo) ListByGroup(dbc dbctx.Context, groupID uuid.UUID) ([]*types.GroupMembership, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	out := []*types.GroupMembership{}
	if err := txx.WithContext(dbc.Ctx).
		Preload("User").
		Where("group_id = ?", groupID).
		Order("joined_at ASC").
		Find(&out).Error; err != nil {
		return nil, repoerr.Classify("list memberships", err)
	}
	return out, nil
}
