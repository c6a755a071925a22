package user

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ngooning-backend/internal/data/repoerr"
	types "github.com/yungbote/ngooning-backend/internal/domain"
	"github.com/yungbote/ngooning-backend/internal/platform/dbctx"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, u *types.User) (*types.User, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	Update(dbc dbctx.Context, id uuid.UUID, updates map[string]any) (*types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (r *userRepo) Create(dbc dbctx.Context, u *types.User) (*types.User, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if u == nil {
		return nil, nil
	}
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
	if err := txx.WithContext(dbc.Ctx).Create(u).Error; err != nil {
		return nil, repoerr.Classify("create user", err)
	}
	return u, nil
}

func (r *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.User
	if err := txx.WithContext(dbc.Ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, repoerr.Classify("get user", err)
	}
	return &out, nil
}

func (r *userRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.User, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	results := []*types.User{}
	if len(ids) == 0 {
		return results, nil
	}
	if err := txx.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, repoerr.Classify("get users", err)
	}
	return results, nil
}

func (r *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.User
	if err := txx.WithContext(dbc.Ctx).
		Where("email = ?", strings.TrimSpace(strings.ToLower(email))).
		First(&out).Error; err != nil {
		return nil, repoerr.Classify("get user by email", err)
	}
	return &out, nil
}

// Update applies column updates and returns the fresh row.
func (r *userRepo) Update(dbc dbctx.Context, id uuid.UUID, updates map[string]any) (*types.User, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if len(updates) > 0 {
		res := txx.WithContext(dbc.Ctx).Model(&types.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, repoerr.Classify("update user", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, repoerr.Classify("update user", gorm.ErrRecordNotFound)
		}
	}
	return r.GetByID(dbc, id)
}
