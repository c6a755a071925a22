package companion

import (
	"gorm.io/gorm"

	"github.com/yungbote/ngooning-backend/internal/data/repoerr"
	types "github.com/yungbote/ngooning-backend/internal/domain"
	"github.com/yungbote/ngooning-backend/internal/platform/dbctx"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

// AILogRepo is append-only.
type AILogRepo interface {
	Create(dbc dbctx.Context, l *types.AILog) error
}

type aiLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAILogRepo(db *gorm.DB, baseLog *logger.Logger) AILogRepo {
	return &aiLogRepo{db: db, log: baseLog.With("repo", "AILogRepo")}
}

func (r *aiLogRepo) Create(dbc dbctx.Context, l *types.AILog) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(l).Error; err != nil {
		return repoerr.Classify("create ai log", err)
	}
	return nil
}
