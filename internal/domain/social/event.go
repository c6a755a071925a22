package social

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ngooning-backend/internal/domain/user"
)

type Event struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"not null;column:title" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	Location    string     `gorm:"column:location" json:"location"`
	StartTime   time.Time  `gorm:"not null;index;column:start_time" json:"start_time"`
	EndTime     *time.Time `gorm:"column:end_time" json:"end_time,omitempty"`
	CreatedByID uuid.UUID  `gorm:"type:uuid;not null;index;column:created_by_id" json:"created_by_id"`
	GroupID     *uuid.UUID `gorm:"type:uuid;index;column:group_id" json:"group_id,omitempty"`

	CreatedBy *user.User `gorm:"foreignKey:CreatedByID" json:"-"`
	Group     *Group     `gorm:"foreignKey:GroupID" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Event) TableName() string { return "events" }

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
