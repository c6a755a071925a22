package habit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Habit struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	Frequency   string    `gorm:"not null;default:daily;column:frequency" json:"frequency"`
	TargetCount int       `gorm:"not null;default:1;column:target_count" json:"target_count"`
	IsActive    bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`

	Logs []*HabitLog `gorm:"foreignKey:HabitID" json:"logs,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Habit) TableName() string { return "habits" }

func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// HabitLog is one day's progress on a habit; (habit_id, date) is unique.
type HabitLog struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HabitID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_habit_log_day;column:habit_id" json:"habit_id"`
	Date    string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_habit_log_day;column:date" json:"date"`
	Count   int       `gorm:"not null;default:1;column:count" json:"count"`
	Notes   *string   `gorm:"column:notes" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (HabitLog) TableName() string { return "habit_logs" }

func (l *HabitLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
