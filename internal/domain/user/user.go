package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User mirrors an auth identity with the profile fields the app owns.
// The id is the auth service's user id.
type User struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email             string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Username          *string    `gorm:"uniqueIndex;column:username" json:"username,omitempty"`
	FullName          string     `gorm:"column:full_name" json:"full_name"`
	Avatar            string     `gorm:"column:avatar" json:"avatar"`
	Provider          string     `gorm:"column:provider" json:"provider"`
	RecoveryStartDate *time.Time `gorm:"column:recovery_start_date" json:"recovery_start_date,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// RecoveryDays counts whole days since the recovery start date, or nil when unset.
func (u *User) RecoveryDays(now time.Time) *int {
	if u == nil || u.RecoveryStartDate == nil {
		return nil
	}
	days := int(now.Sub(*u.RecoveryStartDate).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return &days
}

// Summary is the public slice of a user embedded in other records.
type Summary struct {
	ID       uuid.UUID `json:"id"`
	Username *string   `json:"username,omitempty"`
	FullName string    `json:"full_name"`
	Avatar   string    `json:"avatar"`
}

func (u *User) Summary() *Summary {
	if u == nil {
		return nil
	}
	return &Summary{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}
