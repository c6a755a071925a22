package social

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ngooning-backend/internal/domain/user"
)

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

type Group struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	Avatar      string    `gorm:"column:avatar" json:"avatar"`
	IsPrivate   bool      `gorm:"not null;default:false;column:is_private" json:"is_private"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null;index;column:created_by_id" json:"created_by_id"`

	// MemberCount is computed by list queries and never stored.
	MemberCount int64 `gorm:"->;-:migration;column:member_count" json:"member_count"`

	Memberships []*GroupMembership `gorm:"foreignKey:GroupID" json:"memberships,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Group) TableName() string { return "groups" }

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

type GroupMembership struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_group_member;column:group_id" json:"group_id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_group_member;index;column:user_id" json:"user_id"`
	Role     string     `gorm:"not null;default:member;column:role" json:"role"`
	JoinedAt time.Time  `gorm:"not null;autoCreateTime;column:joined_at" json:"joined_at"`
	User     *user.User `gorm:"foreignKey:UserID" json:"-"`
}

func (GroupMembership) TableName() string { return "group_memberships" }

func (m *GroupMembership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Role == "" {
		m.Role = RoleMember
	}
	return nil
}
