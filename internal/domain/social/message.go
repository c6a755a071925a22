package social

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ngooning-backend/internal/domain/user"
)

// Message is a group chat message. Rows are insert-only.
type Message struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_message_group_created;column:group_id" json:"group_id"`
	SenderID uuid.UUID  `gorm:"type:uuid;not null;column:sender_id" json:"sender_id"`
	Content  string     `gorm:"type:text;not null;column:content" json:"content"`
	Sender   *user.User `gorm:"foreignKey:SenderID" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_message_group_created" json:"created_at"`
}

func (Message) TableName() string { return "messages" }

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
