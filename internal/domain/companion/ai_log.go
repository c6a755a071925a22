package companion

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const InteractionChat = "CHAT"

// AILog is the append-only audit record written after a completion call.
type AILog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string         `gorm:"not null;index;column:user_id" json:"user_id"`
	Type       string         `gorm:"not null;column:type" json:"type"`
	Prompt     string         `gorm:"type:text;column:prompt" json:"prompt"`
	Response   string         `gorm:"type:text;column:response" json:"response"`
	Metadata   datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata"`
	TokensUsed int            `gorm:"not null;default:0;column:tokens_used" json:"tokens_used"`
	Cost       float64        `gorm:"not null;default:0;column:cost" json:"cost"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (AILog) TableName() string { return "ai_logs" }

func (l *AILog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
