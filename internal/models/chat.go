package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage is one exchange with the farming assistant
type ChatMessage struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UserMessage string    `gorm:"type:text;not null" json:"user_message"`
	BotResponse string    `gorm:"type:text;not null" json:"bot_response"`
	// Source is "gemini" or "fallback"
	Source string `gorm:"size:20;not null" json:"source"`
}

// TableName returns the table name for the ChatMessage model
func (ChatMessage) TableName() string {
	return "chat_history"
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// HistoryFilter pages through history tables, newest first
type HistoryFilter struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}
