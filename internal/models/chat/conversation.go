package chat

import "time"

// Conversation is the single thread between a client and a
// professional, optionally scoped to the project that started it.
// The unique index on the pair makes getOrCreate race-safe: concurrent
// creators collide on insert and the loser re-reads the winner's row.
type Conversation struct {
	ID             string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ClientID       string  `gorm:"not null;uniqueIndex:idx_conversation_pair"`
	ProfessionalID string  `gorm:"not null;uniqueIndex:idx_conversation_pair"`
	ProjectID      *string `gorm:"index"`
	LastMessageAt  *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Messages []Message `gorm:"foreignKey:ConversationID"`
}

func (Conversation) TableName() string {
	return "chat.conversations"
}
