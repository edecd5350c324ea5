package chat

import "time"

// Message is append-only. Ordering is created_at ascending with id as
// tiebreak. ReadAt is set at most once; marking an already-read message
// is a no-op.
type Message struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ConversationID string `gorm:"index;not null"`
	SenderID       string `gorm:"index;not null"`
	Content        string `gorm:"type:text;not null"`
	ReadAt         *time.Time
	CreatedAt      time.Time
}

func (Message) TableName() string {
	return "chat.messages"
}
