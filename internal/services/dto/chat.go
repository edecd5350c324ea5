package dto

import (
	"time"

	"ecowork_backend/internal/models/chat"
)

// CounterpartID is the other side of the thread: the professional when
// a client starts it, the client when a professional does.
type StartConversationRequest struct {
	CounterpartID string  `json:"counterpart_id" validate:"required,uuid"`
	ProjectID     *string `json:"project_id,omitempty" validate:"omitempty,uuid"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

type ConversationResponse struct {
	ID             string     `json:"id"`
	ClientID       string     `json:"client_id"`
	ProfessionalID string     `json:"professional_id"`
	ProjectID      *string    `json:"project_id,omitempty"`
	LastMessageAt  *time.Time `json:"last_message_at,omitempty"`
	UnreadCount    int64      `json:"unread_count"`
	CreatedAt      time.Time  `json:"created_at"`
}

type MessageResponse struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	SenderID       string     `json:"sender_id"`
	Content        string     `json:"content"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type MessageListResponse struct {
	Messages []MessageResponse `json:"messages"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type MarkReadResponse struct {
	Marked int64 `json:"marked"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

func ToConversationResponse(c *chat.Conversation, unread int64) ConversationResponse {
	return ConversationResponse{
		ID:             c.ID,
		ClientID:       c.ClientID,
		ProfessionalID: c.ProfessionalID,
		ProjectID:      c.ProjectID,
		LastMessageAt:  c.LastMessageAt,
		UnreadCount:    unread,
		CreatedAt:      c.CreatedAt,
	}
}

func ToMessageResponse(m *chat.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		ReadAt:         m.ReadAt,
		CreatedAt:      m.CreatedAt,
	}
}

func ToMessageListResponse(messages []chat.Message, total int64, page, pageSize int) MessageListResponse {
	items := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, ToMessageResponse(&messages[i]))
	}
	return MessageListResponse{Messages: items, Total: total, Page: page, PageSize: pageSize}
}
