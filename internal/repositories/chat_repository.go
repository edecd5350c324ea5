package repositories

import (
	"errors"
	"time"

	"ecowork_backend/internal/models/chat"

	"gorm.io/gorm"
)

var (
	ErrConversationNotFound      = errors.New("conversation not found")
	ErrConversationAlreadyExists = errors.New("conversation already exists for this pair")
	ErrMessageNotFound           = errors.New("message not found")
)

type ChatRepository interface {
	CreateConversation(db *gorm.DB, conversation *chat.Conversation) error
	FindConversationByID(db *gorm.DB, id string) (*chat.Conversation, error)
	FindConversationByPair(db *gorm.DB, clientID, professionalID string) (*chat.Conversation, error)
	ListConversationsByUser(db *gorm.DB, userID string) ([]chat.Conversation, error)
	TouchLastMessage(db *gorm.DB, conversationID string, at time.Time) error

	CreateMessage(db *gorm.DB, message *chat.Message) error
	ListMessages(db *gorm.DB, conversationID string, page, pageSize int) ([]chat.Message, int64, error)
	// MarkRead stamps every unread message sent by the other party and
	// returns how many rows it touched. Re-running it is a no-op.
	MarkRead(db *gorm.DB, conversationID, readerID string, at time.Time) (int64, error)
	UnreadCount(db *gorm.DB, conversationID, readerID string) (int64, error)
	UnreadCountByUser(db *gorm.DB, userID string) (int64, error)
}

type ChatRepositoryImpl struct{}

func NewChatRepository() ChatRepository {
	return &ChatRepositoryImpl{}
}

func (r *ChatRepositoryImpl) CreateConversation(db *gorm.DB, conversation *chat.Conversation) error {
	if err := db.Create(conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConversationAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ChatRepositoryImpl) FindConversationByID(db *gorm.DB, id string) (*chat.Conversation, error) {
	var conversation chat.Conversation
	err := db.First(&conversation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *ChatRepositoryImpl) FindConversationByPair(db *gorm.DB, clientID, professionalID string) (*chat.Conversation, error) {
	var conversation chat.Conversation
	err := db.First(&conversation, "client_id = ? AND professional_id = ?", clientID, professionalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *ChatRepositoryImpl) ListConversationsByUser(db *gorm.DB, userID string) ([]chat.Conversation, error) {
	var conversations []chat.Conversation
	err := db.Where("client_id = ? OR professional_id = ?", userID, userID).
		Order("last_message_at DESC NULLS LAST, created_at DESC").
		Find(&conversations).Error
	return conversations, err
}

func (r *ChatRepositoryImpl) TouchLastMessage(db *gorm.DB, conversationID string, at time.Time) error {
	result := db.Model(&chat.Conversation{}).
		Where("id = ?", conversationID).
		Update("last_message_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

func (r *ChatRepositoryImpl) CreateMessage(db *gorm.DB, message *chat.Message) error {
	return db.Create(message).Error
}

func (r *ChatRepositoryImpl) ListMessages(db *gorm.DB, conversationID string, page, pageSize int) ([]chat.Message, int64, error) {
	query := db.Model(&chat.Message{}).Where("conversation_id = ?", conversationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []chat.Message
	err := query.
		Order("created_at ASC, id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&messages).Error
	return messages, total, err
}

func (r *ChatRepositoryImpl) MarkRead(db *gorm.DB, conversationID, readerID string, at time.Time) (int64, error) {
	result := db.Model(&chat.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
		Update("read_at", at)
	return result.RowsAffected, result.Error
}

func (r *ChatRepositoryImpl) UnreadCount(db *gorm.DB, conversationID, readerID string) (int64, error) {
	var count int64
	err := db.Model(&chat.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
		Count(&count).Error
	return count, err
}

func (r *ChatRepositoryImpl) UnreadCountByUser(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&chat.Message{}).
		Joins("JOIN chat.conversations c ON c.id = chat.messages.conversation_id").
		Where("(c.client_id = ? OR c.professional_id = ?) AND chat.messages.sender_id <> ? AND chat.messages.read_at IS NULL",
			userID, userID, userID).
		Count(&count).Error
	return count, err
}
