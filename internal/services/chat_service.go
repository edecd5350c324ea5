package services

import (
	"errors"
	"time"

	chatmodels "ecowork_backend/internal/models/chat"

	"ecowork_backend/internal/logger"
	"ecowork_backend/internal/models"
	"ecowork_backend/internal/repositories"
	"ecowork_backend/internal/services/dto"
	"ecowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ChatService interface {
	// StartConversation returns the existing thread for the pair when
	// there is one; otherwise it creates it. Race-safe: a concurrent
	// insert loses on the pair index and re-reads the winner.
	StartConversation(db *gorm.DB, actorID string, actorRole models.UserRole, req *dto.StartConversationRequest) (*dto.ConversationResponse, error)
	ListConversations(db *gorm.DB, userID string) ([]dto.ConversationResponse, error)
	SendMessage(db *gorm.DB, senderID, conversationID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	ListMessages(db *gorm.DB, userID, conversationID string, page, pageSize int) (*dto.MessageListResponse, error)
	MarkRead(db *gorm.DB, userID, conversationID string) (*dto.MarkReadResponse, error)
	// UnreadTotal sums unread messages across every thread of the user.
	UnreadTotal(db *gorm.DB, userID string) (*dto.UnreadCountResponse, error)
}

type chatService struct {
	chatRepo         repositories.ChatRepository
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
) ChatService {
	return &chatService{
		chatRepo:         chatRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *chatService) StartConversation(db *gorm.DB, actorID string, actorRole models.UserRole, req *dto.StartConversationRequest) (*dto.ConversationResponse, error) {
	var clientID, professionalID string
	switch actorRole {
	case models.UserRoleClient:
		clientID, professionalID = actorID, req.CounterpartID
	case models.UserRoleProfessional:
		clientID, professionalID = req.CounterpartID, actorID
	default:
		return nil, apperrors.ErrInvalidUserRole
	}
	if clientID == professionalID {
		return nil, apperrors.ErrInvalidOperation("chat", "Cannot start a conversation with yourself")
	}

	if _, err := s.userRepo.FindByID(db, req.CounterpartID); err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	conversation, err := s.chatRepo.FindConversationByPair(db, clientID, professionalID)
	if errors.Is(err, repositories.ErrConversationNotFound) {
		conversation = &chatmodels.Conversation{
			ClientID:       clientID,
			ProfessionalID: professionalID,
			ProjectID:      req.ProjectID,
		}
		err = s.chatRepo.CreateConversation(db, conversation)
		if errors.Is(err, repositories.ErrConversationAlreadyExists) {
			conversation, err = s.chatRepo.FindConversationByPair(db, clientID, professionalID)
		}
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.chatRepo.UnreadCount(db, conversation.ID, actorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToConversationResponse(conversation, unread)
	return &resp, nil
}

func (s *chatService) ListConversations(db *gorm.DB, userID string) ([]dto.ConversationResponse, error) {
	conversations, err := s.chatRepo.ListConversationsByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.ConversationResponse, 0, len(conversations))
	for i := range conversations {
		unread, err := s.chatRepo.UnreadCount(db, conversations[i].ID, userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		items = append(items, dto.ToConversationResponse(&conversations[i], unread))
	}
	return items, nil
}

func (s *chatService) SendMessage(db *gorm.DB, senderID, conversationID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	conversation, err := s.authorize(db, conversationID, senderID)
	if err != nil {
		return nil, err
	}

	message := &chatmodels.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        req.Content,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.chatRepo.CreateMessage(tx, message); err != nil {
			return apperrors.InternalError(err)
		}
		if err := s.chatRepo.TouchLastMessage(tx, conversationID, message.CreatedAt); err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	recipientID := conversation.ClientID
	if senderID == conversation.ClientID {
		recipientID = conversation.ProfessionalID
	}
	notification := &models.Notification{
		UserID: recipientID,
		Type:   models.NotificationNewMessage,
		Title:  "New message",
		Body:   "You have a new message",
	}
	if err := s.notificationRepo.Create(db, notification); err != nil {
		logger.Warn("notification write failed", "user_id", recipientID, "error", err)
	}

	resp := dto.ToMessageResponse(message)
	return &resp, nil
}

func (s *chatService) ListMessages(db *gorm.DB, userID, conversationID string, page, pageSize int) (*dto.MessageListResponse, error) {
	if _, err := s.authorize(db, conversationID, userID); err != nil {
		return nil, err
	}

	page = normalizePage(page)
	pageSize = normalizePageSize(pageSize)
	messages, total, err := s.chatRepo.ListMessages(db, conversationID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToMessageListResponse(messages, total, page, pageSize)
	return &resp, nil
}

func (s *chatService) MarkRead(db *gorm.DB, userID, conversationID string) (*dto.MarkReadResponse, error) {
	if _, err := s.authorize(db, conversationID, userID); err != nil {
		return nil, err
	}

	marked, err := s.chatRepo.MarkRead(db, conversationID, userID, time.Now())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.MarkReadResponse{Marked: marked}, nil
}

func (s *chatService) UnreadTotal(db *gorm.DB, userID string) (*dto.UnreadCountResponse, error) {
	unread, err := s.chatRepo.UnreadCountByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.UnreadCountResponse{Unread: unread}, nil
}

func (s *chatService) authorize(db *gorm.DB, conversationID, userID string) (*chatmodels.Conversation, error) {
	conversation, err := s.chatRepo.FindConversationByID(db, conversationID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if conversation.ClientID != userID && conversation.ProfessionalID != userID {
		return nil, apperrors.ErrConversationAccessDenied
	}
	return conversation, nil
}
