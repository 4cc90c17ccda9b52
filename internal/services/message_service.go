package services

import (
	"strings"

	"gorm.io/gorm"

	"fixrx_backend/internal/logger"
	"fixrx_backend/internal/models"
	"fixrx_backend/internal/repositories"
	"fixrx_backend/internal/services/dto"
	"fixrx_backend/internal/ws"
	"fixrx_backend/pkg/apperrors"
)

// MessageService is the append-only conversation log. Fetching a
// conversation doubles as the read-receipt action: every unread message
// addressed to the caller from that counterpart is stamped read.
type MessageService interface {
	SendMessage(db *gorm.DB, senderID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	GetConversation(db *gorm.DB, userID, otherUserID string, limit, offset int) (*dto.ConversationResponse, error)
	ListConversations(db *gorm.DB, userID string) ([]*dto.ConversationSummaryResponse, error)
	DeleteMessage(db *gorm.DB, messageID, callerID string) error
	GetUnreadCount(db *gorm.DB, userID string) (int64, error)
}

type messageService struct {
	messageRepo         repositories.MessageRepository
	userRepo            repositories.UserRepository
	connectionRepo      repositories.ConnectionRepository
	notificationService NotificationService
	events              EventPublisher
}

func NewMessageService(
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
	connectionRepo repositories.ConnectionRepository,
	notificationService NotificationService,
	events EventPublisher,
) MessageService {
	return &messageService{
		messageRepo:         messageRepo,
		userRepo:            userRepo,
		connectionRepo:      connectionRepo,
		notificationService: notificationService,
		events:              events,
	}
}

// ---------------- Operations ----------------

func (s *messageService) SendMessage(db *gorm.DB, senderID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperrors.ErrEmptyMessageContent
	}
	if senderID == req.RecipientID {
		return nil, apperrors.NewBadRequestError("Cannot message yourself")
	}

	sender, err := s.userRepo.FindByID(db, senderID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	if _, err := s.userRepo.FindByID(db, req.RecipientID); err != nil {
		return nil, apperrors.NewNotFoundError("message", "Recipient not found")
	}

	if req.ConnectionRequestID != nil {
		request, err := s.connectionRepo.FindByID(db, *req.ConnectionRequestID)
		if err != nil {
			return nil, apperrors.NewNotFoundError("message", "Connection request not found")
		}
		// The association is only valid between the request's parties.
		parties := map[string]bool{request.ConsumerID: true, request.VendorID: true}
		if !parties[senderID] || !parties[req.RecipientID] {
			return nil, apperrors.NewForbiddenError("Message parties do not match the connection request")
		}
	}

	msgType := models.MessageType(req.Type)
	if msgType == "" {
		msgType = models.MessageTypeText
	}

	message := &models.Message{
		SenderID:            senderID,
		RecipientID:         req.RecipientID,
		ConnectionRequestID: req.ConnectionRequestID,
		Content:             req.Content,
		Type:                msgType,
	}

	if err := s.messageRepo.Create(db, message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.emitNewMessage(db, message, sender)

	return buildMessageResponse(message), nil
}

func (s *messageService) GetConversation(db *gorm.DB, userID, otherUserID string, limit, offset int) (*dto.ConversationResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	messages, err := s.messageRepo.FindConversation(db, userID, otherUserID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Reading the conversation is the read receipt.
	marked, err := s.messageRepo.MarkConversationRead(db, userID, otherUserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// The repository pages newest-first; present oldest-first.
	responses := make([]*dto.MessageResponse, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		responses = append(responses, buildMessageResponse(&messages[i]))
	}

	return &dto.ConversationResponse{
		Messages:   responses,
		MarkedRead: marked,
	}, nil
}

func (s *messageService) ListConversations(db *gorm.DB, userID string) ([]*dto.ConversationSummaryResponse, error) {
	summaries, err := s.messageRepo.ListConversations(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	ids := make([]string, 0, len(summaries))
	for _, summary := range summaries {
		ids = append(ids, summary.CounterpartID)
	}
	counterparts, err := s.userRepo.FindByIDs(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	byID := make(map[string]*models.User, len(counterparts))
	for i := range counterparts {
		byID[counterparts[i].ID] = &counterparts[i]
	}

	responses := make([]*dto.ConversationSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		resp := &dto.ConversationSummaryResponse{
			LastMessage:   summary.LastMessage,
			LastMessageAt: summary.LastMessageAt,
			UnreadCount:   summary.UnreadCount,
		}
		if user, ok := byID[summary.CounterpartID]; ok {
			resp.Counterpart = buildUserInfo(user)
		} else {
			resp.Counterpart = &dto.UserInfo{ID: summary.CounterpartID}
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

func (s *messageService) DeleteMessage(db *gorm.DB, messageID, callerID string) error {
	message, err := s.messageRepo.FindByID(db, messageID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrMessageNotFound) {
			return apperrors.ErrMessageNotFound
		}
		return apperrors.InternalError(err)
	}
	if message.SenderID != callerID {
		return apperrors.ErrCannotDeleteMessage
	}

	if err := s.messageRepo.SoftDelete(db, messageID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *messageService) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	count, err := s.messageRepo.UnreadCount(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

// ---------------- Helpers ----------------

func (s *messageService) emitNewMessage(db *gorm.DB, message *models.Message, sender *models.User) {
	go func() {
		if err := s.notificationService.NotifyNewMessage(db, message.RecipientID, sender.DisplayName()); err != nil {
			logger.WithError(err).Warn("failed to notify recipient of new message", "message_id", message.ID)
		}
	}()

	s.events.Publish(ws.Event{
		Type:    ws.EventNewMessage,
		UserID:  message.RecipientID,
		Payload: buildMessageResponse(message),
	})
}

func buildMessageResponse(message *models.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		ID:                  message.ID,
		SenderID:            message.SenderID,
		RecipientID:         message.RecipientID,
		ConnectionRequestID: message.ConnectionRequestID,
		Content:             message.Content,
		Type:                string(message.Type),
		IsRead:              message.IsRead,
		ReadAt:              message.ReadAt,
		CreatedAt:           message.CreatedAt,
	}
}
