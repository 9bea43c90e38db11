package services

import (
	"strings"
	"time"

	"lancehub_backend/internal/logger"
	"lancehub_backend/internal/models"
	chatmodels "lancehub_backend/internal/models/chat"
	"lancehub_backend/internal/repositories"
	"lancehub_backend/internal/services/dto"
	"lancehub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ChatEvents получает события чата для рассылки по живым соединениям.
// Реализуется ws-хабом; сервис о транспорте ничего не знает.
type ChatEvents interface {
	MessageSent(participantIDs []string, message *dto.MessageResponse)
	ConversationRead(participantIDs []string, conversationID, readerID string)
}

type ChatService interface {
	GetOrCreateConversation(db *gorm.DB, userID string, req *dto.OpenConversationRequest) (*dto.ConversationResponse, error)
	SendMessage(db *gorm.DB, senderID, conversationID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	GetMessages(db *gorm.DB, userID, conversationID string) (*dto.MessageListResponse, error)
	GetUserConversations(db *gorm.DB, userID string) (*dto.ConversationListResponse, error)
	MarkMessagesAsRead(db *gorm.DB, userID, conversationID string) (*dto.MarkReadResponse, error)
	GetUnreadCount(db *gorm.DB, userID string) (*dto.UnreadCountResponse, error)
}

type ChatServiceImpl struct {
	chatRepo            repositories.ChatRepository
	userRepo            repositories.UserRepository
	jobRepo             repositories.JobRepository
	notificationService NotificationService
	events              ChatEvents
	messageWindow       int
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	userRepo repositories.UserRepository,
	jobRepo repositories.JobRepository,
	notificationService NotificationService,
	events ChatEvents,
	messageWindow int,
) ChatService {
	if messageWindow <= 0 {
		messageWindow = 50
	}
	return &ChatServiceImpl{
		chatRepo:            chatRepo,
		userRepo:            userRepo,
		jobRepo:             jobRepo,
		notificationService: notificationService,
		events:              events,
		messageWindow:       messageWindow,
	}
}

// GetOrCreateConversation - открыть диалог с пользователем.
// Ключ пары детерминирован, поэтому повторный вызов с теми же
// участниками (и той же вакансией) возвращает существующий диалог.
// Поиск и создание идут в одной транзакции; гонку на создании
// разрешает уникальный индекс по pair_key.
func (s *ChatServiceImpl) GetOrCreateConversation(db *gorm.DB, userID string, req *dto.OpenConversationRequest) (*dto.ConversationResponse, error) {
	if req.ParticipantID == userID {
		return nil, apperrors.ErrSelfConversation
	}

	peer, err := s.userRepo.FindByID(db, req.ParticipantID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound("user", req.ParticipantID)
		}
		return nil, apperrors.InternalError(err)
	}

	if req.JobID != nil && *req.JobID != "" {
		if _, err := s.jobRepo.FindByID(db, *req.JobID); err != nil {
			if apperrors.Is(err, repositories.ErrJobNotFound) {
				return nil, apperrors.ErrNotFound("job", *req.JobID)
			}
			return nil, apperrors.InternalError(err)
		}
	}

	pairKey := chatmodels.PairKeyFor(userID, req.ParticipantID, req.JobID)

	conversation, err := s.findOrCreateByPairKey(db, pairKey, userID, req.ParticipantID, req.JobID)
	if err != nil {
		return nil, err
	}

	return s.buildConversationResponse(conversation, userID, peer), nil
}

func (s *ChatServiceImpl) findOrCreateByPairKey(db *gorm.DB, pairKey, userID, peerID string, jobID *string) (*chatmodels.Conversation, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	conversation, err := s.chatRepo.FindConversationByPairKey(tx, pairKey)
	if err == nil {
		return conversation, nil
	}
	if !apperrors.Is(err, repositories.ErrConversationNotFound) {
		return nil, apperrors.InternalError(err)
	}

	conversation = &chatmodels.Conversation{
		PairKey: pairKey,
		JobID:   normalizeJobID(jobID),
	}
	if err := s.chatRepo.CreateConversation(tx, conversation); err != nil {
		if apperrors.Is(err, repositories.ErrConversationExists) {
			// Гонка: диалог создали параллельно, берем готовый.
			existing, lookupErr := s.chatRepo.FindConversationByPairKey(db, pairKey)
			if lookupErr != nil {
				return nil, apperrors.InternalError(lookupErr)
			}
			return existing, nil
		}
		return nil, apperrors.InternalError(err)
	}

	participants := []*chatmodels.ConversationParticipant{
		{ConversationID: conversation.ID, UserID: userID},
		{ConversationID: conversation.ID, UserID: peerID},
	}
	if err := s.chatRepo.AddParticipants(tx, participants); err != nil {
		return nil, apperrors.InternalError(err)
	}
	for _, p := range participants {
		conversation.Participants = append(conversation.Participants, *p)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return conversation, nil
}

// SendMessage - отправка сообщения.
// Отправитель обязан быть участником диалога; проверка идет здесь,
// на сервисной границе, а не на клиенте.
func (s *ChatServiceImpl) SendMessage(db *gorm.DB, senderID, conversationID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperrors.ErrEmptyMessage
	}
	if req.Type != "" && req.Type != string(chatmodels.MessageTypeText) {
		return nil, apperrors.ErrInvalidMessageType
	}

	conversation, err := s.requireParticipant(db, conversationID, senderID)
	if err != nil {
		return nil, err
	}

	sender, err := s.userRepo.FindByID(db, senderID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	message := &chatmodels.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		SenderName:     sender.Name,
		Type:           chatmodels.MessageTypeText,
		Text:           text,
		Read:           false,
	}

	now := time.Now()

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.chatRepo.CreateMessage(tx, message); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.chatRepo.UpdateLastMessage(tx, conversationID, text, now); err != nil {
		return nil, apperrors.InternalError(err)
	}
	// Счетчик непрочитанных растет только у собеседника.
	for _, p := range conversation.Participants {
		if p.UserID == senderID {
			continue
		}
		if err := s.chatRepo.IncrementUnread(tx, conversationID, p.UserID); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	response := toMessageResponse(message)

	participantIDs := participantIDsOf(conversation)
	if s.events != nil {
		s.events.MessageSent(participantIDs, &response)
	}

	for _, p := range conversation.Participants {
		if p.UserID == senderID {
			continue
		}
		if err := s.notificationService.NotifyNewMessage(db, p.UserID, conversationID, sender.Name); err != nil {
			logger.Warn("failed to create message notification",
				"conversation_id", conversationID, "user_id", p.UserID, "error", err)
		}
	}

	return &response, nil
}

// GetMessages - окно последних сообщений диалога, старые первыми
func (s *ChatServiceImpl) GetMessages(db *gorm.DB, userID, conversationID string) (*dto.MessageListResponse, error) {
	if _, err := s.requireParticipant(db, conversationID, userID); err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.FindRecentMessages(db, conversationID, s.messageWindow)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, toMessageResponse(&messages[i]))
	}

	return &dto.MessageListResponse{
		ConversationID: conversationID,
		Messages:       responses,
	}, nil
}

// GetUserConversations - все диалоги пользователя, свежие первыми
func (s *ChatServiceImpl) GetUserConversations(db *gorm.DB, userID string) (*dto.ConversationListResponse, error) {
	conversations, err := s.chatRepo.FindUserConversations(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Собеседники одним запросом.
	peerIDs := make([]string, 0, len(conversations))
	for i := range conversations {
		for _, p := range conversations[i].Participants {
			if p.UserID != userID {
				peerIDs = append(peerIDs, p.UserID)
			}
		}
	}
	peers, err := s.userRepo.FindByIDs(db, peerIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	peersByID := make(map[string]*dto.PeerDTO, len(peers))
	for i := range peers {
		peersByID[peers[i].ID] = &dto.PeerDTO{
			ID:        peers[i].ID,
			Name:      peers[i].Name,
			AvatarURL: peers[i].AvatarURL,
		}
	}

	var totalUnread int64
	responses := make([]dto.ConversationResponse, 0, len(conversations))
	for i := range conversations {
		conversation := &conversations[i]
		resp := dto.ConversationResponse{
			ID:              conversation.ID,
			JobID:           conversation.JobID,
			LastMessage:     conversation.LastMessage,
			LastMessageTime: conversation.LastMessageTime,
			CreatedAt:       conversation.CreatedAt,
		}
		for _, p := range conversation.Participants {
			if p.UserID == userID {
				resp.UnreadCount = p.UnreadCount
				totalUnread += int64(p.UnreadCount)
			} else if peer, ok := peersByID[p.UserID]; ok {
				resp.Peer = *peer
			}
		}
		responses = append(responses, resp)
	}

	return &dto.ConversationListResponse{
		Conversations: responses,
		TotalUnread:   totalUnread,
	}, nil
}

// MarkMessagesAsRead - отметить диалог прочитанным.
// Обнуление счетчика и флаги сообщений меняются в одной транзакции.
func (s *ChatServiceImpl) MarkMessagesAsRead(db *gorm.DB, userID, conversationID string) (*dto.MarkReadResponse, error) {
	conversation, err := s.requireParticipant(db, conversationID, userID)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	marked, err := s.chatRepo.MarkMessagesAsRead(tx, conversationID, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.chatRepo.ResetUnread(tx, conversationID, userID, time.Now()); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	if s.events != nil {
		s.events.ConversationRead(participantIDsOf(conversation), conversationID, userID)
	}

	return &dto.MarkReadResponse{
		ConversationID: conversationID,
		MarkedCount:    marked,
	}, nil
}

// GetUnreadCount - суммарное число непрочитанных сообщений пользователя
// по всем его диалогам (для бейджа в шапке).
func (s *ChatServiceImpl) GetUnreadCount(db *gorm.DB, userID string) (*dto.UnreadCountResponse, error) {
	total, err := s.chatRepo.CountUnread(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.UnreadCountResponse{TotalUnread: total}, nil
}

func (s *ChatServiceImpl) requireParticipant(db *gorm.DB, conversationID, userID string) (*chatmodels.Conversation, error) {
	conversation, err := s.chatRepo.FindConversationByID(db, conversationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrConversationNotFound) {
			return nil, apperrors.ErrConversationNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	for _, p := range conversation.Participants {
		if p.UserID == userID {
			return conversation, nil
		}
	}
	return nil, apperrors.ErrConversationAccessDenied
}

func (s *ChatServiceImpl) buildConversationResponse(conversation *chatmodels.Conversation, userID string, peer *models.User) *dto.ConversationResponse {
	resp := &dto.ConversationResponse{
		ID:              conversation.ID,
		JobID:           conversation.JobID,
		LastMessage:     conversation.LastMessage,
		LastMessageTime: conversation.LastMessageTime,
		CreatedAt:       conversation.CreatedAt,
		Peer: dto.PeerDTO{
			ID:        peer.ID,
			Name:      peer.Name,
			AvatarURL: peer.AvatarURL,
		},
	}
	for _, p := range conversation.Participants {
		if p.UserID == userID {
			resp.UnreadCount = p.UnreadCount
		}
	}
	return resp
}

func participantIDsOf(conversation *chatmodels.Conversation) []string {
	ids := make([]string, 0, len(conversation.Participants))
	for _, p := range conversation.Participants {
		ids = append(ids, p.UserID)
	}
	return ids
}

func normalizeJobID(jobID *string) *string {
	if jobID == nil || *jobID == "" {
		return nil
	}
	return jobID
}

func toMessageResponse(message *chatmodels.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		SenderName:     message.SenderName,
		Type:           string(message.Type),
		Text:           message.Text,
		Read:           message.Read,
		CreatedAt:      message.CreatedAt,
	}
}
