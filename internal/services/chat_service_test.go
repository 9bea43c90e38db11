package services

import (
	"testing"
	"time"

	"lancehub_backend/internal/models"
	"lancehub_backend/internal/models/chat"
	"lancehub_backend/internal/services/dto"
	"lancehub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatFixture(messageWindow int) (*fakeChatRepo, *fakeUserRepo, ChatService) {
	env := newChatEnv(messageWindow)
	return env.chatRepo, env.userRepo, env.service
}

// chatTestEnv дает тестам доступ ко всем зависимостям сервиса чата.
type chatTestEnv struct {
	chatRepo      *fakeChatRepo
	userRepo      *fakeUserRepo
	jobRepo       *fakeJobRepo
	notifications *fakeNotificationService
	events        *fakeChatEvents
	service       ChatService
}

func newChatEnv(messageWindow int) *chatTestEnv {
	env := &chatTestEnv{
		chatRepo:      newFakeChatRepo(),
		userRepo:      newFakeUserRepo(),
		jobRepo:       newFakeJobRepo(),
		notifications: &fakeNotificationService{},
		events:        &fakeChatEvents{},
	}
	env.service = NewChatService(env.chatRepo, env.userRepo, env.jobRepo, env.notifications, env.events, messageWindow)
	return env
}

func participantOf(conversation *chat.Conversation, userID string) *chat.ConversationParticipant {
	for i := range conversation.Participants {
		if conversation.Participants[i].UserID == userID {
			return &conversation.Participants[i]
		}
	}
	return nil
}

func conversationWith(id string, participants ...chat.ConversationParticipant) *chat.Conversation {
	return &chat.Conversation{
		ID:           id,
		PairKey:      "key-" + id,
		CreatedAt:    time.Now(),
		Participants: participants,
	}
}

// Повторное открытие диалога с той же парой участников попадает
// в тот же диалог - ключ пары детерминирован.
func TestGetOrCreateConversation_SecondCallReturnsExisting(t *testing.T) {
	t.Parallel()

	env := newChatEnv(0)
	env.userRepo.users["u1"] = &models.User{BaseModel: models.BaseModel{ID: "u1"}, Name: "One"}
	env.userRepo.users["u2"] = &models.User{BaseModel: models.BaseModel{ID: "u2"}, Name: "Two"}
	db := newTestDB(t)

	first, err := env.service.GetOrCreateConversation(db, "u1", &dto.OpenConversationRequest{ParticipantID: "u2"})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	assert.Equal(t, "u2", first.Peer.ID)

	second, err := env.service.GetOrCreateConversation(db, "u1", &dto.OpenConversationRequest{ParticipantID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, env.chatRepo.conversations, 1)

	conversation := env.chatRepo.conversations[first.ID]
	require.NotNil(t, conversation)
	require.Len(t, conversation.Participants, 2)
	assert.NotNil(t, participantOf(conversation, "u1"))
	assert.NotNil(t, participantOf(conversation, "u2"))
}

// Диалог, открытый из карточки вакансии, живет отдельно от прямого
// диалога той же пары.
func TestGetOrCreateConversation_JobScopedIsSeparate(t *testing.T) {
	t.Parallel()

	env := newChatEnv(0)
	env.userRepo.users["u1"] = &models.User{BaseModel: models.BaseModel{ID: "u1"}, Name: "One"}
	env.userRepo.users["u2"] = &models.User{BaseModel: models.BaseModel{ID: "u2"}, Name: "Two"}
	job := newTestJob("j1", "u2", "Site", "Landing page", "development", []string{"React"})
	env.jobRepo.jobs["j1"] = &job
	db := newTestDB(t)

	direct, err := env.service.GetOrCreateConversation(db, "u1", &dto.OpenConversationRequest{ParticipantID: "u2"})
	require.NoError(t, err)

	jobID := "j1"
	scoped, err := env.service.GetOrCreateConversation(db, "u1", &dto.OpenConversationRequest{ParticipantID: "u2", JobID: &jobID})
	require.NoError(t, err)

	assert.NotEqual(t, direct.ID, scoped.ID)
	assert.Len(t, env.chatRepo.conversations, 2)
}

func TestGetOrCreateConversation_SelfConversation(t *testing.T) {
	t.Parallel()

	_, _, service := newChatFixture(0)

	_, err := service.GetOrCreateConversation(nil, "u1", &dto.OpenConversationRequest{ParticipantID: "u1"})
	assert.ErrorIs(t, err, apperrors.ErrSelfConversation)
}

func TestGetOrCreateConversation_PeerNotFound(t *testing.T) {
	t.Parallel()

	_, _, service := newChatFixture(0)

	_, err := service.GetOrCreateConversation(nil, "u1", &dto.OpenConversationRequest{ParticipantID: "missing"})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

// Отправитель и читатель обязаны быть участниками диалога -
// проверка на сервисной границе, до любых записей.
func TestGetMessages_NotParticipant(t *testing.T) {
	t.Parallel()

	chatRepo, _, service := newChatFixture(0)
	chatRepo.conversations["conv1"] = conversationWith("conv1",
		chat.ConversationParticipant{ConversationID: "conv1", UserID: "u1"},
		chat.ConversationParticipant{ConversationID: "conv1", UserID: "u2"},
	)

	_, err := service.GetMessages(nil, "intruder", "conv1")
	assert.ErrorIs(t, err, apperrors.ErrConversationAccessDenied)
}

func TestGetMessages_ConversationNotFound(t *testing.T) {
	t.Parallel()

	_, _, service := newChatFixture(0)

	_, err := service.GetMessages(nil, "u1", "missing")
	assert.ErrorIs(t, err, apperrors.ErrConversationNotFound)
}

func TestGetMessages_UsesConfiguredWindow(t *testing.T) {
	t.Parallel()

	chatRepo, _, service := newChatFixture(25)
	chatRepo.conversations["conv1"] = conversationWith("conv1",
		chat.ConversationParticipant{ConversationID: "conv1", UserID: "u1"},
	)
	chatRepo.messages = []chat.Message{
		{ID: "m1", ConversationID: "conv1", SenderID: "u1", Text: "first"},
		{ID: "m2", ConversationID: "conv1", SenderID: "u1", Text: "second"},
	}

	resp, err := service.GetMessages(nil, "u1", "conv1")
	require.NoError(t, err)
	assert.Equal(t, 25, chatRepo.lastLimit)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "first", resp.Messages[0].Text)
	assert.Equal(t, "second", resp.Messages[1].Text)
}

func TestGetMessages_DefaultWindow(t *testing.T) {
	t.Parallel()

	chatRepo, _, service := newChatFixture(0) // ноль заменяется дефолтным окном
	chatRepo.conversations["conv1"] = conversationWith("conv1",
		chat.ConversationParticipant{ConversationID: "conv1", UserID: "u1"},
	)

	_, err := service.GetMessages(nil, "u1", "conv1")
	require.NoError(t, err)
	assert.Equal(t, 50, chatRepo.lastLimit)
}

func TestSendMessage_IncrementsOnlyPeerUnread(t *testing.T) {
	t.Parallel()

	env := newChatEnv(0)
	env.chatRepo.conversations["conv1"] = conversationWith("conv1",
		chat.ConversationParticipant{ConversationID: "conv1", UserID: "u1"},
		chat.ConversationParticipant{ConversationID: "conv1", UserID: "u2"},
	)
	env.userRepo.users["u1"] = &models.User{BaseModel: models.BaseModel{ID: "u1"}, Name: "Sender"}

	resp, err := env.service.SendMessage(newTestDB(t), "u1", "conv1", &dto.SendMessageRequest{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.SenderID)
	assert.Equal(t, "hello", resp.Text)
	assert.Equal(t, "text", resp.Type)
	assert.False(t, resp.Read)

	require.Len(t, env.chatRepo.messages, 1)
	assert.False(t, env.chatRepo.messages[0].Read)

	// Счетчик растет только у собеседника
	conversation := env.chatRepo.conversations["conv1"]
	assert.Equal(t, 0, participantOf(conversation, "u1").UnreadCount)
	assert.Equal(t, 1, participantOf(conversation, "u2").UnreadCount)

	// Сводка диалога обновлена
	require.NotNil(t, conversation.LastMessage)
	assert.Equal(t, "hello", *conversation.LastMessage)
	assert.NotNil(t, conversation.LastMessageTime)

	// Событие уходит обоим участникам, уведомление - только собеседнику
	require.Len(t, env.events.events, 1)
	assert.Equal(t, "message", env.events.events[0].kind)
	assert.ElementsMatch(t, []string{"u1", "u2"}, env.events.events[0].participantIDs)
	assert.Equal(t, 1, env.notifications.newMessageCalls)
}

func TestSendMessage_EmptyAfterTrim(t *testing.T) {
	t.Parallel()

	env := newChatEnv(0)

	_, err := env.service.SendMessage(nil, "u1", "conv1", &dto.SendMessageRequest{Text: " \n\t "})
	assert.ErrorIs(t, err, apperrors.ErrEmptyMessage)
	assert.Empty(t, env.chatRepo.messages)
}

func TestSendMessage_UnsupportedType(t *testing.T) {
	t.Parallel()

	env := newChatEnv(0)

	_, err := env.service.SendMessage(nil, "u1", "conv1", &dto.SendMessageRequest{Text: "hi", Type: "voice"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidMessageType)
	assert.Empty(t, env.chatRepo.messages)
}

func TestSendMessage_NotParticipant(t *testing.T) {
	t.Parallel()

	env := newChatEnv(0)
	env.chatRepo.conversations["conv1"] = conversationWith("conv1",
		chat.ConversationParticipant{ConversationID: "conv1", UserID: "u2"},
		chat.ConversationParticipant{ConversationID: "conv1", UserID: "u3"},
	)

	_, err := env.service.SendMessage(nil, "u1", "conv1", &dto.SendMessageRequest{Text: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrConversationAccessDenied)
	assert.Empty(t, env.chatRepo.messages)
}

func TestMarkMessagesAsRead_ZeroesCounterAndFlags(t *testing.T) {
	t.Parallel()

	env := newChatEnv(0)
	env.chatRepo.conversations["conv1"] = conversationWith("conv1",
		chat.ConversationParticipant{ConversationID: "conv1", UserID: "u1", UnreadCount: 2},
		chat.ConversationParticipant{ConversationID: "conv1", UserID: "u2"},
	)
	env.chatRepo.messages = []chat.Message{
		{ID: "m1", ConversationID: "conv1", SenderID: "u2", Text: "one"},
		{ID: "m2", ConversationID: "conv1", SenderID: "u2", Text: "two"},
		{ID: "m3", ConversationID: "conv1", SenderID: "u1", Text: "mine"},
	}
	db := newTestDB(t)

	resp, err := env.service.MarkMessagesAsRead(db, "u1", "conv1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.MarkedCount)

	conversation := env.chatRepo.conversations["conv1"]
	reader := participantOf(conversation, "u1")
	assert.Equal(t, 0, reader.UnreadCount)
	assert.NotNil(t, reader.LastReadAt)
	assert.True(t, env.chatRepo.messages[0].Read)
	assert.True(t, env.chatRepo.messages[1].Read)
	// Собственные сообщения читатель не помечает
	assert.False(t, env.chatRepo.messages[2].Read)

	require.Len(t, env.events.events, 1)
	assert.Equal(t, "read", env.events.events[0].kind)
	assert.Equal(t, "conv1", env.events.events[0].conversationID)

	// Повторный вызов без новых сообщений - no-op
	resp, err = env.service.MarkMessagesAsRead(db, "u1", "conv1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.MarkedCount)
	assert.Equal(t, 0, participantOf(conversation, "u1").UnreadCount)
}

func TestGetUnreadCount(t *testing.T) {
	t.Parallel()

	env := newChatEnv(0)
	env.chatRepo.unreadTotal = 7

	resp, err := env.service.GetUnreadCount(nil, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.TotalUnread)
}

func TestGetUserConversations_UnreadTotals(t *testing.T) {
	t.Parallel()

	chatRepo, userRepo, service := newChatFixture(0)
	chatRepo.conversations["conv1"] = conversationWith("conv1",
		chat.ConversationParticipant{ConversationID: "conv1", UserID: "u1", UnreadCount: 3},
		chat.ConversationParticipant{ConversationID: "conv1", UserID: "u2"},
	)
	chatRepo.conversations["conv2"] = conversationWith("conv2",
		chat.ConversationParticipant{ConversationID: "conv2", UserID: "u1", UnreadCount: 2},
		chat.ConversationParticipant{ConversationID: "conv2", UserID: "u3"},
	)
	userRepo.users["u2"] = &models.User{BaseModel: models.BaseModel{ID: "u2"}, Name: "Peer Two"}
	userRepo.users["u3"] = &models.User{BaseModel: models.BaseModel{ID: "u3"}, Name: "Peer Three"}

	resp, err := service.GetUserConversations(nil, "u1")
	require.NoError(t, err)
	require.Len(t, resp.Conversations, 2)
	assert.Equal(t, int64(5), resp.TotalUnread)

	for _, conversation := range resp.Conversations {
		assert.NotEmpty(t, conversation.Peer.ID)
		assert.NotEqual(t, "u1", conversation.Peer.ID)
	}
}
