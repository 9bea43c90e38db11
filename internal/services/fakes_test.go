package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"lancehub_backend/internal/models"
	"lancehub_backend/internal/models/chat"
	"lancehub_backend/internal/repositories"
	"lancehub_backend/internal/services/dto"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

// Фейки репозиториев для юнит-тестов сервисов. Встраивание интерфейса
// позволяет реализовать только те методы, которые нужны конкретному тесту.

// newTestDB возвращает *gorm.DB с фиктивным пулом соединений:
// Begin/Commit/Rollback отрабатывают, но SQL никогда не выполняется -
// все обращения к данным перехватывают фейки репозиториев.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{ConnPool: &fakeConnPool{}})
	require.NoError(t, err)
	return db
}

type fakeConnPool struct{}

func (*fakeConnPool) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, nil
}

func (*fakeConnPool) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (*fakeConnPool) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (*fakeConnPool) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (*fakeConnPool) BeginTx(ctx context.Context, opts *sql.TxOptions) (gorm.ConnPool, error) {
	return &fakeTx{}, nil
}

type fakeTx struct{ fakeConnPool }

func (*fakeTx) Commit() error   { return nil }
func (*fakeTx) Rollback() error { return nil }

type fakeJobRepo struct {
	repositories.JobRepository
	jobs     map[string]*models.Job
	openJobs []models.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*models.Job)}
}

func (f *fakeJobRepo) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	return job, nil
}

func (f *fakeJobRepo) FindOpen(db *gorm.DB) ([]models.Job, error) {
	return f.openJobs, nil
}

func (f *fakeJobRepo) FindByIDs(db *gorm.DB, ids []string) ([]models.Job, error) {
	jobs := make([]models.Job, 0, len(ids))
	for _, id := range ids {
		if job, ok := f.jobs[id]; ok {
			jobs = append(jobs, *job)
		}
	}
	return jobs, nil
}

type fakeUserRepo struct {
	repositories.UserRepository
	users         map[string]*models.User
	bookmarkCalls []pq.StringArray
	refreshTokens []*models.RefreshToken
	createErr     error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(db *gorm.DB, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user%d", len(f.users)+1)
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) SaveFreelancerProfile(db *gorm.DB, profile *models.FreelancerProfile) error {
	return nil
}

func (f *fakeUserRepo) SaveClientProfile(db *gorm.DB, profile *models.ClientProfile) error {
	return nil
}

func (f *fakeUserRepo) FindByID(db *gorm.DB, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByIDs(db *gorm.DB, ids []string) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) CreateRefreshToken(db *gorm.DB, token *models.RefreshToken) error {
	f.refreshTokens = append(f.refreshTokens, token)
	return nil
}

func (f *fakeUserRepo) SetBookmarkedJobs(db *gorm.DB, userID string, jobIDs pq.StringArray) error {
	f.bookmarkCalls = append(f.bookmarkCalls, jobIDs)
	if user, ok := f.users[userID]; ok {
		user.BookmarkedJobs = jobIDs
	}
	return nil
}

type fakeApplicationRepo struct {
	repositories.ApplicationRepository
	applications map[string]*models.Application
	createCalls  int
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{applications: make(map[string]*models.Application)}
}

func (f *fakeApplicationRepo) Create(db *gorm.DB, application *models.Application) error {
	f.createCalls++
	f.applications[application.ID] = application
	return nil
}

func (f *fakeApplicationRepo) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	application, ok := f.applications[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	return application, nil
}

func (f *fakeApplicationRepo) UpdateStatus(db *gorm.DB, applicationID string, status models.ApplicationStatus) error {
	if application, ok := f.applications[applicationID]; ok {
		application.Status = status
	}
	return nil
}

type fakeChatRepo struct {
	repositories.ChatRepository
	conversations map[string]*chat.Conversation
	messages      []chat.Message
	lastLimit     int
	unreadTotal   int64
	nextID        int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{conversations: make(map[string]*chat.Conversation)}
}

func (f *fakeChatRepo) CreateConversation(db *gorm.DB, conversation *chat.Conversation) error {
	for _, existing := range f.conversations {
		if existing.PairKey == conversation.PairKey {
			return repositories.ErrConversationExists
		}
	}
	f.nextID++
	conversation.ID = fmt.Sprintf("conv%d", f.nextID)
	conversation.CreatedAt = time.Now()
	f.conversations[conversation.ID] = conversation
	return nil
}

func (f *fakeChatRepo) FindConversationByID(db *gorm.DB, id string) (*chat.Conversation, error) {
	conversation, ok := f.conversations[id]
	if !ok {
		return nil, repositories.ErrConversationNotFound
	}
	return conversation, nil
}

func (f *fakeChatRepo) FindConversationByPairKey(db *gorm.DB, pairKey string) (*chat.Conversation, error) {
	for _, conversation := range f.conversations {
		if conversation.PairKey == pairKey {
			return conversation, nil
		}
	}
	return nil, repositories.ErrConversationNotFound
}

// AddParticipants не трогает структуру диалога: как и настоящий
// репозиторий, он только "пишет строки" - структуру наполняет сервис.
func (f *fakeChatRepo) AddParticipants(db *gorm.DB, participants []*chat.ConversationParticipant) error {
	return nil
}

func (f *fakeChatRepo) UpdateLastMessage(db *gorm.DB, conversationID, text string, at time.Time) error {
	if conversation, ok := f.conversations[conversationID]; ok {
		conversation.LastMessage = &text
		conversation.LastMessageTime = &at
	}
	return nil
}

func (f *fakeChatRepo) IncrementUnread(db *gorm.DB, conversationID, userID string) error {
	if conversation, ok := f.conversations[conversationID]; ok {
		for i := range conversation.Participants {
			if conversation.Participants[i].UserID == userID {
				conversation.Participants[i].UnreadCount++
			}
		}
	}
	return nil
}

func (f *fakeChatRepo) ResetUnread(db *gorm.DB, conversationID, userID string, at time.Time) error {
	if conversation, ok := f.conversations[conversationID]; ok {
		for i := range conversation.Participants {
			if conversation.Participants[i].UserID == userID {
				conversation.Participants[i].UnreadCount = 0
				conversation.Participants[i].LastReadAt = &at
			}
		}
	}
	return nil
}

func (f *fakeChatRepo) CreateMessage(db *gorm.DB, message *chat.Message) error {
	f.nextID++
	message.ID = fmt.Sprintf("msg%d", f.nextID)
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	f.messages = append(f.messages, *message)
	return nil
}

func (f *fakeChatRepo) MarkMessagesAsRead(db *gorm.DB, conversationID, readerID string) (int64, error) {
	var marked int64
	for i := range f.messages {
		message := &f.messages[i]
		if message.ConversationID == conversationID && message.SenderID != readerID && !message.Read {
			message.Read = true
			marked++
		}
	}
	return marked, nil
}

func (f *fakeChatRepo) CountUnread(db *gorm.DB, userID string) (int64, error) {
	return f.unreadTotal, nil
}

func (f *fakeChatRepo) FindUserConversations(db *gorm.DB, userID string) ([]chat.Conversation, error) {
	result := make([]chat.Conversation, 0, len(f.conversations))
	for _, conversation := range f.conversations {
		for _, p := range conversation.Participants {
			if p.UserID == userID {
				result = append(result, *conversation)
				break
			}
		}
	}
	return result, nil
}

func (f *fakeChatRepo) FindRecentMessages(db *gorm.DB, conversationID string, limit int) ([]chat.Message, error) {
	f.lastLimit = limit
	return f.messages, nil
}

type fakeNotificationService struct {
	NotificationService
	newApplicationCalls int
	newMessageCalls     int
}

func (f *fakeNotificationService) NotifyNewApplication(db *gorm.DB, job *models.Job, application *models.Application) error {
	f.newApplicationCalls++
	return nil
}

func (f *fakeNotificationService) NotifyNewMessage(db *gorm.DB, recipientID, conversationID, senderName string) error {
	f.newMessageCalls++
	return nil
}

type recordedEvent struct {
	kind           string
	participantIDs []string
	conversationID string
}

type fakeChatEvents struct {
	events []recordedEvent
}

func (f *fakeChatEvents) MessageSent(participantIDs []string, message *dto.MessageResponse) {
	f.events = append(f.events, recordedEvent{kind: "message", participantIDs: participantIDs})
}

func (f *fakeChatEvents) ConversationRead(participantIDs []string, conversationID, readerID string) {
	f.events = append(f.events, recordedEvent{
		kind:           "read",
		participantIDs: participantIDs,
		conversationID: conversationID,
	})
}

func newTestJob(id, clientID, title, description, category string, skills []string) models.Job {
	encoded, _ := encodeSkills(skills)
	return models.Job{
		BaseModel:   models.BaseModel{ID: id, CreatedAt: time.Now()},
		ClientID:    clientID,
		Title:       title,
		Description: description,
		Category:    category,
		Skills:      encoded,
		Status:      models.JobStatusOpen,
	}
}
