package services

import (
	"encoding/json"

	"lancehub_backend/internal/models"
	"lancehub_backend/internal/repositories"
	"lancehub_backend/internal/services/dto"
	"lancehub_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const notificationsPageSize = 50

const (
	NotificationTypeNewApplication = "new_application"
	NotificationTypeNewMessage     = "new_message"
)

type NotificationService interface {
	NotifyNewApplication(db *gorm.DB, job *models.Job, application *models.Application) error
	NotifyNewMessage(db *gorm.DB, recipientID, conversationID, senderName string) error

	GetNotifications(db *gorm.DB, userID string, page int) (*dto.NotificationListResponse, error)
	MarkAsRead(db *gorm.DB, userID, notificationID string) error
	MarkAllAsRead(db *gorm.DB, userID string) error
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &NotificationServiceImpl{notificationRepo: notificationRepo}
}

// NotifyNewApplication - уведомление заказчику о новом отклике
func (s *NotificationServiceImpl) NotifyNewApplication(db *gorm.DB, job *models.Job, application *models.Application) error {
	data, err := json.Marshal(map[string]string{
		"job_id":         job.ID,
		"application_id": application.ID,
		"freelancer_id":  application.FreelancerID,
	})
	if err != nil {
		return err
	}

	return s.notificationRepo.Create(db, &models.Notification{
		UserID:  job.ClientID,
		Type:    NotificationTypeNewApplication,
		Title:   "New application",
		Message: application.FreelancerName + " applied to \"" + job.Title + "\"",
		Data:    datatypes.JSON(data),
	})
}

// NotifyNewMessage - уведомление получателю о новом сообщении
func (s *NotificationServiceImpl) NotifyNewMessage(db *gorm.DB, recipientID, conversationID, senderName string) error {
	data, err := json.Marshal(map[string]string{
		"conversation_id": conversationID,
	})
	if err != nil {
		return err
	}

	return s.notificationRepo.Create(db, &models.Notification{
		UserID:  recipientID,
		Type:    NotificationTypeNewMessage,
		Title:   "New message",
		Message: "New message from " + senderName,
		Data:    datatypes.JSON(data),
	})
}

// GetNotifications - лента уведомлений пользователя
func (s *NotificationServiceImpl) GetNotifications(db *gorm.DB, userID string, page int) (*dto.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * notificationsPageSize

	notifications, err := s.notificationRepo.FindByUser(db, userID, notificationsPageSize, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	unread, err := s.notificationRepo.CountUnread(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, toNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		UnreadCount:   unread,
	}, nil
}

// MarkAsRead - отметить одно уведомление прочитанным
func (s *NotificationServiceImpl) MarkAsRead(db *gorm.DB, userID, notificationID string) error {
	if err := s.notificationRepo.MarkAsRead(db, notificationID, userID); err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound("notification", notificationID)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// MarkAllAsRead - отметить все уведомления прочитанными
func (s *NotificationServiceImpl) MarkAllAsRead(db *gorm.DB, userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(db, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func toNotificationResponse(notification *models.Notification) dto.NotificationResponse {
	resp := dto.NotificationResponse{
		ID:        notification.ID,
		Type:      notification.Type,
		Title:     notification.Title,
		Message:   notification.Message,
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt,
	}
	if len(notification.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(notification.Data, &data); err == nil {
			resp.Data = data
		}
	}
	return resp
}
