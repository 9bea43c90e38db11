package repositories

import (
	"errors"
	"time"

	"lancehub_backend/internal/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	// User operations
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	Create(db *gorm.DB, user *models.User) error
	Update(db *gorm.DB, user *models.User) error
	VerifyUser(db *gorm.DB, userID string) error
	Delete(db *gorm.DB, userID string) error
	FindByRole(db *gorm.DB, role models.UserRole, limit, offset int) ([]models.User, error)
	CountByRole(db *gorm.DB, role models.UserRole) (int64, error)
	FindByIDs(db *gorm.DB, ids []string) ([]models.User, error)

	// Bookmark / applied-jobs denormalization
	SetBookmarkedJobs(db *gorm.DB, userID string, jobIDs pq.StringArray) error
	SetAppliedJobs(db *gorm.DB, userID string, jobIDs pq.StringArray) error

	// Profile operations
	FindFreelancerProfile(db *gorm.DB, userID string) (*models.FreelancerProfile, error)
	SaveFreelancerProfile(db *gorm.DB, profile *models.FreelancerProfile) error
	FindClientProfile(db *gorm.DB, userID string) (*models.ClientProfile, error)
	SaveClientProfile(db *gorm.DB, profile *models.ClientProfile) error

	// RefreshToken operations
	CreateRefreshToken(db *gorm.DB, token *models.RefreshToken) error
	FindRefreshToken(db *gorm.DB, token string) (*models.RefreshToken, error)
	DeleteRefreshToken(db *gorm.DB, token string) error
	DeleteUserRefreshTokens(db *gorm.DB, userID string) error
	CleanExpiredRefreshTokens(db *gorm.DB) error

	// Token lookups
	FindByVerificationToken(db *gorm.DB, token string) (*models.User, error)
	FindByResetToken(db *gorm.DB, token string) (*models.User, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.Preload("FreelancerProfile").Preload("ClientProfile").First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	err := db.Create(user).Error
	if err != nil && isUniqueViolation(err) {
		return ErrUserAlreadyExists
	}
	return err
}

func (r *UserRepositoryImpl) Update(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

func (r *UserRepositoryImpl) VerifyUser(db *gorm.DB, userID string) error {
	return db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"is_verified":        true,
		"verification_token": "",
		"status":             models.UserStatusActive,
	}).Error
}

func (r *UserRepositoryImpl) Delete(db *gorm.DB, userID string) error {
	return db.Delete(&models.User{}, "id = ?", userID).Error
}

func (r *UserRepositoryImpl) FindByRole(db *gorm.DB, role models.UserRole, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := db.Preload("FreelancerProfile").Preload("ClientProfile").
		Where("role = ? AND status = ?", role, models.UserStatusActive).
		Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) CountByRole(db *gorm.DB, role models.UserRole) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).
		Where("role = ? AND status = ?", role, models.UserStatusActive).
		Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) FindByIDs(db *gorm.DB, ids []string) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) SetBookmarkedJobs(db *gorm.DB, userID string, jobIDs pq.StringArray) error {
	return db.Model(&models.User{}).Where("id = ?", userID).Update("bookmarked_jobs", jobIDs).Error
}

func (r *UserRepositoryImpl) SetAppliedJobs(db *gorm.DB, userID string, jobIDs pq.StringArray) error {
	return db.Model(&models.User{}).Where("id = ?", userID).Update("applied_jobs", jobIDs).Error
}

func (r *UserRepositoryImpl) FindFreelancerProfile(db *gorm.DB, userID string) (*models.FreelancerProfile, error) {
	var profile models.FreelancerProfile
	err := db.First(&profile, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *UserRepositoryImpl) SaveFreelancerProfile(db *gorm.DB, profile *models.FreelancerProfile) error {
	return db.Save(profile).Error
}

func (r *UserRepositoryImpl) FindClientProfile(db *gorm.DB, userID string) (*models.ClientProfile, error) {
	var profile models.ClientProfile
	err := db.First(&profile, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *UserRepositoryImpl) SaveClientProfile(db *gorm.DB, profile *models.ClientProfile) error {
	return db.Save(profile).Error
}

func (r *UserRepositoryImpl) CreateRefreshToken(db *gorm.DB, token *models.RefreshToken) error {
	return db.Create(token).Error
}

func (r *UserRepositoryImpl) FindRefreshToken(db *gorm.DB, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := db.First(&rt, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &rt, nil
}

func (r *UserRepositoryImpl) DeleteRefreshToken(db *gorm.DB, token string) error {
	return db.Delete(&models.RefreshToken{}, "token = ?", token).Error
}

func (r *UserRepositoryImpl) DeleteUserRefreshTokens(db *gorm.DB, userID string) error {
	return db.Delete(&models.RefreshToken{}, "user_id = ?", userID).Error
}

func (r *UserRepositoryImpl) CleanExpiredRefreshTokens(db *gorm.DB) error {
	return db.Delete(&models.RefreshToken{}, "expires_at < ?", time.Now()).Error
}

func (r *UserRepositoryImpl) FindByVerificationToken(db *gorm.DB, token string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "verification_token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByResetToken(db *gorm.DB, token string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "reset_token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
