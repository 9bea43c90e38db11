package services

import (
	"encoding/json"
	"slices"

	"lancehub_backend/internal/models"
	"lancehub_backend/internal/repositories"
	"lancehub_backend/internal/services/dto"
	"lancehub_backend/pkg/apperrors"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const freelancersPageSize = 20

type UserService interface {
	GetProfile(db *gorm.DB, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	UpdateAvatar(db *gorm.DB, userID, avatarURL string) error

	ListFreelancers(db *gorm.DB, page int) (*dto.FreelancerListResponse, error)
	GetFreelancer(db *gorm.DB, freelancerID string) (*dto.FreelancerDetail, error)

	ToggleBookmark(db *gorm.DB, userID, jobID string) (*dto.BookmarkResponse, error)
	GetBookmarkedJobs(db *gorm.DB, userID string) ([]dto.JobResponse, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
	jobRepo  repositories.JobRepository
}

func NewUserService(userRepo repositories.UserRepository, jobRepo repositories.JobRepository) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
		jobRepo:  jobRepo,
	}
}

// GetProfile - собственный профиль пользователя
func (s *UserServiceImpl) GetProfile(db *gorm.DB, userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound("user", userID)
		}
		return nil, apperrors.InternalError(err)
	}
	return buildProfileResponse(user), nil
}

// UpdateProfile - частичное редактирование профиля.
// nil-поля запроса не трогаются; сохранение идет одной транзакцией.
func (s *UserServiceImpl) UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound("user", userID)
		}
		return nil, apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if req.Name != nil {
		user.Name = *req.Name
		if err := s.userRepo.Update(tx, user); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	switch user.Role {
	case models.UserRoleFreelancer:
		profile := user.FreelancerProfile
		if profile == nil {
			profile = &models.FreelancerProfile{UserID: user.ID}
		}
		if req.Title != nil {
			profile.Title = *req.Title
		}
		if req.Bio != nil {
			profile.Bio = *req.Bio
		}
		if req.Skills != nil {
			raw, err := json.Marshal(req.Skills)
			if err != nil {
				return nil, apperrors.InternalError(err)
			}
			profile.Skills = datatypes.JSON(raw)
		}
		if req.HourlyRate != nil {
			profile.HourlyRate = req.HourlyRate
		}
		if req.Location != nil {
			profile.Location = *req.Location
		}
		if err := s.userRepo.SaveFreelancerProfile(tx, profile); err != nil {
			return nil, apperrors.InternalError(err)
		}
		user.FreelancerProfile = profile

	case models.UserRoleClient:
		profile := user.ClientProfile
		if profile == nil {
			profile = &models.ClientProfile{UserID: user.ID}
		}
		if req.CompanyName != nil {
			profile.CompanyName = *req.CompanyName
		}
		if req.Website != nil {
			profile.Website = req.Website
		}
		if req.Location != nil {
			profile.Location = *req.Location
		}
		if req.About != nil {
			profile.About = *req.About
		}
		if err := s.userRepo.SaveClientProfile(tx, profile); err != nil {
			return nil, apperrors.InternalError(err)
		}
		user.ClientProfile = profile
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	return buildProfileResponse(user), nil
}

// UpdateAvatar - сохранить URL загруженного аватара
func (s *UserServiceImpl) UpdateAvatar(db *gorm.DB, userID, avatarURL string) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	user.AvatarURL = &avatarURL
	if err := s.userRepo.Update(db, user); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// ListFreelancers - каталог фрилансеров, новые первыми
func (s *UserServiceImpl) ListFreelancers(db *gorm.DB, page int) (*dto.FreelancerListResponse, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * freelancersPageSize

	users, err := s.userRepo.FindByRole(db, models.UserRoleFreelancer, freelancersPageSize, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	total, err := s.userRepo.CountByRole(db, models.UserRoleFreelancer)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	cards := make([]dto.FreelancerCard, 0, len(users))
	for i := range users {
		cards = append(cards, buildFreelancerCard(&users[i]))
	}

	return &dto.FreelancerListResponse{
		Freelancers: cards,
		Total:       total,
		Page:        page,
		PageSize:    freelancersPageSize,
	}, nil
}

// GetFreelancer - публичный профиль фрилансера
func (s *UserServiceImpl) GetFreelancer(db *gorm.DB, freelancerID string) (*dto.FreelancerDetail, error) {
	user, err := s.userRepo.FindByID(db, freelancerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound("freelancer", freelancerID)
		}
		return nil, apperrors.InternalError(err)
	}
	if user.Role != models.UserRoleFreelancer {
		return nil, apperrors.ErrNotFound("freelancer", freelancerID)
	}

	detail := &dto.FreelancerDetail{
		FreelancerCard: buildFreelancerCard(user),
		JoinedAt:       user.CreatedAt,
	}
	if user.FreelancerProfile != nil {
		detail.Bio = user.FreelancerProfile.Bio
	}
	return detail, nil
}

// ToggleBookmark - переключение закладки вакансии.
// Повторный вызов снимает закладку; операция идемпотентна по паре (user, job, направление).
func (s *UserServiceImpl) ToggleBookmark(db *gorm.DB, userID, jobID string) (*dto.BookmarkResponse, error) {
	if _, err := s.jobRepo.FindByID(db, jobID); err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound("job", jobID)
		}
		return nil, apperrors.InternalError(err)
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	bookmarks := []string(user.BookmarkedJobs)
	idx := slices.Index(bookmarks, jobID)
	bookmarked := idx < 0
	if bookmarked {
		bookmarks = append(bookmarks, jobID)
	} else {
		bookmarks = slices.Delete(bookmarks, idx, idx+1)
	}

	if err := s.userRepo.SetBookmarkedJobs(db, userID, pq.StringArray(bookmarks)); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.BookmarkResponse{
		JobID:      jobID,
		Bookmarked: bookmarked,
		Bookmarks:  bookmarks,
	}, nil
}

// GetBookmarkedJobs - сохраненные вакансии пользователя
func (s *UserServiceImpl) GetBookmarkedJobs(db *gorm.DB, userID string) ([]dto.JobResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	jobs, err := s.jobRepo.FindByIDs(db, []string(user.BookmarkedJobs))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, toJobResponse(&jobs[i]))
	}
	return responses, nil
}

func buildProfileResponse(user *models.User) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{
		User:           toUserDTO(user),
		BookmarkedJobs: stringSlice(user.BookmarkedJobs),
		AppliedJobs:    stringSlice(user.AppliedJobs),
	}
	if user.FreelancerProfile != nil {
		p := user.FreelancerProfile
		resp.Title = p.Title
		resp.Bio = p.Bio
		resp.Skills = decodeSkills(p.Skills)
		resp.HourlyRate = p.HourlyRate
		resp.Location = p.Location
	}
	if user.ClientProfile != nil {
		p := user.ClientProfile
		resp.CompanyName = p.CompanyName
		resp.Website = p.Website
		resp.About = p.About
		if resp.Location == "" {
			resp.Location = p.Location
		}
	}
	return resp
}

func buildFreelancerCard(user *models.User) dto.FreelancerCard {
	card := dto.FreelancerCard{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Skills:    []string{},
	}
	if user.FreelancerProfile != nil {
		p := user.FreelancerProfile
		card.Title = p.Title
		card.Skills = decodeSkills(p.Skills)
		card.HourlyRate = p.HourlyRate
		card.Location = p.Location
	}
	return card
}

// decodeSkills разбирает jsonb-массив навыков; мусор в колонке дает пустой список.
func decodeSkills(raw datatypes.JSON) []string {
	skills := []string{}
	if len(raw) == 0 {
		return skills
	}
	_ = json.Unmarshal(raw, &skills)
	return skills
}

func stringSlice(arr pq.StringArray) []string {
	if arr == nil {
		return []string{}
	}
	return []string(arr)
}
