package dto

import "time"

// UpdateProfileRequest - редактирование профиля (общие поля + ролевые).
// Указатели: nil означает "поле не трогать".
type UpdateProfileRequest struct {
	Name *string `json:"name,omitempty" binding:"omitempty,min=2"`

	// Поля фрилансера
	Title      *string  `json:"title,omitempty" binding:"omitempty,max=120"`
	Bio        *string  `json:"bio,omitempty" binding:"omitempty,max=2000"`
	Skills     []string `json:"skills,omitempty" binding:"omitempty,max=30,dive,min=1,max=50"`
	HourlyRate *float64 `json:"hourly_rate,omitempty" binding:"omitempty,min=0"`
	Location   *string  `json:"location,omitempty" binding:"omitempty,max=120"`

	// Поля заказчика
	CompanyName *string `json:"company_name,omitempty" binding:"omitempty,max=120"`
	Website     *string `json:"website,omitempty" binding:"omitempty,url"`
	About       *string `json:"about,omitempty" binding:"omitempty,max=2000"`
}

// FreelancerCard - карточка фрилансера в каталоге
type FreelancerCard struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Skills     []string `json:"skills"`
	HourlyRate *float64 `json:"hourly_rate,omitempty"`
	Location   string   `json:"location"`
	AvatarURL  *string  `json:"avatar_url,omitempty"`
}

// FreelancerDetail - полный публичный профиль фрилансера
type FreelancerDetail struct {
	FreelancerCard
	Bio      string    `json:"bio"`
	JoinedAt time.Time `json:"joined_at"`
}

// FreelancerListResponse - страница каталога фрилансеров
type FreelancerListResponse struct {
	Freelancers []FreelancerCard `json:"freelancers"`
	Total       int64            `json:"total"`
	Page        int              `json:"page"`
	PageSize    int              `json:"page_size"`
}

// ProfileResponse - собственный профиль со всеми ролевыми полями
type ProfileResponse struct {
	User UserDTO `json:"user"`

	Title       string   `json:"title,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	HourlyRate  *float64 `json:"hourly_rate,omitempty"`
	Location    string   `json:"location,omitempty"`
	CompanyName string   `json:"company_name,omitempty"`
	Website     *string  `json:"website,omitempty"`
	About       string   `json:"about,omitempty"`

	BookmarkedJobs []string `json:"bookmarked_jobs"`
	AppliedJobs    []string `json:"applied_jobs"`
}

// BookmarkResponse - результат переключения закладки
type BookmarkResponse struct {
	JobID      string   `json:"job_id"`
	Bookmarked bool     `json:"bookmarked"`
	Bookmarks  []string `json:"bookmarks"`
}
