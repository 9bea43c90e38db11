package validator

import (
	"github.com/go-playground/validator/v10"
)

// Категории вакансий, которые понимает фронтенд.
// Пустая строка = "все категории" в фильтрах, поэтому допускается.
var jobCategories = map[string]bool{
	"web-development":    true,
	"mobile-development": true,
	"design":             true,
	"writing":            true,
	"marketing":          true,
	"data-science":       true,
	"consulting":         true,
	"other":              true,
}

// IsJobCategory сообщает, является ли значение известной категорией.
func IsJobCategory(value string) bool {
	return jobCategories[value]
}

func registerCustomRules(v *validator.Validate) error {
	return v.RegisterValidation("job_category", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return IsJobCategory(value)
	})
}
