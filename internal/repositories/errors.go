package repositories

import (
	"errors"

	"github.com/lib/pq"
)

// isUniqueViolation проверяет нарушение уникального индекса Postgres (23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
