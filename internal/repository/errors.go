package repository

import (
	"errors"

	"github.com/lib/pq"
)

// IsUniqueViolation reconhece a violação de restrição única do Postgres
// (código 23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
