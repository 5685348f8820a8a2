package repository

import (
	"context"

	"campusride/internal/domain"
)

// StudentRepository reads identity records maintained by the external
// auth service. This service never writes them.
type StudentRepository interface {
	// GetByID retrieves a student by ID.
	GetByID(ctx context.Context, id string) (*domain.Student, error)

	// GetByEmail retrieves a student by email address.
	GetByEmail(ctx context.Context, email string) (*domain.Student, error)
}
