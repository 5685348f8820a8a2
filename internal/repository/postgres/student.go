package postgres

import (
	"context"
	"database/sql"
	"errors"

	"campusride/internal/domain"
	"campusride/internal/repository"
)

// StudentRepository reads the students table maintained by the auth
// service. Implements repository.StudentRepository.
type StudentRepository struct {
	db *sql.DB
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db *sql.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, email, COALESCE(name, ''), COALESCE(registration_no, ''), COALESCE(phone, ''), created_at`

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves a student by email address.
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *StudentRepository) getOne(ctx context.Context, query string, arg any) (*domain.Student, error) {
	var student domain.Student
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&student.ID,
		&student.Email,
		&student.Name,
		&student.RegistrationNo,
		&student.Phone,
		&student.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}
