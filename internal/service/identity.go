package service

import (
	"context"

	"campusride/internal/domain"
	internalRedis "campusride/internal/redis"
	"campusride/internal/repository"
)

// Contact is the identity projection attached to search results,
// dashboards, and outbound emails.
type Contact struct {
	Name           string
	RegistrationNo string
	Phone          string
}

// placeholderContact stands in for an identity the store cannot
// resolve. Enrichment never fails a query.
var placeholderContact = Contact{Name: "Unknown", Phone: "N/A"}

// IdentityDirectory resolves user IDs to contact details, reading
// through the Redis cache to the students table.
type IdentityDirectory struct {
	students repository.StudentRepository
	cache    internalRedis.StudentCacheInterface
}

// NewIdentityDirectory creates a new IdentityDirectory. cache may be
// nil, in which case every lookup goes to the store.
func NewIdentityDirectory(students repository.StudentRepository, cache internalRedis.StudentCacheInterface) *IdentityDirectory {
	return &IdentityDirectory{students: students, cache: cache}
}

// Contact resolves a user ID to contact details, falling back to a
// placeholder when the identity is absent or the store errors.
func (d *IdentityDirectory) Contact(ctx context.Context, userID string) Contact {
	student := d.lookup(ctx, userID)
	if student == nil {
		return placeholderContact
	}
	return contactOf(student)
}

// Contacts resolves a set of user IDs in bulk: one pipelined cache
// round trip, then one store lookup per miss. Every requested ID is
// present in the result, unresolvable ones as the placeholder.
func (d *IdentityDirectory) Contacts(ctx context.Context, userIDs []string) map[string]Contact {
	out := make(map[string]Contact, len(userIDs))

	unique := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if id == "" {
			continue
		}
		if _, seen := out[id]; seen {
			continue
		}
		out[id] = placeholderContact
		unique = append(unique, id)
	}

	remaining := unique
	if d.cache != nil {
		if hits, missing, err := d.cache.GetStudentsBatch(ctx, unique); err == nil {
			for id, cached := range hits {
				out[id] = contactOf(&domain.Student{
					Email:          cached.Email,
					Name:           cached.Name,
					RegistrationNo: cached.RegistrationNo,
					Phone:          cached.Phone,
				})
			}
			remaining = missing
		}
	}

	for _, id := range remaining {
		out[id] = d.Contact(ctx, id)
	}

	return out
}

func contactOf(student *domain.Student) Contact {
	contact := Contact{
		Name:           student.Name,
		RegistrationNo: student.RegistrationNo,
		Phone:          student.Phone,
	}
	if contact.Name == "" {
		contact.Name = student.Email
	}
	if contact.Phone == "" {
		contact.Phone = "N/A"
	}
	return contact
}

// Email resolves a user ID to an email address. The second return is
// false when no address could be found; callers skip the side channel
// rather than fail.
func (d *IdentityDirectory) Email(ctx context.Context, userID string) (string, bool) {
	student := d.lookup(ctx, userID)
	if student == nil || student.Email == "" {
		return "", false
	}
	return student.Email, true
}

func (d *IdentityDirectory) lookup(ctx context.Context, userID string) *domain.Student {
	if userID == "" {
		return nil
	}

	if d.cache != nil {
		if cached, err := d.cache.GetStudent(ctx, userID); err == nil && cached != nil {
			return &domain.Student{
				ID:             cached.ID,
				Email:          cached.Email,
				Name:           cached.Name,
				RegistrationNo: cached.RegistrationNo,
				Phone:          cached.Phone,
			}
		}
	}

	student, err := d.students.GetByID(ctx, userID)
	if err != nil {
		return nil
	}

	if d.cache != nil {
		_ = d.cache.SetStudent(ctx, &internalRedis.CachedStudent{
			ID:             student.ID,
			Email:          student.Email,
			Name:           student.Name,
			RegistrationNo: student.RegistrationNo,
			Phone:          student.Phone,
		})
	}

	return student
}
