package domain

import "time"

// Student is the identity projection used for display names, contact
// details, and email addressing. Account management lives in a separate
// auth service; this store is read-only here.
type Student struct {
	ID             string
	Email          string
	Name           string
	RegistrationNo string
	Phone          string
	CreatedAt      time.Time
}
