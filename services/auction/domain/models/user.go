package models

import (
	"strings"

	"github.com/google/uuid"
)

// User is the read-only view of an account managed outside this service.
type User struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
}

// FullName returns "First Last", trimming the separator when a part is empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
