package domain

import (
	"context"
	"time"
)

// User represents a registered user of the application.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	DueDate      *Date
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal returns the identity this user acts as once authenticated.
func (u *User) Principal() *Principal {
	p := &Principal{ID: u.ID, Name: u.Name}
	if u.DueDate != nil {
		due := *u.DueDate
		p.DueDate = &due
	}
	return p
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// UpdateDueDate sets the user's due date; nil clears it.
	UpdateDueDate(ctx context.Context, id int64, dueDate *Date) error
}
