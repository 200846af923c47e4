package domain

import (
	"context"
	"strings"
	"time"
)

// Milestone is a dated, owner-private journal entry.
type Milestone struct {
	ID        int64
	OwnerID   int64
	Title     string
	Date      Date
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MilestoneInput carries the mutable fields of a milestone.
type MilestoneInput struct {
	Title string
	Date  Date
	Notes string
}

// Validate checks the required fields and trims the title.
func (in *MilestoneInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return Invalid("title", "title is required")
	}
	if in.Date.IsZero() {
		return Invalid("date", "date is required")
	}
	return nil
}

// MilestoneRepository defines persistence operations for milestones.
// List results come back in insertion order; callers sort.
type MilestoneRepository interface {
	Create(ctx context.Context, m *Milestone) error
	GetByID(ctx context.Context, id int64) (*Milestone, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Milestone, error)
	Update(ctx context.Context, m *Milestone) error
	Delete(ctx context.Context, id int64) error
}
