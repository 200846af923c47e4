package domain

import (
	"context"
	"strings"
	"time"
)

// Tip is a public, author-attributed comment attached to a milestone.
// Tips are immutable once created.
type Tip struct {
	ID          int64
	MilestoneID int64
	AuthorID    int64
	Content     string
	CreatedAt   time.Time

	// AuthorName is filled in on read; it is never persisted with the tip.
	AuthorName string
}

// ValidateTipContent trims content and rejects it when empty.
func ValidateTipContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", Invalid("content", "content is required")
	}
	return content, nil
}

// TipRepository defines persistence operations for tips.
type TipRepository interface {
	Create(ctx context.Context, tip *Tip) error
	// ListByMilestone returns the tips of a milestone joined with their
	// author's display name, in insertion order.
	ListByMilestone(ctx context.Context, milestoneID int64) ([]Tip, error)
	DeleteByMilestone(ctx context.Context, milestoneID int64) error
}
