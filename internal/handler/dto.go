package handler

import (
	"time"

	"github.com/msomdec/bump-journal/internal/domain"
	"github.com/msomdec/bump-journal/internal/progress"
)

// UserDTO is the JSON representation of a user. Password hashes never leave
// the service layer.
type UserDTO struct {
	ID      int64        `json:"id"`
	Email   string       `json:"email"`
	Name    string       `json:"name"`
	DueDate *domain.Date `json:"dueDate"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		DueDate: u.DueDate,
	}
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// MilestoneDTO is the JSON representation of a milestone.
type MilestoneDTO struct {
	ID        int64       `json:"id"`
	OwnerID   int64       `json:"ownerId"`
	Title     string      `json:"title"`
	Date      domain.Date `json:"date"`
	Notes     string      `json:"notes"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
}

func toMilestoneDTO(m *domain.Milestone) MilestoneDTO {
	return MilestoneDTO{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Title:     m.Title,
		Date:      m.Date,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
		UpdatedAt: m.UpdatedAt.Format(time.RFC3339),
	}
}

func toMilestoneDTOs(milestones []domain.Milestone) []MilestoneDTO {
	dtos := make([]MilestoneDTO, len(milestones))
	for i := range milestones {
		dtos[i] = toMilestoneDTO(&milestones[i])
	}
	return dtos
}

// TipDTO is the JSON representation of a tip. Only the author's display name
// is exposed.
type TipDTO struct {
	ID          int64  `json:"id"`
	MilestoneID int64  `json:"milestoneId"`
	AuthorID    int64  `json:"authorId"`
	AuthorName  string `json:"authorName"`
	Content     string `json:"content"`
	CreatedAt   string `json:"createdAt"`
}

func toTipDTO(t *domain.Tip) TipDTO {
	return TipDTO{
		ID:          t.ID,
		MilestoneID: t.MilestoneID,
		AuthorID:    t.AuthorID,
		AuthorName:  t.AuthorName,
		Content:     t.Content,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toTipDTOs(tips []domain.Tip) []TipDTO {
	dtos := make([]TipDTO, len(tips))
	for i := range tips {
		dtos[i] = toTipDTO(&tips[i])
	}
	return dtos
}

// ProgressDTO is the JSON representation of a progress calculation.
type ProgressDTO struct {
	CurrentWeek      int            `json:"currentWeek"`
	Trimester        string         `json:"trimester"`
	DueDate          domain.Date    `json:"dueDate"`
	DueDateEstimated bool           `json:"dueDateEstimated"`
	Recommendations  []string       `json:"recommendations"`
	PercentComplete  int            `json:"percentComplete"`
	WeeksToGo        int            `json:"weeksToGo"`
	MilestoneCount   int            `json:"milestoneCount"`
	Basis            progress.Basis `json:"basis"`
}

func toProgressDTO(p progress.Progress) ProgressDTO {
	return ProgressDTO{
		CurrentWeek:      p.CurrentWeek,
		Trimester:        p.Trimester,
		DueDate:          p.DueDate,
		DueDateEstimated: p.DueDateEstimated,
		Recommendations:  p.Recommendations,
		PercentComplete:  p.PercentComplete,
		WeeksToGo:        p.WeeksToGo,
		MilestoneCount:   p.MilestoneCount,
		Basis:            p.Basis,
	}
}
