package service

import (
	"context"
	"errors"
	"time"

	"github.com/msomdec/bump-journal/internal/domain"
	"github.com/msomdec/bump-journal/internal/policy"
)

// TipService handles tips attached to milestones. Reading is open to anyone;
// adding requires an authenticated principal, who need not own the milestone.
type TipService struct {
	tips       domain.TipRepository
	milestones domain.MilestoneRepository
	guard      policy.Guard
	now        func() time.Time
}

// NewTipService creates a new TipService.
func NewTipService(tips domain.TipRepository, milestones domain.MilestoneRepository) *TipService {
	return &TipService{tips: tips, milestones: milestones, now: time.Now}
}

// WithClock replaces the clock used to stamp new tips.
func (s *TipService) WithClock(now func() time.Time) *TipService {
	s.now = now
	return s
}

// List returns the tips of a milestone, oldest first, each carrying its
// author's display name. A milestone without tips yields an empty slice.
func (s *TipService) List(ctx context.Context, milestoneID int64) ([]domain.Tip, error) {
	if err := s.requireMilestone(ctx, milestoneID); err != nil {
		return nil, err
	}

	if err := s.guard.Authorize(nil, policy.Tip(), policy.OpRead); err != nil {
		return nil, err
	}

	tips, err := s.tips.ListByMilestone(ctx, milestoneID)
	if err != nil {
		return nil, domain.StoreFailure("list tips", err)
	}
	if tips == nil {
		tips = []domain.Tip{}
	}

	SortTips(tips)
	return tips, nil
}

// Add attaches a tip written by the principal to any existing milestone.
func (s *TipService) Add(ctx context.Context, p *domain.Principal, milestoneID int64, content string) (*domain.Tip, error) {
	content, err := domain.ValidateTipContent(content)
	if err != nil {
		return nil, err
	}

	if err := s.requireMilestone(ctx, milestoneID); err != nil {
		return nil, err
	}

	if err := s.guard.Authorize(p, policy.Tip(), policy.OpWrite); err != nil {
		return nil, err
	}

	tip := &domain.Tip{
		MilestoneID: milestoneID,
		AuthorID:    p.ID,
		Content:     content,
		CreatedAt:   s.now().UTC(),
		AuthorName:  p.Name,
	}
	if err := s.tips.Create(ctx, tip); err != nil {
		return nil, domain.StoreFailure("create tip", err)
	}
	return tip, nil
}

func (s *TipService) requireMilestone(ctx context.Context, id int64) error {
	if _, err := s.milestones.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return domain.StoreFailure("get milestone", err)
	}
	return nil
}
