package service

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/msomdec/bump-journal/internal/domain"
	"github.com/msomdec/bump-journal/internal/policy"
)

// MilestoneService handles owner-scoped milestone CRUD. A milestone owned by
// someone else is reported exactly like one that does not exist.
type MilestoneService struct {
	milestones domain.MilestoneRepository
	tips       domain.TipRepository
	guard      policy.Guard
}

// NewMilestoneService creates a new MilestoneService.
func NewMilestoneService(milestones domain.MilestoneRepository, tips domain.TipRepository) *MilestoneService {
	return &MilestoneService{milestones: milestones, tips: tips}
}

// List returns the principal's milestones ordered by date, oldest first.
// Milestones on the same date keep their insertion order.
func (s *MilestoneService) List(ctx context.Context, p *domain.Principal) ([]domain.Milestone, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}

	milestones, err := s.milestones.ListByOwner(ctx, p.ID)
	if err != nil {
		return nil, domain.StoreFailure("list milestones", err)
	}

	SortMilestones(milestones)
	return milestones, nil
}

// Get returns the milestone with the given id if the principal owns it.
func (s *MilestoneService) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.Milestone, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.load(ctx, p, id, policy.OpRead)
}

// Create validates the input and stores a milestone owned by the principal.
func (s *MilestoneService) Create(ctx context.Context, p *domain.Principal, in domain.MilestoneInput) (*domain.Milestone, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	m := &domain.Milestone{
		OwnerID: p.ID,
		Title:   in.Title,
		Date:    in.Date,
		Notes:   in.Notes,
	}
	if err := s.milestones.Create(ctx, m); err != nil {
		return nil, domain.StoreFailure("create milestone", err)
	}
	return m, nil
}

// Update replaces title, date and notes of an owned milestone. Concurrent
// updates are last-write-wins.
func (s *MilestoneService) Update(ctx context.Context, p *domain.Principal, id int64, in domain.MilestoneInput) (*domain.Milestone, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	m, err := s.load(ctx, p, id, policy.OpWrite)
	if err != nil {
		return nil, err
	}

	m.Title = in.Title
	m.Date = in.Date
	m.Notes = in.Notes
	if err := s.milestones.Update(ctx, m); err != nil {
		return nil, domain.StoreFailure("update milestone", err)
	}
	return m, nil
}

// Delete removes an owned milestone together with all of its tips.
func (s *MilestoneService) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	if p == nil {
		return domain.ErrUnauthorized
	}

	m, err := s.load(ctx, p, id, policy.OpWrite)
	if err != nil {
		return err
	}

	// The milestone goes first; ON DELETE CASCADE removes its tips in the
	// same statement. The explicit tip delete covers stores without the
	// cascade.
	if err := s.milestones.Delete(ctx, m.ID); err != nil {
		return domain.StoreFailure("delete milestone", err)
	}
	if err := s.tips.DeleteByMilestone(ctx, m.ID); err != nil {
		return domain.StoreFailure("delete tips", err)
	}
	return nil
}

// load fetches a milestone and applies the policy for op. A denial becomes
// ErrNotFound so callers cannot probe for other owners' ids.
func (s *MilestoneService) load(ctx context.Context, p *domain.Principal, id int64, op policy.Op) (*domain.Milestone, error) {
	m, err := s.milestones.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.StoreFailure("get milestone", err)
	}

	if err := s.guard.Authorize(p, policy.Milestone(m), op); err != nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// SortMilestones orders milestones by date ascending. The sort is stable, so
// equal dates keep their incoming order.
func SortMilestones(milestones []domain.Milestone) {
	slices.SortStableFunc(milestones, func(a, b domain.Milestone) int {
		return a.Date.Time().Compare(b.Date.Time())
	})
}

// SortTips orders tips by creation time, then id.
func SortTips(tips []domain.Tip) {
	slices.SortStableFunc(tips, func(a, b domain.Tip) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
