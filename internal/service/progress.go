package service

import (
	"context"
	"time"

	"github.com/msomdec/bump-journal/internal/domain"
	"github.com/msomdec/bump-journal/internal/progress"
	"golang.org/x/sync/errgroup"
)

// ProgressService gathers a principal's inputs and derives their progress.
// Nothing is cached; every call recomputes from the store.
type ProgressService struct {
	users      domain.UserRepository
	milestones domain.MilestoneRepository
	opts       progress.Options
	now        func() time.Time
}

// NewProgressService creates a new ProgressService.
func NewProgressService(users domain.UserRepository, milestones domain.MilestoneRepository, opts progress.Options) *ProgressService {
	return &ProgressService{users: users, milestones: milestones, opts: opts, now: time.Now}
}

// WithClock replaces the clock that decides "today".
func (s *ProgressService) WithClock(now func() time.Time) *ProgressService {
	s.now = now
	return s
}

// Get loads the principal's current due date and milestones concurrently and
// runs the progress calculation for today.
func (s *ProgressService) Get(ctx context.Context, p *domain.Principal) (progress.Progress, error) {
	if p == nil {
		return progress.Progress{}, domain.ErrUnauthorized
	}

	var (
		user       *domain.User
		milestones []domain.Milestone
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.users.GetByID(gctx, p.ID)
		if err != nil {
			return domain.StoreFailure("get user", err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		ms, err := s.milestones.ListByOwner(gctx, p.ID)
		if err != nil {
			return domain.StoreFailure("list milestones", err)
		}
		milestones = ms
		return nil
	})
	if err := g.Wait(); err != nil {
		return progress.Progress{}, err
	}

	today := domain.DateOf(s.now())
	return progress.Calculate(today, user.DueDate, milestones, s.opts), nil
}
