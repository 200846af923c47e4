// Package progress derives how far along a pregnancy is from stored dates.
//
// Everything here is a pure function of its arguments: no clock, no store,
// no cache. Callers pass "today" explicitly.
package progress

import (
	"math"

	"github.com/msomdec/bump-journal/internal/domain"
)

const (
	// TotalWeeks is the length of a full-term pregnancy.
	TotalWeeks = 40

	// DefaultAssumedFirstMilestoneWeek is the gestational week assumed for the
	// oldest logged milestone when no due date is known. It is a product
	// guess, not a medical fact.
	DefaultAssumedFirstMilestoneWeek = 8

	// DefaultWeek is reported when neither a due date nor any milestone is
	// available.
	DefaultWeek = 20
)

// Trimester labels.
const (
	TrimesterFirst  = "first"
	TrimesterSecond = "second"
	TrimesterThird  = "third"
)

// Options tunes the estimation heuristics. Zero fields take the defaults.
type Options struct {
	AssumedFirstMilestoneWeek int
	DefaultWeek               int
}

func (o Options) withDefaults() Options {
	if o.AssumedFirstMilestoneWeek == 0 {
		o.AssumedFirstMilestoneWeek = DefaultAssumedFirstMilestoneWeek
	}
	if o.DefaultWeek == 0 {
		o.DefaultWeek = DefaultWeek
	}
	return o
}

// Basis records which input the current week was derived from.
type Basis string

const (
	BasisDueDate    Basis = "due_date"
	BasisMilestones Basis = "milestones"
	BasisDefault    Basis = "default"
)

// Progress is the derived state shown to a user.
type Progress struct {
	CurrentWeek      int
	Trimester        string
	DueDate          domain.Date
	DueDateEstimated bool
	Recommendations  []string
	PercentComplete  int
	WeeksToGo        int
	MilestoneCount   int
	Basis            Basis
}

// Calculate derives progress from today's date, the optional due date and the
// owner's milestones.
func Calculate(today domain.Date, dueDate *domain.Date, milestones []domain.Milestone, opts Options) Progress {
	opts = opts.withDefaults()

	var week int
	var basis Basis
	switch {
	case dueDate != nil && !dueDate.IsZero():
		weeksRemaining := ceilDiv(today.DaysUntil(*dueDate), 7)
		week = clamp(TotalWeeks-weeksRemaining, 1, TotalWeeks)
		basis = BasisDueDate
	case len(milestones) > 0:
		oldest := Oldest(milestones)
		weeksSince := floorDiv(oldest.DaysUntil(today), 7)
		week = clamp(weeksSince+opts.AssumedFirstMilestoneWeek, 1, TotalWeeks)
		basis = BasisMilestones
	default:
		week = clamp(opts.DefaultWeek, 1, TotalWeeks)
		basis = BasisDefault
	}

	p := Progress{
		CurrentWeek:     week,
		Trimester:       Trimester(week),
		Recommendations: Recommendations(week),
		PercentComplete: int(math.Round(float64(week) / TotalWeeks * 100)),
		WeeksToGo:       TotalWeeks - week,
		MilestoneCount:  len(milestones),
		Basis:           basis,
	}
	if basis == BasisDueDate {
		p.DueDate = *dueDate
	} else {
		p.DueDate = today.AddDays((TotalWeeks - week) * 7)
		p.DueDateEstimated = true
	}
	return p
}

// Oldest returns the earliest milestone date. milestones must not be empty.
func Oldest(milestones []domain.Milestone) domain.Date {
	oldest := milestones[0].Date
	for _, m := range milestones[1:] {
		if m.Date.Before(oldest) {
			oldest = m.Date
		}
	}
	return oldest
}

// Trimester maps a week to its trimester label.
func Trimester(week int) string {
	switch {
	case week <= 12:
		return TrimesterFirst
	case week <= 27:
		return TrimesterSecond
	default:
		return TrimesterThird
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// ceilDiv and floorDiv divide by a positive b, rounding toward +inf and -inf.
func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}
