package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/msomdec/bump-journal/internal/domain"
)

func TestTipRepository_CreateAndList(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", "Owner")
	friend := seedUser(t, db, "friend@example.com", "Friend")
	m := seedMilestone(t, db, owner.ID, "First ultrasound", domain.NewDate(2024, time.February, 28))

	base := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	for i, author := range []*domain.User{friend, owner} {
		tip := &domain.Tip{
			MilestoneID: m.ID,
			AuthorID:    author.ID,
			Content:     "tip from " + author.Name,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Tips().Create(ctx, tip); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if tip.ID == 0 {
			t.Fatal("expected tip ID to be set")
		}
	}

	tips, err := db.Tips().ListByMilestone(ctx, m.ID)
	if err != nil {
		t.Fatalf("ListByMilestone: %v", err)
	}
	if len(tips) != 2 {
		t.Fatalf("expected 2 tips, got %d", len(tips))
	}
	if tips[0].AuthorName != "Friend" || tips[1].AuthorName != "Owner" {
		t.Fatalf("unexpected author names: %q, %q", tips[0].AuthorName, tips[1].AuthorName)
	}
	if !tips[0].CreatedAt.Equal(base) {
		t.Fatalf("expected created_at %v, got %v", base, tips[0].CreatedAt)
	}
}

func TestTipRepository_List_Empty(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com", "Owner")
	m := seedMilestone(t, db, owner.ID, "Quiet", domain.NewDate(2024, time.February, 28))

	tips, err := db.Tips().ListByMilestone(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("ListByMilestone: %v", err)
	}
	if tips == nil || len(tips) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", tips)
	}
}

func TestTipRepository_DeleteByMilestone(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", "Owner")
	keep := seedMilestone(t, db, owner.ID, "Keep", domain.NewDate(2024, time.January, 1))
	drop := seedMilestone(t, db, owner.ID, "Drop", domain.NewDate(2024, time.January, 2))

	for _, m := range []*domain.Milestone{keep, drop} {
		if err := db.Tips().Create(ctx, &domain.Tip{MilestoneID: m.ID, AuthorID: owner.ID, Content: "x"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if err := db.Tips().DeleteByMilestone(ctx, drop.ID); err != nil {
		t.Fatalf("DeleteByMilestone: %v", err)
	}

	if tips, _ := db.Tips().ListByMilestone(ctx, drop.ID); len(tips) != 0 {
		t.Fatalf("expected no tips left on dropped milestone, got %d", len(tips))
	}
	if tips, _ := db.Tips().ListByMilestone(ctx, keep.ID); len(tips) != 1 {
		t.Fatalf("expected 1 tip left on kept milestone, got %d", len(tips))
	}
}
