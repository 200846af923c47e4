package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/msomdec/bump-journal/internal/domain"
)

// tipRepo implements domain.TipRepository using SQLite.
type tipRepo struct {
	db *sql.DB
}

func (r *tipRepo) Create(ctx context.Context, tip *domain.Tip) error {
	if tip.CreatedAt.IsZero() {
		tip.CreatedAt = time.Now().UTC()
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO tips (milestone_id, author_id, content, created_at)
		 VALUES (?, ?, ?, ?)`,
		tip.MilestoneID, tip.AuthorID, tip.Content, tip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tip: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get tip id: %w", err)
	}
	tip.ID = id
	return nil
}

// ListByMilestone joins each tip with its author's name only; no other user
// column leaves the store.
func (r *tipRepo) ListByMilestone(ctx context.Context, milestoneID int64) ([]domain.Tip, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.milestone_id, t.author_id, t.content, t.created_at, COALESCE(u.name, '')
		 FROM tips t
		 LEFT JOIN users u ON u.id = t.author_id
		 WHERE t.milestone_id = ?
		 ORDER BY t.id`, milestoneID)
	if err != nil {
		return nil, fmt.Errorf("list tips: %w", err)
	}
	defer rows.Close()

	tips := []domain.Tip{}
	for rows.Next() {
		var t domain.Tip
		if err := rows.Scan(&t.ID, &t.MilestoneID, &t.AuthorID, &t.Content, &t.CreatedAt, &t.AuthorName); err != nil {
			return nil, fmt.Errorf("scan tip: %w", err)
		}
		tips = append(tips, t)
	}
	return tips, rows.Err()
}

func (r *tipRepo) DeleteByMilestone(ctx context.Context, milestoneID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM tips WHERE milestone_id = ?", milestoneID)
	if err != nil {
		return fmt.Errorf("delete tips: %w", err)
	}
	return nil
}
