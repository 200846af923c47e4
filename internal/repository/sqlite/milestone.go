package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/bump-journal/internal/domain"
)

// milestoneRepo implements domain.MilestoneRepository using SQLite.
type milestoneRepo struct {
	db *sql.DB
}

const milestoneColumns = `id, owner_id, title, date, notes, created_at, updated_at`

func (r *milestoneRepo) Create(ctx context.Context, m *domain.Milestone) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO milestones (owner_id, title, date, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.OwnerID, m.Title, m.Date, m.Notes, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert milestone: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get milestone id: %w", err)
	}

	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = now
	return nil
}

func (r *milestoneRepo) GetByID(ctx context.Context, id int64) (*domain.Milestone, error) {
	m := &domain.Milestone{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+milestoneColumns+` FROM milestones WHERE id = ?`, id,
	).Scan(&m.ID, &m.OwnerID, &m.Title, &m.Date, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get milestone: %w", err)
	}
	return m, nil
}

func (r *milestoneRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Milestone, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+milestoneColumns+` FROM milestones WHERE owner_id = ? ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	defer rows.Close()

	milestones := []domain.Milestone{}
	for rows.Next() {
		var m domain.Milestone
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.Title, &m.Date, &m.Notes, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan milestone: %w", err)
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

// Update replaces title, date and notes. owner_id and id are never written.
func (r *milestoneRepo) Update(ctx context.Context, m *domain.Milestone) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE milestones SET title = ?, date = ?, notes = ?, updated_at = ? WHERE id = ?`,
		m.Title, m.Date, m.Notes, now, m.ID,
	)
	if err != nil {
		return fmt.Errorf("update milestone: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	m.UpdatedAt = now
	return nil
}

func (r *milestoneRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM milestones WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete milestone: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
