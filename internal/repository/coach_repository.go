package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rahullipl2023/assignafield/internal/models"
)

// CoachRepository provides persistence for coaches.
type CoachRepository struct {
	db *sqlx.DB
}

// NewCoachRepository creates a new coach repository.
func NewCoachRepository(db *sqlx.DB) *CoachRepository {
	return &CoachRepository{db: db}
}

const coachColumns = "id, club_id, name, coaching_start_time, coaching_end_time, max_simultaneous_teams, active, created_at, updated_at"

// FindActiveByClub returns every active coach of a club.
func (r *CoachRepository) FindActiveByClub(ctx context.Context, clubID string) ([]models.Coach, error) {
	query := fmt.Sprintf(`SELECT %s FROM coaches WHERE club_id = $1 AND active = TRUE ORDER BY name ASC`, coachColumns)
	var coaches []models.Coach
	if err := r.db.SelectContext(ctx, &coaches, query, clubID); err != nil {
		return nil, fmt.Errorf("find active coaches: %w", err)
	}
	return coaches, nil
}

// FindByID loads a coach by id.
func (r *CoachRepository) FindByID(ctx context.Context, id string) (*models.Coach, error) {
	query := fmt.Sprintf(`SELECT %s FROM coaches WHERE id = $1`, coachColumns)
	var coach models.Coach
	if err := r.db.GetContext(ctx, &coach, query, id); err != nil {
		return nil, err
	}
	return &coach, nil
}
