package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rahullipl2023/assignafield/internal/models"
)

// TeamRepository provides persistence for teams.
type TeamRepository struct {
	db *sqlx.DB
}

// NewTeamRepository creates a new team repository.
func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = "id, club_id, coach_id, name, practice_length, minimum_length, preferred_field_size, preferred_days, preferred_start_time, preferred_end_time, region, travel_windows, active, created_at, updated_at"

// FindActiveByClub returns every active team of a club that has a coach
// assigned, ordered by name for deterministic runs.
func (r *TeamRepository) FindActiveByClub(ctx context.Context, clubID string) ([]models.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE club_id = $1 AND active = TRUE AND coach_id IS NOT NULL ORDER BY name ASC`, teamColumns)
	var teams []models.Team
	if err := r.db.SelectContext(ctx, &teams, query, clubID); err != nil {
		return nil, fmt.Errorf("find active teams: %w", err)
	}
	return teams, nil
}

// FindByID loads a team by id.
func (r *TeamRepository) FindByID(ctx context.Context, id string) (*models.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE id = $1`, teamColumns)
	var team models.Team
	if err := r.db.GetContext(ctx, &team, query, id); err != nil {
		return nil, err
	}
	return &team, nil
}
