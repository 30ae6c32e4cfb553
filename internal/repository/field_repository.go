package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/rahullipl2023/assignafield/internal/models"
)

// FieldRepository provides persistence for fields.
type FieldRepository struct {
	db *sqlx.DB
}

// NewFieldRepository creates a new field repository.
func NewFieldRepository(db *sqlx.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

const fieldColumns = "id, club_id, name, capacity, region, active, created_at, updated_at"

// FindByID loads a field by id.
func (r *FieldRepository) FindByID(ctx context.Context, id string) (*models.Field, error) {
	query := fmt.Sprintf(`SELECT %s FROM fields WHERE id = $1`, fieldColumns)
	var field models.Field
	if err := r.db.GetContext(ctx, &field, query, id); err != nil {
		return nil, err
	}
	return &field, nil
}

// FindByIDs loads several fields at once.
func (r *FieldRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Field, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf(`SELECT %s FROM fields WHERE id IN (?)`, fieldColumns), ids)
	if err != nil {
		return nil, fmt.Errorf("build fields query: %w", err)
	}
	query = r.db.Rebind(query)
	var fields []models.Field
	if err := r.db.SelectContext(ctx, &fields, query, args...); err != nil {
		return nil, fmt.Errorf("find fields by ids: %w", err)
	}
	return fields, nil
}

// FindByClubAndName resolves a field by its display name, case insensitive.
// Import sheets reference fields by name.
func (r *FieldRepository) FindByClubAndName(ctx context.Context, clubID, name string) (*models.Field, error) {
	query := fmt.Sprintf(`SELECT %s FROM fields WHERE club_id = $1 AND LOWER(name) = $2 AND active = TRUE`, fieldColumns)
	var field models.Field
	if err := r.db.GetContext(ctx, &field, query, clubID, strings.ToLower(strings.TrimSpace(name))); err != nil {
		return nil, err
	}
	return &field, nil
}
