package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rahullipl2023/assignafield/internal/models"
)

// SlotRepository provides persistence for reservation slot ledgers.
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository creates a new slot repository.
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

const slotColumns = "id, club_id, reservation_id, field_id, ledger_date, portions, created_at, updated_at"

// FindByReservation loads the ledger for a reservation, nil when none exists
// yet.
func (r *SlotRepository) FindByReservation(ctx context.Context, clubID, reservationID string) (*models.SlotLedger, error) {
	query := fmt.Sprintf(`SELECT %s FROM slot_ledgers WHERE club_id = $1 AND reservation_id = $2`, slotColumns)
	var ledger models.SlotLedger
	if err := r.db.GetContext(ctx, &ledger, query, clubID, reservationID); err != nil {
		return nil, err
	}
	return &ledger, nil
}

// Upsert stores a ledger, replacing the portion list of an existing row.
func (r *SlotRepository) Upsert(ctx context.Context, ledger *models.SlotLedger) error {
	if ledger.ID == "" {
		ledger.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if ledger.CreatedAt.IsZero() {
		ledger.CreatedAt = now
	}
	ledger.UpdatedAt = now

	const query = `INSERT INTO slot_ledgers (id, club_id, reservation_id, field_id, ledger_date, portions, created_at, updated_at)
		VALUES (:id, :club_id, :reservation_id, :field_id, :ledger_date, :portions, :created_at, :updated_at)
		ON CONFLICT (club_id, reservation_id)
		DO UPDATE SET portions = EXCLUDED.portions, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, ledger); err != nil {
		return fmt.Errorf("upsert slot ledger: %w", err)
	}
	return nil
}

// DeleteByClubAndDates removes ledgers for the given dates so a re-import
// starts from full capacity.
func (r *SlotRepository) DeleteByClubAndDates(ctx context.Context, clubID string, dates []string) (int64, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM slot_ledgers WHERE club_id = ? AND ledger_date IN (?)`, clubID, dates)
	if err != nil {
		return 0, fmt.Errorf("build delete slot ledgers query: %w", err)
	}
	query = r.db.Rebind(query)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete slot ledgers by dates: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}
