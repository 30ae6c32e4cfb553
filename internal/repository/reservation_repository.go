package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rahullipl2023/assignafield/internal/models"
)

// ReservationRepository provides persistence for reservations.
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository creates a new reservation repository.
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationColumns = "id, club_id, field_id, reservation_date, start_time, end_time, created_at, updated_at"

// FindByIDs loads the given reservations for a club.
func (r *ReservationRepository) FindByIDs(ctx context.Context, clubID string, ids []string) ([]models.Reservation, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf(`SELECT %s FROM reservations WHERE club_id = ? AND id IN (?)`, reservationColumns), clubID, ids)
	if err != nil {
		return nil, fmt.Errorf("build reservations query: %w", err)
	}
	query = r.db.Rebind(query)
	var reservations []models.Reservation
	if err := r.db.SelectContext(ctx, &reservations, query, args...); err != nil {
		return nil, fmt.Errorf("find reservations by ids: %w", err)
	}
	return reservations, nil
}

// FindByClubAndDates loads a club's reservations on the given dates.
func (r *ReservationRepository) FindByClubAndDates(ctx context.Context, clubID string, dates []string) ([]models.Reservation, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf(`SELECT %s FROM reservations WHERE club_id = ? AND reservation_date IN (?) ORDER BY reservation_date ASC, start_time ASC`, reservationColumns), clubID, dates)
	if err != nil {
		return nil, fmt.Errorf("build reservations by dates query: %w", err)
	}
	query = r.db.Rebind(query)
	var reservations []models.Reservation
	if err := r.db.SelectContext(ctx, &reservations, query, args...); err != nil {
		return nil, fmt.Errorf("find reservations by dates: %w", err)
	}
	return reservations, nil
}

// Upsert inserts a reservation or refreshes the time window of the existing
// row for the same club, field and date slot.
func (r *ReservationRepository) Upsert(ctx context.Context, reservation *models.Reservation) error {
	if reservation.ID == "" {
		reservation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if reservation.CreatedAt.IsZero() {
		reservation.CreatedAt = now
	}
	reservation.UpdatedAt = now

	const query = `INSERT INTO reservations (id, club_id, field_id, reservation_date, start_time, end_time, created_at, updated_at)
		VALUES (:id, :club_id, :field_id, :reservation_date, :start_time, :end_time, :created_at, :updated_at)
		ON CONFLICT (club_id, field_id, reservation_date, start_time)
		DO UPDATE SET end_time = EXCLUDED.end_time, updated_at = EXCLUDED.updated_at
		RETURNING id`
	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, reservation)
	if err != nil {
		return fmt.Errorf("upsert reservation: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&reservation.ID); err != nil {
			return fmt.Errorf("scan upserted reservation id: %w", err)
		}
	}
	return rows.Err()
}
