package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rahullipl2023/assignafield/internal/models"
)

// ScheduleRepository provides persistence for generated schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleColumns = "id, club_id, team_id, coach_id, field_id, reservation_id, schedule_date, ideal_start_time, start_time, end_time, length_minutes, portion_index, field_portion, created_at, updated_at"

// ExistsFor reports whether a team already holds a practice on a date.
func (r *ScheduleRepository) ExistsFor(ctx context.Context, clubID, teamID, date string) (bool, error) {
	const query = `SELECT 1 FROM schedules WHERE club_id = $1 AND team_id = $2 AND schedule_date = $3`
	var one int
	err := r.db.GetContext(ctx, &one, query, clubID, teamID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check schedule existence: %w", err)
	}
	return true, nil
}

// FindOverlapping returns schedules on a field and date that intersect the
// candidate window, ordered by start time.
func (r *ScheduleRepository) FindOverlapping(ctx context.Context, clubID, fieldID, date, startTime, endTime string) ([]models.Schedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedules WHERE club_id = $1 AND field_id = $2 AND schedule_date = $3 AND start_time < $5 AND end_time > $4 ORDER BY start_time ASC`, scheduleColumns)
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, clubID, fieldID, date, startTime, endTime); err != nil {
		return nil, fmt.Errorf("find overlapping schedules: %w", err)
	}
	return schedules, nil
}

// ListByCoachAndDate returns a coach's practices on a date, ordered by start
// time.
func (r *ScheduleRepository) ListByCoachAndDate(ctx context.Context, clubID, coachID, date string) ([]models.Schedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedules WHERE club_id = $1 AND coach_id = $2 AND schedule_date = $3 ORDER BY start_time ASC`, scheduleColumns)
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, clubID, coachID, date); err != nil {
		return nil, fmt.Errorf("list schedules by coach: %w", err)
	}
	return schedules, nil
}

// Upsert stores a practice, replacing any earlier assignment of the same team
// on the same date.
func (r *ScheduleRepository) Upsert(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	const query = `INSERT INTO schedules (id, club_id, team_id, coach_id, field_id, reservation_id, schedule_date, ideal_start_time, start_time, end_time, length_minutes, portion_index, field_portion, created_at, updated_at)
		VALUES (:id, :club_id, :team_id, :coach_id, :field_id, :reservation_id, :schedule_date, :ideal_start_time, :start_time, :end_time, :length_minutes, :portion_index, :field_portion, :created_at, :updated_at)
		ON CONFLICT (club_id, team_id, schedule_date)
		DO UPDATE SET coach_id = EXCLUDED.coach_id, field_id = EXCLUDED.field_id, reservation_id = EXCLUDED.reservation_id,
			ideal_start_time = EXCLUDED.ideal_start_time, start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
			length_minutes = EXCLUDED.length_minutes, portion_index = EXCLUDED.portion_index, field_portion = EXCLUDED.field_portion,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("upsert schedule: %w", err)
	}
	return nil
}

// DeleteByClubAndDates removes all practices for a club on the given dates.
// Re-imports reset the affected days before the next generation run.
func (r *ScheduleRepository) DeleteByClubAndDates(ctx context.Context, clubID string, dates []string) (int64, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM schedules WHERE club_id = ? AND schedule_date IN (?)`, clubID, dates)
	if err != nil {
		return 0, fmt.Errorf("build delete schedules query: %w", err)
	}
	query = r.db.Rebind(query)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete schedules by dates: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

// ListDetailed returns schedules joined with team, coach and field names,
// filtered and paginated.
func (r *ScheduleRepository) ListDetailed(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, int, error) {
	base := `FROM schedules s
		JOIN teams t ON t.id = s.team_id
		LEFT JOIN coaches c ON c.id = s.coach_id
		JOIN fields f ON f.id = s.field_id
		WHERE s.club_id = $1`
	args := []interface{}{filter.ClubID}
	var conditions []string

	if filter.TeamID != "" {
		conditions = append(conditions, fmt.Sprintf("s.team_id = $%d", len(args)+1))
		args = append(args, filter.TeamID)
	}
	if filter.CoachID != "" {
		conditions = append(conditions, fmt.Sprintf("s.coach_id = $%d", len(args)+1))
		args = append(args, filter.CoachID)
	}
	if filter.FieldID != "" {
		conditions = append(conditions, fmt.Sprintf("s.field_id = $%d", len(args)+1))
		args = append(args, filter.FieldID)
	}
	if filter.DateFrom != "" {
		conditions = append(conditions, fmt.Sprintf("s.schedule_date >= $%d", len(args)+1))
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		conditions = append(conditions, fmt.Sprintf("s.schedule_date <= $%d", len(args)+1))
		args = append(args, filter.DateTo)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT s.id, s.club_id, s.team_id, s.coach_id, s.field_id, s.reservation_id, s.schedule_date,
		s.ideal_start_time, s.start_time, s.end_time, s.length_minutes, s.portion_index, s.field_portion,
		s.created_at, s.updated_at, t.name AS team_name, c.name AS coach_name, f.name AS field_name
		%s ORDER BY s.schedule_date ASC, s.start_time ASC, t.name ASC LIMIT %d OFFSET %d`, base, size, offset)
	var details []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list detailed schedules: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count detailed schedules: %w", err)
	}

	return details, total, nil
}
