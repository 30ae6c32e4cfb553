package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rahullipl2023/assignafield/internal/models"
	appErrors "github.com/rahullipl2023/assignafield/pkg/errors"
)

type schedulerTeamReader interface {
	FindActiveByClub(ctx context.Context, clubID string) ([]models.Team, error)
}

type schedulerCoachReader interface {
	FindActiveByClub(ctx context.Context, clubID string) ([]models.Coach, error)
}

type schedulerFieldReader interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Field, error)
}

type schedulerReservationReader interface {
	FindByIDs(ctx context.Context, clubID string, ids []string) ([]models.Reservation, error)
}

type scheduleStore interface {
	ExistsFor(ctx context.Context, clubID, teamID, date string) (bool, error)
	FindOverlapping(ctx context.Context, clubID, fieldID, date, startTime, endTime string) ([]models.Schedule, error)
	ListByCoachAndDate(ctx context.Context, clubID, coachID, date string) ([]models.Schedule, error)
	Upsert(ctx context.Context, schedule *models.Schedule) error
}

type slotLedgerStore interface {
	FindByReservation(ctx context.Context, clubID, reservationID string) (*models.SlotLedger, error)
	Upsert(ctx context.Context, ledger *models.SlotLedger) error
}

type generationStatusStore interface {
	SetGenerating(ctx context.Context, clubID string, generating bool) error
}

type schedulerMetrics interface {
	ObserveGenerationRun(duration time.Duration)
	AddSchedulesGenerated(n int)
	ObserveRelaxationLevel(level int)
}

// relaxation toggles individual constraints off so a team short of quota can
// be re-evaluated with a wider candidate set. Preferred days are toggleable
// but never relaxed by the escalation ladder.
type relaxation struct {
	SkipTimingCheck      bool
	SkipSlotAvailability bool
	SkipRegion           bool
	SkipPreferredDays    bool
}

// escalationLevels is the fixed relaxation ladder: full constraints first,
// then timing, slot availability and region dropped cumulatively.
func escalationLevels() []relaxation {
	return []relaxation{
		{},
		{SkipTimingCheck: true},
		{SkipTimingCheck: true, SkipSlotAvailability: true},
		{SkipTimingCheck: true, SkipSlotAvailability: true, SkipRegion: true},
	}
}

// PracticeSchedulerService assigns team practices onto imported field
// reservations. Runs for the same club must be serialized by the caller; the
// engine itself processes teams and weeks strictly in order because every
// evaluation reads schedules written by earlier ones.
type PracticeSchedulerService struct {
	teams        schedulerTeamReader
	coaches      schedulerCoachReader
	fields       schedulerFieldReader
	reservations schedulerReservationReader
	schedules    scheduleStore
	slots        slotLedgerStore
	status       generationStatusStore
	metrics      schedulerMetrics
	logger       *zap.Logger
	passBudget   int
}

// PracticeSchedulerConfig governs scheduler behaviour.
type PracticeSchedulerConfig struct {
	// SolverPassBudget bounds how many candidate positions the time solver
	// scans per reservation before giving up.
	SolverPassBudget int
}

// NewPracticeSchedulerService wires scheduler dependencies.
func NewPracticeSchedulerService(
	teams schedulerTeamReader,
	coaches schedulerCoachReader,
	fields schedulerFieldReader,
	reservations schedulerReservationReader,
	schedules scheduleStore,
	slots slotLedgerStore,
	status generationStatusStore,
	metrics schedulerMetrics,
	logger *zap.Logger,
	cfg PracticeSchedulerConfig,
) *PracticeSchedulerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SolverPassBudget <= 0 {
		cfg.SolverPassBudget = 64
	}
	return &PracticeSchedulerService{
		teams:        teams,
		coaches:      coaches,
		fields:       fields,
		reservations: reservations,
		schedules:    schedules,
		slots:        slots,
		status:       status,
		metrics:      metrics,
		logger:       logger,
		passBudget:   cfg.SolverPassBudget,
	}
}

// GenerateSchedules allocates practices for a club across the given
// reservations. Each team is evaluated per weekly bucket under full
// constraints first, then re-evaluated from scratch at each relaxation level
// until its quota (one practice per preferred day) is met or the ladder is
// exhausted; the final attempt's candidates are persisted even when short of
// quota.
func (s *PracticeSchedulerService) GenerateSchedules(ctx context.Context, clubID string, reservationIDs []string) error {
	if clubID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "club id is required")
	}
	if len(reservationIDs) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "at least one reservation id is required")
	}

	started := time.Now()
	if err := s.status.SetGenerating(ctx, clubID, true); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark club as generating")
	}
	defer func() {
		// The flag must clear even when the run's context is gone.
		clearCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := s.status.SetGenerating(clearCtx, clubID, false); err != nil {
			s.logger.Error("failed to clear generating flag", zap.String("club_id", clubID), zap.Error(err))
		}
	}()

	teams, coachesByID, buckets, err := s.loadRunData(ctx, clubID, reservationIDs)
	if err != nil {
		return err
	}
	if len(teams) == 0 || len(buckets) == 0 {
		s.logger.Info("nothing to schedule", zap.String("club_id", clubID),
			zap.Int("teams", len(teams)), zap.Int("weeks", len(buckets)))
		return nil
	}

	total := 0
	counts := make(map[string]int, len(teams))
	for _, bucket := range buckets {
		for _, team := range teams {
			quota := len(team.PreferredDays)
			if quota == 0 {
				continue
			}
			coach := coachesByID[derefString(team.CoachID)]
			if coach == nil {
				continue
			}

			var staged []models.Schedule
			count := 0
			level := 0
			for i, relax := range escalationLevels() {
				level = i
				count, staged, err = s.evaluate(ctx, clubID, bucket, team, coach, relax, quota)
				if err != nil {
					return err
				}
				if count >= quota {
					break
				}
			}

			if err := s.persist(ctx, bucket, staged); err != nil {
				return err
			}
			if s.metrics != nil && len(staged) > 0 {
				s.metrics.ObserveRelaxationLevel(level)
			}
			counts[team.ID] += len(staged)
			total += len(staged)
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveGenerationRun(time.Since(started))
		s.metrics.AddSchedulesGenerated(total)
	}
	s.logger.Info("generation run complete",
		zap.String("club_id", clubID),
		zap.Int("weeks", len(buckets)),
		zap.Int("teams", len(counts)),
		zap.Int("schedules", total),
		zap.Duration("took", time.Since(started)))
	return nil
}

func (s *PracticeSchedulerService) loadRunData(ctx context.Context, clubID string, reservationIDs []string) ([]models.Team, map[string]*models.Coach, []weekBucket, error) {
	teams, err := s.teams.FindActiveByClub(ctx, clubID)
	if err != nil {
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teams")
	}
	coaches, err := s.coaches.FindActiveByClub(ctx, clubID)
	if err != nil {
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coaches")
	}
	reservations, err := s.reservations.FindByIDs(ctx, clubID, reservationIDs)
	if err != nil {
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reservations")
	}

	coachesByID := make(map[string]*models.Coach, len(coaches))
	for i := range coaches {
		coachesByID[coaches[i].ID] = &coaches[i]
	}

	fieldIDSet := make(map[string]struct{})
	for _, resv := range reservations {
		fieldIDSet[resv.FieldID] = struct{}{}
	}
	fieldIDs := make([]string, 0, len(fieldIDSet))
	for id := range fieldIDSet {
		fieldIDs = append(fieldIDs, id)
	}
	fields, err := s.fields.FindByIDs(ctx, fieldIDs)
	if err != nil {
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fields")
	}
	fieldsByID := make(map[string]models.Field, len(fields))
	for _, field := range fields {
		fieldsByID[field.ID] = field
	}

	slots := make([]reservationSlot, 0, len(reservations))
	for _, resv := range reservations {
		field, ok := fieldsByID[resv.FieldID]
		if !ok {
			s.logger.Warn("reservation references unknown field, skipping",
				zap.String("reservation_id", resv.ID), zap.String("field_id", resv.FieldID))
			continue
		}
		slots = append(slots, reservationSlot{Reservation: resv, Field: field})
	}

	ranked := rankTeams(teams)
	return ranked, coachesByID, chunkReservations(slots), nil
}

// evaluate walks one weekly bucket for one team at one relaxation level and
// returns the staged candidates. Each call starts from scratch; nothing from
// earlier relaxation levels carries over.
func (s *PracticeSchedulerService) evaluate(ctx context.Context, clubID string, bucket weekBucket, team models.Team, coach *models.Coach, relax relaxation, quota int) (int, []models.Schedule, error) {
	var staged []models.Schedule
	stagedDates := make(map[string]bool)
	count := 0

	for _, slot := range bucket.Slots {
		if count >= quota {
			break
		}
		resv := slot.Reservation
		date := resv.ReservationDate
		if stagedDates[date] {
			continue
		}

		exists, err := s.schedules.ExistsFor(ctx, clubID, team.ID, date)
		if err != nil {
			return 0, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing schedule")
		}
		if exists {
			continue
		}

		if !relax.SkipPreferredDays && !hasPreferredDay(team, weekdayName(date)) {
			continue
		}

		resvStart, ok1 := models.MinutesOfDay(resv.StartTime)
		resvEnd, ok2 := models.MinutesOfDay(resv.EndTime)
		if !ok1 || !ok2 || resvEnd <= resvStart {
			s.logger.Warn("reservation has malformed time window, skipping",
				zap.String("reservation_id", resv.ID),
				zap.String("start", resv.StartTime), zap.String("end", resv.EndTime))
			continue
		}

		idealStart := resvStart
		prefStart, okPS := models.MinutesOfDay(team.PreferredStartTime)
		prefEnd, okPE := models.MinutesOfDay(team.PreferredEndTime)
		if okPS && okPE && prefStart >= resvStart && prefEnd <= resvEnd {
			idealStart = prefStart
		}

		window, err := s.solve(ctx, clubID, team, slot.Field, resv, idealStart, staged)
		if err != nil {
			return 0, nil, err
		}
		if window == nil {
			continue
		}

		accepted, err := s.checkCandidate(ctx, clubID, team, coach, slot, window, relax, staged)
		if err != nil {
			return 0, nil, err
		}
		if !accepted {
			continue
		}

		staged = append(staged, models.Schedule{
			ClubID:         clubID,
			TeamID:         team.ID,
			CoachID:        team.CoachID,
			FieldID:        slot.Field.ID,
			ReservationID:  resv.ID,
			ScheduleDate:   date,
			IdealStartTime: models.ClockString(idealStart),
			StartTime:      models.ClockString(window.start),
			EndTime:        models.ClockString(window.end),
			LengthMinutes:  window.end - window.start,
			PortionIndex:   window.existing + 1,
			FieldPortion:   team.PreferredFieldSize,
		})
		stagedDates[date] = true
		count++
	}
	return count, staged, nil
}

type solvedWindow struct {
	start    int
	end      int
	existing int
}

// solve scans forward through the reservation for the earliest window that
// fits the team without breaking field capacity or splitting its coach across
// overlapping sessions. At every position the ideal length is tried first and
// degraded to the minimum length only when the ideal would overflow the
// reservation. Candidate positions are the end times of conflicting bookings,
// so the scan is finite; the pass budget is a hard stop on top of that.
func (s *PracticeSchedulerService) solve(ctx context.Context, clubID string, team models.Team, field models.Field, resv models.Reservation, startMin int, staged []models.Schedule) (*solvedWindow, error) {
	resvEnd, ok := models.MinutesOfDay(resv.EndTime)
	if !ok {
		return nil, nil
	}
	capacity := field.EffectiveCapacity()
	start := startMin

	for pass := 0; pass < s.passBudget; pass++ {
		length := team.PracticeLength
		if start+length > resvEnd {
			length = team.MinimumLength
		}
		if length <= 0 || start+length > resvEnd {
			return nil, nil
		}
		end := start + length

		overlapping, err := s.overlappingBookings(ctx, clubID, field.ID, resv.ReservationDate, start, end, staged)
		if err != nil {
			return nil, err
		}

		if len(overlapping) >= capacity {
			next, found := nextStartAfter(overlapping, start)
			if !found {
				return nil, nil
			}
			start = next
			continue
		}

		if coachEnd, found := latestSameCoachEnd(overlapping, team); found && coachEnd > start {
			start = coachEnd
			continue
		}

		return &solvedWindow{start: start, end: end, existing: len(overlapping)}, nil
	}
	return nil, nil
}

func (s *PracticeSchedulerService) overlappingBookings(ctx context.Context, clubID, fieldID, date string, start, end int, staged []models.Schedule) ([]models.Schedule, error) {
	startTime := models.ClockString(start)
	endTime := models.ClockString(end)
	persisted, err := s.schedules.FindOverlapping(ctx, clubID, fieldID, date, startTime, endTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load overlapping schedules")
	}
	bookings := persisted
	for _, cand := range staged {
		if cand.FieldID != fieldID || cand.ScheduleDate != date {
			continue
		}
		if cand.StartTime < endTime && cand.EndTime > startTime {
			bookings = append(bookings, cand)
		}
	}
	return bookings, nil
}

// checkCandidate fans out the independent acceptance predicates and collects
// every result before branching.
func (s *PracticeSchedulerService) checkCandidate(ctx context.Context, clubID string, team models.Team, coach *models.Coach, slot reservationSlot, window *solvedWindow, relax relaxation, staged []models.Schedule) (bool, error) {
	resv := slot.Reservation
	var (
		wg        sync.WaitGroup
		regionOK  bool
		dayOK     bool
		timingOK  bool
		traveling bool
		slotOK    bool
		slotErr   error
		coachOK   bool
		coachErr  error
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		regionOK = relax.SkipRegion || regionsMatch(team.Region, slot.Field.Region)
	}()
	go func() {
		defer wg.Done()
		day := weekdayName(resv.ReservationDate)
		dayOK = relax.SkipPreferredDays || hasPreferredDay(team, day)
		traveling = teamTraveling(team, resv.ReservationDate)
	}()
	go func() {
		defer wg.Done()
		timingOK = relax.SkipTimingCheck || preferredTimeFits(team, resv)
	}()
	go func() {
		defer wg.Done()
		if relax.SkipSlotAvailability {
			slotOK = true
			return
		}
		slotOK, slotErr = s.slotAvailable(ctx, clubID, team, resv, window)
	}()
	go func() {
		defer wg.Done()
		coachOK, coachErr = s.coachCompatible(ctx, clubID, team, coach, slot.Field, resv.ReservationDate, window, staged)
	}()
	wg.Wait()

	if slotErr != nil {
		return false, slotErr
	}
	if coachErr != nil {
		return false, coachErr
	}
	return regionOK && dayOK && timingOK && slotOK && coachOK && !traveling, nil
}

// slotAvailable consults the fractional-capacity ledger: every sub-range the
// candidate window touches must still hold the team's field portion. A
// reservation without a ledger is untouched and therefore available.
func (s *PracticeSchedulerService) slotAvailable(ctx context.Context, clubID string, team models.Team, resv models.Reservation, window *solvedWindow) (bool, error) {
	ledger, err := s.slots.FindByReservation(ctx, clubID, resv.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot ledger")
	}

	needed, err := models.ParsePortion(team.PreferredFieldSize)
	if err != nil {
		s.logger.Warn("team has malformed field portion, skipping candidate",
			zap.String("team_id", team.ID), zap.String("portion", team.PreferredFieldSize))
		return false, nil
	}
	portions, err := ledger.DecodePortions()
	if err != nil {
		s.logger.Warn("slot ledger is malformed, skipping candidate",
			zap.String("reservation_id", resv.ID), zap.Error(err))
		return false, nil
	}
	available, err := portionsAvailable(portions, models.ClockString(window.start), models.ClockString(window.end), needed)
	if err != nil {
		s.logger.Warn("slot ledger portion unreadable, skipping candidate",
			zap.String("reservation_id", resv.ID), zap.Error(err))
		return false, nil
	}
	return available, nil
}

// coachCompatible requires the coach's daily window to contain the candidate
// and rejects overlap with the coach's other sessions on the same field.
// Overlaps on other fields are tolerated up to the coach's simultaneous-team
// cap.
func (s *PracticeSchedulerService) coachCompatible(ctx context.Context, clubID string, team models.Team, coach *models.Coach, field models.Field, date string, window *solvedWindow, staged []models.Schedule) (bool, error) {
	if coach == nil {
		return false, nil
	}
	coachStart, ok1 := models.MinutesOfDay(coach.CoachingStartTime)
	coachEnd, ok2 := models.MinutesOfDay(coach.CoachingEndTime)
	if !ok1 || !ok2 {
		return false, nil
	}
	if window.start < coachStart || window.end > coachEnd {
		return false, nil
	}

	persisted, err := s.schedules.ListByCoachAndDate(ctx, clubID, coach.ID, date)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coach schedules")
	}
	bookings := persisted
	for _, cand := range staged {
		if cand.ScheduleDate == date && derefString(cand.CoachID) == coach.ID {
			bookings = append(bookings, cand)
		}
	}

	startTime := models.ClockString(window.start)
	endTime := models.ClockString(window.end)
	simultaneous := 0
	for _, booking := range bookings {
		if booking.TeamID == team.ID {
			continue
		}
		if booking.StartTime >= endTime || booking.EndTime <= startTime {
			continue
		}
		if booking.FieldID == field.ID {
			return false, nil
		}
		simultaneous++
	}
	if coach.MaxSimultaneousTeams > 0 && simultaneous+1 > coach.MaxSimultaneousTeams {
		return false, nil
	}
	return true, nil
}

// persist upserts staged candidates in evaluation order so portion indexes
// stay consistent with subsequent reads, then charges each practice against
// its reservation's capacity ledger.
func (s *PracticeSchedulerService) persist(ctx context.Context, bucket weekBucket, staged []models.Schedule) error {
	reservationsByID := make(map[string]models.Reservation, len(bucket.Slots))
	for _, slot := range bucket.Slots {
		reservationsByID[slot.Reservation.ID] = slot.Reservation
	}

	for i := range staged {
		if err := s.schedules.Upsert(ctx, &staged[i]); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist schedule")
		}
		resv, ok := reservationsByID[staged[i].ReservationID]
		if !ok {
			continue
		}
		if err := s.chargeLedger(ctx, resv, staged[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *PracticeSchedulerService) chargeLedger(ctx context.Context, resv models.Reservation, sched models.Schedule) error {
	consumed, err := models.ParsePortion(sched.FieldPortion)
	if err != nil {
		s.logger.Warn("schedule carries malformed field portion, ledger not charged",
			zap.String("schedule_id", sched.ID), zap.String("portion", sched.FieldPortion))
		return nil
	}

	ledger, err := s.slots.FindByReservation(ctx, sched.ClubID, sched.ReservationID)
	if errors.Is(err, sql.ErrNoRows) {
		ledger = &models.SlotLedger{
			ClubID:        sched.ClubID,
			ReservationID: sched.ReservationID,
			FieldID:       sched.FieldID,
			LedgerDate:    sched.ScheduleDate,
		}
		if encodeErr := ledger.EncodePortions(seedPortions(resv)); encodeErr != nil {
			return appErrors.Wrap(encodeErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed slot ledger")
		}
	} else if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot ledger")
	}

	portions, err := ledger.DecodePortions()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode slot ledger")
	}
	portions, err = consumePortions(portions, sched.StartTime, sched.EndTime, consumed)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update slot ledger portions")
	}
	if err := ledger.EncodePortions(portions); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode slot ledger")
	}
	if err := s.slots.Upsert(ctx, ledger); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist slot ledger")
	}
	return nil
}

// --- Predicate helpers ---

func regionsMatch(teamRegion, fieldRegion string) bool {
	if strings.EqualFold(teamRegion, "all") || strings.EqualFold(fieldRegion, "all") {
		return true
	}
	return strings.EqualFold(teamRegion, fieldRegion)
}

func hasPreferredDay(team models.Team, day string) bool {
	for _, preferred := range team.PreferredDays {
		if strings.EqualFold(strings.TrimSpace(preferred), day) {
			return true
		}
	}
	return false
}

// preferredTimeFits checks that the team's preferred start leaves room for at
// least a minimum-length session before the reservation closes.
func preferredTimeFits(team models.Team, resv models.Reservation) bool {
	prefStart, ok1 := models.MinutesOfDay(team.PreferredStartTime)
	resvEnd, ok2 := models.MinutesOfDay(resv.EndTime)
	if !ok1 || !ok2 {
		return false
	}
	return prefStart <= resvEnd && prefStart+team.MinimumLength <= resvEnd
}

func teamTraveling(team models.Team, date string) bool {
	for _, window := range team.TravelBlackouts() {
		if window.StartDate == "" || window.EndDate == "" {
			continue
		}
		if date >= window.StartDate && date <= window.EndDate {
			return true
		}
	}
	return false
}

func nextStartAfter(bookings []models.Schedule, start int) (int, bool) {
	next := -1
	for _, booking := range bookings {
		end, ok := models.MinutesOfDay(booking.EndTime)
		if !ok || end <= start {
			continue
		}
		if next == -1 || end < next {
			next = end
		}
	}
	if next == -1 {
		return 0, false
	}
	return next, true
}

func latestSameCoachEnd(bookings []models.Schedule, team models.Team) (int, bool) {
	coachID := derefString(team.CoachID)
	if coachID == "" {
		return 0, false
	}
	latest := -1
	for _, booking := range bookings {
		if derefString(booking.CoachID) != coachID {
			continue
		}
		end, ok := models.MinutesOfDay(booking.EndTime)
		if !ok {
			continue
		}
		if end > latest {
			latest = end
		}
	}
	if latest == -1 {
		return 0, false
	}
	return latest, true
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
