package dto

// GenerateSchedulesRequest triggers a generation run over already imported
// reservations.
type GenerateSchedulesRequest struct {
	ReservationIDs []string `json:"reservationIds" binding:"required,min=1,dive,required"`
}

// ImportSkip describes one spreadsheet row that was not imported.
type ImportSkip struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportSummary reports the outcome of a reservation import.
type ImportSummary struct {
	Imported       int          `json:"imported"`
	Skipped        []ImportSkip `json:"skipped,omitempty"`
	ReservationIDs []string     `json:"reservationIds"`
	Dates          []string     `json:"dates"`
	JobID          string       `json:"jobId,omitempty"`
}

// ScheduleQuery filters the schedule listing endpoint.
type ScheduleQuery struct {
	TeamID   string `form:"teamId"`
	CoachID  string `form:"coachId"`
	FieldID  string `form:"fieldId"`
	DateFrom string `form:"dateFrom" binding:"omitempty,isodate"`
	DateTo   string `form:"dateTo" binding:"omitempty,isodate"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"pageSize,default=50"`
}

// GenerationStatus reports whether a club currently has a run in flight.
type GenerationStatus struct {
	ClubID     string `json:"clubId"`
	Generating bool   `json:"generating"`
}

// GenerateSchedulesPayload is carried on the jobs queue between the import or
// generate endpoints and the scheduler worker.
type GenerateSchedulesPayload struct {
	ClubID         string   `json:"clubId"`
	ReservationIDs []string `json:"reservationIds"`
}
