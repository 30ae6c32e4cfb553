package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "AssignAField API",
        "description": "Practice-scheduling allocation engine for sports clubs",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Reservations", "description": "Reservation spreadsheet import"},
        {"name": "Schedules", "description": "Generated practice schedules"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/clubs/{clubId}/reservations/import": {
            "post": {
                "tags": ["Reservations"],
                "summary": "Import a reservation spreadsheet",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "clubId", "in": "path", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Unprocessable workbook", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/clubs/{clubId}/schedules/generate": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Queue a practice generation run",
                "parameters": [
                    {"name": "clubId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateSchedulesRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Run already in progress", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/clubs/{clubId}/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List generated schedules",
                "parameters": [
                    {"name": "clubId", "in": "path", "required": true, "type": "string"},
                    {"name": "teamId", "in": "query", "type": "string"},
                    {"name": "coachId", "in": "query", "type": "string"},
                    {"name": "fieldId", "in": "query", "type": "string"},
                    {"name": "dateFrom", "in": "query", "type": "string"},
                    {"name": "dateTo", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/clubs/{clubId}/schedules/export": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Export schedules as CSV or PDF",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "clubId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "dateFrom", "in": "query", "type": "string"},
                    {"name": "dateTo", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Rendered export"}
                }
            }
        },
        "/clubs/{clubId}/schedules/status": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Report whether a generation run is in flight",
                "parameters": [
                    {"name": "clubId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GenerateSchedulesRequest": {
            "type": "object",
            "properties": {
                "reservationIds": {
                    "type": "array",
                    "items": {"type": "string"}
                }
            },
            "required": ["reservationIds"]
        },
        "ImportSummary": {
            "type": "object",
            "properties": {
                "imported": {"type": "integer"},
                "skipped": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ImportSkip"}
                },
                "reservationIds": {
                    "type": "array",
                    "items": {"type": "string"}
                },
                "dates": {
                    "type": "array",
                    "items": {"type": "string"}
                },
                "jobId": {"type": "string"}
            }
        },
        "ImportSkip": {
            "type": "object",
            "properties": {
                "row": {"type": "integer"},
                "reason": {"type": "string"}
            }
        },
        "ScheduleDetail": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "club_id": {"type": "string"},
                "team_id": {"type": "string"},
                "coach_id": {"type": "string"},
                "field_id": {"type": "string"},
                "reservation_id": {"type": "string"},
                "schedule_date": {"type": "string"},
                "ideal_start_time": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "length_minutes": {"type": "integer"},
                "portion_index": {"type": "integer"},
                "field_portion": {"type": "string"},
                "team_name": {"type": "string"},
                "coach_name": {"type": "string"},
                "field_name": {"type": "string"}
            }
        },
        "GenerationStatus": {
            "type": "object",
            "properties": {
                "clubId": {"type": "string"},
                "generating": {"type": "boolean"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_items": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
