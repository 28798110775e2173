package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Trip Planner API",
        "description": "Availability-aware itinerary planning over a booking provider catalog",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Destinations", "description": "Destination and activity catalog"},
        {"name": "Activities", "description": "Cached activity records"},
        {"name": "Plans", "description": "Itinerary generation and export"},
        {"name": "Sync", "description": "Catalog refresh jobs"}
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/destinations": {
            "get": {
                "tags": ["Destinations"],
                "summary": "List destinations",
                "parameters": [
                    {"name": "country", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/destinations/{id}": {
            "get": {
                "tags": ["Destinations"],
                "summary": "Get destination",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/destinations/{id}/activities": {
            "get": {
                "tags": ["Destinations"],
                "summary": "List cached activities for a destination",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "minRating", "in": "query", "type": "number"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/activities/{id}": {
            "get": {
                "tags": ["Activities"],
                "summary": "Get cached activity",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans": {
            "post": {
                "tags": ["Plans"],
                "summary": "Generate a day-by-day itinerary",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GeneratePlanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/export": {
            "post": {
                "tags": ["Plans"],
                "summary": "Export a generated itinerary as PDF or CSV",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportPlanRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rendered document"}
                }
            }
        },
        "/sync": {
            "post": {
                "tags": ["Sync"],
                "summary": "Queue a full catalog refresh",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/destinations/{id}/sync": {
            "post": {
                "tags": ["Sync"],
                "summary": "Queue a catalog refresh for one destination",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GeneratePlanRequest": {
            "type": "object",
            "properties": {
                "destinationId": {"type": "string"},
                "startDate": {"type": "string", "example": "2025-07-07"},
                "endDate": {"type": "string", "example": "2025-07-09"}
            },
            "required": ["destinationId", "startDate", "endDate"]
        },
        "ExportPlanRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["pdf", "csv"]},
                "plan": {"$ref": "#/definitions/GeneratePlanResponse"}
            },
            "required": ["format", "plan"]
        },
        "GeneratePlanResponse": {
            "type": "object",
            "properties": {
                "planId": {"type": "string"},
                "destinationId": {"type": "string"},
                "startDate": {"type": "string"},
                "endDate": {"type": "string"},
                "days": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/DayPlan"}
                },
                "stats": {"$ref": "#/definitions/PlanStats"}
            }
        },
        "DayPlan": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "activities": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/PlannedActivity"}
                }
            }
        },
        "PlannedActivity": {
            "type": "object",
            "properties": {
                "providerId": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "rating": {"type": "number"},
                "reviewCount": {"type": "integer"},
                "durationMinutes": {"type": "integer"},
                "price": {"type": "number"},
                "currency": {"type": "string"},
                "images": {"type": "array", "items": {"type": "string"}},
                "bookingUrl": {"type": "string"},
                "startTimestamp": {"type": "string"},
                "endTimestamp": {"type": "string"}
            }
        },
        "PlanStats": {
            "type": "object",
            "properties": {
                "candidateCount": {"type": "integer"},
                "scheduledCount": {"type": "integer"},
                "solverStatus": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
