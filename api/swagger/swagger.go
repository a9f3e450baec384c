package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Advocates Directory API",
        "description": "Search and page through the advocate roster",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Advocates", "description": "Directory search and dev seeding"},
        {"name": "Health", "description": "Liveness and readiness probes"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Ready", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Store unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/advocates": {
            "get": {
                "tags": ["Advocates"],
                "summary": "Search advocates",
                "description": "Filters are ANDed. Results are ordered newest first and paged by cursor. A malformed cursor restarts at the first page and sets meta.cursorIgnored.",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "q", "in": "query", "type": "string", "description": "Free text over name, city, degree and specialties"},
                    {"name": "city", "in": "query", "type": "string", "description": "City contains (case-insensitive)"},
                    {"name": "degree", "in": "query", "type": "string", "description": "Degree contains (case-insensitive)"},
                    {"name": "specialty", "in": "query", "type": "string", "description": "Specialty text"},
                    {"name": "minYears", "in": "query", "type": "number", "description": "Minimum years of experience (inclusive)"},
                    {"name": "maxYears", "in": "query", "type": "number", "description": "Maximum years of experience (inclusive)"},
                    {"name": "limit", "in": "query", "type": "integer", "description": "Page size (1-200, default 50)"},
                    {"name": "cursor", "in": "query", "type": "string", "description": "pageInfo.nextCursor from the previous page"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AdvocatePage"}},
                    "500": {"description": "Search failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/seed": {
            "post": {
                "tags": ["Advocates"],
                "summary": "Insert synthetic advocates",
                "description": "Only registered when ENABLE_SEED=true.",
                "parameters": [
                    {"name": "count", "in": "query", "type": "integer", "description": "Number of advocates (1-10000, default 1000)"}
                ],
                "responses": {
                    "201": {"description": "Seeded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Seeding failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Advocate": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "city": {"type": "string"},
                "degree": {"type": "string"},
                "specialties": {"type": "array", "items": {"type": "string"}},
                "yearsOfExperience": {"type": "integer"},
                "phoneNumber": {"type": "integer"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "PageInfo": {
            "type": "object",
            "properties": {
                "nextCursor": {"type": "string", "x-nullable": true},
                "hasNextPage": {"type": "boolean"},
                "limit": {"type": "integer"}
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
        "AdvocatePage": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/Advocate"}},
                "pageInfo": {"$ref": "#/definitions/PageInfo"},
                "meta": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
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
