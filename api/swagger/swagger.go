package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SchoolPilot API",
        "description": "Multi-role academic records platform",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Activation, login and password reset"},
        {"name": "Profile", "description": "Self-service account updates"},
        {"name": "Objects", "description": "Privilege-gated entity management"},
        {"name": "Catalog", "description": "Available-course buckets"},
        {"name": "Registration", "description": "Student course registration"},
        {"name": "Records", "description": "Result approval workflow"},
        {"name": "Projects", "description": "Submissions and grading"},
        {"name": "Schedules", "description": "Personal calendar"}
    ],
    "paths": {
        "/staff/auth/activation/request": {
            "post": {
                "tags": ["Auth"],
                "summary": "Request a staff activation code",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EmailRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/staff/auth/activate": {
            "post": {
                "tags": ["Auth"],
                "summary": "Activate a staff account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ActivateRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/staff/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Staff login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/staff/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke the staff session",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/staff/objects": {
            "post": {
                "tags": ["Objects"],
                "summary": "Create one entity",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GatewayCreateRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/staff/objects/bulk": {
            "post": {
                "tags": ["Objects"],
                "summary": "Bulk-create entities with partial-failure reporting",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GatewayCreateManyRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/staff/objects/{type}/{id}": {
            "get": {
                "tags": ["Objects"],
                "summary": "Fetch one entity",
                "parameters": [
                    {"name": "type", "in": "path", "type": "string", "required": true},
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "patch": {
                "tags": ["Objects"],
                "summary": "Update one entity",
                "parameters": [
                    {"name": "type", "in": "path", "type": "string", "required": true},
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Objects"],
                "summary": "Delete one entity",
                "parameters": [
                    {"name": "type", "in": "path", "type": "string", "required": true},
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/staff/courses/available": {
            "put": {
                "tags": ["Catalog"],
                "summary": "Replace available-course buckets per (level, semester)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetCoursesRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Catalog"],
                "summary": "Remove available-course buckets by key",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UnsetCoursesRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/staff/records/{id}/approve": {
            "post": {
                "tags": ["Records"],
                "summary": "Advance a record one approval stage",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/staff/projects/{id}/grade": {
            "post": {
                "tags": ["Projects"],
                "summary": "Grade submissions after the deadline",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradeProjectRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/courses/available": {
            "get": {
                "tags": ["Registration"],
                "summary": "List courses offered for the student's level and a semester",
                "parameters": [
                    {"name": "semester", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/courses/register": {
            "post": {
                "tags": ["Registration"],
                "summary": "Register courses for one semester",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterCoursesRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Registration"],
                "summary": "Drop the registration bucket for one semester",
                "parameters": [
                    {"name": "semester", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/students/projects/{id}/submit": {
            "post": {
                "tags": ["Projects"],
                "summary": "Submit an answer before the deadline",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitProjectRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "EmailRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}
            }
        },
        "ActivateRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "code": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "GatewayCreateRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "attrs": {"type": "object"}
            }
        },
        "GatewayCreateManyRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "items": {"type": "array", "items": {"type": "object"}}
            }
        },
        "SetCoursesRequest": {
            "type": "object",
            "properties": {
                "owner": {"type": "string"},
                "owner_id": {"type": "string"},
                "course_ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "UnsetCoursesRequest": {
            "type": "object",
            "properties": {
                "owner": {"type": "string"},
                "owner_id": {"type": "string"},
                "keys": {"type": "array", "items": {"$ref": "#/definitions/BucketKey"}}
            }
        },
        "BucketKey": {
            "type": "object",
            "properties": {
                "level": {"type": "integer"},
                "semester": {"type": "integer"}
            }
        },
        "RegisterCoursesRequest": {
            "type": "object",
            "properties": {
                "semester": {"type": "integer"},
                "course_ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "GradeProjectRequest": {
            "type": "object",
            "properties": {
                "scores": {"type": "array", "items": {"$ref": "#/definitions/ScoreEntry"}}
            }
        },
        "ScoreEntry": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "score": {"type": "number"},
                "comment": {"type": "string"}
            }
        },
        "SubmitProjectRequest": {
            "type": "object",
            "properties": {
                "answer": {"type": "string"}
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
