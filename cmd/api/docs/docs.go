// Package docs registers the OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        },
        "/quizzes": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["quizzes"],
                "summary": "List quizzes",
                "parameters": [
                    {"type": "string", "description": "Search over title and category", "name": "search", "in": "query"},
                    {"type": "integer", "description": "Page size (0 for all)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Page offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.QuizSummary"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/quizzes/generate": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["quizzes"],
                "summary": "Generate a quiz",
                "parameters": [
                    {"description": "Generation request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.GenerateQuizRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.GeneratedQuizResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/quizzes/import": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["quizzes"],
                "summary": "Import a quiz document",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.GeneratedQuizResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/quizzes/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["quizzes"],
                "summary": "Get a quiz",
                "parameters": [{"type": "string", "description": "Quiz ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuizResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["quizzes"],
                "summary": "Replace a quiz",
                "parameters": [{"type": "string", "description": "Quiz ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.GeneratedQuizResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["quizzes"],
                "summary": "Delete a quiz",
                "parameters": [{"type": "string", "description": "Quiz ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/quizzes/{id}/export": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["quizzes"],
                "summary": "Export a quiz",
                "parameters": [{"type": "string", "description": "Quiz ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/quizzes/{id}/results": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["results"],
                "summary": "List play results",
                "parameters": [{"type": "string", "description": "Quiz ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.ResultResponse"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["results"],
                "summary": "Submit a play result",
                "parameters": [
                    {"type": "string", "description": "Quiz ID", "name": "id", "in": "path", "required": true},
                    {"description": "Answers", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SubmitResultRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.ResultResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Question": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "text": {"type": "string"},
                "options": {"type": "array", "items": {"$ref": "#/definitions/domain.QuestionOption"}},
                "correctAnswer": {"type": "string"},
                "explanation": {"type": "string"}
            }
        },
        "domain.QuestionOption": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "text": {"type": "string"}}
        },
        "dto.AnswerResult": {
            "type": "object",
            "properties": {
                "question_id": {"type": "string"},
                "selected_answer": {"type": "string"},
                "is_correct": {"type": "boolean"}
            }
        },
        "dto.AnswerSubmission": {
            "type": "object",
            "properties": {"question_id": {"type": "string"}, "selected_answer": {"type": "string"}}
        },
        "dto.GenerateQuizRequest": {
            "type": "object",
            "properties": {
                "topic": {"type": "string"},
                "code_snippet": {"type": "string"},
                "difficulty": {"type": "string", "enum": ["beginner", "intermediate", "advanced"]},
                "question_count": {"type": "integer"}
            }
        },
        "dto.GeneratedQuizResponse": {
            "type": "object",
            "properties": {
                "quiz": {"$ref": "#/definitions/dto.QuizResponse"},
                "warnings": {"type": "array", "items": {"$ref": "#/definitions/dto.RecoveryWarning"}}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "checks": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "dto.QuizResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "difficulty": {"type": "string"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/domain.Question"}},
                "created": {"type": "string"},
                "stats": {"$ref": "#/definitions/dto.QuizStats"},
                "updated_at": {"type": "string"}
            }
        },
        "dto.QuizStats": {
            "type": "object",
            "properties": {
                "last_played": {"type": "string"},
                "best_score": {"type": "integer"},
                "times_played": {"type": "integer"}
            }
        },
        "dto.QuizSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "difficulty": {"type": "string"},
                "question_count": {"type": "integer"},
                "created": {"type": "string"},
                "stats": {"$ref": "#/definitions/dto.QuizStats"}
            }
        },
        "dto.RecoveryWarning": {
            "type": "object",
            "properties": {"question_index": {"type": "integer"}, "reason": {"type": "string"}}
        },
        "dto.ResultResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "quiz_id": {"type": "string"},
                "date": {"type": "string"},
                "score": {"type": "integer"},
                "total_questions": {"type": "integer"},
                "percentage": {"type": "integer"},
                "time_spent_seconds": {"type": "integer"},
                "answers": {"type": "array", "items": {"$ref": "#/definitions/dto.AnswerResult"}}
            }
        },
        "dto.SubmitResultRequest": {
            "type": "object",
            "properties": {
                "answers": {"type": "array", "items": {"$ref": "#/definitions/dto.AnswerSubmission"}},
                "time_spent_seconds": {"type": "integer"}
            }
        },
        "middleware.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object", "additionalProperties": true},
                "request_id": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "description": "Type 'Bearer YOUR_JWT_TOKEN' to authorize.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8090",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Quizforge API",
	Description:      "Generates coding quizzes with a language model, stores them and records play results.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
