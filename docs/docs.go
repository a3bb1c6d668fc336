// Package docs registers the OpenAPI description served under /swagger.
// Regenerate from the handler annotations with:
//
//	swag init -g cmd/server/main.go -o docs
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/signup": {"post": {"tags": ["auth"], "summary": "Create an account", "responses": {"201": {"description": "Account created"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "Access and refresh tokens"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Refresh tokens", "responses": {"200": {"description": "New token pair"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Log out", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Logged out"}}}},
        "/auth/me": {"get": {"tags": ["auth"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "User"}}}},
        "/extract": {"post": {"tags": ["extraction"], "summary": "Extract a Statement of Facts", "consumes": ["multipart/form-data"], "responses": {"200": {"description": "Extraction result"}}}},
        "/documents/upload": {"post": {"tags": ["documents"], "summary": "Upload a Statement of Facts", "consumes": ["multipart/form-data"], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Document queued"}}}},
        "/documents": {"get": {"tags": ["documents"], "summary": "List documents", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Documents"}}}},
        "/documents/{id}": {
            "get": {"tags": ["documents"], "summary": "Get document by ID", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Document"}}},
            "delete": {"tags": ["documents"], "summary": "Delete a document", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Deleted"}}}
        },
        "/documents/{id}/download": {"get": {"tags": ["documents"], "summary": "Get a download URL", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Presigned URL"}}}},
        "/ocr/{id}": {"post": {"tags": ["extraction"], "summary": "Extract a document", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Extraction result"}}}},
        "/clauses/{id}": {"post": {"tags": ["extraction"], "summary": "Business data of a document", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Business data"}}}},
        "/summaries/{id}": {"post": {"tags": ["extraction"], "summary": "Laytime summary of a document", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Laytime summary"}}}},
        "/calculations": {
            "post": {"tags": ["calculations"], "summary": "Calculate laytime", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Calculation"}}},
            "get": {"tags": ["calculations"], "summary": "List calculations", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Calculations"}}}
        },
        "/calculations/import": {"post": {"tags": ["calculations"], "summary": "Import a calculation", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Calculation"}}}},
        "/calculations/{id}": {
            "get": {"tags": ["calculations"], "summary": "Get a calculation", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Calculation"}}},
            "delete": {"tags": ["calculations"], "summary": "Delete a calculation", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Deleted"}}}
        },
        "/calculations/{id}/export": {"get": {"tags": ["calculations"], "summary": "Export a calculation", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "File"}}}},
        "/calculations/{id}/events": {"post": {"tags": ["calculations"], "summary": "Add a timeline event", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Calculation"}}}},
        "/calculations/{id}/events/{index}": {
            "put": {"tags": ["calculations"], "summary": "Edit a timeline event", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Calculation"}}},
            "delete": {"tags": ["calculations"], "summary": "Delete a timeline event", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Calculation"}}}
        },
        "/calculations/{id}/events/{index}/percent": {"patch": {"tags": ["calculations"], "summary": "Set percent utilization", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Calculation"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "MariThon Laytime API",
	Description:      "Statement of Facts extraction and laytime demurrage/dispatch calculation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
