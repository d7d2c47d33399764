package api

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "in": "header", "name": "X-API-Key"}
    },
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "produces": ["application/json"],
                "responses": {"200": {"description": "healthy", "schema": {"$ref": "#/definitions/APIResponse"}}}
            }
        },
        "/candidates": {
            "get": {
                "summary": "List the candidates of a set",
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "set", "in": "query", "type": "string", "description": "Candidate set, default set when empty"}
                ],
                "responses": {
                    "200": {"description": "candidate set", "schema": {"$ref": "#/definitions/APIResponse"}},
                    "404": {"description": "unknown set", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        },
        "/evaluate": {
            "post": {
                "summary": "Decode the request body against every candidate",
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "string", "format": "binary"}},
                    {"name": "set", "in": "query", "type": "string"},
                    {"name": "candidates", "in": "query", "type": "string", "description": "Comma separated candidate names"},
                    {"name": "budget", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"},
                    {"name": "length", "in": "query", "type": "integer"},
                    {"name": "name", "in": "query", "type": "string", "description": "Source name recorded in the report"}
                ],
                "responses": {
                    "200": {"description": "run report", "schema": {"$ref": "#/definitions/APIResponse"}},
                    "400": {"description": "bad parameter", "schema": {"$ref": "#/definitions/APIResponse"}},
                    "404": {"description": "unknown set or candidate", "schema": {"$ref": "#/definitions/APIResponse"}},
                    "413": {"description": "body too large", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        },
        "/runs": {
            "get": {
                "summary": "List archived runs, newest first",
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "run entries", "schema": {"$ref": "#/definitions/APIResponse"}},
                    "404": {"description": "archive disabled", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        },
        "/runs/{id}": {
            "get": {
                "summary": "Get an archived run report",
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "run report", "schema": {"$ref": "#/definitions/APIResponse"}},
                    "404": {"description": "not found", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            },
            "delete": {
                "summary": "Delete an archived run report",
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "deleted", "schema": {"$ref": "#/definitions/APIResponse"}},
                    "404": {"description": "not found", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "error": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "recprobe API",
	Description:      "Decode raw binary buffers against candidate record layouts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
