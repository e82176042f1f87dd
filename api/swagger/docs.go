// Package swagger registers the curvefit OpenAPI document with swag so the
// dev-mode Swagger UI can serve it at /swagger/doc.json.
//
// Do not edit the template by hand. After changing a handler annotation,
// regenerate this package from the repository root:
//
//	swag init -g cmd/curvefit/main.go -o api/swagger --outputTypes go
package swagger

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
        "/fitting/fit": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Fits linear, quadratic, exponential, logarithmic and power models to paired samples and explains each fit.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["fitting"],
                "summary": "Fit curves",
                "parameters": [
                    {
                        "description": "Samples and model types",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/curve.FitRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/curve.FitResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.Problem"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/server.Problem"}}
                }
            }
        },
        "/fitting/models": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns each model family with its formula, domain requirement and table columns.",
                "produces": ["application/json"],
                "tags": ["fitting"],
                "summary": "List models",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/curve.ModelInfo"}}
                    }
                }
            }
        },
        "/health": {
            "get": {
                "description": "Returns service health status with version and plugin information.",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.HealthResponse"}}
                }
            }
        },
        "/plugins": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns all registered plugins with their metadata.",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "List plugins",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/server.PluginResponse"}}
                    }
                }
            }
        }
    },
    "definitions": {
        "curve.FitRequest": {
            "type": "object",
            "properties": {
                "x": {"type": "array", "items": {"type": "number"}},
                "y": {"type": "array", "items": {"type": "number"}},
                "types": {"type": "array", "items": {"type": "string"}, "example": ["linear", "power"]}
            }
        },
        "curve.FitResponse": {
            "type": "object",
            "properties": {
                "results": {"type": "array", "items": {"$ref": "#/definitions/curve.FitResult"}},
                "bestType": {"type": "string", "x-nullable": true}
            }
        },
        "curve.FitResult": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "formula": {"type": "string"},
                "question": {"type": "string"},
                "coefficients": {"type": "object", "additionalProperties": {"type": "number"}},
                "equation": {"type": "string"},
                "r2": {"type": "number"},
                "columns": {"type": "array", "items": {"type": "string"}},
                "table": {"type": "array", "items": {"type": "object", "additionalProperties": {"type": "number"}}},
                "sums": {"type": "object", "additionalProperties": {"type": "number"}},
                "equations": {"type": "array", "items": {"type": "string"}},
                "working": {"type": "array", "items": {"type": "string"}},
                "steps": {"type": "array", "items": {"type": "string"}},
                "warnings": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "curve.ModelInfo": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "power"},
                "formula": {"type": "string", "example": "y = a x^b"},
                "domain": {"type": "string", "example": "x > 0 and y > 0"},
                "columns": {"type": "array", "items": {"type": "string"}},
                "question": {"type": "string"}
            }
        },
        "server.Problem": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "string"},
                "instance": {"type": "string"}
            }
        },
        "server.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"},
                "service": {"type": "string", "example": "curvefit"},
                "version": {"type": "object", "additionalProperties": {"type": "string"}},
                "plugins": {"type": "object", "additionalProperties": {"type": "object"}}
            }
        },
        "server.PluginResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "fitting"},
                "version": {"type": "string", "example": "0.1.0"},
                "description": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT Bearer token. Format: \"Bearer {token}\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "curvefit API",
	Description:      "Least-squares curve fitting with worked explanations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
