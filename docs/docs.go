// Package docs holds the OpenAPI description served by the swagger UI.
package docs

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
    "paths": {
        "/api/v1/screens/{screen}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sections"],
                "summary": "Get aggregated screen data",
                "parameters": [
                    {
                        "type": "string",
                        "enum": ["mall", "cash-store"],
                        "description": "Screen name",
                        "name": "screen",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/section.View"}},
                    "404": {"description": "Unknown screen"},
                    "502": {"description": "Upstream failure with no cached data"}
                }
            }
        },
        "/api/v1/screens/{screen}/more": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sections"],
                "summary": "Load the next page of a section",
                "parameters": [
                    {
                        "type": "string",
                        "enum": ["mall", "cash-store"],
                        "description": "Screen name",
                        "name": "screen",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Section to extend",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.LoadMoreRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/section.View"}},
                    "400": {"description": "Bad request"},
                    "404": {"description": "Unknown screen"}
                }
            }
        },
        "/api/v1/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Search brands",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Search query",
                        "name": "q",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SearchResponse"}},
                    "502": {"description": "Upstream failure"}
                }
            }
        },
        "/api/v1/coupons": {
            "get": {
                "produces": ["application/json"],
                "tags": ["coupons"],
                "summary": "List active coupons",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.CouponsResponse"}},
                    "502": {"description": "Upstream failure"}
                }
            }
        },
        "/api/v1/clicks": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Track a brand click",
                "parameters": [
                    {
                        "description": "Click event",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.TrackClickRequest"}
                    }
                ],
                "responses": {
                    "202": {"description": "Accepted"},
                    "400": {"description": "Bad request"}
                }
            }
        },
        "/internal/screens/{screen}/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sections"],
                "summary": "Force-refresh a screen",
                "parameters": [
                    {
                        "type": "string",
                        "enum": ["mall", "cash-store"],
                        "description": "Screen name",
                        "name": "screen",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/section.View"}},
                    "404": {"description": "Unknown screen"},
                    "502": {"description": "Upstream failure with no cached data"}
                }
            }
        }
    },
    "definitions": {
        "handlers.CouponsResponse": {
            "type": "object",
            "properties": {
                "coupons": {"type": "array", "items": {"type": "object"}}
            }
        },
        "handlers.LoadMoreRequest": {
            "type": "object",
            "required": ["section"],
            "properties": {
                "section": {"type": "string"}
            }
        },
        "handlers.SearchResponse": {
            "type": "object",
            "properties": {
                "brands": {"type": "array", "items": {"type": "object"}},
                "query": {"type": "string"}
            }
        },
        "handlers.TrackClickRequest": {
            "type": "object",
            "required": ["brandId", "kind"],
            "properties": {
                "brandId": {"type": "string"},
                "kind": {"type": "string", "enum": ["brand", "affiliate"]},
                "source": {"type": "string"}
            }
        },
        "section.View": {
            "type": "object",
            "properties": {
                "snapshot": {"type": "object"},
                "isLoading": {"type": "boolean"},
                "isRefreshing": {"type": "boolean"},
                "isInitialLoad": {"type": "boolean"},
                "error": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Marketplace Aggregation Service API",
	Description:      "Aggregated mall and cash-store screen data with cached snapshots, brand search and click tracking.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
