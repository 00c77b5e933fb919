// Package docs registers the OpenAPI document served under /swagger.
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
        "/api/buildings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["buildings"],
                "summary": "List buildings",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "page number", "name": "page", "in": "query"},
                    {"type": "integer", "description": "page size", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SearchResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/buildings/{idOrSlug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["buildings"],
                "summary": "Get a building by id or slug",
                "parameters": [
                    {"type": "string", "description": "building id or slug", "name": "idOrSlug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Building"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/buildings/{idOrSlug}/like": {
            "post": {
                "produces": ["application/json"],
                "tags": ["buildings"],
                "summary": "Like a building",
                "parameters": [
                    {"type": "integer", "description": "building id", "name": "idOrSlug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.likeResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/photos/{id}/like": {
            "post": {
                "produces": ["application/json"],
                "tags": ["buildings"],
                "summary": "Like a photo",
                "parameters": [
                    {"type": "integer", "description": "photo id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.likeResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Search buildings",
                "parameters": [
                    {"type": "string", "description": "free text", "name": "q", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "description": "architect ids or slugs", "name": "architects", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "description": "building types", "name": "buildingTypes", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "description": "prefectures", "name": "prefectures", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "description": "areas", "name": "areas", "in": "query"},
                    {"type": "boolean", "description": "only buildings with photos", "name": "hasPhotos", "in": "query"},
                    {"type": "boolean", "description": "only buildings with videos", "name": "hasVideos", "in": "query"},
                    {"type": "number", "description": "current latitude", "name": "lat", "in": "query"},
                    {"type": "number", "description": "current longitude", "name": "lng", "in": "query"},
                    {"type": "number", "description": "radius in km", "name": "radius", "in": "query"},
                    {"type": "integer", "default": 1, "description": "page number", "name": "page", "in": "query"},
                    {"type": "integer", "description": "page size", "name": "limit", "in": "query"},
                    {"enum": ["ja", "en"], "type": "string", "description": "ja or en", "name": "language", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SearchResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/nearby": {
            "get": {
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Buildings near a point",
                "parameters": [
                    {"type": "number", "description": "latitude", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "longitude", "name": "lng", "in": "query", "required": true},
                    {"type": "number", "description": "radius in km", "name": "radius", "in": "query"},
                    {"type": "integer", "description": "maximum results", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Building"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/suggestions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Search term suggestions",
                "parameters": [
                    {"type": "string", "description": "partial term", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}}
                }
            }
        },
        "/api/popular-searches": {
            "get": {
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Most frequent recent searches",
                "parameters": [
                    {"type": "integer", "description": "maximum results", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.PopularSearch"}}}
                }
            }
        },
        "/api/architects": {
            "get": {
                "produces": ["application/json"],
                "tags": ["architects"],
                "summary": "Search architects by name",
                "parameters": [
                    {"type": "string", "description": "name fragment", "name": "q", "in": "query", "required": true},
                    {"type": "integer", "description": "maximum results", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Architect"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/architects/{idOrSlug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["architects"],
                "summary": "Get an architect by id or slug",
                "parameters": [
                    {"type": "string", "description": "architect id or slug", "name": "idOrSlug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Architect"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/architects/{idOrSlug}/buildings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["architects"],
                "summary": "Buildings credited to an architect",
                "parameters": [
                    {"type": "string", "description": "architect id or slug", "name": "idOrSlug", "in": "path", "required": true},
                    {"type": "integer", "default": 1, "description": "page number", "name": "page", "in": "query"},
                    {"type": "integer", "description": "page size", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SearchResult"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorResponse": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "error": {"type": "string"}}
        },
        "handler.likeResponse": {
            "type": "object",
            "properties": {"likes": {"type": "integer"}}
        },
        "models.Architect": {
            "type": "object",
            "properties": {
                "architectEn": {"type": "string"},
                "architectJa": {"type": "string"},
                "architect_id": {"type": "integer"},
                "individual_architect_id": {"type": "integer"},
                "order_index": {"type": "integer"},
                "slug": {"type": "string"},
                "websites": {"type": "array", "items": {"$ref": "#/definitions/models.Website"}}
            }
        },
        "models.Building": {
            "type": "object",
            "properties": {
                "architects": {"type": "array", "items": {"$ref": "#/definitions/models.Architect"}},
                "areas": {"type": "string"},
                "areasEn": {"type": "string"},
                "buildingTypes": {"type": "array", "items": {"type": "string"}},
                "buildingTypesEn": {"type": "array", "items": {"type": "string"}},
                "completionYears": {"type": "integer"},
                "created_at": {"type": "string"},
                "distance": {"type": "number"},
                "id": {"type": "integer"},
                "lat": {"type": "number"},
                "likes": {"type": "integer"},
                "lng": {"type": "number"},
                "location": {"type": "string"},
                "locationEn": {"type": "string"},
                "parentBuildingTypes": {"type": "array", "items": {"type": "string"}},
                "parentStructures": {"type": "array", "items": {"type": "string"}},
                "photos": {"type": "array", "items": {"$ref": "#/definitions/models.Photo"}},
                "prefectures": {"type": "string"},
                "prefecturesEn": {"type": "string"},
                "slug": {"type": "string"},
                "structures": {"type": "array", "items": {"type": "string"}},
                "thumbnailUrl": {"type": "string"},
                "title": {"type": "string"},
                "titleEn": {"type": "string"},
                "uid": {"type": "string"},
                "updated_at": {"type": "string"},
                "youtubeUrl": {"type": "string"}
            }
        },
        "models.Photo": {
            "type": "object",
            "properties": {
                "building_id": {"type": "integer"},
                "id": {"type": "integer"},
                "likes": {"type": "integer"},
                "url": {"type": "string"}
            }
        },
        "models.PopularSearch": {
            "type": "object",
            "properties": {"count": {"type": "integer"}, "query": {"type": "string"}}
        },
        "models.SearchResult": {
            "type": "object",
            "properties": {
                "buildings": {"type": "array", "items": {"$ref": "#/definitions/models.Building"}},
                "total": {"type": "integer"}
            }
        },
        "models.Website": {
            "type": "object",
            "properties": {"title": {"type": "string"}, "url": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Buildings API",
	Description:      "Building and architect directory: listing, search with geospatial fallback, likes and suggestions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
