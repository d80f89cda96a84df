// Package docs serves the Swagger 2.0 document for the vendorhub API at
// /swagger/doc.json. Keep it in sync with the routes in httpserver.
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
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/api/vendors/v1/vendors": {
            "get": {
                "tags": ["vendors"],
                "summary": "List vendor cards",
                "parameters": [
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "string", "name": "cursor", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ListVendorsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/vendors/v1/vendors/{vendor_id}": {
            "get": {
                "tags": ["vendors"],
                "summary": "Get one vendor",
                "parameters": [{"type": "string", "name": "vendor_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Vendor"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "patch": {
                "tags": ["vendors"],
                "summary": "Update vendor fields (admin)",
                "parameters": [
                    {"type": "string", "name": "vendor_id", "in": "path", "required": true},
                    {"type": "string", "name": "X-Request-Id", "in": "header", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateVendorRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Vendor"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Version conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/vendors/v1/vendors/{vendor_id}/deal": {
            "post": {
                "tags": ["vendors"],
                "summary": "Close a vendor deal (admin)",
                "parameters": [
                    {"type": "string", "name": "vendor_id", "in": "path", "required": true},
                    {"type": "string", "name": "X-Request-Id", "in": "header", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CloseDealRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CloseDealResponse"}},
                    "422": {"description": "Invalid deal value", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/vendors/v1/catalog": {
            "get": {
                "tags": ["vendors"],
                "summary": "Categories and pricing plans",
                "security": [],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/vendors/v1/translations/{key}": {
            "get": {
                "tags": ["vendors"],
                "summary": "Translate an error code to user-facing text",
                "security": [],
                "parameters": [{"type": "string", "name": "key", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/TranslateResponse"}}}
            }
        },
        "/api/authz/v1/rpc/has_role": {
            "post": {
                "tags": ["authz"],
                "summary": "Check whether a subject holds a role",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/HasRoleRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/HasRoleResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/authz/v1/users/{user_id}/roles": {
            "get": {
                "tags": ["authz"],
                "summary": "List role assignments",
                "parameters": [{"type": "string", "name": "user_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/authz/v1/users/{user_id}/roles/grant": {
            "post": {
                "tags": ["authz"],
                "summary": "Grant a role (admin, idempotent)",
                "parameters": [
                    {"type": "string", "name": "user_id", "in": "path", "required": true},
                    {"type": "string", "name": "Idempotency-Key", "in": "header", "required": true},
                    {"type": "string", "name": "X-Request-Id", "in": "header", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RoleChangeRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/api/authz/v1/users/{user_id}/roles/revoke": {
            "post": {
                "tags": ["authz"],
                "summary": "Revoke a role (admin, idempotent)",
                "parameters": [
                    {"type": "string", "name": "user_id", "in": "path", "required": true},
                    {"type": "string", "name": "Idempotency-Key", "in": "header", "required": true},
                    {"type": "string", "name": "X-Request-Id", "in": "header", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RoleChangeRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        }
    },
    "definitions": {
        "ErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "Vendor": {
            "type": "object",
            "properties": {
                "vendor_id": {"type": "string"},
                "name": {"type": "string"},
                "category": {"type": "string"},
                "city": {"type": "string"},
                "price_tier": {"type": "string"},
                "rating_average": {"type": "number"},
                "rating_count": {"type": "integer"},
                "deal_closed": {"type": "boolean"},
                "deal_value": {"type": "number"},
                "deal_closed_at": {"type": "string", "format": "date-time"},
                "version": {"type": "integer"}
            }
        },
        "ListVendorsResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/Vendor"}},
                "next_cursor": {"type": "string"}
            }
        },
        "UpdateVendorRequest": {
            "type": "object",
            "properties": {
                "fields": {"type": "object", "additionalProperties": true},
                "expected_version": {"type": "integer"}
            }
        },
        "CloseDealRequest": {
            "type": "object",
            "properties": {
                "deal_value": {"description": "number, or text such as \"150,50\""},
                "expected_version": {"type": "integer"}
            }
        },
        "CloseDealResponse": {
            "type": "object",
            "properties": {
                "vendor": {"$ref": "#/definitions/Vendor"},
                "formatted_value": {"type": "string"}
            }
        },
        "TranslateResponse": {
            "type": "object",
            "properties": {"key": {"type": "string"}, "message": {"type": "string"}}
        },
        "HasRoleRequest": {
            "type": "object",
            "properties": {"subject_id": {"type": "string"}, "role_name": {"type": "string"}}
        },
        "HasRoleResponse": {
            "type": "object",
            "properties": {
                "result": {"type": "boolean"},
                "checked_at": {"type": "string", "format": "date-time"},
                "cache_hit": {"type": "boolean"}
            }
        },
        "RoleChangeRequest": {
            "type": "object",
            "properties": {"role_id": {"type": "string"}, "reason": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "vendorhub API",
	Description:      "Vendor marketplace: vendor cards, deal closing and role checks.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
