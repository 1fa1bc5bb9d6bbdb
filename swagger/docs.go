// Package swagger registers the OpenAPI document served under /swagger/.
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
        "/manage/health": {
            "get": {
                "tags": ["manage"],
                "summary": "liveness probe",
                "responses": {"200": {"description": "OK", "schema": {"type": "string"}}}
            }
        },
        "/api/v1/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "create a user account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/model.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.User"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errs.Response"}}
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "exchange credentials for an access token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/model.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errs.Response"}}
                }
            }
        },
        "/api/v1/borrows/request": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["borrows"],
                "summary": "request a book",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/model.BorrowRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.BorrowResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errs.Response"}}
                }
            }
        },
        "/api/v1/borrows/status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["borrows"],
                "summary": "borrow status of a book for a user",
                "parameters": [
                    {"type": "integer", "name": "bookId", "in": "query", "required": true},
                    {"type": "integer", "name": "userId", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.StatusView"}}}
            }
        },
        "/api/v1/borrows/user/{userId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["borrows"],
                "summary": "borrow history of a user, newest first",
                "parameters": [{"type": "integer", "name": "userId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.BorrowView"}}}}
            }
        },
        "/api/v1/borrows/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["borrows"],
                "summary": "cancel a pending request",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/model.CancelRequest"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/borrows/return": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["borrows"],
                "summary": "return a borrowed book",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/model.BorrowRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Borrow"}}}
            }
        },
        "/api/v1/books/{bookId}/stock": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["books"],
                "summary": "add or withdraw copies of a book",
                "parameters": [
                    {"type": "integer", "name": "bookId", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/model.StockDelta"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Book"}}}
            }
        },
        "/api/v1/admin/borrows": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "all borrow records, newest first",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ListBorrows"}}}
            }
        },
        "/api/v1/admin/borrows/{borrowId}/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "approve a pending request",
                "parameters": [
                    {"type": "integer", "name": "borrowId", "in": "path", "required": true},
                    {"in": "body", "name": "request", "schema": {"$ref": "#/definitions/model.NotesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Borrow"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errs.Response"}}
                }
            }
        },
        "/api/v1/admin/borrows/{borrowId}/reject": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "reject a pending request",
                "parameters": [
                    {"type": "integer", "name": "borrowId", "in": "path", "required": true},
                    {"in": "body", "name": "request", "schema": {"$ref": "#/definitions/model.NotesRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Borrow"}}}
            }
        },
        "/api/v1/admin/borrows/{borrowId}/confirm-borrow": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "hand out an approved book",
                "parameters": [
                    {"type": "integer", "name": "borrowId", "in": "path", "required": true},
                    {"in": "body", "name": "request", "schema": {"$ref": "#/definitions/model.NotesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Borrow"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errs.Response"}}
                }
            }
        },
        "/api/v1/admin/borrows/{borrowId}/confirm-return": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "take back a borrowed book",
                "parameters": [
                    {"type": "integer", "name": "borrowId", "in": "path", "required": true},
                    {"in": "body", "name": "request", "schema": {"$ref": "#/definitions/model.NotesRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Borrow"}}}
            }
        },
        "/api/v1/admin/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "per-user borrow activity",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.UserStats"}}}}
            }
        },
        "/api/v1/admin/ledger": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "books whose stock disagrees with copies on loan",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.LedgerDrift"}}}}
            }
        }
    },
    "definitions": {
        "errs.Response": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "kind": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "model.Book": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "author": {"type": "string"},
                "description": {"type": "string"},
                "imageUrl": {"type": "string"},
                "quantity": {"type": "integer"},
                "totalCopies": {"type": "integer"}
            }
        },
        "model.Borrow": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "bookId": {"type": "integer"},
                "userId": {"type": "integer"},
                "status": {"type": "string", "enum": ["pending", "approved", "borrowed", "returned", "rejected", "cancelled"]},
                "requestDate": {"type": "string"},
                "approvalDate": {"type": "string"},
                "borrowDate": {"type": "string"},
                "returnDate": {"type": "string"},
                "adminNotes": {"type": "string"}
            }
        },
        "model.BorrowView": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "bookId": {"type": "integer"},
                "userId": {"type": "integer"},
                "status": {"type": "string"},
                "requestDate": {"type": "string"},
                "approvalDate": {"type": "string"},
                "borrowDate": {"type": "string"},
                "returnDate": {"type": "string"},
                "adminNotes": {"type": "string"},
                "bookTitle": {"type": "string"},
                "bookAuthor": {"type": "string"},
                "bookImageUrl": {"type": "string"},
                "userName": {"type": "string"},
                "userEmail": {"type": "string"}
            }
        },
        "model.ListBorrows": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalElements": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/model.BorrowView"}}
            }
        },
        "model.BorrowRequest": {
            "type": "object",
            "required": ["bookId"],
            "properties": {"bookId": {"type": "integer"}, "userId": {"type": "integer"}}
        },
        "model.BorrowResponse": {
            "type": "object",
            "properties": {"borrowId": {"type": "integer"}, "status": {"type": "string"}}
        },
        "model.CancelRequest": {
            "type": "object",
            "required": ["borrowId"],
            "properties": {"borrowId": {"type": "integer"}}
        },
        "model.NotesRequest": {
            "type": "object",
            "properties": {"notes": {"type": "string"}}
        },
        "model.StatusView": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "borrowId": {"type": "integer"}}
        },
        "model.StockDelta": {
            "type": "object",
            "required": ["delta"],
            "properties": {"delta": {"type": "integer"}}
        },
        "model.RegisterRequest": {
            "type": "object",
            "required": ["name", "email", "password"],
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}
        },
        "model.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "model.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expiresAt": {"type": "string"},
                "user": {"$ref": "#/definitions/model.User"}
            }
        },
        "model.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "model.UserStats": {
            "type": "object",
            "properties": {
                "userId": {"type": "integer"},
                "requests": {"type": "integer"},
                "approvals": {"type": "integer"},
                "rejections": {"type": "integer"},
                "borrows": {"type": "integer"},
                "returns": {"type": "integer"},
                "cancellations": {"type": "integer"},
                "lastActivity": {"type": "string"}
            }
        },
        "model.LedgerDrift": {
            "type": "object",
            "properties": {
                "bookId": {"type": "integer"},
                "title": {"type": "string"},
                "quantity": {"type": "integer"},
                "totalCopies": {"type": "integer"},
                "borrowed": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Library borrow service",
	Description:      "Book catalogue and borrow-request lifecycle.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
