// Package swagger registers the StreamLearn OpenAPI document with swag.
// Regenerate with: swag init -g cmd/app/main.go -o docs/swagger
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
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a member account", "responses": {"201": {"description": "Created"}, "403": {"description": "registration is disabled"}, "409": {"description": "email is already registered"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Sign in", "responses": {"200": {"description": "OK"}, "401": {"description": "invalid email or password"}, "403": {"description": "user account is inactive"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Sign out", "responses": {"204": {"description": "No Content"}}}},
        "/auth/me": {"get": {"tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "OK"}}}},
        "/settings": {"get": {"tags": ["settings"], "summary": "Site branding", "responses": {"200": {"description": "OK"}}}},
        "/dashboard": {"get": {"tags": ["dashboard"], "summary": "Member dashboard", "responses": {"200": {"description": "OK"}}}},
        "/courses": {"get": {"tags": ["courses"], "summary": "List courses", "responses": {"200": {"description": "OK"}}}},
        "/courses/{courseId}": {"get": {"tags": ["courses"], "summary": "Open a course", "responses": {"200": {"description": "OK"}, "403": {"description": "course is locked for this user"}, "404": {"description": "course not found"}}}},
        "/topics/{topicId}": {"get": {"tags": ["courses"], "summary": "Open a topic", "responses": {"200": {"description": "OK"}, "403": {"description": "course is locked for this user"}, "404": {"description": "topic not found"}}}},
        "/lessons/{lessonId}/complete": {
            "post": {"tags": ["progress"], "summary": "Mark a lesson complete", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["progress"], "summary": "Clear a lesson's completion", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/users": {
            "get": {"tags": ["admin"], "summary": "List users", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["admin"], "summary": "Create a user", "responses": {"201": {"description": "Created"}}}
        },
        "/admin/users/{userId}": {
            "get": {"tags": ["admin"], "summary": "Get a user", "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["admin"], "summary": "Update account flags", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/users/{userId}/toggle-active": {"post": {"tags": ["admin"], "summary": "Toggle a user's active flag", "responses": {"200": {"description": "OK"}}}},
        "/admin/users/{userId}/sessions": {"get": {"tags": ["admin"], "summary": "Recent login sessions", "responses": {"200": {"description": "OK"}}}},
        "/admin/users/{userId}/courses/{courseId}/toggle": {"post": {"tags": ["admin"], "summary": "Toggle a course entitlement", "responses": {"200": {"description": "OK"}}}},
        "/admin/users/{userId}/courses/{courseId}": {
            "put": {"tags": ["admin"], "summary": "Grant a course entitlement", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["admin"], "summary": "Revoke a course entitlement", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/courses": {
            "get": {"tags": ["admin"], "summary": "List all courses", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["admin"], "summary": "Create a course", "responses": {"201": {"description": "Created"}}}
        },
        "/admin/courses/{courseId}": {
            "get": {"tags": ["admin"], "summary": "Get a course", "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["admin"], "summary": "Update a course", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["admin"], "summary": "Delete a course", "responses": {"204": {"description": "No Content"}}}
        },
        "/admin/courses/{courseId}/topics": {
            "get": {"tags": ["admin"], "summary": "List a course's topics", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["admin"], "summary": "Add a topic to a course", "responses": {"201": {"description": "Created"}}}
        },
        "/admin/topics/{topicId}": {
            "put": {"tags": ["admin"], "summary": "Replace a topic", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["admin"], "summary": "Delete a topic", "responses": {"204": {"description": "No Content"}}}
        },
        "/admin/topics/{topicId}/lessons": {"post": {"tags": ["admin"], "summary": "Add a lesson to a topic", "responses": {"201": {"description": "Created"}}}},
        "/admin/lessons/{lessonId}": {
            "put": {"tags": ["admin"], "summary": "Replace a lesson", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["admin"], "summary": "Delete a lesson", "responses": {"204": {"description": "No Content"}}}
        },
        "/admin/banners": {
            "get": {"tags": ["admin"], "summary": "List all banners", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["admin"], "summary": "Create a banner", "responses": {"201": {"description": "Created"}}}
        },
        "/admin/banners/{bannerId}": {
            "put": {"tags": ["admin"], "summary": "Replace a banner", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["admin"], "summary": "Delete a banner", "responses": {"204": {"description": "No Content"}}}
        },
        "/admin/banners/{bannerId}/toggle": {"post": {"tags": ["admin"], "summary": "Toggle a banner's active flag", "responses": {"200": {"description": "OK"}}}},
        "/admin/notifications": {
            "get": {"tags": ["admin"], "summary": "List all notifications", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["admin"], "summary": "Create a notification", "responses": {"201": {"description": "Created"}}}
        },
        "/admin/notifications/{notificationId}": {
            "put": {"tags": ["admin"], "summary": "Replace a notification", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["admin"], "summary": "Delete a notification", "responses": {"204": {"description": "No Content"}}}
        },
        "/admin/notifications/{notificationId}/toggle": {"post": {"tags": ["admin"], "summary": "Toggle a notification's active flag", "responses": {"200": {"description": "OK"}}}},
        "/admin/settings": {
            "get": {"tags": ["admin"], "summary": "Get site settings", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["admin"], "summary": "Replace site settings", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/stats": {"get": {"tags": ["admin"], "summary": "Platform statistics", "responses": {"200": {"description": "OK"}}}},
        "/admin/uploads": {"post": {"tags": ["admin"], "summary": "Presign an image upload", "responses": {"201": {"description": "Created"}, "503": {"description": "object storage is not configured"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{"http", "https"},
	Title:            "StreamLearn API",
	Description:      "StreamLearn members area and admin API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
