// Package docs registers the swagger document served under /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "tags": ["feeds"],
                "summary": "Global feed",
                "parameters": [{"name": "page", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/group/{slug}/": {
            "get": {
                "tags": ["feeds"],
                "summary": "Group feed",
                "parameters": [
                    {"name": "slug", "in": "path", "type": "string", "required": true},
                    {"name": "page", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/profile/{username}/": {
            "get": {
                "tags": ["feeds"],
                "summary": "Author profile feed",
                "parameters": [
                    {"name": "username", "in": "path", "type": "string", "required": true},
                    {"name": "page", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/posts/{id}/": {
            "get": {
                "tags": ["posts"],
                "summary": "Post detail",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/create/": {
            "get": {
                "tags": ["posts"],
                "summary": "Post creation form",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["posts"],
                "summary": "Create post",
                "consumes": ["multipart/form-data"],
                "responses": {"302": {"description": "Found"}, "400": {"description": "Bad Request"}}
            }
        },
        "/posts/{id}/edit/": {
            "get": {
                "tags": ["posts"],
                "summary": "Post edit form",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "post": {
                "tags": ["posts"],
                "summary": "Edit post",
                "consumes": ["multipart/form-data"],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"302": {"description": "Found"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/posts/{id}/comment/": {
            "post": {
                "tags": ["posts"],
                "summary": "Comment on a post",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"302": {"description": "Found"}, "404": {"description": "Not Found"}}
            }
        },
        "/follow/": {
            "get": {
                "tags": ["feeds"],
                "summary": "Followed authors feed",
                "parameters": [{"name": "page", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/profile/{username}/follow/": {
            "get": {
                "tags": ["follows"],
                "summary": "Follow an author",
                "parameters": [{"name": "username", "in": "path", "type": "string", "required": true}],
                "responses": {"302": {"description": "Found"}, "404": {"description": "Not Found"}}
            }
        },
        "/profile/{username}/unfollow/": {
            "get": {
                "tags": ["follows"],
                "summary": "Unfollow an author",
                "parameters": [{"name": "username", "in": "path", "type": "string", "required": true}],
                "responses": {"302": {"description": "Found"}, "404": {"description": "Not Found"}}
            }
        },
        "/cache/clear/": {
            "post": {
                "tags": ["feeds"],
                "summary": "Invalidate the feed cache",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/signup/": {
            "post": {
                "tags": ["auth"],
                "summary": "Register",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/auth/login/": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Yatube API",
	Description:      "Posts, groups, comments and follow feeds.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
