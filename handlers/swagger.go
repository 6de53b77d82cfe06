package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves a Swagger UI page and the OpenAPI document.
//   - GET /swagger/index.html
//   - GET /swagger/doc.json
func RegisterSwagger(r gin.IRouter) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerHTML))
	})
	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>poetbyte API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "poetbyte", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } },
    "schemas": {
      "Error": { "type": "object", "properties": { "error": { "type": "string" } } },
      "Poem": {
        "type": "object",
        "properties": {
          "id": { "type": "string" },
          "title": { "type": "string" },
          "content": { "type": "string" },
          "author": { "type": "string", "default": "Anonymous" },
          "createdAt": { "type": "string", "format": "date-time" }
        }
      },
      "PoemInput": {
        "type": "object",
        "required": ["title", "content"],
        "properties": { "title": { "type": "string" }, "content": { "type": "string" }, "author": { "type": "string" } }
      },
      "PoemPatch": {
        "type": "object",
        "properties": { "title": { "type": "string" }, "content": { "type": "string" }, "author": { "type": "string" } }
      },
      "Feedback": {
        "type": "object",
        "properties": {
          "id": { "type": "string" },
          "poemId": { "type": "string" },
          "name": { "type": "string" },
          "email": { "type": "string" },
          "phone": { "type": "string" },
          "message": { "type": "string" },
          "anonymous": { "type": "boolean" },
          "createdAt": { "type": "string", "format": "date-time" }
        }
      },
      "FeedbackInput": {
        "type": "object",
        "required": ["poemId", "message"],
        "properties": {
          "poemId": { "type": "string" },
          "name": { "type": "string" },
          "email": { "type": "string" },
          "phone": { "type": "string" },
          "message": { "type": "string" },
          "anonymous": { "type": "boolean" }
        }
      },
      "AdminFeedback": {
        "type": "object",
        "properties": {
          "id": { "type": "string" },
          "poemId": {
            "type": "object",
            "nullable": true,
            "properties": { "id": { "type": "string" }, "title": { "type": "string" } }
          },
          "name": { "type": "string" },
          "email": { "type": "string" },
          "phone": { "type": "string" },
          "message": { "type": "string" },
          "anonymous": { "type": "boolean" },
          "createdAt": { "type": "string", "format": "date-time" }
        }
      }
    }
  },
  "paths": {
    "/api/poems": {
      "get": { "summary": "List poems, newest first", "responses": { "200": { "description": "poems" }, "500": { "description": "store failure" } } },
      "post": {
        "summary": "Create a poem",
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/PoemInput" } } } },
        "responses": { "201": { "description": "created" }, "400": { "description": "Title and content are required" } }
      }
    },
    "/api/poems/{id}": {
      "parameters": [{ "name": "id", "in": "path", "required": true, "schema": { "type": "string" } }],
      "get": { "summary": "Get a poem", "responses": { "200": { "description": "poem" }, "400": { "description": "Invalid poem ID" }, "404": { "description": "Poem not found" } } },
      "patch": {
        "summary": "Update some of title, content and author",
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/PoemPatch" } } } },
        "responses": { "200": { "description": "updated poem" }, "400": { "description": "Nothing to update" }, "404": { "description": "Poem not found" } }
      },
      "delete": { "summary": "Delete a poem", "responses": { "200": { "description": "success" }, "404": { "description": "Poem not found" } } }
    },
    "/api/feedback": {
      "post": {
        "summary": "Submit feedback on a poem",
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/FeedbackInput" } } } },
        "responses": { "201": { "description": "stored feedback" }, "400": { "description": "Poem ID and message are required" }, "429": { "description": "rate limited" } }
      }
    },
    "/api/admin/feedbacks": {
      "get": {
        "summary": "List feedback with poem titles",
        "security": [{ "bearer": [] }],
        "parameters": [{ "name": "poemId", "in": "query", "required": false, "schema": { "type": "string" } }],
        "responses": { "200": { "description": "feedback list" }, "400": { "description": "Invalid poem ID" }, "401": { "description": "unauthorized" } }
      }
    },
    "/api/admin/feedbacks/{id}": {
      "delete": {
        "summary": "Delete feedback",
        "security": [{ "bearer": [] }],
        "parameters": [{ "name": "id", "in": "path", "required": true, "schema": { "type": "string" } }],
        "responses": { "200": { "description": "success" }, "400": { "description": "Invalid feedback ID" }, "404": { "description": "Feedback not found" } }
      }
    },
    "/api/admin/snapshots": {
      "post": { "summary": "Export all poems and feedback to object storage", "security": [{ "bearer": [] }], "responses": { "201": { "description": "key and presigned URL" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
