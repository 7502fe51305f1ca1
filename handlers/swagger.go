package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the portfolio API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Portfolio API - Swagger</title>
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
  "info": { "title": "portfolio-api", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Envelope": { "type": "object", "properties": { "success": {"type":"boolean"}, "data": {}, "message": {"type":"string","nullable":true}, "error": {"type":"string","nullable":true} } },
      "ContactMessageCreate": { "type": "object", "required": ["name","email","message"], "properties": { "name": {"type":"string"}, "email": {"type":"string","format":"email"}, "company": {"type":"string","nullable":true}, "message": {"type":"string"}, "inquiry_type": {"type":"string","default":"general"} } },
      "ContactResponse": { "type": "object", "properties": { "success": {"type":"boolean"}, "message": {"type":"string"}, "reference_id": {"type":"string","example":"MSG_20240309_A1B2C3"} } },
      "SiteVisitCreate": { "type": "object", "required": ["page"], "properties": { "page": {"type":"string"}, "user_agent": {"type":"string"}, "referrer": {"type":"string"} } }
    }
  },
  "paths": {
    "/api/portfolio": {
      "get": { "summary": "Full portfolio document", "responses": { "200": { "description": "envelope with portfolio" }, "404": { "description": "not seeded" }, "503": { "description": "storage unavailable" } } },
      "put": { "summary": "Replace the portfolio document", "requestBody": { "content": { "application/json": { "schema": {"type":"object"} } } }, "responses": { "200": { "description": "updated" }, "400": { "description": "validation failed" }, "503": { "description": "storage unavailable" } } }
    },
    "/api/portfolio/personal": { "get": { "summary": "Personal information", "responses": { "200": { "description": "envelope" }, "404": { "description": "Personal information not found" } } } },
    "/api/portfolio/skills": { "get": { "summary": "Skills by category, in display order", "responses": { "200": { "description": "envelope" }, "404": { "description": "Skills data not found" } } } },
    "/api/portfolio/experience": { "get": { "summary": "Work experience", "responses": { "200": { "description": "envelope" }, "404": { "description": "Experience data not found" } } } },
    "/api/portfolio/projects": { "get": { "summary": "Projects", "responses": { "200": { "description": "envelope" }, "404": { "description": "Projects data not found" } } } },
    "/api/portfolio/about": { "get": { "summary": "About section", "responses": { "200": { "description": "envelope" }, "404": { "description": "About data not found" } } } },
    "/api/portfolio/credentials": { "get": { "summary": "Education and certifications", "responses": { "200": { "description": "envelope" }, "404": { "description": "Credentials data not found" } } } },
    "/api/contact/message": {
      "post": { "summary": "Submit the contact form", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/ContactMessageCreate"} } } }, "responses": { "200": { "description": "stored", "content": { "application/json": { "schema": {"$ref":"#/components/schemas/ContactResponse"} } } }, "400": { "description": "validation failed" }, "429": { "description": "rate limited" }, "500": { "description": "Failed to send message" } } }
    },
    "/api/contact/messages": {
      "get": { "summary": "List messages newest first", "parameters": [ {"name":"limit","in":"query","schema":{"type":"integer","default":50,"maximum":500}}, {"name":"skip","in":"query","schema":{"type":"integer","default":0}} ], "responses": { "200": { "description": "envelope with messages" }, "400": { "description": "bad paging" } } }
    },
    "/api/contact/messages/{id}/read": {
      "patch": { "summary": "Mark a message as read", "parameters": [ {"name":"id","in":"path","required":true,"schema":{"type":"string"}} ], "responses": { "200": { "description": "updated" }, "404": { "description": "Message not found or already read" } } }
    },
    "/api/analytics/visit": {
      "post": { "summary": "Track a page visit", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/SiteVisitCreate"} } } }, "responses": { "200": { "description": "tracked" }, "400": { "description": "validation failed" }, "429": { "description": "rate limited" } } }
    },
    "/api/analytics/stats": {
      "get": { "summary": "Visit statistics", "parameters": [ {"name":"days","in":"query","schema":{"type":"integer","default":30,"minimum":1}} ], "responses": { "200": { "description": "envelope with total_visits, page_visits, period_days" }, "400": { "description": "days < 1" } } }
    },
    "/api/": { "get": { "summary": "Liveness", "responses": { "200": { "description": "running" } } } },
    "/api/health": { "get": { "summary": "Health with database state", "responses": { "200": { "description": "connected, no_data or error" } } } },
    "/api/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
