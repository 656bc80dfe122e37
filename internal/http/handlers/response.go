// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the shared response helpers. Every failure goes through
// fail() so the envelope shape and 5xx logging stay uniform:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "drink not found"
//	}
//
// Success bodies are plain JSON, e.g.
//
//	HTTP/1.1 200 OK
//	{ "id": "abc123", "name": "Caramel Oat Latte" }
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pushparajan/CraftYourCoffee/internal/http/middleware"
)

// ErrorResponse is the error envelope returned by all endpoints. Code is a
// stable machine-readable string (see errors.go); Message is safe to show to
// users; RequestID echoes X-Request-ID for log correlation.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Code      string `json:"code" example:"not_found"`
	Message   string `json:"message" example:"drink not found"`
}

// fail aborts the request with a structured error. Server-side statuses
// (>= 500) are additionally logged through the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail for callers outside the package, such
// as the router's NoRoute and NoMethod fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes body as JSON with the given status.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
