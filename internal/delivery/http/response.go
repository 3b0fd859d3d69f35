package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Every response is a JSON object with a boolean "success" field and either
// payload keys or an "error" string.

// Success sends a 200 with the payload merged under success=true.
func Success(c echo.Context, payload echo.Map) error {
	if payload == nil {
		payload = echo.Map{}
	}
	payload["success"] = true
	return c.JSON(http.StatusOK, payload)
}

// Created sends a 201 with the payload merged under success=true.
func Created(c echo.Context, payload echo.Map) error {
	if payload == nil {
		payload = echo.Map{}
	}
	payload["success"] = true
	return c.JSON(http.StatusCreated, payload)
}

// Error sends an error envelope with the given status code.
func Error(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, echo.Map{
		"success": false,
		"error":   message,
	})
}

// BadRequest sends a 400 Bad Request error envelope.
func BadRequest(c echo.Context, message string) error {
	return Error(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 Unauthorized error envelope.
func Unauthorized(c echo.Context, message string) error {
	return Error(c, http.StatusUnauthorized, message)
}

// NotFound sends a 404 Not Found error envelope.
func NotFound(c echo.Context, message string) error {
	return Error(c, http.StatusNotFound, message)
}

// InternalServerError sends a 500 error envelope with a generic message;
// the detail belongs in the server log, not the response.
func InternalServerError(c echo.Context, message string) error {
	return Error(c, http.StatusInternalServerError, message)
}
