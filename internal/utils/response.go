package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rently-server/internal/chat"
)

// ResponseData represents the structure of a standard API response.
type ResponseData struct {
	Status  int         `json:"status"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a standard success response.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, ResponseData{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// Created sends a standard resource created response.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, ResponseData{
		Status:  http.StatusCreated,
		Message: message,
		Data:    data,
	})
}

// Error sends a standard error response.
func Error(c *gin.Context, statusCode int, code string, errorMessage string) {
	c.JSON(statusCode, ResponseData{
		Status:  statusCode,
		Code:    code,
		Message: "An error occurred",
		Error:   errorMessage,
	})
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadRequest, chat.CodeValidation, errorMessage)
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, errorMessage string) {
	Error(c, http.StatusUnauthorized, chat.CodeUnauthenticated, errorMessage)
}

// Forbidden sends a 403 Forbidden error response.
func Forbidden(c *gin.Context, errorMessage string) {
	Error(c, http.StatusForbidden, chat.CodeForbidden, errorMessage)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, errorMessage string) {
	Error(c, http.StatusNotFound, chat.CodeNotFound, errorMessage)
}

// Conflict sends a 409 Conflict error response.
func Conflict(c *gin.Context, errorMessage string) {
	Error(c, http.StatusConflict, chat.CodeInvalidState, errorMessage)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context, errorMessage string) {
	Error(c, http.StatusInternalServerError, chat.CodeInternal, errorMessage)
}

// ErrorFrom maps a chat service error to the matching HTTP error response.
func ErrorFrom(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrValidation):
		BadRequest(c, err.Error())
	case errors.Is(err, chat.ErrUnauthenticated):
		Unauthorized(c, err.Error())
	case errors.Is(err, chat.ErrForbidden):
		Forbidden(c, err.Error())
	case errors.Is(err, chat.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, chat.ErrInvalidState):
		Conflict(c, err.Error())
	default:
		InternalServerError(c, err.Error())
	}
}
