package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mercatto/pos/internal/domain/shared"
	"github.com/mercatto/pos/internal/infrastructure/backend"
	"github.com/mercatto/pos/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// HandleError converts domain, gateway, and unknown errors to HTTP responses.
// Domain errors map by code; a backend timeout becomes 504 and any other
// backend rejection becomes 502 carrying the backend's detail.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, domainStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	if errors.Is(err, backend.ErrTimeout) {
		h.Error(c, http.StatusGatewayTimeout, "BACKEND_TIMEOUT",
			"The retail backend did not respond in time")
		return
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		h.Error(c, http.StatusBadGateway, "BACKEND_ERROR", apiErr.Detail)
		return
	}

	h.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
}

func domainStatus(code string) int {
	switch code {
	case "NOT_FOUND":
		return http.StatusNotFound
	case "INVALID_STATE", "CASHBOX_ALREADY_OPEN", "NO_OPEN_CASHBOX", "NO_REPORT":
		return http.StatusConflict
	case "PAYMENT_MISMATCH":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("BAD_REQUEST", "Invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
