package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mercatto/pos/internal/domain/shared"
	"github.com/mercatto/pos/internal/infrastructure/backend"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found maps to 404",
			err:        shared.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "invalid state maps to 409",
			err:        shared.ErrInvalidState,
			wantStatus: http.StatusConflict,
			wantCode:   "INVALID_STATE",
		},
		{
			name:       "no open cashbox maps to 409",
			err:        shared.ErrNoOpenCashbox,
			wantStatus: http.StatusConflict,
			wantCode:   "NO_OPEN_CASHBOX",
		},
		{
			name:       "payment mismatch maps to 422",
			err:        shared.ErrPaymentMismatch,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "PAYMENT_MISMATCH",
		},
		{
			name:       "generic domain error maps to 400",
			err:        shared.NewDomainError("INVALID_AMOUNT", "bad amount"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_AMOUNT",
		},
		{
			name:       "backend timeout maps to 504",
			err:        backend.ErrTimeout,
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   "BACKEND_TIMEOUT",
		},
		{
			name:       "backend rejection maps to 502",
			err:        &backend.APIError{Status: 409, Detail: "Estoque insuficiente"},
			wantStatus: http.StatusBadGateway,
			wantCode:   "BACKEND_ERROR",
		},
		{
			name:       "unknown error maps to 500",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h := &BaseHandler{}
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestHandleErrorWrapped(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	wrapped := errors.Join(errors.New("posting entry"), backend.ErrTimeout)
	(&BaseHandler{}).HandleError(c, wrapped)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}
