package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/shared"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performDomainError(err error) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h := &BaseHandler{}
	h.HandleDomainError(c, err)
	return w
}

func TestBaseHandler_HandleDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found maps to 404", shared.ErrNotFound, http.StatusNotFound},
		{"already exists maps to 409", shared.ErrAlreadyExists, http.StatusConflict},
		{"invalid input maps to 400", shared.ErrInvalidInput, http.StatusBadRequest},
		{"missing tariff maps to 422", billing.ErrNoTariffDefined, http.StatusUnprocessableEntity},
		{"duplicate reading maps to 409", billing.ErrDuplicateReading, http.StatusConflict},
		{"duplicate payment reference maps to 409", billing.ErrDuplicatePaymentReference, http.StatusConflict},
		{"unknown error maps to 500", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performDomainError(tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestSystemHandler_Health(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	h := NewSystemHandler(nil, "test")
	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

type failingPinger struct{}

func (failingPinger) Ping() error { return errors.New("connection refused") }

func TestSystemHandler_Ready(t *testing.T) {
	t.Run("reports not ready when database is down", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		h := NewSystemHandler(failingPinger{}, "test")
		h.Ready(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
