package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/otp"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not_found", errs.NewObjectNotFoundError("order", "x"), http.StatusNotFound},
		{"concurrent_modification", order.ErrConflict, http.StatusConflict},
		{"invalid_transition", order.NewInvalidTransitionError(order.Pending, order.Completed), http.StatusConflict},
		{"gate_not_satisfied", order.NewGateNotSatisfiedError(order.GateCourierAssigned), http.StatusConflict},
		{"courier_not_available", courier.ErrNotAvailable, http.StatusConflict},
		{"otp_not_applicable", commands.ErrOTPNotApplicable, http.StatusConflict},
		{"photo_too_large", commands.ErrPhotoTooLarge, http.StatusRequestEntityTooLarge},
		{"unsupported_photo_format", commands.ErrUnsupportedPhotoFormat, http.StatusUnsupportedMediaType},
		{"expired_code", otp.ErrExpired, http.StatusUnprocessableEntity},
		{"code_mismatch", otp.ErrMismatch, http.StatusUnprocessableEntity},
		{"missing_value", errs.NewValueIsRequiredError("code"), http.StatusBadRequest},
		{"unexpected", errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			ctx := echo.New().NewContext(req, rec)

			err := writeDomainError(ctx, tt.err)

			require.NoError(t, err)
			assert.Equal(t, tt.code, rec.Code)
		})
	}

	t.Run("internal_errors_are_not_leaked", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		ctx := echo.New().NewContext(req, rec)

		require.NoError(t, writeDomainError(ctx, errors.New("password=hunter2")))
		assert.NotContains(t, rec.Body.String(), "hunter2")
	})
}

func TestParseLocation(t *testing.T) {
	t.Run("absent_coordinates_yield_nil", func(t *testing.T) {
		point, err := parseLocation("", "")

		require.NoError(t, err)
		assert.Nil(t, point)
	})

	t.Run("parses_valid_pair", func(t *testing.T) {
		point, err := parseLocation("55.75", "37.62")

		require.NoError(t, err)
		require.NotNil(t, point)
		assert.InDelta(t, 55.75, point.Lat(), 0.001)
		assert.InDelta(t, 37.62, point.Lon(), 0.001)
	})

	t.Run("rejects_half_a_pair", func(t *testing.T) {
		_, err := parseLocation("55.75", "")

		assert.Error(t, err)
	})

	t.Run("rejects_out_of_range_latitude", func(t *testing.T) {
		_, err := parseLocation("95.0", "37.62")

		assert.Error(t, err)
	})
}
