package http

import (
	"errors"
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/otp"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the JSON error body for every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateOrderRequest is the order intake payload.
type CreateOrderRequest struct {
	Number               string  `json:"number"`
	DeliveryAddress      string  `json:"delivery_address"`
	IsCOD                bool    `json:"is_cod"`
	SuccessfulOrderCount int     `json:"successful_order_count"`
	IsVerifiedUser       bool    `json:"is_verified_user"`
	PriorTrustScore      float64 `json:"prior_trust_score"`
}

// CreateOrderResponse returns the generated order identifier.
type CreateOrderResponse struct {
	ID     string `json:"id"`
	Number string `json:"number"`
}

// TransitionRequest drives one state machine edge.
type TransitionRequest struct {
	Target         string  `json:"target"`
	Notes          string  `json:"notes"`
	ExpectedStatus *string `json:"expected_status,omitempty"`
}

// AssignCourierRequest names the courier to assign.
type AssignCourierRequest struct {
	CourierID string `json:"courier_id"`
}

// VerifyOTPRequest carries the submitted code.
type VerifyOTPRequest struct {
	Code string `json:"code"`
}

// IssueOTPResponse acknowledges a new challenge. Code is only populated in
// development mode.
type IssueOTPResponse struct {
	ChallengeID string    `json:"challenge_id"`
	ExpiresAt   time.Time `json:"expires_at"`
	Code        string    `json:"code,omitempty"`
}

// CreateCourierRequest is the courier registration payload.
type CreateCourierRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	VehicleType string `json:"vehicle_type"`
}

// CreateCourierResponse returns the generated courier identifier.
type CreateCourierResponse struct {
	ID string `json:"id"`
}

// LocationRequest is a courier device position report.
type LocationRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// OrderResponse is the order summary read model.
type OrderResponse struct {
	ID                    string     `json:"id"`
	Number                string     `json:"number"`
	Status                string     `json:"status"`
	Paid                  bool       `json:"paid"`
	CourierID             *string    `json:"courier_id,omitempty"`
	DeliveryAddress       string     `json:"delivery_address"`
	GeocodeStatus         string     `json:"geocode_status"`
	Lat                   *float64   `json:"lat,omitempty"`
	Lon                   *float64   `json:"lon,omitempty"`
	IsCOD                 bool       `json:"is_cod"`
	CODVerified           bool       `json:"cod_verified"`
	CODAutoApproved       bool       `json:"cod_auto_approved"`
	DeparturePhotoRef     string     `json:"departure_photo_ref,omitempty"`
	ArrivalPhotoRef       string     `json:"arrival_photo_ref,omitempty"`
	ActualDeliveryMinutes *int       `json:"actual_delivery_minutes,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	AssignedAt            *time.Time `json:"assigned_at,omitempty"`
	PickupTime            *time.Time `json:"pickup_time,omitempty"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`
}

// HistoryEntryResponse is one audit timeline entry.
type HistoryEntryResponse struct {
	ID         string    `json:"id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Actor      string    `json:"actor"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CourierResponse is one assignable courier.
type CourierResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	VehicleType       string     `json:"vehicle_type"`
	Lat               *float64   `json:"lat,omitempty"`
	Lon               *float64   `json:"lon,omitempty"`
	LocationUpdatedAt *time.Time `json:"location_updated_at,omitempty"`
}

func toOrderResponse(r queries.GetOrderQueryResponse) OrderResponse {
	resp := OrderResponse{
		ID:                    r.ID.String(),
		Number:                r.Number,
		Status:                r.Status,
		Paid:                  r.Paid,
		DeliveryAddress:       r.DeliveryAddress,
		GeocodeStatus:         r.GeocodeStatus,
		Lat:                   r.Lat,
		Lon:                   r.Lon,
		IsCOD:                 r.IsCOD,
		CODVerified:           r.CODVerified,
		CODAutoApproved:       r.CODAutoApproved,
		DeparturePhotoRef:     r.DeparturePhotoRef,
		ArrivalPhotoRef:       r.ArrivalPhotoRef,
		ActualDeliveryMinutes: r.ActualDeliveryMinutes,
		CreatedAt:             r.CreatedAt,
		AssignedAt:            r.AssignedAt,
		PickupTime:            r.PickupTime,
		CompletedAt:           r.CompletedAt,
	}
	if r.CourierID != nil {
		id := r.CourierID.String()
		resp.CourierID = &id
	}
	return resp
}

// writeDomainError maps domain and application errors to HTTP status codes.
func writeDomainError(ctx echo.Context, err error) error {
	var notFound *errs.ObjectNotFoundError

	switch {
	case errors.As(err, &notFound):
		return jsonError(ctx, http.StatusNotFound, err)
	case errors.Is(err, order.ErrConflict):
		return jsonError(ctx, http.StatusConflict, err)
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrGateNotSatisfied),
		errors.Is(err, order.ErrCourierNotAssignable),
		errors.Is(err, courier.ErrNotAvailable),
		errors.Is(err, commands.ErrOTPNotApplicable):
		return jsonError(ctx, http.StatusConflict, err)
	case errors.Is(err, commands.ErrPhotoTooLarge):
		return jsonError(ctx, http.StatusRequestEntityTooLarge, err)
	case errors.Is(err, commands.ErrUnsupportedPhotoFormat):
		return jsonError(ctx, http.StatusUnsupportedMediaType, err)
	case errors.Is(err, commands.ErrPhotoIsEmpty),
		errors.Is(err, commands.ErrUnknownPhotoPhase):
		return jsonError(ctx, http.StatusBadRequest, err)
	case errors.Is(err, otp.ErrExpired),
		errors.Is(err, otp.ErrMismatch),
		errors.Is(err, otp.ErrAlreadyVerified):
		return jsonError(ctx, http.StatusUnprocessableEntity, err)
	case isValidationError(err):
		return jsonError(ctx, http.StatusBadRequest, err)
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "internal error",
		})
	}
}

func isValidationError(err error) bool {
	var invalid *errs.ValueIsInvalidError
	var required *errs.ValueIsRequiredError
	var outOfRange *errs.ValueIsOutOfRangeError
	return errors.As(err, &invalid) || errors.As(err, &required) || errors.As(err, &outOfRange)
}

func jsonError(ctx echo.Context, code int, err error) error {
	return ctx.JSON(code, ErrorResponse{Code: code, Message: err.Error()})
}
