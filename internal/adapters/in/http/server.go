// Package http exposes the fulfillment REST API and the real-time tracking
// stream. It translates transport concerns (JSON binding, status codes,
// actor auth, SSE framing) into application commands and queries.
package http

import (
	"io"
	"net/http"
	"strconv"

	"fulfillment/internal/core/application/tracking"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrder     commands.CreateOrderCommandHandler
	applyTransition commands.ApplyTransitionCommandHandler
	assignCourier   commands.AssignCourierCommandHandler
	issueOTP        commands.IssueOTPCommandHandler
	verifyOTP       commands.VerifyOTPCommandHandler
	attachPhoto     commands.AttachPhotoCommandHandler
	createCourier   commands.CreateCourierCommandHandler
	recordLocation  commands.RecordLocationCommandHandler

	// Query handlers
	getOrder             queries.GetOrderQueryHandler
	getOrderHistory      queries.GetOrderHistoryQueryHandler
	getAvailableCouriers queries.GetAvailableCouriersQueryHandler

	broadcaster *tracking.Broadcaster
	auth        *ActorAuth
}

// NewServer creates the HTTP server with all command and query handlers.
func NewServer(
	createOrder commands.CreateOrderCommandHandler,
	applyTransition commands.ApplyTransitionCommandHandler,
	assignCourier commands.AssignCourierCommandHandler,
	issueOTP commands.IssueOTPCommandHandler,
	verifyOTP commands.VerifyOTPCommandHandler,
	attachPhoto commands.AttachPhotoCommandHandler,
	createCourier commands.CreateCourierCommandHandler,
	recordLocation commands.RecordLocationCommandHandler,
	getOrder queries.GetOrderQueryHandler,
	getOrderHistory queries.GetOrderHistoryQueryHandler,
	getAvailableCouriers queries.GetAvailableCouriersQueryHandler,
	broadcaster *tracking.Broadcaster,
	auth *ActorAuth,
) *Server {
	return &Server{
		createOrder:          createOrder,
		applyTransition:      applyTransition,
		assignCourier:        assignCourier,
		issueOTP:             issueOTP,
		verifyOTP:            verifyOTP,
		attachPhoto:          attachPhoto,
		createCourier:        createCourier,
		recordLocation:       recordLocation,
		getOrder:             getOrder,
		getOrderHistory:      getOrderHistory,
		getAvailableCouriers: getAvailableCouriers,
		broadcaster:          broadcaster,
		auth:                 auth,
	}
}

// RegisterRoutes attaches all endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1", s.auth.Middleware())

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:orderID", s.GetOrder)
	api.GET("/orders/:orderID/history", s.GetOrderHistory)
	api.GET("/orders/:orderID/track", s.TrackOrder)

	api.POST("/orders/:orderID/transition", s.ApplyTransition)
	api.POST("/orders/:orderID/assign", s.AssignCourier,
		RequireActor(order.ActorAdmin))
	api.POST("/orders/:orderID/otp", s.IssueOTP,
		RequireActor(order.ActorAdmin, order.ActorSystem))
	api.POST("/orders/:orderID/otp/verify", s.VerifyOTP)
	api.POST("/orders/:orderID/photos/:phase", s.AttachPhoto,
		RequireActor(order.ActorCourier, order.ActorAdmin))

	api.POST("/couriers", s.CreateCourier,
		RequireActor(order.ActorAdmin))
	api.GET("/couriers/available", s.GetAvailableCouriers)
	api.POST("/couriers/:courierID/location", s.RecordLocation,
		RequireActor(order.ActorCourier, order.ActorAdmin))
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		req.Number,
		req.DeliveryAddress,
		req.IsCOD,
		req.SuccessfulOrderCount,
		req.IsVerifiedUser,
		req.PriorTrustScore,
	)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	if err := s.createOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{
		ID:     orderID.String(),
		Number: req.Number,
	})
}

// ApplyTransition handles POST /api/v1/orders/:orderID/transition.
// The acting role is resolved by the auth middleware and recorded in the
// audit trail; an optional expected_status makes the request conditional.
func (s *Server) ApplyTransition(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	var req TransitionRequest
	if err := ctx.Bind(&req); err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	target, err := order.StatusFromString(req.Target)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	var expected *order.Status
	if req.ExpectedStatus != nil {
		status, parseErr := order.StatusFromString(*req.ExpectedStatus)
		if parseErr != nil {
			return jsonError(ctx, http.StatusBadRequest, parseErr)
		}
		expected = &status
	}

	cmd, err := commands.NewApplyTransitionCommand(orderID, target, actorFromContext(ctx), req.Notes, expected)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	if err := s.applyTransition.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignCourier handles POST /api/v1/orders/:orderID/assign.
func (s *Server) AssignCourier(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	var req AssignCourierRequest
	if err := ctx.Bind(&req); err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	cmd, err := commands.NewAssignCourierCommand(orderID, courierID)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	if err := s.assignCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// IssueOTP handles POST /api/v1/orders/:orderID/otp.
func (s *Server) IssueOTP(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	cmd, err := commands.NewIssueOTPCommand(orderID)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	result, err := s.issueOTP.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, IssueOTPResponse{
		ChallengeID: result.ChallengeID,
		ExpiresAt:   result.ExpiresAt,
		Code:        result.Code,
	})
}

// VerifyOTP handles POST /api/v1/orders/:orderID/otp/verify.
func (s *Server) VerifyOTP(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	var req VerifyOTPRequest
	if err := ctx.Bind(&req); err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	cmd, err := commands.NewVerifyOTPCommand(orderID, req.Code)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	if err := s.verifyOTP.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AttachPhoto handles POST /api/v1/orders/:orderID/photos/:phase.
// The photo arrives as a multipart form file named "photo"; optional form
// values lat/lon record where it was captured.
func (s *Server) AttachPhoto(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	phase := commands.PhotoPhase(ctx.Param("phase"))

	fileHeader, err := ctx.FormFile("photo")
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}
	defer file.Close()

	photo, err := io.ReadAll(file)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	location, err := parseLocation(ctx.FormValue("lat"), ctx.FormValue("lon"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	cmd, err := commands.NewAttachPhotoCommand(orderID, phase, photo, location)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	if err := s.attachPhoto.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CreateCourier handles POST /api/v1/couriers.
func (s *Server) CreateCourier(ctx echo.Context) error {
	var req CreateCourierRequest
	if err := ctx.Bind(&req); err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	courierID := kernel.NewUUID()
	cmd, err := commands.NewCreateCourierCommand(courierID, req.Name, req.Phone, req.VehicleType)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	if err := s.createCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateCourierResponse{ID: courierID.String()})
}

// RecordLocation handles POST /api/v1/couriers/:courierID/location.
func (s *Server) RecordLocation(ctx echo.Context) error {
	courierID, err := kernel.UUIDFromString(ctx.Param("courierID"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	var req LocationRequest
	if err := ctx.Bind(&req); err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	point, err := kernel.NewGeoPoint(req.Lat, req.Lon)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	cmd, err := commands.NewRecordLocationCommand(courierID, point)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	if err := s.recordLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOrder handles GET /api/v1/orders/:orderID.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	result, err := s.getOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(result))
}

// GetOrderHistory handles GET /api/v1/orders/:orderID/history.
func (s *Server) GetOrderHistory(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	query, err := queries.NewGetOrderHistoryQuery(orderID)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	entries, err := s.getOrderHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeDomainError(ctx, err)
	}

	response := make([]HistoryEntryResponse, len(entries))
	for i, entry := range entries {
		response[i] = HistoryEntryResponse{
			ID:         entry.ID.String(),
			FromStatus: entry.FromStatus,
			ToStatus:   entry.ToStatus,
			Actor:      entry.Actor,
			Notes:      entry.Notes,
			CreatedAt:  entry.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetAvailableCouriers handles GET /api/v1/couriers/available.
func (s *Server) GetAvailableCouriers(ctx echo.Context) error {
	query := queries.NewGetAvailableCouriersQuery()

	couriers, err := s.getAvailableCouriers.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeDomainError(ctx, err)
	}

	response := make([]CourierResponse, len(couriers))
	for i, c := range couriers {
		response[i] = CourierResponse{
			ID:                c.ID.String(),
			Name:              c.Name,
			VehicleType:       c.VehicleType,
			Lat:               c.Lat,
			Lon:               c.Lon,
			LocationUpdatedAt: c.LocationUpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func parseLocation(latValue, lonValue string) (*kernel.GeoPoint, error) {
	if latValue == "" && lonValue == "" {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(latValue, 64)
	if err != nil {
		return nil, err
	}
	lon, err := strconv.ParseFloat(lonValue, 64)
	if err != nil {
		return nil, err
	}

	point, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return nil, err
	}
	return &point, nil
}
