package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"fulfillment/internal/core/application/tracking"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ssePayload is the JSON body of every tracking event.
type ssePayload struct {
	Lat    *float64 `json:"lat,omitempty"`
	Lon    *float64 `json:"lon,omitempty"`
	Status string   `json:"status"`
}

// TrackOrder handles GET /api/v1/orders/:orderID/track.
//
// Streams server-sent events until the order reaches a terminal status or
// the client disconnects. Event names: init, location, ping, complete.
// Subscribing to a terminal order yields init followed by complete.
func (s *Server) TrackOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err)
	}

	current, err := s.getOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		// An unknown order gets an immediately completed stream, not a 404:
		// trackers treat missing and finished orders the same way.
		var notFound *errs.ObjectNotFoundError
		if errors.As(err, &notFound) {
			return completeImmediately(ctx, orderID)
		}
		return writeDomainError(ctx, err)
	}

	status, err := order.StatusFromString(current.Status)
	if err != nil {
		return writeDomainError(ctx, err)
	}

	var lastKnown *kernel.GeoPoint
	if current.Lat != nil && current.Lon != nil {
		point, pointErr := kernel.NewGeoPoint(*current.Lat, *current.Lon)
		if pointErr == nil {
			lastKnown = &point
		}
	}

	resp := ctx.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set(echo.HeaderConnection, "keep-alive")
	resp.WriteHeader(http.StatusOK)

	sub := s.broadcaster.Subscribe(orderID, status, lastKnown)
	defer s.broadcaster.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Request().Context().Done():
			return nil
		case event, open := <-sub.Events():
			if !open {
				return nil
			}
			if err := writeSSE(resp, event); err != nil {
				return nil
			}
		}
	}
}

// completeImmediately opens the event stream and ends it in the same
// response: init followed by complete, status unknown.
func completeImmediately(ctx echo.Context, orderID kernel.UUID) error {
	resp := ctx.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set(echo.HeaderConnection, "keep-alive")
	resp.WriteHeader(http.StatusOK)

	if err := writeSSE(resp, tracking.Event{
		Type: tracking.EventInit, OrderID: orderID, Status: order.Unknown,
	}); err != nil {
		return nil
	}
	_ = writeSSE(resp, tracking.Event{
		Type: tracking.EventComplete, OrderID: orderID, Status: order.Unknown,
	})
	return nil
}

func writeSSE(resp *echo.Response, event tracking.Event) error {
	payload := ssePayload{Status: event.Status.String()}
	if event.Location != nil {
		lat := event.Location.Lat()
		lon := event.Location.Lon()
		payload.Lat = &lat
		payload.Lon = &lon
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(resp, "event: %s\ndata: %s\n\n", event.Type, body); err != nil {
		return err
	}

	resp.Flush()
	return nil
}
