package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// DefaultMaxPhotoBytes bounds proof photo uploads when no limit is configured.
const DefaultMaxPhotoBytes = 8 << 20

// AttachPhotoCommandHandler stores a proof photo and drives the transition it
// gates: departure unlocks ready -> delivering, arrival unlocks
// delivering -> completed. The transition guard is checked before the blob is
// written; if persisting the transition fails afterwards the stored blob is
// removed best effort so the media store does not accumulate orphans.
type AttachPhotoCommandHandler struct {
	uowFactory UoWFactory
	media      ports.MediaStore
	notifier   ports.Notifier
	tracking   ports.TrackingPublisher
	events     ports.OrderEventPublisher
	recorder   TransitionRecorder
	maxBytes   int
}

// NewAttachPhotoCommandHandler creates a handler for proof photo uploads.
func NewAttachPhotoCommandHandler(
	uowFactory UoWFactory,
	media ports.MediaStore,
	notifier ports.Notifier,
	tracking ports.TrackingPublisher,
	events ports.OrderEventPublisher,
	recorder TransitionRecorder,
	maxBytes int,
) AttachPhotoCommandHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPhotoBytes
	}

	return AttachPhotoCommandHandler{
		uowFactory: uowFactory,
		media:      media,
		notifier:   notifier,
		tracking:   tracking,
		events:     events,
		recorder:   recorder,
		maxBytes:   maxBytes,
	}
}

// Handle processes the photo upload.
// Returns ErrPhotoTooLarge or ErrUnsupportedPhotoFormat for rejected
// payloads, and the state machine's transition, gate, and conflict errors
// when the unlocked transition is refused.
func (h *AttachPhotoCommandHandler) Handle(ctx context.Context, cmd AttachPhotoCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if len(cmd.Photo()) > h.maxBytes {
		return ErrPhotoTooLarge
	}

	contentType := http.DetectContentType(cmd.Photo())
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return ErrUnsupportedPhotoFormat
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	target := order.Delivering
	if cmd.Phase() == PhaseArrival {
		target = order.Completed
	}

	// Cheap guards first; the blob is only stored once the edge is plausible.
	if !aggregate.Status().CanTransitionTo(target) {
		h.recorder.TransitionRejected("invalid")
		return order.NewInvalidTransitionError(aggregate.Status(), target)
	}
	if cmd.Phase() == PhaseDeparture && aggregate.Courier() == nil {
		h.recorder.TransitionRejected("invalid")
		return order.NewGateNotSatisfiedError(order.GateCourierAssigned)
	}

	ref, err := h.media.Store(ctx, cmd.Photo(), contentType)
	if err != nil {
		return err
	}

	if cmd.Phase() == PhaseDeparture {
		err = aggregate.AttachDeparturePhoto(ref)
	} else {
		err = aggregate.AttachArrivalPhoto(ref)
	}
	if err != nil {
		h.discard(ctx, ref)
		return err
	}

	previous := aggregate.Status()
	previousCourier := aggregate.Courier()
	now := time.Now().UTC()

	if _, err = aggregate.TransitionTo(target, now); err != nil {
		h.recorder.TransitionRejected("invalid")
		h.discard(ctx, ref)
		return err
	}

	if err = orderRepo.UpdateWithStatusGuard(ctx, aggregate, previous); err != nil {
		if errors.Is(err, order.ErrConflict) {
			h.recorder.TransitionRejected("conflict")
		}
		h.discard(ctx, ref)
		return err
	}

	if target.IsTerminal() && previousCourier != nil {
		courierRepo := uow.CourierRepository()
		assignee, cerr := courierRepo.Get(ctx, *previousCourier)
		if cerr != nil {
			h.discard(ctx, ref)
			return cerr
		}
		if cerr = assignee.Release(); cerr != nil {
			h.discard(ctx, ref)
			return cerr
		}
		if cerr = courierRepo.Update(ctx, assignee); cerr != nil {
			h.discard(ctx, ref)
			return cerr
		}
	}

	notes := fmt.Sprintf("%s photo %s", cmd.Phase(), ref)
	if loc := cmd.Location(); loc != nil {
		notes = fmt.Sprintf("%s, captured at %s", notes, loc)
	}

	entry, err := order.NewAuditEntry(
		aggregate.ID(), previous, aggregate.Status(), order.ActorCourier, notes, now)
	if err != nil {
		h.discard(ctx, ref)
		return err
	}

	if err = uow.AuditRepository().Append(ctx, entry); err != nil {
		h.discard(ctx, ref)
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		h.discard(ctx, ref)
		return err
	}

	h.recorder.TransitionAccepted(aggregate.Status().String())
	if loc := cmd.Location(); loc != nil {
		h.tracking.PublishLocation(aggregate.ID(), *loc)
	}
	announceStatusChange(ctx, h.notifier, h.tracking, h.events, aggregate, previous, order.ActorCourier)
	return nil
}

// discard removes a stored blob after a failed upload. Removal is best
// effort: the media store logs its own failures.
func (h *AttachPhotoCommandHandler) discard(ctx context.Context, ref string) {
	_ = h.media.Remove(ctx, ref)
}
