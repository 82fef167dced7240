package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

// PhotoPhase names the delivery stage a proof photo documents.
type PhotoPhase string

const (
	// PhaseDeparture is the pickup photo gating ready -> delivering.
	PhaseDeparture PhotoPhase = "departure"

	// PhaseArrival is the handover photo gating delivering -> completed.
	PhaseArrival PhotoPhase = "arrival"
)

// Validate checks that the phase is one of the known stages.
func (p PhotoPhase) Validate() error {
	switch p {
	case PhaseDeparture, PhaseArrival:
		return nil
	default:
		return ErrUnknownPhotoPhase
	}
}

var (
	ErrAttachPhotoCommandIsNotConstructed = errors.New(
		"AttachPhotoCommand must be created via NewAttachPhotoCommand constructor",
	)
	ErrUnknownPhotoPhase = errors.New("photo phase must be departure or arrival")
	ErrPhotoIsEmpty      = errors.New("photo payload is empty")

	// ErrPhotoTooLarge is returned when the payload exceeds the handler's
	// configured size limit.
	ErrPhotoTooLarge = errors.New("photo exceeds the maximum allowed size")

	// ErrUnsupportedPhotoFormat is returned when the sniffed content type is
	// not JPEG, PNG, or WebP.
	ErrUnsupportedPhotoFormat = errors.New("photo must be a JPEG, PNG, or WebP image")
)

// AttachPhotoCommand represents a courier uploading proof-of-delivery
// evidence. The photo and the status transition it unlocks are applied as one
// operation. Location is optional capture metadata and never blocks the
// upload.
type AttachPhotoCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	phase    PhotoPhase
	photo    []byte
	location *kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewAttachPhotoCommand creates a command to attach the photo to the order.
func NewAttachPhotoCommand(
	orderID kernel.UUID,
	phase PhotoPhase,
	photo []byte,
	location *kernel.GeoPoint,
) (AttachPhotoCommand, error) {
	cmd := AttachPhotoCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		phase.Validate(),
		cmd.setPhoto(photo),
		cmd.setLocation(location),
	); err != nil {
		return AttachPhotoCommand{}, err
	}

	cmd.orderID = orderID
	cmd.phase = phase
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AttachPhotoCommand) Validate() error {
	return c.guard.Validate(ErrAttachPhotoCommandIsNotConstructed)
}

// OrderID returns the order the evidence belongs to.
func (c AttachPhotoCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Phase returns the documented delivery stage.
func (c AttachPhotoCommand) Phase() PhotoPhase {
	return c.phase
}

// Photo returns the raw image bytes.
func (c AttachPhotoCommand) Photo() []byte {
	return c.photo
}

// Location returns the capture coordinates, or nil when the device sent none.
func (c AttachPhotoCommand) Location() *kernel.GeoPoint {
	return c.location
}

func (c *AttachPhotoCommand) setPhoto(photo []byte) error {
	if len(photo) == 0 {
		return ErrPhotoIsEmpty
	}

	c.photo = photo
	return nil
}

func (c *AttachPhotoCommand) setLocation(location *kernel.GeoPoint) error {
	if location == nil {
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}
