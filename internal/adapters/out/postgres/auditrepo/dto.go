package auditrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// AuditEntryDTO represents an order status transition record in the database.
type AuditEntryDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;index"`
	FromStatus string    `gorm:"type:varchar(32)"`
	ToStatus   string    `gorm:"type:varchar(32)"`
	Actor      string    `gorm:"type:varchar(16)"`
	Notes      string    `gorm:""`
	CreatedAt  time.Time `gorm:"index"`
}

// TableName overrides the table name.
func (AuditEntryDTO) TableName() string {
	return "audit_entries"
}

// fromDomain converts a domain audit entry to a DTO.
func fromDomain(entry order.AuditEntry) AuditEntryDTO {
	return AuditEntryDTO{
		ID:         entry.ID().Bytes(),
		OrderID:    entry.OrderID().Bytes(),
		FromStatus: entry.FromStatus().String(),
		ToStatus:   entry.ToStatus().String(),
		Actor:      string(entry.Actor()),
		Notes:      entry.Notes(),
		CreatedAt:  entry.CreatedAt(),
	}
}

// toDomain converts a DTO to a domain audit entry.
func toDomain(dto AuditEntryDTO) (order.AuditEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.AuditEntry{}, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return order.AuditEntry{}, err
	}

	fromStatus, err := order.StatusFromString(dto.FromStatus)
	if err != nil {
		return order.AuditEntry{}, err
	}

	toStatus, err := order.StatusFromString(dto.ToStatus)
	if err != nil {
		return order.AuditEntry{}, err
	}

	actor, err := order.ActorFromString(dto.Actor)
	if err != nil {
		return order.AuditEntry{}, err
	}

	return order.RestoreAuditEntry(id, orderID, fromStatus, toStatus, actor, dto.Notes, dto.CreatedAt), nil
}
