package auditrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GormAuditRepository implements AuditRepository using GORM.
// Audit entries are append-only and never updated.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GORM audit repository.
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append saves a new audit entry to the database.
func (r *GormAuditRepository) Append(ctx context.Context, entry order.AuditEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// History retrieves the full transition history of an order, oldest first.
func (r *GormAuditRepository) History(ctx context.Context, orderID kernel.UUID) ([]order.AuditEntry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []AuditEntryDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]order.AuditEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
