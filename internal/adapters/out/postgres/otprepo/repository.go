package otprepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/otp"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOTPRepository implements OTPRepository using GORM.
type GormOTPRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOTPRepository creates a new GORM one-time code repository.
func NewGormOTPRepository(db *gorm.DB, tracker aggregateTracker) *GormOTPRepository {
	return &GormOTPRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new challenge to the database.
func (r *GormOTPRepository) Add(ctx context.Context, challenge *otp.Challenge) error {
	if err := challenge.Validate(); err != nil {
		return err
	}

	dto := fromDomain(challenge)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(challenge.ID(), challenge)
	return nil
}

// Update saves an existing challenge to the database.
func (r *GormOTPRepository) Update(ctx context.Context, challenge *otp.Challenge) error {
	if err := challenge.Validate(); err != nil {
		return err
	}

	dto := fromDomain(challenge)
	result := r.db.WithContext(ctx).
		Model(&ChallengeDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(challenge.ID(), challenge)
	return nil
}

// GetActiveByOrder retrieves the most recent unverified, unexpired challenge for an order.
func (r *GormOTPRepository) GetActiveByOrder(ctx context.Context, orderID kernel.UUID, now time.Time) (*otp.Challenge, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto ChallengeDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND verified_at IS NULL AND expires_at > ?", orderID.Bytes(), now).
		Order("issued_at DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("otp challenge", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetLatestByOrder retrieves the most recently issued challenge for an order
// regardless of its state.
func (r *GormOTPRepository) GetLatestByOrder(ctx context.Context, orderID kernel.UUID) (*otp.Challenge, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto ChallengeDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("issued_at DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("otp challenge", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ExpireActiveByOrder invalidates every active challenge for an order.
func (r *GormOTPRepository) ExpireActiveByOrder(ctx context.Context, orderID kernel.UUID, now time.Time) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&ChallengeDTO{}).
		Where("order_id = ? AND verified_at IS NULL AND expires_at > ?", orderID.Bytes(), now).
		Update("expires_at", now).Error
}

// PurgeExpired deletes unverified challenges that expired before the cutoff.
// Verified challenges stay as the record of a successful confirmation.
func (r *GormOTPRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("verified_at IS NULL AND expires_at < ?", before).
		Delete(&ChallengeDTO{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
