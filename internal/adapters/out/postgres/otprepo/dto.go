package otprepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/otp"

	"github.com/google/uuid"
)

// ChallengeDTO represents a one-time code challenge in the database.
type ChallengeDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID  `gorm:"type:uuid;index"`
	Code         string     `gorm:"type:varchar(16)"`
	IssuedAt     time.Time  `gorm:"index"`
	ExpiresAt    time.Time  `gorm:"index"`
	VerifiedAt   *time.Time `gorm:""`
	AttemptCount int        `gorm:""`
}

// TableName overrides the table name.
func (ChallengeDTO) TableName() string {
	return "otp_challenges"
}

// fromDomain converts a domain challenge to a DTO.
func fromDomain(challenge *otp.Challenge) ChallengeDTO {
	return ChallengeDTO{
		ID:           challenge.ID().Bytes(),
		OrderID:      challenge.OrderID().Bytes(),
		Code:         challenge.Code(),
		IssuedAt:     challenge.IssuedAt(),
		ExpiresAt:    challenge.ExpiresAt(),
		VerifiedAt:   challenge.VerifiedAt(),
		AttemptCount: challenge.AttemptCount(),
	}
}

// toDomain converts a DTO to a domain challenge.
func toDomain(dto ChallengeDTO) (*otp.Challenge, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	return otp.RestoreChallenge(
		id,
		orderID,
		dto.Code,
		dto.IssuedAt,
		dto.ExpiresAt,
		dto.VerifiedAt,
		dto.AttemptCount,
	)
}
