// Package otp contains the one-time-code challenge used to verify
// cash-on-delivery orders before they enter the fulfillment queue.
package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	// DefaultCodeLength is the number of digits in a generated code.
	DefaultCodeLength = 6
	// DefaultTTL is how long a challenge stays verifiable after issue.
	DefaultTTL = 10 * time.Minute
)

// Verification errors. All are recoverable by the caller.
var (
	// ErrExpired is returned when the code is submitted past its TTL.
	ErrExpired = errors.New("code has expired")
	// ErrMismatch is returned when the submitted code differs.
	// Each mismatch increments the attempt counter; the order is unchanged.
	ErrMismatch = errors.New("code does not match")
	// ErrAlreadyVerified is returned when submitting after a successful
	// verification. It is an idempotent no-op, not a state change.
	ErrAlreadyVerified = errors.New("challenge already verified")

	// ErrChallengeIsNotConstructed is returned when using an improperly initialized Challenge.
	ErrChallengeIsNotConstructed = errors.New(
		"Challenge must be created via NewChallenge or RestoreChallenge constructor")
)

// Challenge is a short-lived one-time numeric code bound to a single order.
// At most one active (unexpired, unverified) challenge exists per order:
// issuing a new one invalidates any prior unverified challenge. A challenge
// is consumed, verified or expired, and never reused.
type Challenge struct {
	id           kernel.UUID
	orderID      kernel.UUID
	code         string
	issuedAt     time.Time
	expiresAt    time.Time
	verifiedAt   *time.Time
	attemptCount int

	guard guard.ConstructorGuard
}

// NewChallenge issues a fresh challenge for orderID with a randomly generated
// fixed-length numeric code and expiresAt = now + ttl.
func NewChallenge(orderID kernel.UUID, codeLength int, ttl time.Duration, now time.Time) (*Challenge, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if codeLength <= 0 {
		return nil, errs.NewValueIsInvalidError("code length")
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsInvalidError("ttl")
	}

	code, err := generateCode(codeLength)
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	return &Challenge{
		id:        kernel.NewUUID(),
		orderID:   orderID,
		code:      code,
		issuedAt:  now,
		expiresAt: now.Add(ttl),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// RestoreChallenge reconstructs a challenge from persistent storage.
func RestoreChallenge(
	id kernel.UUID,
	orderID kernel.UUID,
	code string,
	issuedAt time.Time,
	expiresAt time.Time,
	verifiedAt *time.Time,
	attemptCount int,
) (*Challenge, error) {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, errs.NewValueIsRequiredError("code")
	}

	return &Challenge{
		id:           id,
		orderID:      orderID,
		code:         code,
		issuedAt:     issuedAt,
		expiresAt:    expiresAt,
		verifiedAt:   verifiedAt,
		attemptCount: attemptCount,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Challenge instance was properly constructed.
func (c *Challenge) Validate() error {
	if c == nil {
		return ErrChallengeIsNotConstructed
	}
	return c.guard.Validate(ErrChallengeIsNotConstructed)
}

// ID returns the challenge's unique identifier.
func (c *Challenge) ID() kernel.UUID { return c.id }

// OrderID returns the order the challenge verifies.
func (c *Challenge) OrderID() kernel.UUID { return c.orderID }

// Code returns the numeric code. Delivered out-of-band in production;
// a development mode may surface it directly.
func (c *Challenge) Code() string { return c.code }

// IssuedAt returns when the challenge was created.
func (c *Challenge) IssuedAt() time.Time { return c.issuedAt }

// ExpiresAt returns when the challenge stops being verifiable.
func (c *Challenge) ExpiresAt() time.Time { return c.expiresAt }

// VerifiedAt returns when the challenge was verified, or nil.
func (c *Challenge) VerifiedAt() *time.Time { return c.verifiedAt }

// AttemptCount returns how many mismatched codes were submitted.
func (c *Challenge) AttemptCount() int { return c.attemptCount }

// IsExpired reports whether the challenge is past its TTL at now.
func (c *Challenge) IsExpired(now time.Time) bool {
	return now.After(c.expiresAt)
}

// IsVerified reports whether the challenge was successfully verified.
func (c *Challenge) IsVerified() bool {
	return c.verifiedAt != nil
}

// Verify checks the submitted code against the challenge at time now.
//
// Outcomes:
//   - ErrAlreadyVerified when the challenge was already verified (no-op)
//   - ErrExpired when now is past ExpiresAt
//   - ErrMismatch when the code differs; the attempt counter is incremented
//     and the caller must persist it
//   - nil on success; VerifiedAt is set to now
func (c *Challenge) Verify(submitted string, now time.Time) error {
	if c.IsVerified() {
		return ErrAlreadyVerified
	}
	if c.IsExpired(now) {
		return ErrExpired
	}
	if submitted != c.code {
		c.attemptCount++
		return ErrMismatch
	}

	c.verifiedAt = &now
	return nil
}

// Expire forces the challenge past its TTL.
// Used when a newer challenge supersedes it or by the expiry sweep.
func (c *Challenge) Expire(now time.Time) {
	if now.Before(c.expiresAt) {
		c.expiresAt = now
	}
}

// generateCode produces a fixed-length numeric string using crypto/rand.
// Leading zeros are allowed, so the keyspace is exactly 10^length.
func generateCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
