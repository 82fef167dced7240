package services

import (
	"fulfillment/internal/pkg/errs"
)

const (
	// DefaultTrustThreshold is the score at or above which a cash-on-delivery
	// order is auto-approved without a one-time code. The default is tuned so
	// an established, verified customer clears it and a new customer does not.
	DefaultTrustThreshold = 80.0

	// successWeight is the score contribution per successfully delivered order.
	successWeight = 6.0
	// successCap bounds the order-history contribution.
	successCap = 60.0
	// verifiedBonus is the contribution of a verified account.
	verifiedBonus = 25.0
	// priorWeight scales the carried-over score from earlier evaluations.
	priorWeight = 0.15
)

// TrustDecision is the outcome of evaluating a customer's historical signal.
type TrustDecision struct {
	// Score is the derived trust score in [0, 100].
	Score float64
	// AutoApprove is true when the score clears the threshold, meaning the
	// COD gate is satisfied without issuing a one-time code.
	AutoApprove bool
}

// TrustEvaluator is a pure domain service that maps a customer's history to a
// trust score and an auto-approve decision for cash-on-delivery orders.
//
// It is side-effect-free and called once per COD order entering the
// verification gate. When the decision is AutoApprove, the state machine marks
// the order verified and advances it immediately; the OTP verifier is never
// invoked for that order.
//
// Example:
//
//	evaluator := services.NewTrustEvaluator(services.DefaultTrustThreshold)
//	decision, err := evaluator.Evaluate(12, true, 0)
//	if err != nil {
//	    return err
//	}
//	if decision.AutoApprove {
//	    // skip the OTP challenge
//	}
type TrustEvaluator struct {
	threshold float64
}

// NewTrustEvaluator creates an evaluator with the given auto-approve threshold.
// Thresholds outside (0, 100] fall back to DefaultTrustThreshold.
func NewTrustEvaluator(threshold float64) TrustEvaluator {
	if threshold <= 0 || threshold > 100 {
		threshold = DefaultTrustThreshold
	}
	return TrustEvaluator{threshold: threshold}
}

// Threshold returns the auto-approve threshold in effect.
func (e TrustEvaluator) Threshold() float64 {
	return e.threshold
}

// Evaluate derives a trust score from the customer's history.
//
// The score combines a capped contribution from successfully delivered orders,
// a bonus for a verified account, and a fraction of the prior score, clamped
// to [0, 100]. AutoApprove is true when the score reaches the threshold.
//
// Parameters:
//   - successfulOrderCount: completed deliveries on the customer's account (must be >= 0)
//   - isVerifiedUser: whether the account passed identity verification
//   - priorScore: score carried over from earlier evaluations, clamped to [0, 100]
func (e TrustEvaluator) Evaluate(
	successfulOrderCount int,
	isVerifiedUser bool,
	priorScore float64,
) (TrustDecision, error) {
	if successfulOrderCount < 0 {
		return TrustDecision{}, errs.NewValueIsOutOfRangeError(
			"successful order count", successfulOrderCount, 0, "unbounded")
	}

	score := min(float64(successfulOrderCount)*successWeight, successCap)
	if isVerifiedUser {
		score += verifiedBonus
	}
	score += clamp(priorScore, 0, 100) * priorWeight
	score = clamp(score, 0, 100)

	return TrustDecision{
		Score:       score,
		AutoApprove: score >= e.threshold,
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
