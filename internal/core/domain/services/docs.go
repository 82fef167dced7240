// Package services contains stateless domain services that implement business
// policies spanning more than one aggregate or requiring no aggregate at all.
//
// TrustEvaluator decides whether a cash-on-delivery order may bypass the
// one-time-code gate based on the customer's historical signal. It is a pure
// function of its inputs; persistence and notification are the caller's concern.
package services
