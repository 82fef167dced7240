package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/otp"
	"fulfillment/internal/core/ports"
)

// IssueOTPResult reports the issued challenge. Code is populated only when
// the handler runs in dev mode; production callers receive the code through
// the notification sink alone.
type IssueOTPResult struct {
	ChallengeID string
	ExpiresAt   time.Time
	Code        string
}

// IssueOTPCommandHandler issues a confirmation code for an order awaiting
// cash-on-delivery verification. Issuing expires any previous active code, so
// at most one challenge per order can be verified at any time.
type IssueOTPCommandHandler struct {
	uowFactory OTPUoWFactory
	notifier   ports.Notifier
	ttl        time.Duration
	devMode    bool
}

// NewIssueOTPCommandHandler creates a handler for code issuance.
// In dev mode the generated code is surfaced in the result for test benches.
func NewIssueOTPCommandHandler(
	uowFactory OTPUoWFactory,
	notifier ports.Notifier,
	ttl time.Duration,
	devMode bool,
) IssueOTPCommandHandler {
	if ttl <= 0 {
		ttl = otp.DefaultTTL
	}

	return IssueOTPCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		ttl:        ttl,
		devMode:    devMode,
	}
}

// Handle processes the issue command.
// Returns ErrOTPNotApplicable unless the order is a COD order waiting for
// confirmation.
func (h *IssueOTPCommandHandler) Handle(ctx context.Context, cmd IssueOTPCommand) (IssueOTPResult, error) {
	if err := cmd.Validate(); err != nil {
		return IssueOTPResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return IssueOTPResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return IssueOTPResult{}, err
	}

	if !aggregate.IsCOD() || aggregate.Status() != order.WaitingConfirmation {
		return IssueOTPResult{}, ErrOTPNotApplicable
	}

	now := time.Now().UTC()
	otpRepo := uow.OTPRepository()

	if err = otpRepo.ExpireActiveByOrder(ctx, aggregate.ID(), now); err != nil {
		return IssueOTPResult{}, err
	}

	challenge, err := otp.NewChallenge(aggregate.ID(), otp.DefaultCodeLength, h.ttl, now)
	if err != nil {
		return IssueOTPResult{}, err
	}

	if err = otpRepo.Add(ctx, challenge); err != nil {
		return IssueOTPResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return IssueOTPResult{}, err
	}

	h.notifier.Notify(ctx, ports.Notification{
		Recipient: order.ActorCustomer,
		Category:  ports.NotificationOTPIssued,
		Title:     fmt.Sprintf("Confirm order %s", aggregate.Number()),
		Body:      fmt.Sprintf("Your confirmation code is %s.", challenge.Code()),
		OrderID:   aggregate.ID(),
	})

	result := IssueOTPResult{
		ChallengeID: challenge.ID().String(),
		ExpiresAt:   challenge.ExpiresAt(),
	}
	if h.devMode {
		result.Code = challenge.Code()
	}
	return result, nil
}
