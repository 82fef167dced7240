package order_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allStatuses() []order.Status {
	return []order.Status{
		order.Pending,
		order.WaitingConfirmation,
		order.Confirmed,
		order.Processing,
		order.Ready,
		order.Delivering,
		order.Completed,
		order.Cancelled,
	}
}

func TestStatus_String(t *testing.T) {
	testCases := []struct {
		status   order.Status
		expected string
	}{
		{order.Unknown, "unknown"},
		{order.Pending, "pending"},
		{order.WaitingConfirmation, "waiting_confirmation"},
		{order.Confirmed, "confirmed"},
		{order.Processing, "processing"},
		{order.Ready, "ready"},
		{order.Delivering, "delivering"},
		{order.Completed, "completed"},
		{order.Cancelled, "cancelled"},
		{order.Status(99), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.String())
		})
	}
}

func TestStatusFromString(t *testing.T) {
	t.Run("round_trips_every_valid_status", func(t *testing.T) {
		for _, s := range allStatuses() {
			parsed, err := order.StatusFromString(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("rejects_unknown_strings", func(t *testing.T) {
		for _, input := range []string{"", "unknown", "shipped", "PENDING"} {
			_, err := order.StatusFromString(input)
			require.Error(t, err, "input %q", input)
		}
	})
}

func TestStatus_Validate(t *testing.T) {
	t.Run("valid_statuses", func(t *testing.T) {
		for _, s := range allStatuses() {
			require.NoError(t, s.Validate())
		}
	})

	t.Run("invalid_statuses", func(t *testing.T) {
		require.Error(t, order.Unknown.Validate())
		require.Error(t, order.Status(99).Validate())
	})
}

func TestStatus_CanTransitionTo(t *testing.T) {
	validEdges := map[order.Status][]order.Status{
		order.Pending:             {order.WaitingConfirmation, order.Confirmed, order.Cancelled},
		order.WaitingConfirmation: {order.Confirmed, order.Cancelled},
		order.Confirmed:           {order.Processing, order.Cancelled},
		order.Processing:          {order.Ready, order.Cancelled},
		order.Ready:               {order.Delivering},
		order.Delivering:          {order.Completed},
		order.Completed:           {},
		order.Cancelled:           {},
	}

	// Every edge not declared above must be rejected.
	for _, from := range allStatuses() {
		for _, to := range allStatuses() {
			expected := false
			for _, allowed := range validEdges[from] {
				if allowed == to {
					expected = true
				}
			}
			assert.Equal(t, expected, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	for _, s := range allStatuses() {
		expected := s == order.Completed || s == order.Cancelled
		assert.Equal(t, expected, s.IsTerminal(), "%s", s)
	}
}

func TestStatus_IsTracked(t *testing.T) {
	for _, s := range allStatuses() {
		expected := s == order.Processing || s == order.Ready || s == order.Delivering
		assert.Equal(t, expected, s.IsTracked(), "%s", s)
	}
}

func TestStatus_CanAssignCourier(t *testing.T) {
	for _, s := range allStatuses() {
		expected := s == order.Processing || s == order.Ready
		assert.Equal(t, expected, s.CanAssignCourier(), "%s", s)
	}
}
