package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTransitionForwardPath(t *testing.T) {
	require.NoError(t, CheckTransition(OrderStatusPending, OrderStatusConfirmed, PaymentStatusPaid, false))
	require.NoError(t, CheckTransition(OrderStatusConfirmed, OrderStatusProcessing, PaymentStatusPaid, false))
	require.NoError(t, CheckTransition(OrderStatusProcessing, OrderStatusShipped, PaymentStatusPaid, false))
	require.NoError(t, CheckTransition(OrderStatusShipped, OrderStatusDelivered, PaymentStatusPaid, false))
}

func TestCheckTransitionConfirmRequiresPayment(t *testing.T) {
	err := CheckTransition(OrderStatusPending, OrderStatusConfirmed, PaymentStatusPending, false)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestCheckTransitionRejectsSkips(t *testing.T) {
	err := CheckTransition(OrderStatusPending, OrderStatusShipped, PaymentStatusPaid, false)

	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, OrderStatusPending, transitionErr.From)
	assert.Equal(t, OrderStatusShipped, transitionErr.To)
}

func TestCheckTransitionCancelGuard(t *testing.T) {
	cases := map[string]bool{
		OrderStatusPending:    true,
		OrderStatusConfirmed:  true,
		OrderStatusProcessing: true,
		OrderStatusShipped:    false,
		OrderStatusDelivered:  false,
	}
	for from, allowed := range cases {
		err := CheckTransition(from, OrderStatusCancelled, PaymentStatusPending, false)
		if allowed {
			assert.NoError(t, err, from)
			continue
		}
		require.Error(t, err, from)
		assert.Equal(t, "order cannot be cancelled. current status: "+from, err.Error())
	}
}

func TestCheckTransitionOverride(t *testing.T) {
	assert.NoError(t, CheckTransition(OrderStatusDelivered, OrderStatusProcessing, PaymentStatusPaid, true))
	assert.NoError(t, CheckTransition(OrderStatusPending, OrderStatusShipped, PaymentStatusPending, true))

	err := CheckTransition(OrderStatusCancelled, OrderStatusPending, PaymentStatusPending, true)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCheckTransitionUnknownStatus(t *testing.T) {
	err := CheckTransition(OrderStatusPending, "lost", PaymentStatusPending, true)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTransitionErrorMessages(t *testing.T) {
	update := &TransitionError{Event: EventUpdate, From: OrderStatusDelivered}
	assert.Equal(t, "order cannot be updated. current status: delivered", update.Error())
	assert.ErrorIs(t, update, ErrInvalidTransition)

	cancel := &TransitionError{Event: EventCancel, From: OrderStatusShipped}
	assert.Equal(t, "order cannot be cancelled. current status: shipped", cancel.Error())

	move := &TransitionError{Event: EventConfirm, From: OrderStatusPending, To: OrderStatusConfirmed, Reason: "payment required"}
	assert.Equal(t, "order cannot move from pending to confirmed (payment required)", move.Error())
}
