package domain

const (
	EventConfirm  = "confirm"
	EventProcess  = "process"
	EventShip     = "ship"
	EventDeliver  = "deliver"
	EventCancel   = "cancel"
	EventOverride = "override"
	// EventUpdate is a payment or tracking edit that leaves the status as is.
	EventUpdate   = "update"
)

type transition struct {
	event string
	to    string
}

// forward lists the single forward step allowed from each non-terminal status.
var forward = map[string]transition{
	OrderStatusPending:    {event: EventConfirm, to: OrderStatusConfirmed},
	OrderStatusConfirmed:  {event: EventProcess, to: OrderStatusProcessing},
	OrderStatusProcessing: {event: EventShip, to: OrderStatusShipped},
	OrderStatusShipped:    {event: EventDeliver, to: OrderStatusDelivered},
}

func IsTerminalOrderStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}

// CanCancel reports whether a customer may still cancel an order in status.
func CanCancel(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing:
		return true
	}
	return false
}

// CheckTransition validates moving an order from one status to another.
// paymentStatus guards confirmation. override bypasses the table, except that a
// cancelled order never leaves cancelled.
func CheckTransition(from string, to string, paymentStatus string, override bool) error {
	if !IsValidOrderStatus(to) {
		return Validationf("unknown order status %q", to)
	}
	if from == to {
		return nil
	}
	if from == OrderStatusCancelled {
		return &TransitionError{Event: EventOverride, From: from, To: to, Reason: "cancelled orders are final"}
	}
	if override {
		return nil
	}

	if to == OrderStatusCancelled {
		if !CanCancel(from) {
			return &TransitionError{Event: EventCancel, From: from, To: to}
		}
		return nil
	}

	next, ok := forward[from]
	if !ok || next.to != to {
		return &TransitionError{From: from, To: to}
	}
	if next.event == EventConfirm && paymentStatus != PaymentStatusPaid {
		return &TransitionError{Event: EventConfirm, From: from, To: to, Reason: "payment not recorded"}
	}
	return nil
}
