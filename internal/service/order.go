package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"essence/storefront/internal/domain"
	"essence/storefront/internal/validate"
	"essence/storefront/internal/xid"
)

// OrderCharges carries the shipping and tax computed for the items being
// ordered. The item total itself is always derived from the lines.
type OrderCharges struct {
	ShippingCents int64
	TaxCents      int64
	Notes         string
}

func (s *Service) CreateOrder(ctx context.Context, customerID string, items []domain.OrderItem, address domain.ShippingAddress, charges OrderCharges) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, domain.Validationf("order must contain at least one item")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, domain.Validationf("quantity for %s must be positive", item.ProductID)
		}
		if item.LineTotalCents != item.UnitPriceCents*int64(item.Quantity) {
			return nil, domain.Validationf("line total for %s does not match its price", item.ProductID)
		}
	}
	total := domain.SumLineTotals(items)
	if total <= 0 {
		return nil, domain.Validationf("order total must be positive")
	}
	if charges.ShippingCents < 0 || charges.TaxCents < 0 {
		return nil, domain.Validationf("shipping and tax must not be negative")
	}

	address = normalizeAddress(address)
	if address.Country == "" {
		address.Country = s.defaultCountry
	}
	if err := validate.Struct(address); err != nil {
		return nil, err
	}

	customer, err := s.resolveCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := domain.Order{
		ID:                xid.New("ord"),
		UserID:            customer.ID,
		Items:             items,
		TotalAmountCents:  total,
		ShippingCents:     charges.ShippingCents,
		TaxCents:          charges.TaxCents,
		GrandTotalCents:   total + charges.ShippingCents + charges.TaxCents,
		Status:            domain.OrderStatusPending,
		PaymentStatus:     domain.PaymentStatusPending,
		ShippingAddress:   address,
		OrderDate:         now,
		EstimatedDelivery: now.AddDate(0, 0, s.leadDays),
		Notes:             strings.TrimSpace(charges.Notes),
		UpdatedAt:         now,
	}

	created, err := withNumber(s.orderNumbers, func(number string) (*domain.Order, error) {
		order.OrderNumber = number
		return s.repo.CreateOrder(ctx, order)
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: could not allocate an order number", domain.ErrConflict)
		}
		return nil, err
	}

	s.logAudit(ctx, "order.create", "order", created.OrderNumber, fmt.Sprintf("items=%d grand_total_cents=%d", len(created.Items), created.GrandTotalCents))
	if err := s.notifier.OrderPlaced(ctx, *created); err != nil {
		log.WithField("order_number", created.OrderNumber).WithError(err).Warn("order notification failed")
	}
	return created, nil
}

// Checkout turns the customer's current cart into an order and then clears
// the cart. The two writes are independent: a failed clear is logged and the
// order stands.
func (s *Service) Checkout(ctx context.Context, customerID string, req domain.CheckoutRequest) (*domain.Order, error) {
	req.ShippingAddress = normalizeAddress(req.ShippingAddress)
	if req.ShippingAddress.Country == "" {
		req.ShippingAddress.Country = s.defaultCountry
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	cart, err := s.loadCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.Validationf("cart is empty")
	}

	summary := domain.SummarizeCart(cart.Items, s.pricing)
	order, err := s.CreateOrder(ctx, customerID, domain.SnapshotItems(cart.Items), req.ShippingAddress, OrderCharges{
		ShippingCents: summary.ShippingCents,
		TaxCents:      summary.TaxCents,
		Notes:         req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := s.carts.DeleteCart(ctx, customerID); err != nil {
		log.WithFields(log.Fields{
			"customer_id":  customerID,
			"order_number": order.OrderNumber,
		}).WithError(err).Warn("cart clear after checkout failed")
	}
	return order, nil
}

// GetOrder returns any order; used by admins.
func (s *Service) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, domain.Validationf("order number is required")
	}
	return s.repo.GetOrderByNumber(ctx, orderNumber)
}

// GetCustomerOrder returns the order only when it belongs to customerID.
// Other customers' orders are reported as missing.
func (s *Service) GetCustomerOrder(ctx context.Context, customerID string, orderNumber string) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order.UserID != customerID {
		return nil, domain.NotFoundf("order %s", orderNumber)
	}
	return order, nil
}

func (s *Service) ListOrdersForCustomer(ctx context.Context, customerID string, filter domain.OrderFilter) ([]domain.Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, domain.Validationf("customer_id is required")
	}
	filter.CustomerID = customerID
	return s.ListOrders(ctx, filter)
}

func (s *Service) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if filter.Status != "" && !domain.IsValidOrderStatus(filter.Status) {
		return nil, domain.Validationf("unknown order status %q", filter.Status)
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, domain.Validationf("limit and offset must not be negative")
	}
	return s.repo.ListOrders(ctx, filter)
}

// UpdateOrderStatus applies an admin status change along with any tracking
// number or payment status carried by the request.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderNumber string, req domain.OrderStatusUpdateRequest) (*domain.Order, error) {
	if req.Override && !isAdmin(ctx) {
		return nil, fmt.Errorf("%w: status override requires the admin role", domain.ErrForbidden)
	}
	if req.Status == "" && req.PaymentStatus == "" && req.TrackingNumber == nil {
		return nil, domain.Validationf("nothing to update")
	}
	if req.PaymentStatus != "" && !domain.IsValidPaymentStatus(req.PaymentStatus) {
		return nil, domain.Validationf("unknown payment status %q", req.PaymentStatus)
	}

	order, err := s.GetOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	previous := order.Status

	if domain.IsTerminalOrderStatus(previous) && !req.Override && (req.PaymentStatus != "" || req.TrackingNumber != nil) {
		return nil, &domain.TransitionError{Event: domain.EventUpdate, From: previous}
	}
	if req.PaymentStatus != "" {
		order.PaymentStatus = req.PaymentStatus
	}

	if req.Status != "" {
		if err := domain.CheckTransition(previous, req.Status, order.PaymentStatus, req.Override); err != nil {
			return nil, err
		}
		order.Status = req.Status
	}

	if req.TrackingNumber != nil {
		tracking := strings.TrimSpace(*req.TrackingNumber)
		if tracking == "" {
			order.TrackingNumber = nil
		} else {
			order.TrackingNumber = &tracking
		}
	}

	now := s.now()
	if order.Status == domain.OrderStatusCancelled && previous != domain.OrderStatusCancelled {
		order.CancelledAt = &now
	}
	order.UpdatedAt = now

	updated, err := s.repo.UpdateOrder(ctx, *order)
	if err != nil {
		return nil, err
	}

	detail := fmt.Sprintf("status %s -> %s payment=%s", previous, updated.Status, updated.PaymentStatus)
	if req.Override {
		detail += " override=true"
	}
	s.logAudit(ctx, "order.status", "order", updated.OrderNumber, detail)
	return updated, nil
}

// CancelOrder cancels one of the customer's own orders before it ships.
func (s *Service) CancelOrder(ctx context.Context, customerID string, orderNumber string) (*domain.Order, error) {
	order, err := s.GetCustomerOrder(ctx, customerID, orderNumber)
	if err != nil {
		return nil, err
	}
	if !domain.CanCancel(order.Status) {
		return nil, &domain.TransitionError{Event: domain.EventCancel, From: order.Status}
	}

	now := s.now()
	previous := order.Status
	order.Status = domain.OrderStatusCancelled
	order.CancelledAt = &now
	order.UpdatedAt = now

	updated, err := s.repo.UpdateOrder(ctx, *order)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, "order.cancel", "order", updated.OrderNumber, "cancelled from "+previous)
	return updated, nil
}

func normalizeAddress(a domain.ShippingAddress) domain.ShippingAddress {
	return domain.ShippingAddress{
		FullName: strings.TrimSpace(a.FullName),
		Email:    strings.TrimSpace(a.Email),
		Phone:    strings.TrimSpace(a.Phone),
		Street:   strings.TrimSpace(a.Street),
		City:     strings.TrimSpace(a.City),
		State:    strings.TrimSpace(a.State),
		ZipCode:  strings.TrimSpace(a.ZipCode),
		Country:  strings.TrimSpace(a.Country),
	}
}

