package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"essence/storefront/internal/domain"
	"essence/storefront/internal/xid"
)

func (s *Store) GetCart(ctx context.Context, customerID string) (*domain.Cart, error) {
	cart := domain.Cart{CustomerID: customerID}
	var items []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT items, updated_at
		FROM carts
		WHERE customer_id = $1
	`, customerID).Scan(&items, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("cart for customer %s", customerID)
		}
		return nil, err
	}
	if err := json.Unmarshal(items, &cart.Items); err != nil {
		return nil, fmt.Errorf("decode cart items: %w", err)
	}
	cart.UpdatedAt = cart.UpdatedAt.UTC()
	return &cart, nil
}

func (s *Store) SaveCart(ctx context.Context, cart domain.Cart) error {
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	if cart.UpdatedAt.IsZero() {
		cart.UpdatedAt = time.Now().UTC()
	}
	items, err := json.Marshal(cart.Items)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO carts (customer_id, items, updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (customer_id)
		DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at
	`, cart.CustomerID, items, cart.UpdatedAt)
	return err
}

func (s *Store) DeleteCart(ctx context.Context, customerID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM carts WHERE customer_id = $1`, customerID)
	return err
}

const orderColumns = `id, order_number, user_id, items, total_amount_cents, shipping_cents, tax_cents,
	grand_total_cents, status, payment_status, shipping_address, order_date, estimated_delivery,
	tracking_number, notes, updated_at, cancelled_at`

func (s *Store) CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	if order.ID == "" {
		order.ID = xid.New("ord")
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, err
	}
	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`, order.ID, order.OrderNumber, order.UserID, items, order.TotalAmountCents, order.ShippingCents,
		order.TaxCents, order.GrandTotalCents, order.Status, order.PaymentStatus, address, order.OrderDate,
		order.EstimatedDelivery, order.TrackingNumber, order.Notes, order.UpdatedAt, order.CancelledAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return &order, nil
}

func (s *Store) GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, orderNumber)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("order %s", orderNumber)
		}
		return nil, err
	}
	return &order, nil
}

// UpdateOrder persists the mutable order fields. Items, totals and the
// shipping address are fixed at creation.
func (s *Store) UpdateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, payment_status = $3, tracking_number = $4, updated_at = $5, cancelled_at = $6
		WHERE order_number = $1
	`, order.OrderNumber, order.Status, order.PaymentStatus, order.TrackingNumber, order.UpdatedAt, order.CancelledAt)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.NotFoundf("order %s", order.OrderNumber)
	}
	return &order, nil
}

func (s *Store) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 4)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.CustomerID != "" {
		where = append(where, "user_id = "+arg(filter.CustomerID))
	}
	if filter.Status != "" {
		where = append(where, "status = "+arg(filter.Status))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY order_date DESC, order_number DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + arg(filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, 16)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var order domain.Order
	var items, address []byte
	var tracking sql.NullString
	var cancelledAt sql.NullTime
	if err := row.Scan(&order.ID, &order.OrderNumber, &order.UserID, &items, &order.TotalAmountCents,
		&order.ShippingCents, &order.TaxCents, &order.GrandTotalCents, &order.Status, &order.PaymentStatus,
		&address, &order.OrderDate, &order.EstimatedDelivery, &tracking, &order.Notes, &order.UpdatedAt,
		&cancelledAt); err != nil {
		return domain.Order{}, err
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return domain.Order{}, fmt.Errorf("decode order items: %w", err)
	}
	if err := json.Unmarshal(address, &order.ShippingAddress); err != nil {
		return domain.Order{}, fmt.Errorf("decode shipping address: %w", err)
	}
	if tracking.Valid {
		order.TrackingNumber = &tracking.String
	}
	if cancelledAt.Valid {
		at := cancelledAt.Time.UTC()
		order.CancelledAt = &at
	}
	order.OrderDate = order.OrderDate.UTC()
	order.EstimatedDelivery = order.EstimatedDelivery.UTC()
	order.UpdatedAt = order.UpdatedAt.UTC()
	return order, nil
}

const ticketColumns = `id, ticket_number, customer_id, customer_name, customer_email, subject, message,
	category, priority, status, assigned_to, responses, order_reference, created_at, updated_at`

func (s *Store) CreateTicket(ctx context.Context, ticket domain.SupportTicket) (*domain.SupportTicket, error) {
	if ticket.ID == "" {
		ticket.ID = xid.New("tkt")
	}
	if ticket.Responses == nil {
		ticket.Responses = []domain.TicketResponse{}
	}
	responses, err := json.Marshal(ticket.Responses)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO support_tickets (`+ticketColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`, ticket.ID, ticket.TicketNumber, ticket.CustomerID, ticket.CustomerName, ticket.CustomerEmail,
		ticket.Subject, ticket.Message, ticket.Category, ticket.Priority, ticket.Status, ticket.AssignedTo,
		responses, ticket.OrderReference, ticket.CreatedAt, ticket.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return &ticket, nil
}

func (s *Store) GetTicketByNumber(ctx context.Context, ticketNumber string) (*domain.SupportTicket, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM support_tickets WHERE ticket_number = $1`, ticketNumber)
	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("ticket %s", ticketNumber)
		}
		return nil, err
	}
	return &ticket, nil
}

func (s *Store) UpdateTicket(ctx context.Context, ticket domain.SupportTicket) (*domain.SupportTicket, error) {
	responses, err := json.Marshal(ticket.Responses)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE support_tickets
		SET status = $2, priority = $3, assigned_to = $4, responses = $5, updated_at = $6
		WHERE ticket_number = $1
	`, ticket.TicketNumber, ticket.Status, ticket.Priority, ticket.AssignedTo, responses, ticket.UpdatedAt)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.NotFoundf("ticket %s", ticket.TicketNumber)
	}
	return &ticket, nil
}

func (s *Store) ListTickets(ctx context.Context, filter domain.TicketFilter) ([]domain.SupportTicket, error) {
	where := make([]string, 0, 4)
	args := make([]any, 0, 6)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.CustomerID != "" {
		where = append(where, "customer_id = "+arg(filter.CustomerID))
	}
	if filter.Status != "" {
		where = append(where, "status = "+arg(filter.Status))
	}
	if filter.Priority != "" {
		where = append(where, "priority = "+arg(filter.Priority))
	}
	if filter.Category != "" {
		where = append(where, "category = "+arg(filter.Category))
	}

	query := `SELECT ` + ticketColumns + ` FROM support_tickets`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, ticket_number DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + arg(filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.SupportTicket, 0, 16)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

func scanTicket(row rowScanner) (domain.SupportTicket, error) {
	var ticket domain.SupportTicket
	var assigned sql.NullString
	var responses []byte
	if err := row.Scan(&ticket.ID, &ticket.TicketNumber, &ticket.CustomerID, &ticket.CustomerName,
		&ticket.CustomerEmail, &ticket.Subject, &ticket.Message, &ticket.Category, &ticket.Priority,
		&ticket.Status, &assigned, &responses, &ticket.OrderReference, &ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return domain.SupportTicket{}, err
	}
	if err := json.Unmarshal(responses, &ticket.Responses); err != nil {
		return domain.SupportTicket{}, fmt.Errorf("decode ticket responses: %w", err)
	}
	if assigned.Valid {
		ticket.AssignedTo = &assigned.String
	}
	ticket.CreatedAt = ticket.CreatedAt.UTC()
	ticket.UpdatedAt = ticket.UpdatedAt.UTC()
	return ticket, nil
}
