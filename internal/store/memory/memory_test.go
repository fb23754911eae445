package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essence/storefront/internal/domain"
)

func TestSeededCatalogIsComplete(t *testing.T) {
	s := NewSeeded()
	products, err := s.ListProducts(context.Background(), domain.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, products, len(SeedProducts()))

	for _, p := range products {
		assert.True(t, domain.IsValidCategory(p.Category), p.ID)
		assert.Positive(t, p.PriceCents, p.ID)
		assert.NotEmpty(t, p.Notes.Top, p.ID)
		assert.NotEmpty(t, p.Notes.Base, p.ID)
	}
}

func TestGetProductReturnsCopy(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	p, err := s.GetProduct(ctx, "prd-001")
	require.NoError(t, err)
	p.Notes.Top[0] = "mutated"

	again, err := s.GetProduct(ctx, "prd-001")
	require.NoError(t, err)
	assert.Equal(t, "Bergamot", again.Notes.Top[0])

	_, err = s.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCartRoundTripIsIsolated(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.GetCart(ctx, "cus-x")
	require.ErrorIs(t, err, domain.ErrNotFound)

	cart := domain.Cart{CustomerID: "cus-x", Items: []domain.CartItem{{ID: "l1", Quantity: 2}}}
	require.NoError(t, s.SaveCart(ctx, cart))
	cart.Items[0].Quantity = 99

	stored, err := s.GetCart(ctx, "cus-x")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Items[0].Quantity)

	require.NoError(t, s.DeleteCart(ctx, "cus-x"))
	require.NoError(t, s.DeleteCart(ctx, "cus-x"))
}

func TestCreateOrderRejectsDuplicateNumber(t *testing.T) {
	s := New()
	ctx := context.Background()
	order := domain.Order{OrderNumber: "ORD-1", UserID: "cus-1", Status: domain.OrderStatusPending}

	_, err := s.CreateOrder(ctx, order)
	require.NoError(t, err)
	_, err = s.CreateOrder(ctx, order)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestListOrdersFiltersAndSortsNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, tc := range []struct {
		number string
		user   string
		status string
	}{
		{"ORD-A", "cus-1", domain.OrderStatusPending},
		{"ORD-B", "cus-2", domain.OrderStatusPending},
		{"ORD-C", "cus-1", domain.OrderStatusShipped},
		{"ORD-D", "cus-1", domain.OrderStatusPending},
	} {
		_, err := s.CreateOrder(ctx, domain.Order{
			OrderNumber: tc.number, UserID: tc.user, Status: tc.status,
			OrderDate: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	orders, err := s.ListOrders(ctx, domain.OrderFilter{CustomerID: "cus-1", Status: domain.OrderStatusPending})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-D", orders[0].OrderNumber)
	assert.Equal(t, "ORD-A", orders[1].OrderNumber)

	page, err := s.ListOrders(ctx, domain.OrderFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "ORD-C", page[0].OrderNumber)
}

func TestListTicketsFilters(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := s.CreateTicket(ctx, domain.SupportTicket{TicketNumber: "T1", CustomerID: "c1", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh, Category: domain.TicketCategoryOrder, CreatedAt: now})
	require.NoError(t, err)
	_, err = s.CreateTicket(ctx, domain.SupportTicket{TicketNumber: "T2", CustomerID: "c2", Status: domain.TicketStatusClosed, Priority: domain.TicketPriorityLow, Category: domain.TicketCategoryOther, CreatedAt: now})
	require.NoError(t, err)

	open, err := s.ListTickets(ctx, domain.TicketFilter{Status: domain.TicketStatusOpen})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "T1", open[0].TicketNumber)

	mine, err := s.ListTickets(ctx, domain.TicketFilter{CustomerID: "c2", Priority: domain.TicketPriorityLow})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "T2", mine[0].TicketNumber)
}

func TestAuditLogsNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, action := range []string{"a", "b", "c"} {
		require.NoError(t, s.CreateAuditLog(ctx, domain.AuditLog{Action: action}))
	}

	logs, err := s.ListAuditLogs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "c", logs[0].Action)
	assert.Equal(t, "b", logs[1].Action)
}

func TestCreateUserRejectsDuplicate(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, domain.UserAccount{Username: "Mia", Password: "hash"}))
	assert.ErrorIs(t, s.CreateUser(ctx, domain.UserAccount{Username: "mia", Password: "hash"}), domain.ErrConflict)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, domain.RoleCustomer, users[0].Role)
}

func TestDeleteCustomerFreesEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateCustomer(ctx, domain.Customer{Name: "Lena", Email: "lena@example.com"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCustomer(ctx, created.ID))
	require.ErrorIs(t, s.DeleteCustomer(ctx, created.ID), domain.ErrNotFound)

	_, err = s.GetCustomer(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.CreateCustomer(ctx, domain.Customer{Name: "Lena", Email: "lena@example.com"})
	assert.NoError(t, err)
}
