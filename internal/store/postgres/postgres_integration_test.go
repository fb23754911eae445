package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"essence/storefront/internal/domain"
	"essence/storefront/internal/httpapi"
)

func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	databaseURL := os.Getenv("ESSENCE_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set ESSENCE_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func TestOrderRoundTripAndStatusUpdate(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()

	stamp := time.Now().UnixNano()
	number := fmt.Sprintf("ORD-IT-%d", stamp)
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM orders WHERE order_number = $1`, number)
	})

	now := time.Now().UTC().Truncate(time.Microsecond)
	order := domain.Order{
		OrderNumber: number,
		UserID:      "cus-it",
		Items: []domain.OrderItem{
			{ProductID: "prd-001", Name: "Citrus Dawn", UnitPriceCents: 6500, Quantity: 2, LineTotalCents: 13000},
		},
		TotalAmountCents:  13000,
		TaxCents:          1040,
		GrandTotalCents:   14040,
		Status:            domain.OrderStatusPending,
		PaymentStatus:     domain.PaymentStatusPending,
		ShippingAddress:   domain.ShippingAddress{FullName: "IT", Email: "it@example.com", Phone: "1", Street: "s", City: "c", State: "st", ZipCode: "z", Country: "US"},
		OrderDate:         now,
		EstimatedDelivery: now.AddDate(0, 0, 7),
		UpdatedAt:         now,
	}

	if _, err := s.CreateOrder(ctx, order); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := s.CreateOrder(ctx, order); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict on duplicate order number, got %v", err)
	}

	tracking := "1Z999"
	order.Status = domain.OrderStatusShipped
	order.TrackingNumber = &tracking
	if _, err := s.UpdateOrder(ctx, order); err != nil {
		t.Fatalf("update order: %v", err)
	}

	stored, err := s.GetOrderByNumber(ctx, number)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored.Status != domain.OrderStatusShipped {
		t.Fatalf("expected shipped, got %s", stored.Status)
	}
	if stored.TrackingNumber == nil || *stored.TrackingNumber != tracking {
		t.Fatalf("expected tracking number %s, got %v", tracking, stored.TrackingNumber)
	}
	if len(stored.Items) != 1 || stored.Items[0].LineTotalCents != 13000 {
		t.Fatalf("expected item snapshot to survive round trip, got %+v", stored.Items)
	}
}

func TestCartUpsertAndDelete(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()
	customerID := fmt.Sprintf("cus-cart-it-%d", time.Now().UnixNano())

	cart := domain.Cart{CustomerID: customerID, Items: []domain.CartItem{{ID: "l1", Product: domain.Product{ID: "prd-001", PriceCents: 6500}, Quantity: 1}}}
	if err := s.SaveCart(ctx, cart); err != nil {
		t.Fatalf("save cart: %v", err)
	}
	cart.Items[0].Quantity = 3
	if err := s.SaveCart(ctx, cart); err != nil {
		t.Fatalf("save cart again: %v", err)
	}

	stored, err := s.GetCart(ctx, customerID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if stored.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", stored.Items[0].Quantity)
	}

	if err := s.DeleteCart(ctx, customerID); err != nil {
		t.Fatalf("delete cart: %v", err)
	}
	if _, err := s.GetCart(ctx, customerID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestEscapeLikeQuotesWildcards(t *testing.T) {
	cases := map[string]string{
		"rose":     "rose",
		"_":        `\_`,
		"100%":     `100\%`,
		`back\oud`: `back\\oud`,
	}
	for in, want := range cases {
		if got := escapeLike(in); got != want {
			t.Fatalf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestListProductsMatchesWildcardsLiterally(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()

	stamp := time.Now().UnixNano()
	literal := domain.Product{ID: fmt.Sprintf("prd-it-a-%d", stamp), Name: fmt.Sprintf("Amber %dX_Y", stamp), Brand: "IT", Category: domain.CategoryUnisex, PriceCents: 5000, Stock: 1}
	other := domain.Product{ID: fmt.Sprintf("prd-it-b-%d", stamp), Name: fmt.Sprintf("Amber %dXZY", stamp), Brand: "IT", Category: domain.CategoryUnisex, PriceCents: 5000, Stock: 1}
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM products WHERE id IN ($1, $2)`, literal.ID, other.ID)
	})
	if err := s.UpsertProducts(ctx, []domain.Product{literal, other}); err != nil {
		t.Fatalf("upsert products: %v", err)
	}

	products, err := s.ListProducts(ctx, domain.ProductFilter{Query: fmt.Sprintf("%dx_y", stamp)})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 1 || products[0].ID != literal.ID {
		t.Fatalf("expected only %s, got %+v", literal.ID, products)
	}
}

func TestDeleteCustomer(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()

	email := fmt.Sprintf("delete-it-%d@example.com", time.Now().UnixNano())
	customer, err := s.CreateCustomer(ctx, domain.Customer{Name: "Delete IT", Email: email})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if err := s.DeleteCustomer(ctx, customer.ID); err != nil {
		t.Fatalf("delete customer: %v", err)
	}
	if err := s.DeleteCustomer(ctx, customer.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if _, err := s.CreateCustomer(ctx, domain.Customer{Name: "Delete IT", Email: email}); err != nil {
		t.Fatalf("expected email to be free after delete, got %v", err)
	}
	_, _ = s.db.ExecContext(ctx, `DELETE FROM customers WHERE email = $1`, email)
}

func TestBootstrapAdminAgainstPostgres(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()

	username := fmt.Sprintf("ops-it-%d", time.Now().UnixNano())
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM user_accounts WHERE username = $1`, username)
	})

	if err := httpapi.BootstrapAdmin(ctx, s, username, "first-secret"); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}
	if err := httpapi.BootstrapAdmin(ctx, s, username, "second-secret"); err != nil {
		t.Fatalf("rerun bootstrap admin: %v", err)
	}

	manager := httpapi.NewAuthManager("integration-secret-with-enough-bytes", time.Hour, s, s)
	resp, err := manager.Login(ctx, domain.LoginRequest{Username: username, Password: "second-secret"})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if resp.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", resp.Role)
	}
	if _, err := manager.Login(ctx, domain.LoginRequest{Username: username, Password: "first-secret"}); err == nil {
		t.Fatalf("expected old admin password to be rejected")
	}
}
