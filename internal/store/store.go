package store

import (
	"context"

	"essence/storefront/internal/domain"
)

type CatalogStore interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type CustomerStore interface {
	CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
}

// CartStore persists one cart document per customer. A missing cart is
// reported as domain.ErrNotFound.
type CartStore interface {
	GetCart(ctx context.Context, customerID string) (*domain.Cart, error)
	SaveCart(ctx context.Context, cart domain.Cart) error
	DeleteCart(ctx context.Context, customerID string) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	UpdateOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
}

type TicketStore interface {
	CreateTicket(ctx context.Context, ticket domain.SupportTicket) (*domain.SupportTicket, error)
	GetTicketByNumber(ctx context.Context, ticketNumber string) (*domain.SupportTicket, error)
	UpdateTicket(ctx context.Context, ticket domain.SupportTicket) (*domain.SupportTicket, error)
	ListTickets(ctx context.Context, filter domain.TicketFilter) ([]domain.SupportTicket, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}

type AuditStore interface {
	CreateAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error)
}

type Repository interface {
	CatalogStore
	CustomerStore
	CartStore
	OrderStore
	TicketStore
	UserStore
	AuditStore
}
