package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"essence/storefront/internal/domain"
	"essence/storefront/internal/xid"
)

type Store struct {
	mu              sync.RWMutex
	products        map[string]domain.Product
	customers       map[string]domain.Customer
	carts           map[string]domain.Cart
	ordersByNumber  map[string]domain.Order
	ticketsByNumber map[string]domain.SupportTicket
	auditLogs       []domain.AuditLog
	usersByUsername map[string]domain.UserAccount
}

func New() *Store {
	return &Store{
		products:        make(map[string]domain.Product),
		customers:       make(map[string]domain.Customer),
		carts:           make(map[string]domain.Cart),
		ordersByNumber:  make(map[string]domain.Order),
		ticketsByNumber: make(map[string]domain.SupportTicket),
		auditLogs:       make([]domain.AuditLog, 0, 128),
		usersByUsername: make(map[string]domain.UserAccount),
	}
}

func NewSeeded() *Store {
	s := New()
	now := time.Now().UTC()
	for _, p := range SeedProducts() {
		s.products[p.ID] = p
	}
	for _, c := range seedCustomers(now) {
		s.customers[c.ID] = c
	}
	s.usersByUsername = seedUsers(now)
	return s
}

// PutProduct inserts or replaces a catalog entry.
func (s *Store) PutProduct(product domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = cloneProduct(product)
}

func (s *Store) ListProducts(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	s.mu.RLock()
	all := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		all = append(all, cloneProduct(p))
	}
	s.mu.RUnlock()

	return domain.FilterProducts(all, filter), nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.products[id]
	if !exists {
		return nil, domain.NotFoundf("product %s", id)
	}
	copyProduct := cloneProduct(product)
	return &copyProduct, nil
}

func (s *Store) CreateCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if customer.ID == "" {
		customer.ID = xid.New("cus")
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}
	email := strings.ToLower(strings.TrimSpace(customer.Email))
	for _, existing := range s.customers {
		if existing.ID == customer.ID || strings.EqualFold(existing.Email, email) {
			return nil, domain.ErrConflict
		}
	}

	s.customers[customer.ID] = customer
	created := customer
	return &created, nil
}

func (s *Store) GetCustomer(_ context.Context, id string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer, exists := s.customers[id]
	if !exists {
		return nil, domain.NotFoundf("customer %s", id)
	}
	return &customer, nil
}

func (s *Store) DeleteCustomer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[id]; !exists {
		return domain.NotFoundf("customer %s", id)
	}
	delete(s.customers, id)
	return nil
}

func (s *Store) GetCart(_ context.Context, customerID string) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, exists := s.carts[customerID]
	if !exists {
		return nil, domain.NotFoundf("cart for customer %s", customerID)
	}
	copyCart := cloneCart(cart)
	return &copyCart, nil
}

func (s *Store) SaveCart(_ context.Context, cart domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cart.UpdatedAt.IsZero() {
		cart.UpdatedAt = time.Now().UTC()
	}
	s.carts[cart.CustomerID] = cloneCart(cart)
	return nil
}

func (s *Store) DeleteCart(_ context.Context, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, customerID)
	return nil
}

func (s *Store) CreateOrder(_ context.Context, order domain.Order) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ordersByNumber[order.OrderNumber]; exists {
		return nil, domain.ErrConflict
	}
	if order.ID == "" {
		order.ID = xid.New("ord")
	}
	s.ordersByNumber[order.OrderNumber] = cloneOrder(order)
	created := cloneOrder(order)
	return &created, nil
}

func (s *Store) GetOrderByNumber(_ context.Context, orderNumber string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, exists := s.ordersByNumber[orderNumber]
	if !exists {
		return nil, domain.NotFoundf("order %s", orderNumber)
	}
	copyOrder := cloneOrder(order)
	return &copyOrder, nil
}

func (s *Store) UpdateOrder(_ context.Context, order domain.Order) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ordersByNumber[order.OrderNumber]; !exists {
		return nil, domain.NotFoundf("order %s", order.OrderNumber)
	}
	s.ordersByNumber[order.OrderNumber] = cloneOrder(order)
	updated := cloneOrder(order)
	return &updated, nil
}

func (s *Store) ListOrders(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	s.mu.RLock()
	result := make([]domain.Order, 0, len(s.ordersByNumber))
	for _, order := range s.ordersByNumber {
		if filter.CustomerID != "" && order.UserID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		result = append(result, cloneOrder(order))
	}
	s.mu.RUnlock()

	slices.SortFunc(result, func(a, b domain.Order) int {
		return cmp.Or(b.OrderDate.Compare(a.OrderDate), cmp.Compare(b.OrderNumber, a.OrderNumber))
	})
	return paginate(result, filter.Offset, filter.Limit), nil
}

func (s *Store) CreateTicket(_ context.Context, ticket domain.SupportTicket) (*domain.SupportTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ticketsByNumber[ticket.TicketNumber]; exists {
		return nil, domain.ErrConflict
	}
	if ticket.ID == "" {
		ticket.ID = xid.New("tkt")
	}
	s.ticketsByNumber[ticket.TicketNumber] = cloneTicket(ticket)
	created := cloneTicket(ticket)
	return &created, nil
}

func (s *Store) GetTicketByNumber(_ context.Context, ticketNumber string) (*domain.SupportTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticket, exists := s.ticketsByNumber[ticketNumber]
	if !exists {
		return nil, domain.NotFoundf("ticket %s", ticketNumber)
	}
	copyTicket := cloneTicket(ticket)
	return &copyTicket, nil
}

func (s *Store) UpdateTicket(_ context.Context, ticket domain.SupportTicket) (*domain.SupportTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ticketsByNumber[ticket.TicketNumber]; !exists {
		return nil, domain.NotFoundf("ticket %s", ticket.TicketNumber)
	}
	s.ticketsByNumber[ticket.TicketNumber] = cloneTicket(ticket)
	updated := cloneTicket(ticket)
	return &updated, nil
}

func (s *Store) ListTickets(_ context.Context, filter domain.TicketFilter) ([]domain.SupportTicket, error) {
	s.mu.RLock()
	result := make([]domain.SupportTicket, 0, len(s.ticketsByNumber))
	for _, ticket := range s.ticketsByNumber {
		if filter.CustomerID != "" && ticket.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && ticket.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && ticket.Priority != filter.Priority {
			continue
		}
		if filter.Category != "" && ticket.Category != filter.Category {
			continue
		}
		result = append(result, cloneTicket(ticket))
	}
	s.mu.RUnlock()

	slices.SortFunc(result, func(a, b domain.SupportTicket) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.TicketNumber, a.TicketNumber))
	})
	return paginate(result, filter.Offset, filter.Limit), nil
}

func (s *Store) CreateAuditLog(_ context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit < 1 {
		limit = 100
	}
	result := make([]domain.AuditLog, 0, min(limit, len(s.auditLogs)))
	for i := len(s.auditLogs) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, s.auditLogs[i])
	}
	return result, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	if user.Username == "" || strings.TrimSpace(user.Password) == "" {
		return domain.Validationf("username and password are required")
	}
	if _, exists := s.usersByUsername[user.Username]; exists {
		return domain.ErrConflict
	}
	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.usersByUsername[user.Username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return cmp.Compare(a.Username, b.Username)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	user, exists := s.usersByUsername[username]
	if !exists {
		return domain.NotFoundf("user %s", username)
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}

func paginate[T any](items []T, offset int, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func cloneProduct(src domain.Product) domain.Product {
	dst := src
	dst.Notes = domain.ScentNotes{
		Top:    slices.Clone(src.Notes.Top),
		Middle: slices.Clone(src.Notes.Middle),
		Base:   slices.Clone(src.Notes.Base),
	}
	return dst
}

func cloneCart(src domain.Cart) domain.Cart {
	dst := src
	dst.Items = make([]domain.CartItem, len(src.Items))
	for i, item := range src.Items {
		item.Product = cloneProduct(item.Product)
		dst.Items[i] = item
	}
	return dst
}

func cloneOrder(src domain.Order) domain.Order {
	dst := src
	dst.Items = slices.Clone(src.Items)
	if src.TrackingNumber != nil {
		tracking := *src.TrackingNumber
		dst.TrackingNumber = &tracking
	}
	if src.CancelledAt != nil {
		at := *src.CancelledAt
		dst.CancelledAt = &at
	}
	return dst
}

func cloneTicket(src domain.SupportTicket) domain.SupportTicket {
	dst := src
	dst.Responses = slices.Clone(src.Responses)
	if src.AssignedTo != nil {
		assigned := *src.AssignedTo
		dst.AssignedTo = &assigned
	}
	return dst
}
