package httpapi

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"essence/storefront/internal/domain"
)

type userStoreStub struct {
	mu         sync.Mutex
	users      map[string]domain.UserAccount
	updates    int
	createFail error
}

func (s *userStoreStub) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createFail != nil {
		return s.createFail
	}
	if s.users == nil {
		s.users = make(map[string]domain.UserAccount)
	}
	if _, exists := s.users[user.Username]; exists {
		return domain.ErrConflict
	}
	s.users[user.Username] = user
	return nil
}

func (s *userStoreStub) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.UserAccount, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	return out, nil
}

func (s *userStoreStub) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.users[username]
	user.Password = password
	s.users[username] = user
	s.updates++
	return nil
}

type customerStoreStub struct {
	mu        sync.Mutex
	customers []domain.Customer
}

func (s *customerStoreStub) CreateCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.customers {
		if strings.EqualFold(existing.Email, customer.Email) {
			return nil, domain.ErrConflict
		}
	}
	customer.ID = "cus-stub-" + customer.Email
	s.customers = append(s.customers, customer)
	return &customer, nil
}

func (s *customerStoreStub) DeleteCustomer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.customers {
		if existing.ID == id {
			s.customers = append(s.customers[:i], s.customers[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func TestAuthManagerUpgradesLegacyPlainPassword(t *testing.T) {
	store := &userStoreStub{
		users: map[string]domain.UserAccount{
			"admin": {
				Username:  "admin",
				Password:  "admin123",
				Role:      domain.RoleAdmin,
				Active:    true,
				CreatedAt: time.Now().UTC(),
			},
		},
	}

	manager := NewAuthManager("test-secret", time.Hour, store, &customerStoreStub{})
	_, err := manager.Login(context.Background(), domain.LoginRequest{
		Username: "admin",
		Password: "admin123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if users[0].Password == "admin123" {
		t.Fatalf("expected password to be upgraded from plain-text")
	}
	if !strings.HasPrefix(users[0].Password, "$2") {
		t.Fatalf("expected bcrypt password hash, got %s", users[0].Password)
	}
}

func TestRegisterCustomerStoresPasswordHashAndCustomerID(t *testing.T) {
	store := &userStoreStub{users: map[string]domain.UserAccount{}}
	customers := &customerStoreStub{}

	manager := NewAuthManager("test-secret", time.Hour, store, customers)
	registered, err := manager.RegisterCustomer(context.Background(), domain.RegisterRequest{
		Username: "Mira",
		Password: "rosewater1",
		Name:     "Mira Stone",
		Email:    "mira@example.com",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if registered.Username != "mira" || registered.Role != domain.RoleCustomer {
		t.Fatalf("unexpected registration %+v", registered)
	}
	if registered.CustomerID == "" || len(customers.customers) != 1 {
		t.Fatalf("expected a customer profile to be created")
	}

	saved := store.users["mira"]
	if saved.Password == "rosewater1" || !strings.HasPrefix(saved.Password, "$2") {
		t.Fatalf("expected bcrypt hash, got %s", saved.Password)
	}
	if saved.CustomerID != registered.CustomerID {
		t.Fatalf("expected account linked to %s, got %s", registered.CustomerID, saved.CustomerID)
	}

	resp, err := manager.Login(context.Background(), domain.LoginRequest{Username: "mira", Password: "rosewater1"})
	if err != nil {
		t.Fatalf("login with new account failed: %v", err)
	}
	actor, err := manager.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if actor.CustomerID != registered.CustomerID || actor.Role != domain.RoleCustomer {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestRegisterCustomerRejectsDuplicatesAndWeakInput(t *testing.T) {
	store := &userStoreStub{users: map[string]domain.UserAccount{}}
	manager := NewAuthManager("test-secret", time.Hour, store, &customerStoreStub{})

	req := domain.RegisterRequest{Username: "mira", Password: "rosewater1", Name: "Mira", Email: "mira@example.com"}
	if _, err := manager.RegisterCustomer(context.Background(), req); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := manager.RegisterCustomer(context.Background(), req); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for duplicate username, got %v", err)
	}

	req.Username = "mira2"
	if _, err := manager.RegisterCustomer(context.Background(), req); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}

	weak := domain.RegisterRequest{Username: "bob", Password: "short", Name: "Bob", Email: "not-an-email"}
	if _, err := manager.RegisterCustomer(context.Background(), weak); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterCustomerRemovesCustomerWhenAccountCreationFails(t *testing.T) {
	store := &userStoreStub{users: map[string]domain.UserAccount{}, createFail: errors.New("connection reset")}
	customers := &customerStoreStub{}
	manager := NewAuthManager("test-secret", time.Hour, store, customers)

	req := domain.RegisterRequest{Username: "lena", Password: "vetiver99", Name: "Lena", Email: "lena@example.com"}
	if _, err := manager.RegisterCustomer(context.Background(), req); err == nil {
		t.Fatalf("expected registration to fail")
	}
	if len(customers.customers) != 0 {
		t.Fatalf("expected customer to be removed, got %+v", customers.customers)
	}

	store.createFail = nil
	registered, err := manager.RegisterCustomer(context.Background(), req)
	if err != nil {
		t.Fatalf("retry with the same email failed: %v", err)
	}
	if registered.CustomerID == "" || len(customers.customers) != 1 {
		t.Fatalf("unexpected registration %+v", registered)
	}
}

func TestBootstrapAdminCreatesAndResetsAdmin(t *testing.T) {
	store := &userStoreStub{users: map[string]domain.UserAccount{
		"ava": {Username: "ava", Password: mustHashPassword(t, "ava-pass-123"), Role: domain.RoleCustomer, CustomerID: "cus-001", Active: true},
	}}
	ctx := context.Background()

	if err := BootstrapAdmin(ctx, store, " Ops ", "first-secret"); err != nil {
		t.Fatalf("bootstrap admin failed: %v", err)
	}
	created := store.users["ops"]
	if created.Role != domain.RoleAdmin || !created.Active || !verifyPassword(created.Password, "first-secret") {
		t.Fatalf("unexpected admin account %+v", created)
	}

	if err := BootstrapAdmin(ctx, store, "ops", "second-secret"); err != nil {
		t.Fatalf("rerun bootstrap failed: %v", err)
	}
	if !verifyPassword(store.users["ops"].Password, "second-secret") {
		t.Fatalf("expected admin password to be reset")
	}

	if err := BootstrapAdmin(ctx, store, "ava", "takeover-123"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for customer username, got %v", err)
	}
	if err := BootstrapAdmin(ctx, store, "ops", "short"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for short password, got %v", err)
	}

	manager := NewAuthManager("test-secret", time.Hour, store, &customerStoreStub{})
	resp, err := manager.Login(ctx, domain.LoginRequest{Username: "ops", Password: "second-secret"})
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if resp.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %+v", resp)
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	store := &userStoreStub{
		users: map[string]domain.UserAccount{
			"old": {Username: "old", Password: "customer123", Role: domain.RoleCustomer, CustomerID: "cus-9", Active: false},
		},
	}
	manager := NewAuthManager("test-secret", time.Hour, store, nil)

	_, err := manager.Login(context.Background(), domain.LoginRequest{Username: "old", Password: "customer123"})
	if !errors.Is(err, errAccountInactive) {
		t.Fatalf("expected inactive account error, got %v", err)
	}
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	issuer := NewAuthManager("secret-one", time.Hour, nil, nil)
	verifier := NewAuthManager("secret-two", time.Hour, nil, nil)

	token, err := issuer.sign("ava", domain.RoleCustomer, "cus-001", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := verifier.ParseToken(token); !errors.Is(err, errInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}

	expired, err := issuer.sign("ava", domain.RoleCustomer, "cus-001", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := issuer.ParseToken(expired); !errors.Is(err, errInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}
