package httpapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"essence/storefront/internal/domain"
	"essence/storefront/internal/validate"
)

var (
	errInvalidCredentials = errors.New("invalid credentials")
	errAccountInactive    = errors.New("account is inactive")
	errInvalidToken       = errors.New("invalid or expired token")
)

type AuthManager struct {
	mu        sync.RWMutex
	secret    []byte
	tokenTTL  time.Duration
	userStore UserStore
	customers CustomerCreator
	users     map[string]credential
}

type UserStore interface {
	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}

type CustomerCreator interface {
	CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
}

type credential struct {
	password   string
	role       string
	customerID string
	active     bool
	created    time.Time
}

type storefrontClaims struct {
	jwtlib.RegisteredClaims
	Role       string `json:"role"`
	CustomerID string `json:"customer_id,omitempty"`
}

func NewAuthManager(secret string, tokenTTL time.Duration, userStore UserStore, customers CustomerCreator) *AuthManager {
	if secret == "" {
		secret = "dev-change-me"
	}
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}

	manager := &AuthManager{
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		userStore: userStore,
		customers: customers,
		users:     make(map[string]credential),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	manager.bootstrapUsers(ctx)
	return manager
}

func (a *AuthManager) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	// Reload so accounts registered by another instance can sign in.
	a.bootstrapUsers(ctx)
	username := strings.ToLower(strings.TrimSpace(req.Username))
	a.mu.RLock()
	cred, ok := a.users[username]
	a.mu.RUnlock()
	if !ok {
		return domain.LoginResponse{}, errInvalidCredentials
	}

	if !verifyPassword(cred.password, req.Password) {
		return domain.LoginResponse{}, errInvalidCredentials
	}
	if !cred.active {
		return domain.LoginResponse{}, errAccountInactive
	}

	expiresAt := time.Now().UTC().Add(a.tokenTTL)
	token, err := a.sign(username, cred.role, cred.customerID, expiresAt)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{
		AccessToken: token,
		Role:        cred.role,
		CustomerID:  cred.customerID,
		ExpiresAt:   expiresAt.Format(time.RFC3339),
	}, nil
}

func (a *AuthManager) ParseToken(tokenStr string) (domain.Actor, error) {
	claims := &storefrontClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return domain.Actor{}, errInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return domain.Actor{}, errors.New("invalid token subject")
	}
	return domain.Actor{Username: sub, Role: claims.Role, CustomerID: claims.CustomerID}, nil
}

func (a *AuthManager) sign(username, role, customerID string, expiresAt time.Time) (string, error) {
	claims := storefrontClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwtlib.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			Issuer:    "essence-storefront",
		},
		Role:       role,
		CustomerID: customerID,
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// RegisterCustomer creates a customer profile and a login bound to it.
func (a *AuthManager) RegisterCustomer(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validate.Struct(req); err != nil {
		return domain.RegisterResponse{}, err
	}
	if strings.ContainsAny(req.Username, " \t\r\n") {
		return domain.RegisterResponse{}, domain.Validationf("username must not contain spaces")
	}
	if a.customers == nil || a.userStore == nil {
		return domain.RegisterResponse{}, errors.New("registration is not configured")
	}

	a.bootstrapUsers(ctx)
	a.mu.RLock()
	_, exists := a.users[req.Username]
	a.mu.RUnlock()
	if exists {
		return domain.RegisterResponse{}, fmt.Errorf("%w: username already exists", domain.ErrConflict)
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return domain.RegisterResponse{}, fmt.Errorf("failed to hash password")
	}

	now := time.Now().UTC()
	customer, err := a.customers.CreateCustomer(ctx, domain.Customer{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.RegisterResponse{}, fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return domain.RegisterResponse{}, err
	}

	err = a.userStore.CreateUser(ctx, domain.UserAccount{
		Username:   req.Username,
		Password:   passwordHash,
		Role:       domain.RoleCustomer,
		CustomerID: customer.ID,
		Active:     true,
		CreatedAt:  now,
	})
	if err != nil {
		// Back out the customer so its email can be registered again.
		if delErr := a.customers.DeleteCustomer(ctx, customer.ID); delErr != nil {
			log.WithFields(log.Fields{
				"username":    req.Username,
				"customer_id": customer.ID,
			}).WithError(delErr).Warn("orphan customer left after account creation failed")
		}
		if errors.Is(err, domain.ErrConflict) {
			return domain.RegisterResponse{}, fmt.Errorf("%w: username already exists", domain.ErrConflict)
		}
		return domain.RegisterResponse{}, err
	}

	a.mu.Lock()
	a.users[req.Username] = credential{
		password:   passwordHash,
		role:       domain.RoleCustomer,
		customerID: customer.ID,
		active:     true,
		created:    now,
	}
	a.mu.Unlock()

	return domain.RegisterResponse{
		Username:   req.Username,
		Role:       domain.RoleCustomer,
		CustomerID: customer.ID,
		CreatedAt:  now,
	}, nil
}

// BootstrapAdmin creates an active admin login, or resets the password of an
// existing admin with the same username. It refuses to take over a customer
// account.
func BootstrapAdmin(ctx context.Context, users UserStore, username string, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.ContainsAny(username, " \t\r\n") {
		return domain.Validationf("admin username must be non-empty and contain no spaces")
	}
	if len(password) < 8 {
		return domain.Validationf("admin password must be at least 8 characters")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	err = users.CreateUser(ctx, domain.UserAccount{
		Username:  username,
		Password:  passwordHash,
		Role:      domain.RoleAdmin,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	})
	if err == nil {
		log.WithField("username", username).Info("admin account created")
		return nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return err
	}

	existing, err := users.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, user := range existing {
		if strings.EqualFold(user.Username, username) && user.Role != domain.RoleAdmin {
			return fmt.Errorf("%w: %s is not an admin account", domain.ErrConflict, username)
		}
	}
	if err := users.UpdateUserPassword(ctx, username, passwordHash); err != nil {
		return err
	}
	log.WithField("username", username).Info("admin password reset")
	return nil
}

// bootstrapUsers loads user accounts from the user store into the in-memory
// credential cache. It also upgrades any legacy plain-text passwords to bcrypt
// hashes in the store.
func (a *AuthManager) bootstrapUsers(ctx context.Context) {
	if a.userStore == nil {
		return
	}

	users, err := a.userStore.ListUsers(ctx)
	if err != nil {
		log.WithError(err).Warn("load user accounts failed")
		return
	}
	if len(users) == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, user := range users {
		username := strings.ToLower(strings.TrimSpace(user.Username))
		if username == "" {
			continue
		}
		password := user.Password
		if !isPasswordHash(password) {
			hashed, err := hashPassword(password)
			if err == nil {
				password = hashed
				if err := a.userStore.UpdateUserPassword(ctx, username, hashed); err != nil {
					log.WithField("username", username).WithError(err).Warn("password upgrade failed")
				}
			}
		}
		a.users[username] = credential{
			password:   password,
			role:       user.Role,
			customerID: user.CustomerID,
			active:     user.Active,
			created:    user.CreatedAt,
		}
	}
}

func verifyPassword(stored string, input string) bool {
	if stored == "" || strings.TrimSpace(input) == "" || !isPasswordHash(stored) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(input)) == nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func isPasswordHash(value string) bool {
	return strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$")
}
