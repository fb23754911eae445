package service

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"essence/storefront/internal/domain"
	"essence/storefront/internal/notify"
	"essence/storefront/internal/recommendation"
	"essence/storefront/internal/store"
	"essence/storefront/internal/xid"
)

const maxNumberAttempts = 3

type actorContextKey struct{}

// Options tunes the storefront. Zero values fall back to the defaults used by
// the shop in production.
type Options struct {
	Pricing          domain.PricingPolicy
	DeliveryLeadDays int
	DefaultCountry   string
	// Carts overrides where carts are kept; the repository is used when nil.
	Carts    store.CartStore
	Notifier notify.Notifier
}

type Service struct {
	repo           store.Repository
	carts          store.CartStore
	recommender    *recommendation.Engine
	notifier       notify.Notifier
	pricing        domain.PricingPolicy
	leadDays       int
	defaultCountry string
	orderNumbers   *xid.Sequence
	ticketNumbers  *xid.Sequence
	now            func() time.Time
}

func New(repo store.Repository, recommender *recommendation.Engine, opts Options) *Service {
	if recommender == nil {
		recommender = recommendation.NewEngine(nil, 0)
	}
	if opts.Pricing == (domain.PricingPolicy{}) {
		opts.Pricing = domain.DefaultPricingPolicy()
	}
	if opts.DeliveryLeadDays <= 0 {
		opts.DeliveryLeadDays = 7
	}
	if opts.DefaultCountry == "" {
		opts.DefaultCountry = "US"
	}
	if opts.Carts == nil {
		opts.Carts = repo
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Noop{}
	}

	return &Service{
		repo:           repo,
		carts:          opts.Carts,
		recommender:    recommender,
		notifier:       opts.Notifier,
		pricing:        opts.Pricing,
		leadDays:       opts.DeliveryLeadDays,
		defaultCountry: opts.DefaultCountry,
		orderNumbers:   xid.NewSequence("ORD"),
		ticketNumbers:  xid.NewSequence("TKT"),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

func isAdmin(ctx context.Context) bool {
	actor, ok := ActorFromContext(ctx)
	return ok && actor.Role == domain.RoleAdmin
}

func (s *Service) logAudit(ctx context.Context, action string, entityType string, entityID string, detail string) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system", Role: "system"}
	}

	err := s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ID:            xid.New("audit"),
		ActorUsername: actor.Username,
		ActorRole:     actor.Role,
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		Detail:        detail,
		CreatedAt:     s.now(),
	})
	if err != nil {
		log.WithFields(log.Fields{
			"action":    action,
			"entity_id": entityID,
		}).WithError(err).Warn("audit log write failed")
	}
}

func (s *Service) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	return s.repo.ListAuditLogs(ctx, limit)
}

// resolveCustomer loads the customer an order or ticket will belong to.
func (s *Service) resolveCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	if customerID == "" {
		return nil, domain.Validationf("customer_id is required")
	}
	return s.repo.GetCustomer(ctx, customerID)
}

// withNumber retries create with fresh sequence numbers while the store
// reports the number as taken.
func withNumber[T any](seq *xid.Sequence, create func(number string) (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		result, err = create(seq.Next())
		if !errors.Is(err, domain.ErrConflict) {
			return result, err
		}
	}
	return result, err
}
