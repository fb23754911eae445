package service

import (
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"

	"essence/storefront/internal/domain"
	"essence/storefront/internal/xid"
)

func (s *Service) GetCart(ctx context.Context, customerID string) (domain.CartView, error) {
	cart, err := s.loadCart(ctx, customerID)
	if err != nil {
		return domain.CartView{}, err
	}
	return s.viewOf(cart), nil
}

func (s *Service) CartSummary(ctx context.Context, customerID string) (domain.CartSummary, error) {
	view, err := s.GetCart(ctx, customerID)
	if err != nil {
		return domain.CartSummary{}, err
	}
	return view.Summary, nil
}

func (s *Service) AddItem(ctx context.Context, customerID string, productID string, quantity int) (domain.CartView, error) {
	if quantity < 0 {
		return domain.CartView{}, domain.Validationf("quantity must not be negative")
	}
	if quantity == 0 {
		quantity = 1
	}

	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return domain.CartView{}, err
	}

	cart, err := s.loadCart(ctx, customerID)
	if err != nil {
		return domain.CartView{}, err
	}

	idx := lineIndex(cart.Items, product.ID)
	if idx >= 0 {
		existing := cart.Items[idx].Quantity
		// Compare against the remaining stock so the sum below cannot overflow.
		if quantity > product.Stock-existing {
			return domain.CartView{}, stockError(*product)
		}
		cart.Items[idx].Product = *product
		cart.Items[idx].Quantity = existing + quantity
	} else {
		if err := checkStock(*product, quantity); err != nil {
			return domain.CartView{}, err
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ID:       xid.New("item"),
			Product:  *product,
			Quantity: quantity,
			AddedAt:  s.now(),
		})
	}

	return s.saveCart(ctx, cart)
}

// UpdateQuantity replaces a line's quantity. A quantity of zero or less
// removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, customerID string, itemID string, quantity int) (domain.CartView, error) {
	cart, err := s.existingCart(ctx, customerID)
	if err != nil {
		return domain.CartView{}, err
	}

	idx := lineIndex(cart.Items, itemID)
	if idx < 0 {
		return domain.CartView{}, domain.NotFoundf("cart item %s", itemID)
	}

	if quantity <= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		return s.saveCart(ctx, cart)
	}

	product := cart.Items[idx].Product
	if live, err := s.repo.GetProduct(ctx, product.ID); err == nil {
		product = *live
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.CartView{}, err
	}
	if err := checkStock(product, quantity); err != nil {
		return domain.CartView{}, err
	}

	cart.Items[idx].Product = product
	cart.Items[idx].Quantity = quantity
	return s.saveCart(ctx, cart)
}

func (s *Service) RemoveItem(ctx context.Context, customerID string, itemID string) (domain.CartView, error) {
	cart, err := s.existingCart(ctx, customerID)
	if err != nil {
		return domain.CartView{}, err
	}

	idx := lineIndex(cart.Items, itemID)
	if idx < 0 {
		return domain.CartView{}, domain.NotFoundf("cart item %s", itemID)
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	return s.saveCart(ctx, cart)
}

// ClearCart empties the cart. Clearing a cart that does not exist succeeds.
func (s *Service) ClearCart(ctx context.Context, customerID string) error {
	if strings.TrimSpace(customerID) == "" {
		return domain.Validationf("customer_id is required")
	}
	return s.carts.DeleteCart(ctx, customerID)
}

// loadCart returns the customer's cart, or an empty one when none is stored.
func (s *Service) loadCart(ctx context.Context, customerID string) (domain.Cart, error) {
	cart, err := s.existingCart(ctx, customerID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Cart{CustomerID: customerID, Items: []domain.CartItem{}}, nil
	}
	return cart, err
}

func (s *Service) existingCart(ctx context.Context, customerID string) (domain.Cart, error) {
	if strings.TrimSpace(customerID) == "" {
		return domain.Cart{}, domain.Validationf("customer_id is required")
	}
	cart, err := s.carts.GetCart(ctx, customerID)
	if err != nil {
		return domain.Cart{}, err
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return *cart, nil
}

func (s *Service) saveCart(ctx context.Context, cart domain.Cart) (domain.CartView, error) {
	cart.UpdatedAt = s.now()
	if err := s.carts.SaveCart(ctx, cart); err != nil {
		log.WithField("customer_id", cart.CustomerID).WithError(err).Error("save cart failed")
		return domain.CartView{}, err
	}
	return s.viewOf(cart), nil
}

func (s *Service) viewOf(cart domain.Cart) domain.CartView {
	return domain.CartView{
		Items:   cart.Items,
		Summary: domain.SummarizeCart(cart.Items, s.pricing),
	}
}

// lineIndex finds a cart line by its own id or by the product it holds.
func lineIndex(items []domain.CartItem, id string) int {
	for i, item := range items {
		if item.ID == id || item.Product.ID == id {
			return i
		}
	}
	return -1
}

func checkStock(product domain.Product, quantity int) error {
	if quantity > product.Stock {
		return stockError(product)
	}
	return nil
}

func stockError(product domain.Product) error {
	if product.Stock <= 0 {
		return domain.Validationf("%s is out of stock", product.Name)
	}
	return domain.Validationf("only %d of %s left in stock", product.Stock, product.Name)
}
