package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
)

type Service struct {
	repo    cartRepo
	catalog catalogRepo
}

type cartRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Cart, error)
	AddItem(ctx context.Context, in cartrepo.AddItemInput) error
	RemoveItem(ctx context.Context, cartID, itemID int64) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID int64, quantity int) error
}

type catalogRepo interface {
	VariantBySelector(ctx context.Context, productID int64, sizeName, color string) (*domain.Variant, error)
	ProductByID(ctx context.Context, id int64) (*domain.Product, error)
}

func New(repo cartrepo.Repository, catalog catalogRepo) *Service {
	return &Service{repo: repo, catalog: catalog}
}

type AddInput struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	SizeName  string `json:"sizeName"`
	Color     string `json:"color"`
}

// Get reloads the cart with its line items.
func (s *Service) Get(ctx context.Context, cartID int64) (*domain.Cart, error) {
	return s.repo.GetByID(ctx, cartID)
}

// Add puts the requested variant into the cart, capturing the product's
// current effective price. Adding a variant already in the cart increments
// its line instead of creating a second one.
func (s *Service) Add(ctx context.Context, cartID int64, in AddInput) error {
	if in.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	sizeName := strings.TrimSpace(in.SizeName)
	color := strings.TrimSpace(in.Color)
	if sizeName == "" || color == "" {
		return errors.New("size and color required")
	}

	variant, err := s.catalog.VariantBySelector(ctx, in.ProductID, sizeName, color)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("color %s size %s: %w", color, sizeName, domain.ErrVariantUnavailable)
		}
		return err
	}
	if variant.Quantity < in.Quantity {
		return fmt.Errorf("only %d left: %w", variant.Quantity, domain.ErrInsufficientStock)
	}

	product, err := s.catalog.ProductByID(ctx, variant.ProductID)
	if err != nil {
		return err
	}

	return s.repo.AddItem(ctx, cartrepo.AddItemInput{
		CartID:    cartID,
		VariantID: variant.ID,
		Quantity:  in.Quantity,
		UnitPrice: product.EffectivePrice(),
	})
}

// Remove deletes a line item. A line that does not exist or belongs to
// another cart reports domain.ErrNotAuthorized and changes nothing.
func (s *Service) Remove(ctx context.Context, cartID, itemID int64) error {
	err := s.repo.RemoveItem(ctx, cartID, itemID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotAuthorized
	}
	return err
}

// UpdateQuantity sets a line's quantity, re-validating against current
// stock. A quantity of zero or less removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, cartID, itemID int64, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, cartID, itemID)
	}
	err := s.repo.UpdateItemQuantity(ctx, cartID, itemID, quantity)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotAuthorized
	}
	return err
}

// Count returns the summed quantity across line items; 0 for a fresh cart.
func (s *Service) Count(ctx context.Context, cartID int64) (int, error) {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return 0, err
	}
	return cart.CountItems(), nil
}
