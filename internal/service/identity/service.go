package identity

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

// Service maps a request identity to exactly one cart. Authenticated users
// get the cart bound to their account id; guests get the cart bound to the
// opaque token they carry. A guest cart is not merged into the account cart
// on login; the account identity simply takes over.
type Service struct {
	carts cartRepo
}

type cartRepo interface {
	GetOrCreateByUser(ctx context.Context, userID int64) (*domain.Cart, error)
	GetOrCreateByToken(ctx context.Context, token string) (*domain.Cart, error)
}

func New(carts cartRepo) *Service {
	return &Service{carts: carts}
}

// Resolve returns the identity's cart, creating it on first touch. When the
// caller presented no guest token, a fresh one is minted and returned as
// issuedToken so the transport layer can hand it back to the client; it is
// empty otherwise. An unrecognized token is treated like a missing one,
// except the cart is created under the presented token.
func (s *Service) Resolve(ctx context.Context, id domain.Identity) (cart *domain.Cart, issuedToken string, err error) {
	if id.Authenticated() {
		cart, err = s.carts.GetOrCreateByUser(ctx, *id.UserID)
		return cart, "", err
	}

	token := id.GuestToken
	if token == "" {
		token = IssueGuestToken()
		issuedToken = token
	}
	cart, err = s.carts.GetOrCreateByToken(ctx, token)
	if err != nil {
		return nil, "", err
	}
	return cart, issuedToken, nil
}

// IssueGuestToken mints the opaque token persisted client-side to identify a
// guest cart.
func IssueGuestToken() string {
	return uuid.NewString()
}
