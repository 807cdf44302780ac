package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mvalderas/tienda-api/internal/user"
)

var ErrQuantityInvalid = errors.New("quantity must be at least 1")

type Service struct {
	repo  Repository
	users user.Repository
}

func NewService(repo Repository, users user.Repository) *Service {
	return &Service{repo: repo, users: users}
}

// Place validates the caller and the requested quantities, then hands the
// whole order to the repository as one transaction. An empty item list is a
// valid zero-total order.
func (s *Service) Place(ctx context.Context, userID string, items []CreateOrderItem) (*Order, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("validate user: %w", err)
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: product %s", ErrQuantityInvalid, it.ProductID)
		}
	}

	o, err := s.repo.Place(ctx, userID, items)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("order_id", o.ID).
		Str("user_id", userID).
		Int("items", len(o.Items)).
		Str("total", o.Total.StringFixed(2)).
		Msg("order placed")
	return o, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.repo.ListAll(ctx)
}

var ErrStatusInvalid = errors.New("status must be one of pending, processing, completed, cancelled")

// UpdateStatus sets the order status. There is no transition graph, but the
// value must belong to the status enumeration. Cancelling does not restock.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*Order, error) {
	if !ValidStatus(status) {
		return nil, ErrStatusInvalid
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	log.Info().Str("order_id", id).Str("status", status).Msg("order status updated")
	return s.repo.GetByID(ctx, id)
}
