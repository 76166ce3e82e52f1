package cart

import (
	"context"

	"github.com/amazingstor/backend/pkg/db/models"
	"gorm.io/gorm"
)

// killTx releases every item's reservation and marks the cart dead. Calling
// it on a dead cart is a no-op, so stock is never released twice. Runs on the
// caller's transaction, which already holds the cart row lock: all releases
// and the flag flip commit together, and no item can be added mid-kill.
func (s *service) killTx(ctx context.Context, tx *gorm.DB, cart *models.Cart) error {
	if cart.IsDead {
		return nil
	}

	repo := s.repo.WithTx(tx)
	items, err := repo.ListItems(ctx, cart.ID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := s.ledger.Release(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	if err := repo.SetDead(ctx, cart.ID, true); err != nil {
		return err
	}
	cart.IsDead = true
	return nil
}

// reviveTx re-reserves every item of a dead cart. Any reservation failure
// aborts the enclosing transaction, leaving the cart dead and stock
// untouched. No-op for a cart that is already alive.
func (s *service) reviveTx(ctx context.Context, tx *gorm.DB, cart *models.Cart) error {
	if !cart.IsDead {
		return nil
	}

	repo := s.repo.WithTx(tx)
	items, err := repo.ListItems(ctx, cart.ID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := s.ledger.Reserve(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	if err := repo.SetDead(ctx, cart.ID, false); err != nil {
		return err
	}
	cart.IsDead = false
	return nil
}
