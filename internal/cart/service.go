package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amazingstor/backend/internal/stock"
	"github.com/amazingstor/backend/pkg/db"
	"github.com/amazingstor/backend/pkg/db/models"
	pkgerrors "github.com/amazingstor/backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const itemUniqueConstraint = "idx_cart_items_cart_product"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ItemInput is one requested (product, quantity) pair. Quantity is the target
// amount for the line item, not a delta.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// Service exposes cart mutation and read operations.
type Service interface {
	UpsertItems(ctx context.Context, userID uuid.UUID, items []ItemInput) (*models.Cart, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Kill(ctx context.Context, cartID uuid.UUID) error
	Revive(ctx context.Context, cartID uuid.UUID) error
}

type service struct {
	repo   *Repository
	tx     txRunner
	ledger stock.Ledger
	now    func() time.Time
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, tx txRunner, ledger stock.Ledger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		ledger: ledger,
		now:    time.Now,
	}, nil
}

// UpsertItems reconciles the requested items into the user's cart inside one
// transaction. The cart row is locked for the duration, so concurrent
// operations on the same cart queue behind it. The cart is created (or
// revived) first, then each item is merged in request order; any failure
// rolls back the whole batch, including reservations already applied for
// earlier items.
func (s *service) UpsertItems(ctx context.Context, userID uuid.UUID, items []ItemInput) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
	}

	var saved *models.Cart
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := s.fetchOrCreateCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		// Revive before touching any item so a failed revive surfaces
		// before new reservations are attempted.
		if err := s.reviveTx(ctx, tx, cart); err != nil {
			return err
		}

		for _, input := range items {
			if err := s.reconcileItem(ctx, tx, cart, input); err != nil {
				return err
			}
		}

		if err := repo.Touch(ctx, cart.ID, s.now().UTC()); err != nil {
			return err
		}

		saved, err = repo.FindByUser(ctx, userID)
		return err
	}); err != nil {
		return nil, err
	}

	return saved, nil
}

func (s *service) fetchOrCreateCart(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	repo := s.repo.WithTx(tx)

	cart, err := repo.FindByUserForUpdate(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = &models.Cart{UserID: userID, Updated: s.now().UTC()}
	if err := repo.Create(ctx, cart); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cart already exists for user")
		}
		return nil, err
	}
	return cart, nil
}

func (s *service) reconcileItem(ctx context.Context, tx *gorm.DB, cart *models.Cart, input ItemInput) error {
	repo := s.repo.WithTx(tx)

	item, err := repo.FindItem(ctx, cart.ID, input.ProductID)
	switch {
	case err == nil:
		delta := input.Quantity - item.Quantity
		if delta > 0 {
			if err := s.ledger.Reserve(ctx, tx, input.ProductID, delta); err != nil {
				return err
			}
		} else if delta < 0 {
			if err := s.ledger.Release(ctx, tx, input.ProductID, -delta); err != nil {
				return err
			}
		}
		if delta != 0 {
			return repo.UpdateItemQuantity(ctx, item.ID, input.Quantity)
		}
		return nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Reserve first: a missing product surfaces as NOT_FOUND here
		// rather than as an opaque foreign-key violation on insert.
		if err := s.ledger.Reserve(ctx, tx, input.ProductID, input.Quantity); err != nil {
			return err
		}
		newItem := &models.CartItem{
			CartID:    cart.ID,
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
		}
		if err := repo.CreateItem(ctx, newItem); err != nil {
			if db.IsUniqueViolation(err, itemUniqueConstraint) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "item added concurrently, retry")
			}
			return err
		}
		return nil

	default:
		return err
	}
}

// GetCart returns the user's cart with items, or NOT_FOUND.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, err
	}
	return cart, nil
}

// Kill transitions the cart to dead, releasing all of its reservations.
// Idempotent: killing a dead cart changes nothing.
func (s *service) Kill(ctx context.Context, cartID uuid.UUID) error {
	return s.transition(ctx, cartID, s.killTx)
}

// Revive transitions a dead cart back to alive by re-reserving its items.
// Fails without side effects when any product has insufficient stock.
func (s *service) Revive(ctx context.Context, cartID uuid.UUID) error {
	return s.transition(ctx, cartID, s.reviveTx)
}

func (s *service) transition(ctx context.Context, cartID uuid.UUID, fn func(context.Context, *gorm.DB, *models.Cart) error) error {
	if cartID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cart, err := s.repo.WithTx(tx).FindByIDForUpdate(ctx, cartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return err
		}
		return fn(ctx, tx, cart)
	})
}
