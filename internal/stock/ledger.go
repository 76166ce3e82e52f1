package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/amazingstor/backend/pkg/db/models"
	pkgerrors "github.com/amazingstor/backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ledger mutates product stock counts. Every decrement is a single
// conditional UPDATE guarded by the current stock level, so the check and the
// write cannot race under concurrent reservations. All operations run on the
// caller's transaction handle and roll back with it.
type Ledger interface {
	Reserve(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
	Release(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
	Adjust(ctx context.Context, tx *gorm.DB, productID uuid.UUID, delta int) error
}

type ledger struct{}

// NewLedger exposes the default ledger implementation.
func NewLedger() Ledger {
	return ledger{}
}

// Reserve subtracts qty from the product's stock. It fails with
// INSUFFICIENT_STOCK when the product holds less than qty, and with NOT_FOUND
// when the product row does not exist.
func (ledger) Reserve(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reserve quantity must be positive")
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock reserve")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET stock_quantity = stock_quantity - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock_quantity >= ?
	`, qty, productID, qty)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve stock")
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Advisory re-read for the error message: under contention the count
	// here can differ from the value the failed guard saw.
	var product models.Product
	err := tx.WithContext(ctx).Select("stock_quantity").First(&product, "id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product stock")
	}

	msg := fmt.Sprintf("requested %d units but only %d available", qty, product.StockQuantity)
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, msg).WithDetails(map[string]any{
		"product_id": productID,
		"requested":  qty,
		"available":  product.StockQuantity,
	})
}

// Release returns qty to the product's stock. It never fails on state: a
// product row deleted out from under a cart makes the update a no-op.
func (ledger) Release(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return nil
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock release")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET stock_quantity = stock_quantity + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "release stock")
	}
	return nil
}

// Adjust applies a signed stock delta: positive releases, negative reserves.
func (l ledger) Adjust(ctx context.Context, tx *gorm.DB, productID uuid.UUID, delta int) error {
	switch {
	case delta == 0:
		return nil
	case delta > 0:
		return l.Release(ctx, tx, productID, delta)
	default:
		return l.Reserve(ctx, tx, productID, -delta)
	}
}
