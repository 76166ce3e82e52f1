package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/amazingstor/backend/pkg/db/models"
)

// CartView is the API shape of a cart.
type CartView struct {
	ID         uuid.UUID      `json:"id"`
	UserID     uuid.UUID      `json:"user_id"`
	IsDead     bool           `json:"is_dead"`
	Updated    time.Time      `json:"updated"`
	Items      []CartItemView `json:"items"`
	TotalCents int64          `json:"total_cents"`
}

// CartItemView is one line item with its product snapshot.
type CartItemView struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name,omitempty"`
	UnitPriceCents int64     `json:"unit_price_cents,omitempty"`
	Quantity       int       `json:"quantity"`
	LineTotalCents int64     `json:"line_total_cents"`
}

func newCartView(record *models.Cart) CartView {
	items := make([]CartItemView, 0, len(record.Items))
	var total int64
	for _, item := range record.Items {
		view := CartItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			view.ProductName = item.Product.Name
			view.UnitPriceCents = item.Product.PriceCents
			view.LineTotalCents = item.Product.PriceCents * int64(item.Quantity)
		}
		total += view.LineTotalCents
		items = append(items, view)
	}

	return CartView{
		ID:         record.ID,
		UserID:     record.UserID,
		IsDead:     record.IsDead,
		Updated:    record.Updated,
		Items:      items,
		TotalCents: total,
	}
}
