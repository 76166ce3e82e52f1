package cart

import (
	"github.com/google/uuid"

	cartsvc "github.com/amazingstor/backend/internal/cart"
)

// UpsertItemsRequest is the payload for the cart upsert endpoint. Each entry
// carries the target quantity for that product, not a delta.
type UpsertItemsRequest struct {
	Items []UpsertItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpsertItemRequest is one requested (product, quantity) pair.
type UpsertItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

func toItemInputs(payload UpsertItemsRequest) []cartsvc.ItemInput {
	items := make([]cartsvc.ItemInput, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, cartsvc.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return items
}
