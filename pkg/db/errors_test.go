package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"nil", nil, "", false},
		{"postgres duplicate", errors.New(`duplicate key value violates unique constraint "carts_user_id_key"`), "", true},
		{"sqlite duplicate", errors.New("UNIQUE constraint failed: cart_items.cart_id"), "", true},
		{"named constraint match", errors.New(`duplicate key value violates unique constraint "idx_cart_items_cart_product"`), "idx_cart_items_cart_product", true},
		{"named constraint miss", errors.New(`duplicate key value violates unique constraint "carts_user_id_key"`), "idx_cart_items_cart_product", false},
		{"unrelated", errors.New("connection refused"), "", false},
	}

	for _, tc := range cases {
		if got := IsUniqueViolation(tc.err, tc.constraint); got != tc.want {
			t.Fatalf("%s: expected %v got %v", tc.name, tc.want, got)
		}
	}
}
