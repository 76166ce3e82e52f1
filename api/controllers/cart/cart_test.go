package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amazingstor/backend/api/middleware"
	cartsvc "github.com/amazingstor/backend/internal/cart"
	"github.com/amazingstor/backend/pkg/db/models"
	pkgerrors "github.com/amazingstor/backend/pkg/errors"
	"github.com/google/uuid"
)

type stubCartService struct {
	record    *models.Cart
	err       error
	lastItems []cartsvc.ItemInput
}

func (s *stubCartService) UpsertItems(ctx context.Context, userID uuid.UUID, items []cartsvc.ItemInput) (*models.Cart, error) {
	s.lastItems = items
	return s.record, s.err
}

func (s *stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return s.record, s.err
}

func (s *stubCartService) Kill(ctx context.Context, cartID uuid.UUID) error { return s.err }

func (s *stubCartService) Revive(ctx context.Context, cartID uuid.UUID) error { return s.err }

func TestCartFetchSuccess(t *testing.T) {
	userID := uuid.New()
	record := &models.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Items: []models.CartItem{
			{
				ID:       uuid.New(),
				Quantity: 2,
				Product:  &models.Product{Name: "widget", PriceCents: 1500},
			},
		},
	}
	handler := CartFetch(&stubCartService{record: record}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data CartView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != record.ID {
		t.Fatalf("unexpected cart id: %s", envelope.Data.ID)
	}
	if envelope.Data.TotalCents != 3000 {
		t.Fatalf("expected total 3000, got %d", envelope.Data.TotalCents)
	}
}

func TestCartFetchNotFound(t *testing.T) {
	handler := CartFetch(&stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "missing")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCartFetchMissingUserContext(t *testing.T) {
	handler := CartFetch(&stubCartService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartUpsertSuccess(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	record := &models.Cart{ID: uuid.New(), UserID: userID}
	service := &stubCartService{record: record}
	handler := CartUpsert(service, nil)

	body := fmt.Sprintf(`{"items": [{"product_id": "%s", "quantity": 2}]}`, productID)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(service.lastItems) != 1 || service.lastItems[0].ProductID != productID || service.lastItems[0].Quantity != 2 {
		t.Fatalf("unexpected service input %+v", service.lastItems)
	}
}

func TestCartUpsertRejectsInvalidBody(t *testing.T) {
	handler := CartUpsert(&stubCartService{}, nil)

	cases := []string{
		`{}`,
		`{"items": []}`,
		`{"items": [{"product_id": "not-a-uuid", "quantity": 1}]}`,
		`{"items": [{"quantity": 1}]}`,
		`{"items": [{"product_id": "` + uuid.NewString() + `", "quantity": 0}]}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
		req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))

		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400 got %d", body, resp.Code)
		}
	}
}

func TestCartUpsertSurfacesInsufficientStock(t *testing.T) {
	svcErr := pkgerrors.New(pkgerrors.CodeInsufficientStock, "requested 5 units but only 2 available")
	handler := CartUpsert(&stubCartService{err: svcErr}, nil)

	body := fmt.Sprintf(`{"items": [{"product_id": "%s", "quantity": 5}]}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), string(pkgerrors.CodeInsufficientStock)) {
		t.Fatalf("expected INSUFFICIENT_STOCK code in body: %s", resp.Body.String())
	}
}
