package storyclient

import (
	"context"
	"fmt"
	"net/http"
	neturl "net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/jaramgle/storyclient/schema"
)

// BillingService covers hearts: the wallet balance, purchasable products and
// purchase orders.
type BillingService struct {
	client *Client
}

// Wallet returns the caller's heart balance.
func (s *BillingService) Wallet(ctx context.Context) (*schema.Wallet, error) {
	wallet := &schema.Wallet{}
	if err := s.client.call(ctx, http.MethodGet, "wallets/me", nil, nil, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

// Products lists purchasable heart bundles.
func (s *BillingService) Products(ctx context.Context) ([]schema.Product, error) {
	var products []schema.Product
	if err := s.client.call(ctx, http.MethodGet, "billing/products", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Orders returns a page of the caller's orders.
func (s *BillingService) Orders(ctx context.Context, size int) (*schema.Page[schema.Order], error) {
	query := neturl.Values{}
	if size > 0 {
		query.Set("size", strconv.Itoa(size))
	}
	page := &schema.Page[schema.Order]{}
	if err := s.client.call(ctx, http.MethodGet, "billing/orders", query, nil, page); err != nil {
		return nil, err
	}
	return page, nil
}

// CreateOrder places an order for one product. Each call carries a fresh
// idempotency key so a retried submission cannot double-charge.
func (s *BillingService) CreateOrder(ctx context.Context, productCode string, quantity int) (*schema.Order, error) {
	if quantity <= 0 {
		quantity = 1
	}
	body := map[string]interface{}{
		"productCode":    productCode,
		"quantity":       quantity,
		"idempotencyKey": uuid.NewString(),
	}
	order := &schema.Order{}
	if err := s.client.call(ctx, http.MethodPost, "billing/orders", nil, body, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ConfirmOrder settles a pending order with the given payment provider.
func (s *BillingService) ConfirmOrder(ctx context.Context, orderID int64, pgProvider string) (*schema.Order, error) {
	body := map[string]string{"pgProvider": pgProvider}
	order := &schema.Order{}
	path := fmt.Sprintf("billing/orders/%d/confirm", orderID)
	if err := s.client.call(ctx, http.MethodPost, path, nil, body, order); err != nil {
		return nil, err
	}
	return order, nil
}
