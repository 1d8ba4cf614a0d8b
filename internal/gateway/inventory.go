package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/erenulutas0/doranV5-sub000/internal/breaker"
	"github.com/erenulutas0/doranV5-sub000/internal/usecase"
)

type InventoryClient struct {
	baseURL string
	hc      *http.Client
}

func NewInventoryClient(baseURL string, timeout time.Duration) *InventoryClient {
	return &InventoryClient{baseURL: baseURL, hc: newHTTPClient(timeout)}
}

func (c *InventoryClient) GetInventoryByProduct(ctx context.Context, productID string) (*usecase.InventoryInfo, error) {
	var inv usecase.InventoryInfo
	found, err := getJSON(ctx, c.hc, fmt.Sprintf("%s/api/inventory/product/%s", c.baseURL, productID), &inv)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &inv, nil
}

func (c *InventoryClient) CheckAvailability(ctx context.Context, requested map[string]int) (map[string]bool, error) {
	out := make(map[string]bool, len(requested))
	url := fmt.Sprintf("%s/api/inventory/check-availability", c.baseURL)
	if err := postJSON(ctx, c.hc, url, requested, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type quantityReq struct {
	Quantity int `json:"quantity"`
}

func (c *InventoryClient) Reserve(ctx context.Context, inventoryID string, quantity int) (*usecase.InventoryInfo, error) {
	var inv usecase.InventoryInfo
	url := fmt.Sprintf("%s/api/inventory/%s/reserve", c.baseURL, inventoryID)
	if err := postJSON(ctx, c.hc, url, quantityReq{Quantity: quantity}, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (c *InventoryClient) Release(ctx context.Context, inventoryID string, quantity int) (*usecase.InventoryInfo, error) {
	var inv usecase.InventoryInfo
	url := fmt.Sprintf("%s/api/inventory/%s/release", c.baseURL, inventoryID)
	if err := postJSON(ctx, c.hc, url, quantityReq{Quantity: quantity}, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

var _ usecase.InventoryGateway = (*InventoryClient)(nil)

// BreakerInventoryGateway wraps an InventoryGateway with a circuit breaker.
// Fallbacks are asymmetric: the read paths that gate order admission deny by
// default (nil record, every product unavailable), while reserve/release
// answer with an UNAVAILABLE no-op snapshot so status transitions can keep
// going on a best-effort basis.
type BreakerInventoryGateway struct {
	next usecase.InventoryGateway
	cb   *breaker.Breaker
	log  *slog.Logger
}

func NewBreakerInventoryGateway(next usecase.InventoryGateway, cb *breaker.Breaker, log *slog.Logger) *BreakerInventoryGateway {
	return &BreakerInventoryGateway{next: next, cb: cb, log: log}
}

func (g *BreakerInventoryGateway) GetInventoryByProduct(ctx context.Context, productID string) (*usecase.InventoryInfo, error) {
	var inv *usecase.InventoryInfo
	err := g.cb.Execute(func() error {
		var callErr error
		inv, callErr = g.next.GetInventoryByProduct(ctx, productID)
		return callErr
	})
	observeBreaker(g.cb)
	if err != nil {
		fallbackTotal.WithLabelValues("inventory", "get_inventory").Inc()
		g.log.Warn("inventory lookup degraded, falling back to not-found",
			"product_id", productID, "breaker", g.cb.State().String(), "error", err)
		return nil, nil
	}
	return inv, nil
}

func (g *BreakerInventoryGateway) CheckAvailability(ctx context.Context, requested map[string]int) (map[string]bool, error) {
	var out map[string]bool
	err := g.cb.Execute(func() error {
		var callErr error
		out, callErr = g.next.CheckAvailability(ctx, requested)
		return callErr
	})
	observeBreaker(g.cb)
	if err != nil {
		fallbackTotal.WithLabelValues("inventory", "check_availability").Inc()
		g.log.Warn("availability check degraded, denying all requested products",
			"products", len(requested), "breaker", g.cb.State().String(), "error", err)
		out = make(map[string]bool, len(requested))
		for productID := range requested {
			out[productID] = false
		}
		return out, nil
	}
	return out, nil
}

func (g *BreakerInventoryGateway) Reserve(ctx context.Context, inventoryID string, quantity int) (*usecase.InventoryInfo, error) {
	return g.writeOp(ctx, "reserve", inventoryID, quantity, g.next.Reserve)
}

func (g *BreakerInventoryGateway) Release(ctx context.Context, inventoryID string, quantity int) (*usecase.InventoryInfo, error) {
	return g.writeOp(ctx, "release", inventoryID, quantity, g.next.Release)
}

func (g *BreakerInventoryGateway) writeOp(ctx context.Context, op, inventoryID string, quantity int,
	call func(context.Context, string, int) (*usecase.InventoryInfo, error)) (*usecase.InventoryInfo, error) {

	var inv *usecase.InventoryInfo
	err := g.cb.Execute(func() error {
		var callErr error
		inv, callErr = call(ctx, inventoryID, quantity)
		return callErr
	})
	observeBreaker(g.cb)
	if err != nil {
		fallbackTotal.WithLabelValues("inventory", op).Inc()
		g.log.Warn("inventory write degraded, answering no-op",
			"op", op, "inventory_id", inventoryID, "quantity", quantity,
			"breaker", g.cb.State().String(), "error", err)
		return &usecase.InventoryInfo{
			ID:     inventoryID,
			Status: usecase.InventoryStatusUnavailable,
		}, nil
	}
	return inv, nil
}

var _ usecase.InventoryGateway = (*BreakerInventoryGateway)(nil)
