package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/erenulutas0/doranV5-sub000/internal/breaker"
	"github.com/erenulutas0/doranV5-sub000/internal/usecase"
	"github.com/shopspring/decimal"
)

// FallbackProductName marks a placeholder snapshot produced while the
// catalog service was unreachable.
const FallbackProductName = "Unknown Product"

type CatalogClient struct {
	baseURL string
	hc      *http.Client
}

func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{baseURL: baseURL, hc: newHTTPClient(timeout)}
}

func (c *CatalogClient) GetProduct(ctx context.Context, productID string) (*usecase.ProductInfo, error) {
	var product usecase.ProductInfo
	found, err := getJSON(ctx, c.hc, fmt.Sprintf("%s/api/products/%s", c.baseURL, productID), &product)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &product, nil
}

var _ usecase.CatalogGateway = (*CatalogClient)(nil)

// BreakerCatalogGateway wraps a CatalogGateway with a circuit breaker. The
// fallback is a zero-priced placeholder product: it keeps the pipeline alive
// while the availability check downstream still denies the order.
type BreakerCatalogGateway struct {
	next usecase.CatalogGateway
	cb   *breaker.Breaker
	log  *slog.Logger
}

func NewBreakerCatalogGateway(next usecase.CatalogGateway, cb *breaker.Breaker, log *slog.Logger) *BreakerCatalogGateway {
	return &BreakerCatalogGateway{next: next, cb: cb, log: log}
}

func (g *BreakerCatalogGateway) GetProduct(ctx context.Context, productID string) (*usecase.ProductInfo, error) {
	var product *usecase.ProductInfo
	err := g.cb.Execute(func() error {
		var callErr error
		product, callErr = g.next.GetProduct(ctx, productID)
		return callErr
	})
	observeBreaker(g.cb)
	if err != nil {
		fallbackTotal.WithLabelValues("catalog", "get_product").Inc()
		g.log.Warn("catalog lookup degraded, falling back to placeholder product",
			"product_id", productID, "breaker", g.cb.State().String(), "error", err)
		return &usecase.ProductInfo{
			ID:    productID,
			Name:  FallbackProductName,
			Price: decimal.Zero,
		}, nil
	}
	return product, nil
}

var _ usecase.CatalogGateway = (*BreakerCatalogGateway)(nil)
