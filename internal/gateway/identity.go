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

// IdentityClient is the production IdentityGateway: one HTTP call with a
// request timeout against the identity service.
type IdentityClient struct {
	baseURL string
	hc      *http.Client
}

func NewIdentityClient(baseURL string, timeout time.Duration) *IdentityClient {
	return &IdentityClient{baseURL: baseURL, hc: newHTTPClient(timeout)}
}

func (c *IdentityClient) GetUser(ctx context.Context, userID string) (*usecase.UserInfo, error) {
	var user usecase.UserInfo
	found, err := getJSON(ctx, c.hc, fmt.Sprintf("%s/api/users/%s", c.baseURL, userID), &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

var _ usecase.IdentityGateway = (*IdentityClient)(nil)

// BreakerIdentityGateway wraps an IdentityGateway with a circuit breaker.
// When the breaker is open or the call fails, the fallback is nil: no
// shipping snapshot can be derived from a degraded identity service, so the
// orchestrator treats it as not found.
type BreakerIdentityGateway struct {
	next usecase.IdentityGateway
	cb   *breaker.Breaker
	log  *slog.Logger
}

func NewBreakerIdentityGateway(next usecase.IdentityGateway, cb *breaker.Breaker, log *slog.Logger) *BreakerIdentityGateway {
	return &BreakerIdentityGateway{next: next, cb: cb, log: log}
}

func (g *BreakerIdentityGateway) GetUser(ctx context.Context, userID string) (*usecase.UserInfo, error) {
	var user *usecase.UserInfo
	err := g.cb.Execute(func() error {
		var callErr error
		user, callErr = g.next.GetUser(ctx, userID)
		return callErr
	})
	observeBreaker(g.cb)
	if err != nil {
		fallbackTotal.WithLabelValues("identity", "get_user").Inc()
		g.log.Warn("identity lookup degraded, falling back to not-found",
			"user_id", userID, "breaker", g.cb.State().String(), "error", err)
		return nil, nil
	}
	return user, nil
}

var _ usecase.IdentityGateway = (*BreakerIdentityGateway)(nil)
