package http

import (
	"github.com/erenulutas0/doranV5-sub000/internal/adapter/http/middleware"
	"github.com/erenulutas0/doranV5-sub000/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *OrderHandler, th *TokenHandler, authz *middleware.Authz) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics())
	r.Use(middleware.Logging(logging.New("http")))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/token", th.IssueToken)

	v1 := r.Group("/v1")
	{
		v1.POST("/orders", authz.Require("orders.write"), h.CreateOrder)
		v1.GET("/orders", authz.Require("orders.read"), h.ListOrders)
		v1.GET("/orders/:id", authz.Require("orders.read"), h.GetOrder)
		v1.GET("/orders/:id/status", authz.Require("orders.read"), h.GetOrderStatus)
		v1.PATCH("/orders/:id", authz.Require("orders.write"), h.UpdateOrder)
		v1.PATCH("/orders/:id/status", authz.Require("orders.write"), h.UpdateOrderStatus)
		v1.PATCH("/orders/:id/cancel", authz.Require("orders.write"), h.CancelOrder)
	}

	return r
}
