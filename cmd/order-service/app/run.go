package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erenulutas0/doranV5-sub000/configs"
	"github.com/erenulutas0/doranV5-sub000/internal/adapter/cache"
	httpadapter "github.com/erenulutas0/doranV5-sub000/internal/adapter/http"
	"github.com/erenulutas0/doranV5-sub000/internal/adapter/http/middleware"
	"github.com/erenulutas0/doranV5-sub000/internal/adapter/queue"
	"github.com/erenulutas0/doranV5-sub000/internal/adapter/repo"
	"github.com/erenulutas0/doranV5-sub000/internal/breaker"
	"github.com/erenulutas0/doranV5-sub000/internal/gateway"
	"github.com/erenulutas0/doranV5-sub000/internal/logging"
	"github.com/erenulutas0/doranV5-sub000/internal/usecase"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logger := logging.Init(cfg.App.Name, cfg.App.LogFile)

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("mysql ping: %w", err)
	}

	logger.Info("order-service: starting up")

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	// init rabbitmq
	conn, err := amqp.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	publisher, err := queue.NewRabbitPublisher(ch, cfg.Rabbit.Exchange, cfg.Rabbit.Queue)
	if err != nil {
		return nil, nil, err
	}

	// downstream gateways, each behind its own circuit breaker
	identity := gateway.NewBreakerIdentityGateway(
		gateway.NewIdentityClient(cfg.Services.Identity.BaseURL, cfg.Services.Identity.Timeout),
		breaker.New("identity", cfg.Breaker.FailureThreshold, cfg.Breaker.ResetTimeout),
		logging.New("gateway.identity"),
	)
	catalog := gateway.NewBreakerCatalogGateway(
		gateway.NewCatalogClient(cfg.Services.Catalog.BaseURL, cfg.Services.Catalog.Timeout),
		breaker.New("catalog", cfg.Breaker.FailureThreshold, cfg.Breaker.ResetTimeout),
		logging.New("gateway.catalog"),
	)
	inventory := gateway.NewBreakerInventoryGateway(
		gateway.NewInventoryClient(cfg.Services.Inventory.BaseURL, cfg.Services.Inventory.Timeout),
		breaker.New("inventory", cfg.Breaker.FailureThreshold, cfg.Breaker.ResetTimeout),
		logging.New("gateway.inventory"),
	)

	// infra
	orderRepo := repo.NewMySQLOrderRepo(db)
	statusCache := cache.NewRedisStatusCache(rdb, cfg.Redis.TTL)

	// use cases + handlers + router
	createUC := usecase.NewCreateOrder(orderRepo, identity, catalog, inventory, publisher)
	statusUC := usecase.NewUpdateOrderStatus(orderRepo, identity, inventory, publisher, statusCache, cfg.Orders.StrictReservation)
	updateUC := usecase.NewUpdateOrder(orderRepo, catalog)

	h := httpadapter.NewOrderHandler(createUC, statusUC, updateUC, orderRepo, statusCache)
	th := httpadapter.NewTokenHandler(cfg)
	auth := middleware.NewAuthz(cfg)
	router := httpadapter.NewRouter(h, th, auth)

	cleanup := func() {
		_ = db.Close()
		_ = rdb.Close()
		_ = ch.Close()
		_ = conn.Close()
	}

	return &App{Router: router}, cleanup, nil
}
