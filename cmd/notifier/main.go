package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/erenulutas0/doranV5-sub000/configs"
	"github.com/erenulutas0/doranV5-sub000/internal/adapter/queue"
	"github.com/erenulutas0/doranV5-sub000/internal/logging"
	"github.com/erenulutas0/doranV5-sub000/internal/notify"
	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	cfg, err := configs.Load("configs", env)
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.Init("notifier", cfg.App.LogFile)

	conn, err := amqp.Dial(cfg.Rabbit.URL)
	if err != nil {
		log.Fatalf("rabbitmq dial: %v", err)
	}
	defer conn.Close()
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbitmq channel: %v", err)
	}
	defer ch.Close()

	// Declares are idempotent; the notifier may come up before the producer.
	if err := queue.EnsureTopology(ch, cfg.Rabbit.Exchange, cfg.Rabbit.Queue); err != nil {
		log.Fatalf("rabbitmq topology: %v", err)
	}

	sender := &notify.LogSender{Log: logging.New("notify.sender")}
	handler := notify.NewEventHandler(sender, logging.New("notify"))

	router := queue.NewRouter(ch, logging.New("rmq-router"), queue.WithPrefetch(50))
	router.Register(cfg.Rabbit.Queue, handler)
	if err := router.Start(); err != nil {
		log.Fatalf("consumer start: %v", err)
	}

	logger.Info("notifier: consuming", "queue", cfg.Rabbit.Queue)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("notifier: shutting down")
}
