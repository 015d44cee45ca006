// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unclebandit/crm-backend/internal/config"
	"github.com/unclebandit/crm-backend/internal/db"
	"github.com/unclebandit/crm-backend/internal/handler"
	"github.com/unclebandit/crm-backend/internal/logging"
	"github.com/unclebandit/crm-backend/internal/queue"
	"github.com/unclebandit/crm-backend/internal/repository"
	"github.com/unclebandit/crm-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("invalid configuration: %v", err)
	}
	logging.SetLevel(cfg.LogLevel)

	// Init DB
	db.Init(cfg)
	defer db.DB.Close()

	customerRepo := &repository.CustomerRepository{DB: db.DB}
	userRepo := &repository.UserRepository{DB: db.DB}
	eventRepo := &repository.EventRepository{DB: db.DB}

	// With a broker configured the worker records events; otherwise they are
	// recorded in-process.
	var (
		q      queue.Queue
		broker <-chan error
	)
	if cfg.AMQPURL != "" {
		amqpQueue, err := queue.DialAMQP(cfg.AMQPURL)
		if err != nil {
			logging.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer amqpQueue.Close()
		q = amqpQueue
		broker = amqpQueue.Lost()
		logging.Infof("📨 Publishing customer events to RabbitMQ")
	} else {
		q = queue.NewInMemoryQueue()
		if err := queue.StartAuditSubscriber(q, cfg.EventsQueue, eventRepo); err != nil {
			logging.Fatalf("failed to start audit subscriber: %v", err)
		}
	}

	authService := &service.AuthService{
		UserRepo: userRepo,
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL,
	}
	customerService := &service.CustomerService{
		CustomerRepo: customerRepo,
		EventRepo:    eventRepo,
		Events:       q,
		EventsTopic:  cfg.EventsQueue,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(authService, customerService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Infof("🚀 Server running on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatalf("%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	var lost error
	select {
	case <-stop:
	case lost = <-broker:
		logging.Errorf("RabbitMQ lost, shutting down: %v", lost)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Errorf("shutdown: %v", err)
	}
	if lost != nil {
		logging.Fatalf("👋 Server stopped: %v", lost)
	}
	logging.Infof("👋 Server stopped")
}
