package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/unclebandit/crm-backend/internal/config"
	"github.com/unclebandit/crm-backend/internal/db"
	"github.com/unclebandit/crm-backend/internal/logging"
	"github.com/unclebandit/crm-backend/internal/queue"
	"github.com/unclebandit/crm-backend/internal/repository"
)

// The worker drains customer events from RabbitMQ into the customer_events table.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("invalid configuration: %v", err)
	}
	logging.SetLevel(cfg.LogLevel)

	if cfg.AMQPURL == "" {
		logging.Fatalf("AMQP_URL must be set to run the worker")
	}

	db.Init(cfg)
	defer db.DB.Close()

	// Connect to RabbitMQ
	q, err := queue.DialAMQP(cfg.AMQPURL)
	if err != nil {
		logging.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer q.Close()

	eventRepo := &repository.EventRepository{DB: db.DB}
	if err := queue.StartAuditSubscriber(q, cfg.EventsQueue, eventRepo); err != nil {
		logging.Fatalf("Failed to register consumer: %v", err)
	}

	logging.Infof("Worker running, waiting for messages on %s...", cfg.EventsQueue)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
		logging.Infof("Worker stopped")
	case err := <-q.Lost():
		// Exit non-zero so the supervisor restarts the worker.
		logging.Fatalf("Worker lost RabbitMQ: %v", err)
	}
}
