package service_test

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/unclebandit/crm-backend/internal/db"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/repository"
	"github.com/unclebandit/crm-backend/internal/service"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	bdb, err := db.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = bdb.Close() })
	require.NoError(t, db.Migrate(context.Background(), bdb))
	return bdb
}

// recordingQueue captures published payloads synchronously.
type recordingQueue struct {
	mu     sync.Mutex
	topics []string
	events []model.CustomerEvent
}

func (q *recordingQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.topics = append(q.topics, topic)
	q.events = append(q.events, payload.(model.CustomerEvent))
	return nil
}

func (q *recordingQueue) Subscribe(string, func(any) error) error { return nil }

func newCustomerService(t *testing.T) (*service.CustomerService, *recordingQueue) {
	t.Helper()
	q := &recordingQueue{}
	return &service.CustomerService{
		CustomerRepo: &repository.CustomerRepository{DB: newTestDB(t)},
		Events:       q,
	}, q
}

func validFields(email string) model.CustomerFields {
	return model.CustomerFields{
		FirstName: "Jo",
		LastName:  "Li",
		Email:     email,
		Phone:     "555-0101",
		Address:   "1 Main St",
	}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
