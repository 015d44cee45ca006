package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/repository"
	"github.com/unclebandit/crm-backend/internal/service"
)

func TestCustomerService_CreateThenGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCustomerService(t)

	in := model.CustomerFields{
		FirstName: "  Ada ",
		LastName:  "Lovelace",
		Email:     "ada@engine.org",
		Phone:     "+44 (20) 7946-0000",
		Address:   "12 St James's Square",
	}
	created, err := svc.Create(ctx, 1, in)
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, "Ada", created.FirstName)

	got, err := svc.Get(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, service.NormalizeCustomerFields(in), got.Fields())
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, int64(1), got.OwnerID)
}

func TestCustomerService_OtherOwnerSeesNothing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCustomerService(t)

	a, err := svc.Create(ctx, 1, validFields("a@x.com"))
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, a.ID)
	assert.True(t, appErrors.IsNotFound(err))

	_, err = svc.Update(ctx, 2, a.ID, validFields("b@x.com"))
	assert.True(t, appErrors.IsNotFound(err))

	err = svc.Delete(ctx, 2, a.ID)
	assert.True(t, appErrors.IsNotFound(err))

	list, err := svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, list)

	// The error for a foreign record is the same as for a missing one.
	_, foreign := svc.Get(ctx, 2, a.ID)
	_, missing := svc.Get(ctx, 2, a.ID+1000)
	assert.Equal(t, "customer with ID "+itoa(a.ID)+" not found", foreign.Error())
	assert.Equal(t, "customer with ID "+itoa(a.ID+1000)+" not found", missing.Error())

	unchanged, err := svc.Get(ctx, 1, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", unchanged.Email)
}

func TestCustomerService_DuplicateEmailLeavesFirstIntact(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCustomerService(t)

	first, err := svc.Create(ctx, 1, validFields("dup@x.com"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, validFields("dup@x.com"))
	assert.True(t, appErrors.IsDuplicateEmail(err))

	_, err = svc.Create(ctx, 2, validFields("dup@x.com"))
	assert.True(t, appErrors.IsDuplicateEmail(err))
	assert.False(t, appErrors.IsPersistence(err))

	got, err := svc.Get(ctx, 1, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Fields(), got.Fields())
	assert.Equal(t, first.OwnerID, got.OwnerID)
	assert.True(t, first.CreatedAt.Equal(got.CreatedAt))
}

func TestCustomerService_EmailUniquenessIgnoresCase(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCustomerService(t)

	c, err := svc.Create(ctx, 1, validFields(" Jo@X.com "))
	require.NoError(t, err)
	assert.Equal(t, "jo@x.com", c.Email)

	_, err = svc.Create(ctx, 2, validFields("JO@X.COM"))
	var dup *appErrors.DuplicateEmailError
	require.True(t, errors.As(err, &dup), "got %v", err)
	assert.Equal(t, "jo@x.com", dup.Email)
}

func TestCustomerService_UpdateCollisionIsAtomic(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCustomerService(t)

	_, err := svc.Create(ctx, 1, validFields("taken@x.com"))
	require.NoError(t, err)
	mine, err := svc.Create(ctx, 1, validFields("mine@x.com"))
	require.NoError(t, err)

	change := validFields("taken@x.com")
	change.FirstName = "Changed"
	_, err = svc.Update(ctx, 1, mine.ID, change)
	assert.True(t, appErrors.IsDuplicateEmail(err))

	got, err := svc.Get(ctx, 1, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jo", got.FirstName, "no partial write")
	assert.Equal(t, "mine@x.com", got.Email)
}

func TestCustomerService_UpdateReplacesAllFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCustomerService(t)

	c, err := svc.Create(ctx, 1, validFields("old@x.com"))
	require.NoError(t, err)

	next := model.CustomerFields{FirstName: "Mae", LastName: "Jemison", Email: "mae@x.com", Phone: "555 0199", Address: "2 Orbit Way"}
	updated, err := svc.Update(ctx, 1, c.ID, next)
	require.NoError(t, err)
	assert.Equal(t, next, updated.Fields())
	assert.Equal(t, c.ID, updated.ID)
	assert.True(t, c.CreatedAt.Equal(updated.CreatedAt), "created_at is immutable")

	// Keeping the same email is not a collision with itself.
	_, err = svc.Update(ctx, 1, c.ID, next)
	assert.NoError(t, err)
}

func TestCustomerService_UpdateMissing(t *testing.T) {
	svc, _ := newCustomerService(t)
	_, err := svc.Update(context.Background(), 1, 4242, validFields("x@x.com"))
	assert.True(t, appErrors.IsNotFound(err))
}

func TestCustomerService_ValidationBeforeOwnership(t *testing.T) {
	svc, _ := newCustomerService(t)
	_, err := svc.Update(context.Background(), 1, 4242, model.CustomerFields{})
	assert.True(t, appErrors.IsValidation(err))
	assert.False(t, appErrors.IsNotFound(err))
}

func TestCustomerService_DeleteTwice(t *testing.T) {
	ctx := context.Background()
	svc, q := newCustomerService(t)

	c, err := svc.Create(ctx, 1, validFields("gone@x.com"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, c.ID))
	assert.True(t, appErrors.IsNotFound(svc.Delete(ctx, 1, c.ID)))

	_, err = svc.Get(ctx, 1, c.ID)
	assert.True(t, appErrors.IsNotFound(err))

	require.Len(t, q.events, 2)
	assert.Equal(t, model.CustomerCreated, q.events[0].Type)
	assert.Equal(t, model.CustomerDeleted, q.events[1].Type)
	assert.Equal(t, "gone@x.com", q.events[1].Email)
	assert.Equal(t, service.DefaultEventsTopic, q.topics[1])
}

func TestCustomerService_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCustomerService(t)

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	var ids []int64
	for _, email := range []string{"1@x.com", "2@x.com", "3@x.com"} {
		c, err := svc.Create(ctx, 1, validFields(email))
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	list, err = svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{ids[2], ids[1], ids[0]}, []int64{list[0].ID, list[1].ID, list[2].ID})
}

func TestCustomerService_Scenario(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCustomerService(t)

	in := model.CustomerFields{FirstName: "Jo", LastName: "Li", Email: "jo@x.com", Phone: "555-0101", Address: "1 Main St"}
	c, err := svc.Create(ctx, 1, in)
	require.NoError(t, err)
	assert.Positive(t, c.ID)

	_, err = svc.Create(ctx, 2, in)
	var dup *appErrors.DuplicateEmailError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "jo@x.com", dup.Email)

	owner1, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, owner1, 1)

	owner2, err := svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, owner2)
}

func TestCustomerService_History(t *testing.T) {
	ctx := context.Background()
	bdb := newTestDB(t)
	events := &repository.EventRepository{DB: bdb}
	svc := &service.CustomerService{
		CustomerRepo: &repository.CustomerRepository{DB: bdb},
		EventRepo:    events,
	}

	c, err := svc.Create(ctx, 1, validFields("jo@x.com"))
	require.NoError(t, err)
	require.NoError(t, events.Create(ctx, &model.CustomerEvent{
		Type: model.CustomerCreated, CustomerID: c.ID, OwnerID: 1, Email: c.Email, OccurredAt: time.Now(),
	}))

	history, err := svc.History(ctx, 1, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.CustomerCreated, history[0].Type)

	_, err = svc.History(ctx, 2, c.ID)
	assert.True(t, appErrors.IsNotFound(err))
}

type failingRepo struct{ err error }

func (f failingRepo) Create(context.Context, int64, model.CustomerFields) (*model.Customer, error) {
	return nil, f.err
}
func (f failingRepo) ListByOwner(context.Context, int64) ([]model.Customer, error) { return nil, f.err }
func (f failingRepo) GetByID(context.Context, int64, int64) (*model.Customer, error) {
	return nil, f.err
}
func (f failingRepo) Update(context.Context, int64, int64, model.CustomerFields) (*model.Customer, error) {
	return nil, f.err
}
func (f failingRepo) Delete(context.Context, int64, int64) error { return f.err }

func TestCustomerService_StoreFailureIsPersistenceError(t *testing.T) {
	cause := errors.New("connection reset by peer")
	svc := &service.CustomerService{CustomerRepo: failingRepo{err: cause}}

	_, err := svc.Create(context.Background(), 1, validFields("a@x.com"))
	assert.True(t, appErrors.IsPersistence(err))
	assert.ErrorIs(t, err, cause)

	_, err = svc.List(context.Background(), 1)
	assert.True(t, appErrors.IsPersistence(err))
}
