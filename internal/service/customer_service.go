// internal/service/customer_service.go
package service

import (
    "context"
    "errors"
    "time"

    "github.com/unclebandit/crm-backend/internal/db"
    appErrors "github.com/unclebandit/crm-backend/internal/errors"
    "github.com/unclebandit/crm-backend/internal/logging"
    "github.com/unclebandit/crm-backend/internal/model"
    "github.com/unclebandit/crm-backend/internal/queue"
    "github.com/unclebandit/crm-backend/internal/repository"
)

const DefaultEventsTopic = "customer_events"

// CustomerService is the owner-scoped customer API. ownerID is always the
// authenticated caller; it is never taken from the request body.
type CustomerService struct {
    CustomerRepo repository.CustomerRepositoryInterface
    EventRepo    repository.EventRepositoryInterface // optional
    Events       queue.Queue                         // optional
    EventsTopic  string
}

func (s *CustomerService) Create(ctx context.Context, ownerID int64, f model.CustomerFields) (*model.Customer, error) {
    f = NormalizeCustomerFields(f)
    if err := ValidateCustomerFields(f); err != nil {
        return nil, err
    }

    c, err := s.CustomerRepo.Create(ctx, ownerID, f)
    if err != nil {
        return nil, translate("create customer", f.Email, err)
    }

    s.publish(model.CustomerCreated, c)
    return c, nil
}

// List returns the caller's customers, newest first. No customers is an empty slice.
func (s *CustomerService) List(ctx context.Context, ownerID int64) ([]model.Customer, error) {
    customers, err := s.CustomerRepo.ListByOwner(ctx, ownerID)
    if err != nil {
        return nil, translate("list customers", "", err)
    }
    return customers, nil
}

func (s *CustomerService) Get(ctx context.Context, ownerID, id int64) (*model.Customer, error) {
    c, err := s.CustomerRepo.GetByID(ctx, ownerID, id)
    if err != nil {
        return nil, translate("get customer", "", err)
    }
    return c, nil
}

func (s *CustomerService) Update(ctx context.Context, ownerID, id int64, f model.CustomerFields) (*model.Customer, error) {
    f = NormalizeCustomerFields(f)
    if err := ValidateCustomerFields(f); err != nil {
        return nil, err
    }

    c, err := s.CustomerRepo.Update(ctx, ownerID, id, f)
    if err != nil {
        return nil, translate("update customer", f.Email, err)
    }

    s.publish(model.CustomerUpdated, c)
    return c, nil
}

func (s *CustomerService) Delete(ctx context.Context, ownerID, id int64) error {
    // Read first so the deletion event can carry the email.
    c, err := s.CustomerRepo.GetByID(ctx, ownerID, id)
    if err != nil {
        return translate("delete customer", "", err)
    }
    if err := s.CustomerRepo.Delete(ctx, ownerID, id); err != nil {
        return translate("delete customer", "", err)
    }

    s.publish(model.CustomerDeleted, c)
    return nil
}

// History returns the recorded events of one of the caller's customers,
// oldest first. Events are recorded asynchronously, so the latest change may
// not be listed yet.
func (s *CustomerService) History(ctx context.Context, ownerID, id int64) ([]model.CustomerEvent, error) {
    if _, err := s.CustomerRepo.GetByID(ctx, ownerID, id); err != nil {
        return nil, translate("customer history", "", err)
    }
    if s.EventRepo == nil {
        return []model.CustomerEvent{}, nil
    }

    events, err := s.EventRepo.ListByCustomer(ctx, ownerID, id)
    if err != nil {
        return nil, translate("customer history", "", err)
    }
    return events, nil
}

// translate maps repository failures onto the domain error kinds.
func translate(op, email string, err error) error {
    switch {
    case errors.Is(err, db.ErrDuplicate):
        return appErrors.NewDuplicateEmail(email)
    case appErrors.IsNotFound(err):
        return err
    default:
        logging.Errorf("%s failed: %v", op, err)
        return appErrors.NewPersistence(op, err)
    }
}

func (s *CustomerService) publish(eventType string, c *model.Customer) {
    if s.Events == nil {
        return
    }
    topic := s.EventsTopic
    if topic == "" {
        topic = DefaultEventsTopic
    }

    event := model.CustomerEvent{
        Type:       eventType,
        CustomerID: c.ID,
        OwnerID:    c.OwnerID,
        Email:      c.Email,
        OccurredAt: time.Now().UTC(),
    }
    if err := s.Events.Publish(topic, event); err != nil {
        logging.Warnf("failed to publish %s for customer %d: %v", eventType, c.ID, err)
    }
}
