// internal/model/customer_event.go
package model

import "time"

const (
    CustomerCreated = "customer.created"
    CustomerUpdated = "customer.updated"
    CustomerDeleted = "customer.deleted"
)

type CustomerEvent struct {
    ID         int64     `json:"id,omitempty"`
    Type       string    `json:"type"` // customer.created, customer.updated, customer.deleted
    CustomerID int64     `json:"customer_id"`
    OwnerID    int64     `json:"owner_id"`
    Email      string    `json:"email"`
    OccurredAt time.Time `json:"occurred_at"`
}
