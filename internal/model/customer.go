// internal/model/customer.go
package model

import "time"

type Customer struct {
    ID        int64     `json:"id"`
    FirstName string    `json:"first_name"`
    LastName  string    `json:"last_name"`
    Email     string    `json:"email"`
    Phone     string    `json:"phone"`
    Address   string    `json:"address"`
    OwnerID   int64     `json:"owner_id"`
    CreatedAt time.Time `json:"created_at"`
}

// FullName is first and last name joined by a space.
func (c Customer) FullName() string {
    return c.FirstName + " " + c.LastName
}

// CustomerFields is the mutable part of a customer, as submitted on create and update.
type CustomerFields struct {
    FirstName string `json:"first_name" validate:"required,min=2,max=100"`
    LastName  string `json:"last_name" validate:"required,min=2,max=100"`
    Email     string `json:"email" validate:"required,max=255,contact_email"`
    Phone     string `json:"phone" validate:"required,max=50,contact_phone"`
    Address   string `json:"address" validate:"required,max=500"`
}

// Fields returns the mutable part of c.
func (c Customer) Fields() CustomerFields {
    return CustomerFields{
        FirstName: c.FirstName,
        LastName:  c.LastName,
        Email:     c.Email,
        Phone:     c.Phone,
        Address:   c.Address,
    }
}
