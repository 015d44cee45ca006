// internal/model/user.go
package model

import "time"

type User struct {
    ID           int64     `json:"id"`
    Name         string    `json:"name"`
    Email        string    `json:"email"`
    PasswordHash string    `json:"-"`
    CreatedAt    time.Time `json:"created_at"`
}

type Registration struct {
    Name     string `json:"name" validate:"required,min=2,max=100"`
    Email    string `json:"email" validate:"required,max=255,contact_email"`
    Password string `json:"password" validate:"required,min=8,max=72,bcrypt_len"`
}
