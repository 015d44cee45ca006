//cmd/seeder/main.go
package main

import (
	"context"
	"fmt"

	"github.com/unclebandit/crm-backend/internal/config"
	"github.com/unclebandit/crm-backend/internal/db"
	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/logging"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/repository"
	"github.com/unclebandit/crm-backend/internal/service"
)

var demoUser = model.Registration{
	Name:     "Demo User",
	Email:    "demo@example.com",
	Password: "demo-password",
}

var demoCustomers = []model.CustomerFields{
	{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "+44 20 7946 0001", Address: "12 St James's Square, London"},
	{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Phone: "(212) 555-0102", Address: "1 Navy Yard, Arlington"},
	{FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", Phone: "+44 161 555 0103", Address: "Bletchley Park, Milton Keynes"},
	{FirstName: "Katherine", LastName: "Johnson", Email: "katherine@example.com", Phone: "757-555-0104", Address: "Langley Research Center, Hampton"},
	{FirstName: "Edsger", LastName: "Dijkstra", Email: "edsger@example.com", Phone: "+31 40 555 0105", Address: "Den Dolech 2, Eindhoven"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("%v", err)
	}
	logging.SetLevel(cfg.LogLevel)

	db.Init(cfg)
	defer db.DB.Close()

	ctx := context.Background()
	userRepo := &repository.UserRepository{DB: db.DB}
	authService := &service.AuthService{UserRepo: userRepo, Secret: []byte(cfg.JWTSecret), TokenTTL: cfg.TokenTTL}
	customerService := &service.CustomerService{CustomerRepo: &repository.CustomerRepository{DB: db.DB}}

	user, err := authService.Register(ctx, demoUser)
	switch {
	case appErrors.IsDuplicateEmail(err):
		user, err = userRepo.GetByEmail(ctx, demoUser.Email)
		if err != nil || user == nil {
			logging.Fatalf("failed to load existing demo user: %v", err)
		}
		fmt.Printf("Demo user already exists: %s\n", user.Email)
	case err != nil:
		logging.Fatalf("failed to register demo user: %v", err)
	default:
		fmt.Printf("Seeded user: %s (password %q)\n", user.Email, demoUser.Password)
	}

	for _, f := range demoCustomers {
		c, err := customerService.Create(ctx, user.ID, f)
		if appErrors.IsDuplicateEmail(err) {
			fmt.Printf("Skipped existing customer: %s\n", f.Email)
			continue
		}
		if err != nil {
			logging.Fatalf("failed to seed %s: %v", f.Email, err)
		}
		fmt.Printf("Seeded customer #%d: %s\n", c.ID, c.FullName())
	}

	fmt.Println("Database seeding completed successfully!")
}
