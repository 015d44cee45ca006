// internal/handler/router.go
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unclebandit/crm-backend/internal/controller"
	"github.com/unclebandit/crm-backend/internal/logging"
	"github.com/unclebandit/crm-backend/internal/service"
)

// NewRouter wires every HTTP route. All /customers routes sit behind
// bearer authentication.
func NewRouter(authService *service.AuthService, customerService *service.CustomerService) http.Handler {
	authController := &controller.AuthController{AuthService: authService}
	customerController := &controller.CustomerController{CustomerService: customerService}
	requireAuth := controller.RequireAuth(authService)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Auth routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authController.Register)
		r.Post("/login", authController.Login)
		r.With(requireAuth).Get("/me", authController.Me)
	})

	// Customer routes
	r.Route("/customers", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", customerController.ListCustomers)
		r.Post("/", customerController.CreateCustomer)
		r.Get("/export/csv", customerController.ExportCSV)
		r.Get("/export/pdf", customerController.ExportPDF)
		r.Get("/{id}", customerController.GetCustomer)
		r.Put("/{id}", customerController.UpdateCustomer)
		r.Delete("/{id}", customerController.DeleteCustomer)
		r.Get("/{id}/events", customerController.CustomerHistory)
	})

	return r
}
