// internal/controller/auth.go
package controller

import (
    "context"
    "net/http"
    "strings"

    appErrors "github.com/unclebandit/crm-backend/internal/errors"
    "github.com/unclebandit/crm-backend/internal/service"
)

type ctxKey int

const ownerKey ctxKey = iota

// WithOwner stores the authenticated owner id on ctx.
func WithOwner(ctx context.Context, ownerID int64) context.Context {
    return context.WithValue(ctx, ownerKey, ownerID)
}

// OwnerFromContext returns the id placed there by RequireAuth.
func OwnerFromContext(ctx context.Context) (int64, bool) {
    id, ok := ctx.Value(ownerKey).(int64)
    return id, ok && id > 0
}

// RequireAuth rejects requests without a valid bearer token before they reach
// any customer handler.
func RequireAuth(auth service.Authenticator) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            header := r.Header.Get("Authorization")
            scheme, token, ok := strings.Cut(header, " ")
            if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
                writeError(w, appErrors.NewAuthentication("missing bearer token"))
                return
            }

            ownerID, err := auth.Authenticate(r.Context(), strings.TrimSpace(token))
            if err != nil {
                writeError(w, err)
                return
            }
            next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), ownerID)))
        })
    }
}
