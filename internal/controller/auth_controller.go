// internal/controller/auth_controller.go
package controller

import (
    "net/http"

    appErrors "github.com/unclebandit/crm-backend/internal/errors"
    "github.com/unclebandit/crm-backend/internal/model"
    "github.com/unclebandit/crm-backend/internal/service"
)

type AuthController struct {
    AuthService *service.AuthService
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
    var body model.Registration
    if err := decodeBody(r, &body); err != nil {
        badRequest(w, "invalid body")
        return
    }

    user, err := c.AuthService.Register(r.Context(), body)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusCreated, user)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
    var body struct {
        Email    string `json:"email"`
        Password string `json:"password"`
    }
    if err := decodeBody(r, &body); err != nil {
        badRequest(w, "invalid body")
        return
    }

    token, err := c.AuthService.Login(r.Context(), body.Email, body.Password)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]any{
        "token":      token,
        "token_type": "Bearer",
        "expires_in": int(c.AuthService.TokenTTL.Seconds()),
    })
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
    ownerID, ok := OwnerFromContext(r.Context())
    if !ok {
        writeError(w, appErrors.NewAuthentication(""))
        return
    }

    user, err := c.AuthService.CurrentUser(r.Context(), ownerID)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, user)
}
