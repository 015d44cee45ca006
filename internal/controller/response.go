// internal/controller/response.go
package controller

import (
    "encoding/json"
    "errors"
    "net/http"

    appErrors "github.com/unclebandit/crm-backend/internal/errors"
    "github.com/unclebandit/crm-backend/internal/logging"
)

type errorBody struct {
    Error  string            `json:"error"`
    Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    if v == nil {
        return
    }
    if err := json.NewEncoder(w).Encode(v); err != nil {
        logging.Warnf("failed to encode response: %v", err)
    }
}

// writeError maps a domain error to its HTTP status. Unknown errors become a
// generic 500 so store details never reach the client.
func writeError(w http.ResponseWriter, err error) {
    var (
        validation *appErrors.ValidationError
        duplicate  *appErrors.DuplicateEmailError
        notFound   *appErrors.NotFoundError
        empty      *appErrors.EmptyInputError
        auth       *appErrors.AuthenticationError
    )

    switch {
    case errors.As(err, &validation):
        writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Fields: validation.Fields})
    case errors.As(err, &duplicate):
        writeJSON(w, http.StatusConflict, errorBody{Error: duplicate.Error()})
    case errors.As(err, &notFound):
        writeJSON(w, http.StatusNotFound, errorBody{Error: notFound.Error()})
    case errors.As(err, &empty):
        writeJSON(w, http.StatusNotFound, errorBody{Error: empty.Error()})
    case errors.As(err, &auth):
        w.Header().Set("WWW-Authenticate", `Bearer realm="crm"`)
        writeJSON(w, http.StatusUnauthorized, errorBody{Error: auth.Error()})
    default:
        logging.Errorf("unhandled error: %v", err)
        writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
    }
}

func badRequest(w http.ResponseWriter, msg string) {
    writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

func decodeBody(r *http.Request, v any) error {
    dec := json.NewDecoder(r.Body)
    dec.DisallowUnknownFields()
    return dec.Decode(v)
}
