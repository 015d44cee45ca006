// internal/controller/customer_controller.go
package controller

import (
    "net/http"
    "strconv"
    "time"

    "github.com/go-chi/chi/v5"

    appErrors "github.com/unclebandit/crm-backend/internal/errors"
    "github.com/unclebandit/crm-backend/internal/export"
    "github.com/unclebandit/crm-backend/internal/model"
    "github.com/unclebandit/crm-backend/internal/service"
)

type CustomerController struct {
    CustomerService *service.CustomerService
    Now             func() time.Time // defaults to time.Now
}

func (c *CustomerController) ListCustomers(w http.ResponseWriter, r *http.Request) {
    ownerID, ok := c.owner(w, r)
    if !ok {
        return
    }

    customers, err := c.CustomerService.List(r.Context(), ownerID)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, customers)
}

func (c *CustomerController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
    ownerID, ok := c.owner(w, r)
    if !ok {
        return
    }

    var body model.CustomerFields
    if err := decodeBody(r, &body); err != nil {
        badRequest(w, "invalid body")
        return
    }

    customer, err := c.CustomerService.Create(r.Context(), ownerID, body)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusCreated, customer)
}

func (c *CustomerController) GetCustomer(w http.ResponseWriter, r *http.Request) {
    ownerID, ok := c.owner(w, r)
    if !ok {
        return
    }
    id, ok := customerID(w, r)
    if !ok {
        return
    }

    customer, err := c.CustomerService.Get(r.Context(), ownerID, id)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, customer)
}

func (c *CustomerController) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
    ownerID, ok := c.owner(w, r)
    if !ok {
        return
    }
    id, ok := customerID(w, r)
    if !ok {
        return
    }

    var body model.CustomerFields
    if err := decodeBody(r, &body); err != nil {
        badRequest(w, "invalid body")
        return
    }

    customer, err := c.CustomerService.Update(r.Context(), ownerID, id, body)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, customer)
}

func (c *CustomerController) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
    ownerID, ok := c.owner(w, r)
    if !ok {
        return
    }
    id, ok := customerID(w, r)
    if !ok {
        return
    }

    if err := c.CustomerService.Delete(r.Context(), ownerID, id); err != nil {
        writeError(w, err)
        return
    }
    w.WriteHeader(http.StatusNoContent)
}

func (c *CustomerController) CustomerHistory(w http.ResponseWriter, r *http.Request) {
    ownerID, ok := c.owner(w, r)
    if !ok {
        return
    }
    id, ok := customerID(w, r)
    if !ok {
        return
    }

    events, err := c.CustomerService.History(r.Context(), ownerID, id)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, events)
}

func (c *CustomerController) ExportCSV(w http.ResponseWriter, r *http.Request) {
    c.export(w, r, "csv", "text/csv; charset=utf-8", func(customers []model.Customer, _ time.Time) ([]byte, error) {
        return export.ToCSV(customers)
    })
}

func (c *CustomerController) ExportPDF(w http.ResponseWriter, r *http.Request) {
    c.export(w, r, "pdf", "application/pdf", export.ToPDF)
}

// export renders the caller's full customer list in memory and sends it as an
// attachment; nothing is written to disk.
func (c *CustomerController) export(
    w http.ResponseWriter,
    r *http.Request,
    ext, contentType string,
    render func([]model.Customer, time.Time) ([]byte, error),
) {
    ownerID, ok := c.owner(w, r)
    if !ok {
        return
    }

    customers, err := c.CustomerService.List(r.Context(), ownerID)
    if err != nil {
        writeError(w, err)
        return
    }

    now := c.now()
    body, err := render(customers, now)
    if err != nil {
        writeError(w, err)
        return
    }

    w.Header().Set("Content-Type", contentType)
    w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(ext, now)+`"`)
    w.Header().Set("Content-Length", strconv.Itoa(len(body)))
    w.Header().Set("Cache-Control", "no-store")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(body)
}

func (c *CustomerController) owner(w http.ResponseWriter, r *http.Request) (int64, bool) {
    ownerID, ok := OwnerFromContext(r.Context())
    if !ok {
        writeError(w, appErrors.NewAuthentication(""))
    }
    return ownerID, ok
}

func (c *CustomerController) now() time.Time {
    if c.Now != nil {
        return c.Now()
    }
    return time.Now()
}

func customerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
    id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
    if err != nil || id <= 0 {
        badRequest(w, "invalid customer id")
        return 0, false
    }
    return id, true
}
