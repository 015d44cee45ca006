// internal/service/validation.go
package service

import (
    "errors"
    "fmt"
    "reflect"
    "regexp"
    "strings"

    "github.com/go-playground/validator/v10"

    appErrors "github.com/unclebandit/crm-backend/internal/errors"
    "github.com/unclebandit/crm-backend/internal/model"
)

var (
    emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
    phonePattern = regexp.MustCompile(`^[0-9\s\-+()]+$`)

    validate = newValidator()
)

const bcryptMaxBytes = 72

func newValidator() *validator.Validate {
    v := validator.New(validator.WithRequiredStructEnabled())
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
        name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
        if name == "" || name == "-" {
            return f.Name
        }
        return name
    })
    _ = v.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
        return emailPattern.MatchString(fl.Field().String())
    })
    _ = v.RegisterValidation("contact_phone", func(fl validator.FieldLevel) bool {
        return phonePattern.MatchString(fl.Field().String())
    })
    // max counts runes; bcrypt rejects anything over 72 bytes.
    _ = v.RegisterValidation("bcrypt_len", func(fl validator.FieldLevel) bool {
        return len(fl.Field().String()) <= bcryptMaxBytes
    })
    return v
}

// NormalizeCustomerFields trims surrounding whitespace from every field and
// lower-cases the email, matching how user emails are stored.
func NormalizeCustomerFields(f model.CustomerFields) model.CustomerFields {
    return model.CustomerFields{
        FirstName: strings.TrimSpace(f.FirstName),
        LastName:  strings.TrimSpace(f.LastName),
        Email:     strings.ToLower(strings.TrimSpace(f.Email)),
        Phone:     strings.TrimSpace(f.Phone),
        Address:   strings.TrimSpace(f.Address),
    }
}

// ValidateCustomerFields returns a ValidationError naming every bad field.
func ValidateCustomerFields(f model.CustomerFields) error {
    return validateStruct(f)
}

func validateStruct(s any) error {
    err := validate.Struct(s)
    if err == nil {
        return nil
    }

    var verrs validator.ValidationErrors
    if !errors.As(err, &verrs) {
        return err
    }

    fields := make(map[string]string, len(verrs))
    for _, fe := range verrs {
        fields[fe.Field()] = describe(fe)
    }
    return appErrors.NewValidation(fields)
}

func describe(fe validator.FieldError) string {
    switch fe.Tag() {
    case "required":
        return "is required"
    case "min":
        return fmt.Sprintf("must be at least %s characters", fe.Param())
    case "max":
        return fmt.Sprintf("must be at most %s characters", fe.Param())
    case "contact_email":
        return "must be a valid email address"
    case "contact_phone":
        return "contains characters other than digits, spaces or - + ( )"
    case "bcrypt_len":
        return fmt.Sprintf("must be at most %d bytes", bcryptMaxBytes)
    default:
        return "is invalid"
    }
}
