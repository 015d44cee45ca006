package service_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/service"
)

func TestValidateCustomerFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *model.CustomerFields)
		invalid []string
	}{
		{"valid", func(f *model.CustomerFields) {}, nil},
		{"phone with punctuation", func(f *model.CustomerFields) { f.Phone = "+1 (555) 010-0101" }, nil},
		{"first name too short", func(f *model.CustomerFields) { f.FirstName = "J" }, []string{"first_name"}},
		{"last name too long", func(f *model.CustomerFields) { f.LastName = strings.Repeat("a", 101) }, []string{"last_name"}},
		{"email without domain dot", func(f *model.CustomerFields) { f.Email = "jo@x" }, []string{"email"}},
		{"email with space", func(f *model.CustomerFields) { f.Email = "j o@x.com" }, []string{"email"}},
		{"email too long", func(f *model.CustomerFields) { f.Email = strings.Repeat("a", 250) + "@x.com" }, []string{"email"}},
		{"phone with letters", func(f *model.CustomerFields) { f.Phone = "555-CALL" }, []string{"phone"}},
		{"address too long", func(f *model.CustomerFields) { f.Address = strings.Repeat("a", 501) }, []string{"address"}},
		{"everything missing", func(f *model.CustomerFields) { *f = model.CustomerFields{} },
			[]string{"first_name", "last_name", "email", "phone", "address"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := validFields("jo@x.com")
			tc.mutate(&f)

			err := service.ValidateCustomerFields(f)
			if tc.invalid == nil {
				assert.NoError(t, err)
				return
			}

			var verr *appErrors.ValidationError
			if assert.True(t, errors.As(err, &verr)) {
				assert.Len(t, verr.Fields, len(tc.invalid))
				for _, field := range tc.invalid {
					assert.Contains(t, verr.Fields, field)
				}
			}
		})
	}
}

func TestNormalizeCustomerFields_TrimsBeforeLengthChecks(t *testing.T) {
	f := validFields("  jo@x.com  ")
	f.FirstName = "   J   "

	err := service.ValidateCustomerFields(service.NormalizeCustomerFields(f))

	var verr *appErrors.ValidationError
	if assert.True(t, errors.As(err, &verr)) {
		assert.Equal(t, map[string]string{"first_name": "must be at least 2 characters"}, verr.Fields)
	}
}
