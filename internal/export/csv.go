// Package export renders customer lists as downloadable CSV and PDF files.
// Both generators are pure: they read the records they are given and return
// a fresh byte slice, touching no files or shared state.
package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/model"
)

const dateLayout = "2006-01-02 15:04:05"

var csvHeader = []string{"ID", "First Name", "Last Name", "Email", "Phone", "Address", "Date Created"}

// ToCSV writes a header row and one row per record, in input order. An empty
// input is an EmptyInputError rather than a header-only file.
func ToCSV(records []model.Customer) ([]byte, error) {
	if len(records) == 0 {
		return nil, appErrors.NewEmptyInput("csv export")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, c := range records {
		row := []string{
			strconv.FormatInt(c.ID, 10),
			c.FirstName,
			c.LastName,
			c.Email,
			c.Phone,
			c.Address,
			c.CreatedAt.Format(dateLayout),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
