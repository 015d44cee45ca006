package export

import "time"

// Filename returns the attachment name for an export, e.g. customers_20261018_153000.csv.
func Filename(ext string, at time.Time) string {
	return "customers_" + at.Format("20060102_150405") + "." + ext
}
