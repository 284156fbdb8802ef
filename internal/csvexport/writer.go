package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lexbill/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (16 columns).
var columns = []string{
	"Item",
	"Date",
	"Tariff Code",
	"Description",
	"Category",
	"Quantity",
	"Unit",
	"Rate",
	"Amount (ex VAT)",
	"VAT",
	"Total",
	"Vouched",
	"Voucher Reference",
	"Allowed",
	"Taxation Risk",
	"Warnings",
}

// Writer wraps csv.Writer for exporting a bill of costs as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteBill converts the bill's computed lines to CSV rows and writes
// them, followed by a totals row.
func (w *Writer) WriteBill(bill *domain.Bill) error {
	for i := range bill.Results {
		var line *domain.BillLineItem
		if i < len(bill.Lines) {
			line = &bill.Lines[i]
		}
		if err := w.csv.Write(lineToRow(i+1, line, &bill.Results[i])); err != nil {
			return err
		}
	}
	totals := make([]string, len(columns))
	totals[3] = "TOTAL"
	totals[8] = bill.Totals.SubtotalFees.Add(bill.Totals.SubtotalDisbursements).Add(bill.Totals.SubtotalCounsel).StringFixed(2)
	totals[9] = bill.Totals.TotalVAT.StringFixed(2)
	totals[10] = bill.Totals.GrandTotal.StringFixed(2)
	return w.csv.Write(totals)
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// lineToRow converts one computed line to a 16-element string slice.
// line may be nil when the raw item is unavailable; computed columns
// are still filled from the result.
func lineToRow(position int, line *domain.BillLineItem, result *domain.ComputedLineResult) []string {
	row := make([]string, len(columns))

	row[0] = strconv.Itoa(position)
	row[2] = result.ItemCode
	row[3] = result.Label
	row[4] = string(result.Category)
	row[5] = result.Quantity.String()
	row[7] = result.RateApplied.StringFixed(2)
	row[8] = result.AmountExVAT.StringFixed(2)
	row[9] = result.VATAmount.StringFixed(2)
	row[10] = result.TotalAmount.StringFixed(2)
	row[13] = formatBool(result.Compliance.Allowed)
	row[14] = string(result.Compliance.Risk)
	row[15] = strings.Join(result.Warnings, "; ")

	if line != nil {
		row[1] = line.Date.Format("2006-01-02")
		row[6] = string(line.Unit)
		row[11] = formatBool(line.IsVouched)
		row[12] = line.VoucherReference
		if line.Narrative != "" {
			row[3] = line.Narrative
		}
	}
	return row
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a matter reference for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_matter_reference}_{YYYY-MM-DD}.csv
func BuildFilename(matterReference string) string {
	sanitized := SanitizeFilename(matterReference)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
