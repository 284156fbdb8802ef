// Command seedtariffs converts a gazette tariff Excel workbook into a
// SQL seed file. Each sheet holds one published tariff version: a
// header block (court type, scale, effective dates, gazette reference)
// followed by the item table.
// Usage: go run ./cmd/seedtariffs tariffs.xlsx
// Output: db/seeds/tariff_schedules.sql
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Items start at this row index; rows above it are the header block
// and the column header row.
const itemStartRow = 6

type versionEntry struct {
	id            uuid.UUID
	courtType     string
	scale         string
	effectiveFrom string
	effectiveTo   string // empty = NULL
	gazetteRef    string
	items         []itemEntry
}

type itemEntry struct {
	code        string
	label       string
	description string
	rate        string
	unit        string
	minUnits    string // empty = NULL
	maxUnits    string // empty = NULL
	capAmount   string // empty = NULL
	vat         bool
	category    string
	subcategory string
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: seedtariffs <gazette.xlsx>")
	}
	xlsxPath := os.Args[1]
	outPath := "db/seeds/tariff_schedules.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var versions []versionEntry
	for _, sheet := range f.GetSheetList() {
		v, err := parseSheet(f, sheet)
		if err != nil {
			return fmt.Errorf("parse sheet %q: %w", sheet, err)
		}
		if v == nil {
			log.Printf("sheet %q: skipped (no header block)", sheet)
			continue
		}
		log.Printf("sheet %q: %s/%s effective %s, %d items",
			sheet, v.courtType, v.scale, v.effectiveFrom, len(v.items))
		versions = append(versions, *v)
	}
	if len(versions) == 0 {
		return fmt.Errorf("no tariff versions found in %s", xlsxPath)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	var b strings.Builder
	b.WriteString("-- Tariff schedule seed data generated from the gazette workbook.\n")
	fmt.Fprintf(&b, "-- %d versions.\n", len(versions))
	b.WriteString("BEGIN;\n\n")
	for i := range versions {
		writeVersion(&b, &versions[i])
	}
	b.WriteString("COMMIT;\n")

	if _, err := out.WriteString(b.String()); err != nil {
		return fmt.Errorf("write seed file: %w", err)
	}

	total := 0
	for i := range versions {
		total += len(versions[i].items)
	}
	log.Printf("Generated %d versions with %d items in %s", len(versions), total, outPath)
	return nil
}

// parseSheet reads one tariff version. Header block:
// A1/B1 court type, A2/B2 scale, A3/B3 effective from,
// A4/B4 effective to (blank for open-ended), A5/B5 gazette reference.
// Item rows start after the column header row. Columns:
// A=code, B=label, C=description, D=rate, E=unit, F=min units,
// G=max units, H=cap amount, I=vat (yes/no), J=category, K=subcategory.
func parseSheet(f *excelize.File, sheet string) (*versionEntry, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) <= itemStartRow {
		return nil, nil
	}

	v := versionEntry{
		id:            uuid.New(),
		courtType:     strings.TrimSpace(cellVal(rows, 0, 1)),
		scale:         strings.TrimSpace(cellVal(rows, 1, 1)),
		effectiveFrom: strings.TrimSpace(cellVal(rows, 2, 1)),
		effectiveTo:   strings.TrimSpace(cellVal(rows, 3, 1)),
		gazetteRef:    strings.TrimSpace(cellVal(rows, 4, 1)),
	}
	if v.courtType == "" || v.scale == "" || v.effectiveFrom == "" {
		return nil, nil
	}

	for i := itemStartRow; i < len(rows); i++ {
		code := strings.TrimSpace(cellVal(rows, i, 0))
		if code == "" {
			continue
		}
		rate := strings.TrimSpace(cellVal(rows, i, 3))
		if _, err := strconv.ParseFloat(rate, 64); err != nil {
			return nil, fmt.Errorf("row %d: bad rate %q", i+1, rate)
		}
		v.items = append(v.items, itemEntry{
			code:        code,
			label:       strings.TrimSpace(cellVal(rows, i, 1)),
			description: strings.TrimSpace(cellVal(rows, i, 2)),
			rate:        rate,
			unit:        strings.TrimSpace(cellVal(rows, i, 4)),
			minUnits:    strings.TrimSpace(cellVal(rows, i, 5)),
			maxUnits:    strings.TrimSpace(cellVal(rows, i, 6)),
			capAmount:   strings.TrimSpace(cellVal(rows, i, 7)),
			vat:         strings.EqualFold(strings.TrimSpace(cellVal(rows, i, 8)), "yes"),
			category:    strings.TrimSpace(cellVal(rows, i, 9)),
			subcategory: strings.TrimSpace(cellVal(rows, i, 10)),
		})
	}
	return &v, nil
}

func writeVersion(b *strings.Builder, v *versionEntry) {
	effectiveTo := "NULL"
	if v.effectiveTo != "" {
		effectiveTo = fmt.Sprintf("'%s'", escapeSQL(v.effectiveTo))
	}
	fmt.Fprintf(b, "INSERT INTO tariff_versions (id, court_type, scale, effective_from, effective_to, gazette_ref) VALUES\n")
	fmt.Fprintf(b, "  ('%s', '%s', '%s', '%s', %s, '%s')\nON CONFLICT (court_type, scale, effective_from) DO NOTHING;\n",
		v.id, escapeSQL(v.courtType), escapeSQL(v.scale),
		escapeSQL(v.effectiveFrom), effectiveTo, escapeSQL(v.gazetteRef))

	if len(v.items) == 0 {
		b.WriteString("\n")
		return
	}

	b.WriteString("INSERT INTO tariff_rate_items (version_id, item_code, label, description, rate, unit, minimum_units, maximum_units, cap_amount, vat_applicable, category, subcategory) VALUES\n")
	for i := range v.items {
		e := &v.items[i]
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(b, "  ('%s', '%s', '%s', '%s', %s, '%s', %s, %s, %s, %t, '%s', '%s')",
			v.id, escapeSQL(e.code), escapeSQL(e.label), escapeSQL(e.description),
			e.rate, escapeSQL(e.unit),
			numOrNull(e.minUnits), numOrNull(e.maxUnits), numOrNull(e.capAmount),
			e.vat, escapeSQL(e.category), escapeSQL(e.subcategory))
	}
	b.WriteString("\nON CONFLICT (version_id, item_code) DO NOTHING;\n\n")
}

func numOrNull(s string) string {
	if s == "" {
		return "NULL"
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return "NULL"
	}
	return s
}

func cellVal(rows [][]string, row, col int) string {
	if row < len(rows) && col < len(rows[row]) {
		return rows[row][col]
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
