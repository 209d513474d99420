package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is an uploaded file flattened into memory. Headers are normalized
// and hold first-seen order across sheets; each row maps normalized header
// to the raw cell text.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

func (t *Table) Empty() bool { return len(t.Rows) == 0 }

// ReadTable parses a CSV or XLSX upload. For workbooks, every sheet with at
// least one non-blank data row is kept and concatenated in sheet order.
func ReadTable(filename string, r io.Reader) (*Table, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return readCSV(r)
	}
	return readXLSX(r)
}

func readCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	t := &Table{}
	if len(records) == 0 {
		return t, nil
	}
	headers := normalizeHeaders(records[0])
	t.Headers = headers
	for _, rec := range records[1:] {
		if row, ok := buildRow(headers, rec); ok {
			t.Rows = append(t.Rows, row)
		}
	}
	return t, nil
}

func readXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	t := &Table{}
	seen := map[string]bool{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if len(rows) < 2 {
			continue
		}
		headers := normalizeHeaders(rows[0])
		var kept []map[string]string
		for _, rec := range rows[1:] {
			if row, ok := buildRow(headers, rec); ok {
				kept = append(kept, row)
			}
		}
		if len(kept) == 0 {
			continue
		}
		for _, h := range headers {
			if !seen[h] {
				seen[h] = true
				t.Headers = append(t.Headers, h)
			}
		}
		t.Rows = append(t.Rows, kept...)
	}
	return t, nil
}

func normalizeHeaders(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		out[i] = NormalizeHeader(h)
	}
	return out
}

// buildRow pairs cells with headers; short records are padded with blanks.
// Rows whose every cell is blank are dropped.
func buildRow(headers []string, rec []string) (map[string]string, bool) {
	row := make(map[string]string, len(headers))
	blank := true
	for i, h := range headers {
		if h == "" {
			continue
		}
		var v string
		if i < len(rec) {
			v = rec[i]
		}
		row[h] = v
		if strings.TrimSpace(v) != "" {
			blank = false
		}
	}
	return row, !blank
}
