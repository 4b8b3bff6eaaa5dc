// SPDX-License-Identifier: MIT

package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultDropColumns are metadata columns removed before type detection.
var DefaultDropColumns = []string{"case_num", "model", "description"}

// missingTokens are cell spellings read as "missing" (the usual dataframe set).
var missingTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("table: missing header row")

const utf8BOM = "\ufeff"

// ReadOption customises ReadCSV.
type ReadOption func(*readOptions)

type readOptions struct {
	drop map[string]struct{}
}

// WithDropColumns replaces the metadata drop list.
func WithDropColumns(names ...string) ReadOption {
	return func(o *readOptions) {
		o.drop = make(map[string]struct{}, len(names))
		for _, n := range names {
			o.drop[normalizeHeader(n)] = struct{}{}
		}
	}
}

// ReadFile opens path and delegates to ReadCSV.
func ReadFile(path string, opts ...ReadOption) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("table: open %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f, opts...)
}

// ReadCSV parses a header-first CSV into a Table.
//
// Columns on the drop list go first; then every column holding a non-blank
// cell that does not parse as a float is treated as metadata and dropped.
// The surviving columns keep their file order. The result is validated
// (see Table.Validate).
func ReadCSV(r io.Reader, opts ...ReadOption) (*Table, error) {
	o := readOptions{}
	WithDropColumns(DefaultDropColumns...)(&o)
	for _, opt := range opts {
		opt(&o)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // width is checked below with a better message
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("table: read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	body := records[1:]
	for i, rec := range body {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d", ErrRaggedRow, i+2, len(rec), len(header))
		}
	}

	var (
		ids  []string
		cols []int
	)
	for j, h := range header {
		name := normalizeHeader(h)
		if _, skip := o.drop[name]; skip {
			continue
		}
		if !numericColumn(body, j) {
			continue
		}
		ids = append(ids, name)
		cols = append(cols, j)
	}

	rows := make([][]float64, len(body))
	for i, rec := range body {
		row := make([]float64, len(cols))
		for c, j := range cols {
			row[c] = parseCell(rec[j])
		}
		rows[i] = row
	}

	return New(ids, rows)
}

func normalizeHeader(h string) string {
	return norm.NFC.String(strings.TrimSpace(h))
}

func isMissing(cell string) bool {
	_, ok := missingTokens[strings.TrimSpace(cell)]
	return ok
}

func numericColumn(body [][]string, j int) bool {
	for _, rec := range body {
		if isMissing(rec[j]) {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(rec[j]), 64); err != nil {
			return false
		}
	}

	return true
}

// parseCell assumes numericColumn already accepted the column.
func parseCell(cell string) float64 {
	if isMissing(cell) {
		return math.NaN()
	}
	v, _ := strconv.ParseFloat(strings.TrimSpace(cell), 64)

	return v
}
