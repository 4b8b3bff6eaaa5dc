// SPDX-License-Identifier: MIT

// Package report renders a ranking.Result as JSON, CSV, YAML or CBOR and
// writes the renderings to an output directory without leaving partial files.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/spectrank/ranking"
)

// Format is one rendering of a Result.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
	YAML Format = "yaml"
	CBOR Format = "cbor"
)

// BaseName is the file name stem of every rendering.
const BaseName = "ranking_results"

// CSVHeader is the column layout of the CSV rendering.
var CSVHeader = []string{"method", "theta_hat", "rank", "ci_two_left", "ci_two_right", "ci_left", "ci_uniform_left"}

var (
	// ErrUnknownFormat is returned for a format name outside json/csv/yaml/cbor.
	ErrUnknownFormat = errors.New("report: unknown format")

	// ErrNilResult is returned when there is nothing to render.
	ErrNilResult = errors.New("report: nil result")
)

var cborMode = mustCBORMode()

func mustCBORMode() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("report: cbor mode: %v", err))
	}

	return em
}

// ParseFormats maps names to Formats, dropping duplicates and keeping order.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool, len(names))
	out := make([]Format, 0, len(names))
	for _, n := range names {
		f := Format(n)
		switch f {
		case JSON, CSV, YAML, CBOR:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, n)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}

	return out, nil
}

// FileName returns the output file name of f.
func (f Format) FileName() string { return BaseName + "." + string(f) }

// Encode writes res to w in format f.
func Encode(w io.Writer, f Format, res *ranking.Result) error {
	if res == nil {
		return ErrNilResult
	}
	switch f {
	case JSON:
		return WriteJSON(w, res)
	case CSV:
		return WriteCSV(w, res)
	case YAML:
		return WriteYAML(w, res)
	case CBOR:
		return WriteCBOR(w, res)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// WriteJSON writes the payload indented by two spaces.
func WriteJSON(w io.Writer, res *ranking.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("report: json: %w", err)
	}

	return nil
}

// WriteCSV writes one row per competitor under CSVHeader. theta_hat uses the
// shortest representation that parses back to the same float64.
func WriteCSV(w io.Writer, res *ranking.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("report: csv: %w", err)
	}
	for _, m := range res.Methods {
		rec := []string{
			m.Name,
			strconv.FormatFloat(m.ThetaHat, 'g', -1, 64),
			strconv.Itoa(m.Rank),
			strconv.Itoa(m.CITwoSided[0]),
			strconv.Itoa(m.CITwoSided[1]),
			strconv.Itoa(m.CILeft),
			strconv.Itoa(m.CIUniformLeft),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("report: csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("report: csv: %w", err)
	}

	return nil
}

// WriteYAML writes the payload with two-space indentation.
func WriteYAML(w io.Writer, res *ranking.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("report: yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("report: yaml: %w", err)
	}

	return nil
}

// WriteCBOR writes the payload in deterministic CBOR, keyed by the JSON
// field names.
func WriteCBOR(w io.Writer, res *ranking.Result) error {
	if err := cborMode.NewEncoder(w).Encode(res); err != nil {
		return fmt.Errorf("report: cbor: %w", err)
	}

	return nil
}
