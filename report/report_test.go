// SPDX-License-Identifier: MIT

package report_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/spectrank/ranking"
	"github.com/katalvlaran/spectrank/report"
)

func sample() *ranking.Result {
	return &ranking.Result{
		JobID:  "job-7",
		Params: ranking.Params{BigBetter: false, B: 2000, Seed: 42},
		Methods: []ranking.Method{
			{Name: "A", ThetaHat: 1.2912, Rank: 1, CITwoSided: [2]int{1, 2}, CILeft: 1, CIUniformLeft: 1},
			{Name: "B", ThetaHat: 0.1, Rank: 2, CITwoSided: [2]int{1, 3}, CILeft: 1, CIUniformLeft: 1},
			{Name: "C", ThetaHat: -1.3912, Rank: 3, CITwoSided: [2]int{2, 3}, CILeft: 2, CIUniformLeft: 1},
		},
		Metadata: ranking.Metadata{NSamples: 3, KMethods: 3, RuntimeSec: 0.25},
	}
}

func TestParseFormats(t *testing.T) {
	got, err := report.ParseFormats([]string{"json", "csv", "json", "cbor"})
	require.NoError(t, err)
	assert.Equal(t, []report.Format{report.JSON, report.CSV, report.CBOR}, got)

	_, err = report.ParseFormats([]string{"xml"})
	require.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestWriteJSON_Keys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, sample()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "job-7", doc["job_id"])
	params := doc["params"].(map[string]any)
	assert.Equal(t, false, params["bigbetter"])
	assert.EqualValues(t, 2000, params["B"])
	methods := doc["methods"].([]any)
	require.Len(t, methods, 3)
	first := methods[0].(map[string]any)
	assert.Equal(t, []any{1.0, 2.0}, first["ci_two_sided"])
	assert.Contains(t, buf.String(), "\n  \"params\"", "two-space indent")
}

func TestWriteJSON_OmitsEmptyJobID(t *testing.T) {
	res := sample()
	res.JobID = ""
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, res))
	assert.NotContains(t, buf.String(), "job_id")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, sample()))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, report.CSVHeader, recs[0])
	assert.Equal(t, []string{"A", "1.2912", "1", "1", "2", "1", "1"}, recs[1])
	assert.Equal(t, []string{"C", "-1.3912", "3", "2", "3", "2", "1"}, recs[3])
}

func TestWriteYAMLAndCBOR_DecodeBack(t *testing.T) {
	want := sample()

	var y bytes.Buffer
	require.NoError(t, report.WriteYAML(&y, want))
	var fromYAML ranking.Result
	require.NoError(t, yaml.Unmarshal(y.Bytes(), &fromYAML))
	assert.Equal(t, *want, fromYAML)

	var c bytes.Buffer
	require.NoError(t, report.WriteCBOR(&c, want))
	var fromCBOR ranking.Result
	require.NoError(t, cbor.Unmarshal(c.Bytes(), &fromCBOR))
	assert.Equal(t, *want, fromCBOR)

	// Keys follow the JSON names.
	var generic map[string]any
	require.NoError(t, cbor.Unmarshal(c.Bytes(), &generic))
	assert.Contains(t, generic, "metadata")
}

func TestEncode_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, report.Encode(&buf, report.JSON, nil), report.ErrNilResult)
	assert.ErrorIs(t, report.Encode(&buf, report.Format("xml"), sample()), report.ErrUnknownFormat)
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "job-7", "out")
	formats := []report.Format{report.JSON, report.CSV, report.YAML, report.CBOR}

	paths, err := report.WriteFiles(dir, sample(), formats)
	require.NoError(t, err)
	require.Len(t, paths, 4)
	assert.Equal(t, filepath.Join(dir, "ranking_results.json"), paths[0])
	assert.Equal(t, filepath.Join(dir, "ranking_results.cbor"), paths[3])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4, "no temporary files left behind")
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), "."), e.Name())
	}

	body, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), strings.Join(report.CSVHeader, ",")))
}

// TestWriteFiles_RenameFailureRollsBack blocks the CSV target with a
// directory, so the JSON file already renamed into place must be removed.
func TestWriteFiles_RenameFailureRollsBack(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, report.CSV.FileName())
	require.NoError(t, os.MkdirAll(filepath.Join(blocker, "keep"), 0o755))

	_, err := report.WriteFiles(dir, sample(), []report.Format{report.JSON, report.CSV, report.YAML})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rename")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, report.CSV.FileName(), entries[0].Name())
}

func TestWriteFiles_UnknownFormatLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	_, err := report.WriteFiles(dir, sample(), []report.Format{report.JSON, "xml"})
	require.ErrorIs(t, err, report.ErrUnknownFormat)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
