// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/spectrank/ranking"
)

const scenarioCSV = `case_num,model,A,B,C
1,m1,1,2,3
2,m1,2,1,3
3,m2,1,3,2
`

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scores.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestRun_WritesResults(t *testing.T) {
	csvPath := writeCSV(t, scenarioCSV)
	out := filepath.Join(t.TempDir(), "job-42", "results")
	metricsPath := filepath.Join(t.TempDir(), "spectrank.prom")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"--csv", csvPath, "--bigbetter", "0", "--B", "50", "--seed", "7",
		"--out", out, "--format", "json,csv,yaml", "--metrics-file", metricsPath,
	}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	for _, name := range []string{"ranking_results.json", "ranking_results.csv", "ranking_results.yaml"} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.Contains(t, stdout.String(), filepath.Join(out, "ranking_results.json"))

	body, err := os.ReadFile(filepath.Join(out, "ranking_results.json"))
	require.NoError(t, err)
	var res ranking.Result
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "job-42", res.JobID)
	assert.False(t, res.Params.BigBetter)
	assert.Equal(t, 50, res.Params.B)
	assert.EqualValues(t, 7, res.Params.Seed)
	require.Len(t, res.Methods, 3)
	for i, want := range []string{"A", "B", "C"} {
		assert.Equal(t, want, res.Methods[i].Name)
		assert.Equal(t, i+1, res.Methods[i].Rank)
	}
	assert.Equal(t, 3, res.Metadata.NSamples)
	assert.Equal(t, 3, res.Metadata.KMethods)

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "spectrank_runs_total")
	assert.Contains(t, string(prom), `status="ok"`)
	assert.Contains(t, string(prom), `spectrank_stage_duration_seconds_count{stage="bootstrap"} 1`)
}

func TestRun_ExplicitJobID(t *testing.T) {
	csvPath := writeCSV(t, scenarioCSV)
	out := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"--csv", csvPath, "--B", "10", "--out", out, "--job-id", "nightly", "--format", "json",
	}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	body, err := os.ReadFile(filepath.Join(out, "ranking_results.json"))
	require.NoError(t, err)
	var res ranking.Result
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "nightly", res.JobID)
	assert.True(t, res.Params.BigBetter)
	assert.NoFileExists(t, filepath.Join(out, "ranking_results.csv"))
}

func TestRun_Failures(t *testing.T) {
	good := writeCSV(t, scenarioCSV)
	single := writeCSV(t, "model,A\nm,1\nm,2\n")
	disconnected := writeCSV(t, "A,B,C,D\n1,2,,\n,,3,4\n")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"missing csv", []string{"--out", "x"}, exitUsage, "missing required --csv"},
		{"missing out", []string{"--csv", good}, exitUsage, "missing required --out"},
		{"bad bigbetter", []string{"--csv", good, "--out", "x", "--bigbetter", "2"}, exitUsage, "--bigbetter must be 0 or 1"},
		{"unknown flag", []string{"--csv", good, "--out", "x", "--nope"}, exitUsage, "error:"},
		{"zero replicates", []string{"--csv", good, "--out", "x", "--B", "0"}, exitFailure, "error: ParameterRangeError"},
		{"negative seed", []string{"--csv", good, "--out", "x", "--seed", "-1"}, exitFailure, "error: ParameterRangeError"},
		{"single competitor", []string{"--csv", single, "--out", "x"}, exitFailure, "error: InputShapeError"},
		{"disconnected", []string{"--csv", disconnected, "--out", "x", "--B", "10"}, exitFailure, "error: DisconnectedComparisonGraphError"},
		{"missing file", []string{"--csv", filepath.Join(t.TempDir(), "absent.csv"), "--out", "x"}, exitFailure, "error:"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out")
			args := append([]string(nil), tc.args...)
			for i := range args {
				if args[i] == "x" {
					args[i] = out
				}
			}
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), args, &stdout, &stderr)
			assert.Equal(t, tc.wantCode, code)
			assert.Contains(t, stderr.String(), tc.wantErr)
			assert.NoDirExists(t, out, "no output on failure")
		})
	}
}

func TestDefaultJobID(t *testing.T) {
	assert.Equal(t, "job-1", defaultJobID(filepath.Join("runs", "job-1", "out")))
	sep := string(filepath.Separator)
	assert.Equal(t, "out", defaultJobID(filepath.Join("runs", "job-1", "out")+sep), "a trailing separator names the output directory itself")
	assert.Equal(t, "job42", defaultJobID("runs"+sep+"job42"+sep))
	assert.Equal(t, "job42", defaultJobID("runs"+sep+"job42"+sep+sep))
	assert.Len(t, defaultJobID("out"), 36, "no parent falls back to a UUID")
}
