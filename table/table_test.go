// SPDX-License-Identifier: MIT

package table_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/spectrank/table"
)

func TestReadCSV_DropsMetadataAndText(t *testing.T) {
	in := "\ufeffcase_num,model,A,notes,B,C\n" +
		"1,m1,0.5,fast,0.7,NA\n" +
		"2,m1,,slow,0.1,0.3\n"
	tbl, err := table.ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, tbl.Competitors)
	require.Equal(t, 2, tbl.N())
	assert.Equal(t, 3, tbl.K())
	assert.Equal(t, 0.5, tbl.Rows[0][0])
	assert.True(t, math.IsNaN(tbl.Rows[0][2]), "NA reads as missing")
	assert.True(t, math.IsNaN(tbl.Rows[1][0]), "blank reads as missing")
	assert.Equal(t, 0.3, tbl.Rows[1][2])
}

func TestReadCSV_BOMOnMetadataHeader(t *testing.T) {
	tbl, err := table.ReadCSV(strings.NewReader("\ufeffcase_num,A,B\n1,1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, tbl.Competitors)
}

func TestReadCSV_CustomDropList(t *testing.T) {
	in := "case_num,A,B\n1,1,2\n2,3,4\n"
	tbl, err := table.ReadCSV(strings.NewReader(in), table.WithDropColumns("A"))
	require.NoError(t, err)
	assert.Equal(t, []string{"case_num", "B"}, tbl.Competitors)
}

func TestReadCSV_MissingTokens(t *testing.T) {
	in := "A,B\nnan,1\nNULL,2\n#N/A,3\n None ,4\n5,n/a\n"
	tbl, err := table.ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		assert.True(t, math.IsNaN(tbl.Rows[i][0]), "row %d", i)
	}
	assert.Equal(t, 5.0, tbl.Rows[4][0])
	assert.True(t, math.IsNaN(tbl.Rows[4][1]))
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"empty input", "", table.ErrNoHeader},
		{"one competitor", "model,A\nx,1\n", table.ErrTooFewCompetitors},
		{"no rows", "A,B\n", table.ErrEmptyTable},
		{"duplicate ids", "A,A\n1,2\n", table.ErrDuplicateCompetitor},
		{"ragged", "A,B\n1,2\n3\n", table.ErrRaggedRow},
		{"infinite", "A,B\n1,Inf\n", table.ErrNonFinite},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := table.ReadCSV(strings.NewReader(tc.in))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.csv")
	require.NoError(t, os.WriteFile(path, []byte("A,B\n1,2\n"), 0o600))

	tbl, err := table.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}}, tbl.Rows)

	_, err = table.ReadFile(filepath.Join(t.TempDir(), "absent.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestNew_Validates(t *testing.T) {
	_, err := table.New([]string{"A", "B"}, [][]float64{{1, 2, 3}})
	require.ErrorIs(t, err, table.ErrRaggedRow)

	_, err = table.New([]string{"A", "B"}, [][]float64{{1, math.Inf(-1)}})
	require.ErrorIs(t, err, table.ErrNonFinite)

	tbl, err := table.New([]string{"A", "B"}, [][]float64{{1, math.NaN()}})
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.N())
}

func TestNegated(t *testing.T) {
	tbl, err := table.New([]string{"A", "B"}, [][]float64{{1, math.NaN()}, {-2, 0.5}})
	require.NoError(t, err)

	neg := tbl.Negated()
	assert.Equal(t, tbl.Competitors, neg.Competitors)
	assert.Equal(t, -1.0, neg.Rows[0][0])
	assert.True(t, math.IsNaN(neg.Rows[0][1]))
	assert.Equal(t, []float64{2, -0.5}, neg.Rows[1])
	assert.Equal(t, 1.0, tbl.Rows[0][0], "source untouched")
}
