// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/katalvlaran/spectrank/ranking"
)

// WriteFiles renders res in every format into dir (created if missing) and
// returns the written paths in format order.
//
// Each rendering goes to a temporary file first; the files are renamed into
// place only after all renderings succeeded. A failed rename removes the
// files already renamed, so a failure leaves no partial output behind.
func WriteFiles(dir string, res *ranking.Result, formats []Format) ([]string, error) {
	if res == nil {
		return nil, ErrNilResult
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("report: create %s: %w", dir, err)
	}

	temps := make([]string, 0, len(formats))
	cleanup := func() {
		for _, t := range temps {
			_ = os.Remove(t)
		}
	}
	for _, f := range formats {
		tmp, err := writeTemp(dir, f, res)
		if err != nil {
			cleanup()
			return nil, err
		}
		temps = append(temps, tmp)
	}

	paths := make([]string, len(formats))
	for i, f := range formats {
		paths[i] = filepath.Join(dir, f.FileName())
		if err := os.Rename(temps[i], paths[i]); err != nil {
			temps = append(temps[i:], paths[:i]...)
			cleanup()
			return nil, fmt.Errorf("report: rename %s: %w", paths[i], err)
		}
	}

	return paths, nil
}

func writeTemp(dir string, f Format, res *ranking.Result) (string, error) {
	tmp, err := os.CreateTemp(dir, "."+BaseName+"-*."+string(f))
	if err != nil {
		return "", fmt.Errorf("report: temp file: %w", err)
	}
	name := tmp.Name()
	if err = Encode(tmp, f, res); err != nil {
		tmp.Close()
		os.Remove(name)
		return "", err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("report: close %s: %w", name, err)
	}
	if err = os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("report: chmod %s: %w", name, err)
	}

	return name, nil
}
