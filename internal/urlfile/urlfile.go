// Package urlfile reads the batch input: a CSV whose "urls" column lists
// the pages to audit.
// Implements: prd001-ingestion (R1-R3);
//
//	docs/ARCHITECTURE § Ingestion.
package urlfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column is the required CSV column name. The match is exact.
const Column = "urls"

// Read loads the URL list from the CSV at path. Row values are kept
// verbatim; rows whose value is empty or whitespace-only are dropped, and
// the survivors are indexed sequentially from 0 (R2.1, R2.2).
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	urls, err := ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return urls, nil
}

// ReadFrom parses CSV content from r. See Read for the cleaning rules.
func ReadFrom(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	// Rows may be ragged; only the urls column matters.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("the CSV file appears to be empty")
	}
	if err != nil {
		return nil, fmt.Errorf("parsing CSV header: %w", err)
	}

	col := -1
	for i, name := range header {
		if name == Column {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, fmt.Errorf("the CSV file must contain a column named exactly '%s'", Column)
	}

	var urls []string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing CSV row: %w", err)
		}
		if col >= len(row) {
			continue
		}
		if value := row[col]; strings.TrimSpace(value) != "" {
			urls = append(urls, value)
		}
	}

	if len(urls) == 0 {
		return nil, errors.New("no valid URLs found after cleaning")
	}
	return urls, nil
}
