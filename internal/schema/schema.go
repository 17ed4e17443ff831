// Package schema derives the expected output schema from a reference CSV.
package schema

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Schema is the ordered column list of the reference file plus a small
// sample of its rows. It is read-only prompt context, rebuilt per iteration.
type Schema struct {
	Columns []string
	Sample  [][]string
}

// Default returns the fallback schema used when the reference file cannot
// be read.
func Default() Schema {
	return Schema{
		Columns: []string{"Date", "Description", "Debit", "Credit", "Balance"},
	}
}

// Load reads the reference CSV at path and returns its column names plus at
// most sampleRows data rows.
func Load(path string, sampleRows int) (Schema, error) {
	file, err := os.Open(path)
	if err != nil {
		return Schema{}, fmt.Errorf("error opening reference CSV: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Reference files occasionally carry ragged rows; keep what parses.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Schema{}, fmt.Errorf("error parsing reference CSV: %w", err)
	}
	if len(records) == 0 {
		return Schema{}, fmt.Errorf("reference CSV %s is empty", path)
	}

	s := Schema{Columns: records[0]}
	for _, row := range records[1:] {
		if len(s.Sample) >= sampleRows {
			break
		}
		s.Sample = append(s.Sample, row)
	}

	return s, nil
}

// SampleString renders the sample rows for inclusion in a prompt.
func (s Schema) SampleString() string {
	var b strings.Builder
	b.WriteString(strings.Join(s.Columns, " | "))
	for _, row := range s.Sample {
		b.WriteString("\n")
		b.WriteString(strings.Join(row, " | "))
	}
	return b.String()
}
