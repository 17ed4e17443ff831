package verifier

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Table is a tabular result: a header row plus data rows, all strings.
// The generated parser produces one inside the scratch process and hands
// it back as CSV; the reference file loads into the same shape.
type Table struct {
	Columns []string
	Rows    [][]string
}

// LoadCSVTable reads a CSV file into a Table, first record as header.
func LoadCSVTable(path string) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, err
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("CSV file %s is empty", path)
	}
	return Table{Columns: records[0], Rows: records[1:]}, nil
}

// CompareTables requires identical column names in order, identical row
// counts, and cell equality tolerant of numeric formatting differences but
// not of value differences. When both tables carry Debit and Credit
// columns, a derived net amount (credit minus debit, blanks as zero) must
// also match per row; the original columns still participate in the
// comparison.
func CompareTables(got, want Table) error {
	if len(got.Columns) != len(want.Columns) {
		return fmt.Errorf("column count mismatch: got %d, want %d (got columns: %v)",
			len(got.Columns), len(want.Columns), got.Columns)
	}
	for i := range want.Columns {
		if got.Columns[i] != want.Columns[i] {
			return fmt.Errorf("column %d mismatch: got %q, want %q", i, got.Columns[i], want.Columns[i])
		}
	}
	if len(got.Rows) != len(want.Rows) {
		return fmt.Errorf("row count mismatch: got %d, want %d", len(got.Rows), len(want.Rows))
	}
	for i := range want.Rows {
		if len(got.Rows[i]) != len(want.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(got.Rows[i]), len(want.Columns))
		}
		for j := range want.Columns {
			if !cellsEqual(got.Rows[i][j], want.Rows[i][j]) {
				return fmt.Errorf("value mismatch at row %d column %q: got %q, want %q",
					i, want.Columns[j], got.Rows[i][j], want.Rows[i][j])
			}
		}
	}

	wd, wc := columnIndex(want.Columns, "Debit"), columnIndex(want.Columns, "Credit")
	gd, gc := columnIndex(got.Columns, "Debit"), columnIndex(got.Columns, "Credit")
	if wd >= 0 && wc >= 0 && gd >= 0 && gc >= 0 {
		for i := range want.Rows {
			wantNet := parseAmount(want.Rows[i][wc]) - parseAmount(want.Rows[i][wd])
			gotNet := parseAmount(got.Rows[i][gc]) - parseAmount(got.Rows[i][gd])
			if !floatsEqual(wantNet, gotNet) {
				return fmt.Errorf("net amount mismatch at row %d: got %v, want %v", i, gotNet, wantNet)
			}
		}
	}

	return nil
}

func columnIndex(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}

// cellsEqual tolerates numeric formatting differences ("100" vs "100.0",
// grouping commas) but nothing else.
func cellsEqual(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == b {
		return true
	}
	af, aerr := strconv.ParseFloat(strings.ReplaceAll(a, ",", ""), 64)
	bf, berr := strconv.ParseFloat(strings.ReplaceAll(b, ",", ""), 64)
	return aerr == nil && berr == nil && floatsEqual(af, bf)
}

// parseAmount maps blank or non-numeric cells to zero.
func parseAmount(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func floatsEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
