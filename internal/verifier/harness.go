package verifier

import (
	"fmt"
	"strings"
	"text/template"
)

// resultFileName is where the scratch program leaves the parsed table for
// the comparison step.
const resultFileName = "result.csv"

// The check program is rendered into the scratch directory next to the
// generated parser code and compiled together with it. It must stay
// dependency-free so `go run` works without network access; PDF text comes
// from the pdftotext tool, same as the agent's own extractor. The program
// only runs the parser and dumps its table as CSV — the comparison against
// the reference happens back in this package.
const harnessTemplate = `package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
)

var pdfPath = {{printf "%q" .PDFPath}}

// Table is the tabular result type the generated parser must return.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ExtractText returns layout-preserved text for the PDF, pages separated by
// form feeds. Provided to the generated parser.
func ExtractText(pdfPath string) (string, error) {
	tempFile := pdfPath + ".txt"
	cmd := exec.Command("pdftotext", "-layout", pdfPath, tempFile)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running pdftotext: %w", err)
	}
	output, err := os.ReadFile(tempFile)
	if err != nil {
		return "", fmt.Errorf("error reading extracted text: %w", err)
	}
	if err := os.Remove(tempFile); err != nil {
		return "", fmt.Errorf("error removing temporary text file: %w", err)
	}
	return string(output), nil
}

func main() {
	got, err := Parse(pdfPath)
	if err != nil {
		fail("Parse returned error: %v", err)
	}

	if err := writeResult(got); err != nil {
		fail("failed to write parsed table: %v", err)
	}

	fmt.Printf("OK: parsed %d rows\n", len(got.Rows))
}

func fail(format string, args ...interface{}) {
	fmt.Printf("FAIL: "+format+"\n", args...)
	os.Exit(1)
}

func writeResult(t Table) error {
	file, err := os.Create("result.csv")
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
`

var harnessTmpl = template.Must(template.New("harness").Parse(harnessTemplate))

// renderHarness produces the check program source for the given sample PDF.
func renderHarness(pdfPath string) (string, error) {
	var b strings.Builder
	err := harnessTmpl.Execute(&b, struct {
		PDFPath string
	}{PDFPath: pdfPath})
	if err != nil {
		return "", fmt.Errorf("failed to render check program: %w", err)
	}
	return b.String(), nil
}
