// Package analyzer builds a bounded preview of a sample statement PDF.
// The preview enriches generation prompts; it is never a full extraction.
package analyzer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/logging"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/pdfextract"
)

const (
	// maxPages bounds the preview to the first pages for cost control.
	maxPages = 2
	// maxPageText bounds the sampled text per page.
	maxPageText = 1000
	// maxTablesPerPage bounds how many tables per page count toward the preview.
	maxTablesPerPage = 2
	// minTableCells is the minimum cell count for a line to qualify as a table row.
	minTableCells = 3
)

var cellSeparator = regexp.MustCompile(` {2,}`)

// readInfo is a variable so tests can substitute document metadata.
var readInfo = pdfextract.ReadInfo

// PageSample is the bounded preview of a single page.
type PageSample struct {
	PageNum int
	Text    string
	Tables  [][][]string
	Width   float64
	Height  float64
}

// Analysis is the result of analyzing a document. A failed analysis carries
// an error message in Err instead of failing the caller, so downstream
// prompt construction can proceed with degraded context.
type Analysis struct {
	NumPages    int
	TablesFound int
	Pages       []PageSample
	Err         string
}

// Analyzer extracts document previews.
type Analyzer struct {
	extractor pdfextract.Extractor
	log       logging.Logger
}

// New creates an Analyzer. A nil extractor falls back to the production
// pdftotext-based extractor.
func New(extractor pdfextract.Extractor, log logging.Logger) *Analyzer {
	if extractor == nil {
		extractor = pdfextract.NewRealExtractor()
	}
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}
	return &Analyzer{extractor: extractor, log: log}
}

// Analyze builds the preview for the document at path. It never returns an
// error: extraction failures are reported through the Err field.
func (a *Analyzer) Analyze(path string) Analysis {
	var analysis Analysis

	info, err := readInfo(path, maxPages)
	if err != nil {
		a.log.WithError(err).Warn("document analysis failed",
			logging.Field{Key: logging.FieldFile, Value: path})
		analysis.Err = fmt.Sprintf("PDF analysis failed: %v", err)
		return analysis
	}
	analysis.NumPages = info.NumPages

	text, err := a.extractor.ExtractText(path)
	if err != nil {
		// Metadata is still usable; record the degraded text extraction.
		a.log.WithError(err).Warn("text extraction failed, preview degraded",
			logging.Field{Key: logging.FieldFile, Value: path})
		analysis.Err = fmt.Sprintf("text extraction failed: %v", err)
	}

	pages := pdfextract.SplitPages(text)
	for i := 0; i < maxPages && i < len(info.Pages); i++ {
		sample := PageSample{
			PageNum: i + 1,
			Width:   info.Pages[i].Width,
			Height:  info.Pages[i].Height,
		}
		if i < len(pages) {
			sample.Text = truncate(pages[i], maxPageText)
			sample.Tables = extractTables(pages[i])
		}
		if len(sample.Tables) > maxTablesPerPage {
			sample.Tables = sample.Tables[:maxTablesPerPage]
		}
		analysis.TablesFound += len(sample.Tables)
		analysis.Pages = append(analysis.Pages, sample)
	}

	a.log.Debug("document analyzed",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: "pages", Value: analysis.NumPages},
		logging.Field{Key: "tables", Value: analysis.TablesFound})

	return analysis
}

// extractTables finds table-like regions in layout-preserved page text.
// A line split on runs of two or more spaces into at least minTableCells
// cells counts as a table row; consecutive rows form one table.
func extractTables(pageText string) [][][]string {
	var tables [][][]string
	var current [][]string

	flush := func() {
		if len(current) > 0 {
			tables = append(tables, current)
			current = nil
		}
	}

	for _, line := range strings.Split(pageText, "\n") {
		cells := splitCells(line)
		if len(cells) >= minTableCells {
			current = append(current, cells)
			continue
		}
		flush()
	}
	flush()

	return tables
}

// splitCells splits a layout-text line into cells on runs of 2+ spaces.
func splitCells(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	return cellSeparator.Split(trimmed, -1)
}

// truncate cuts s to at most n bytes, backing up to a rune boundary so the
// result stays valid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
