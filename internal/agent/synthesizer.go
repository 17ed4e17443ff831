package agent

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/analyzer"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/llm"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/logging"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/schema"
)

const (
	// sampleRowCount is how many reference rows go into the prompt.
	sampleRowCount = 3
	// maxPromptPageText bounds the first-page text embedded in the prompt.
	maxPromptPageText = 800
)

// DocumentAnalyzer produces the bounded preview embedded in prompts.
type DocumentAnalyzer interface {
	Analyze(path string) analyzer.Analysis
}

// ParserSynthesizer builds generation prompts and turns model responses
// into candidate parser code.
type ParserSynthesizer struct {
	llm      llm.Client
	analyzer DocumentAnalyzer
	log      logging.Logger
}

// NewParserSynthesizer creates a ParserSynthesizer.
func NewParserSynthesizer(client llm.Client, docAnalyzer DocumentAnalyzer, log logging.Logger) *ParserSynthesizer {
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}
	return &ParserSynthesizer{
		llm:      client,
		analyzer: docAnalyzer,
		log:      log,
	}
}

// Synthesize produces candidate parser code for the session's target. A
// model failure is recovered locally: it logs and returns empty code so the
// loop can continue to its feedback path.
func (g *ParserSynthesizer) Synthesize(ctx context.Context, s *Session) string {
	expected, err := schema.Load(s.SampleCSVPath, sampleRowCount)
	sampleBlock := ""
	if err != nil {
		g.log.WithError(err).Warn("falling back to default schema",
			logging.Field{Key: logging.FieldFile, Value: s.SampleCSVPath})
		expected = schema.Default()
		sampleBlock = "Unable to load CSV sample"
	} else {
		sampleBlock = expected.SampleString()
	}

	analysis := g.analyzer.Analyze(s.SamplePDFPath)

	prompt := buildGenerationPrompt(s, expected, sampleBlock, analysis)

	response, err := g.llm.Generate(ctx, prompt)
	if err != nil {
		g.log.WithError(err).Warn("model generation failed",
			logging.Field{Key: logging.FieldProvider, Value: string(g.llm.Provider())},
			logging.Field{Key: logging.FieldIteration, Value: s.Iteration})
		return ""
	}

	return ExtractCodeBlock(response)
}

func buildGenerationPrompt(s *Session, expected schema.Schema, sampleBlock string, analysis analyzer.Analysis) string {
	iterationContext := ""
	if s.Iteration > 0 && s.ErrorFeedback != "" {
		iterationContext = fmt.Sprintf(`
PREVIOUS ATTEMPT FAILED. Error feedback:
%s
Please fix the issues mentioned above and try a different approach.
`, s.ErrorFeedback)
	}

	pdfContext := ""
	if len(analysis.Pages) > 0 {
		pdfContext = fmt.Sprintf(`
PDF analysis:
- Pages: %d
- Sample text from first page:
%s
Tables found: %d
`, analysis.NumPages, truncateText(analysis.Pages[0].Text, maxPromptPageText), analysis.TablesFound)
	} else if analysis.Err != "" {
		pdfContext = fmt.Sprintf("\nPDF analysis unavailable: %s\n", analysis.Err)
	}

	return fmt.Sprintf(`You are a Go coding expert. Generate a complete, working PDF statement parser for %s bank statements.
%s
REQUIREMENTS:
1. The file must start with a "package main" clause.
2. Define exactly this function: func Parse(pdfPath string) (Table, error)
3. These declarations already exist in the test harness. Use them, never redefine them:
   - type Table struct { Columns []string; Rows [][]string }
   - func ExtractText(pdfPath string) (string, error) // layout-preserved text, pages separated by form feeds
4. The returned Table must have exactly these columns, in this order: %s
5. Use only the Go standard library plus the predeclared helpers above. No third-party imports.
6. Handle errors gracefully: on unreadable input return an error, never panic.
7. Extract the transaction rows from the PDF text, including the amount columns.
%s
Expected CSV structure:
%s

CRITICAL: The returned Table MUST match the expected CSV schema exactly,
column names, column order, and cell values. The test harness compares them
structurally.
Generate ONLY the Go code for the parser file. Do not emit the harness.
Start with the package clause and imports, then define the Parse function.
Generate the complete working code now:`,
		strings.ToUpper(s.TargetBank),
		iterationContext,
		strings.Join(expected.Columns, ", "),
		pdfContext,
		sampleBlock)
}

// truncateText cuts s to at most n bytes, backing up to a rune boundary so
// the prompt stays valid UTF-8.
func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
