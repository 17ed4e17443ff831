package analyzer

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/pdfextract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStatement = `ICICI Bank Statement                      Account: XXXX1234

S No.   Value Date   Transaction Date   Cheque Number   Transaction Remarks         Withdrawal Amount (INR)   Deposit Amount (INR)   Balance (INR)
1       01/04/2024   01/04/2024                         UPI/payment/grocery         1,200.00                  0.00                   45,800.00
2       03/04/2024   03/04/2024                         NEFT/salary/credit          0.00                      85,000.00              1,30,800.00

Closing balance as on 30/04/2024
\fPage two text without any tabular content
`

func withFakeInfo(t *testing.T, info pdfextract.Info, err error) {
	t.Helper()
	original := readInfo
	readInfo = func(path string, maxPages int) (pdfextract.Info, error) {
		return info, err
	}
	t.Cleanup(func() { readInfo = original })
}

func twoPageInfo() pdfextract.Info {
	return pdfextract.Info{
		NumPages: 4,
		Pages: []pdfextract.PageInfo{
			{Number: 1, Width: 595, Height: 842},
			{Number: 2, Width: 595, Height: 842},
		},
	}
}

func TestAnalyzeBuildsPreview(t *testing.T) {
	withFakeInfo(t, twoPageInfo(), nil)

	text := strings.ReplaceAll(sampleStatement, `\f`, "\f")
	a := New(pdfextract.NewMockExtractor(text, nil), nil)
	analysis := a.Analyze("statement.pdf")

	assert.Empty(t, analysis.Err)
	assert.Equal(t, 4, analysis.NumPages)
	require.Len(t, analysis.Pages, 2)

	first := analysis.Pages[0]
	assert.Equal(t, 1, first.PageNum)
	assert.InDelta(t, 595.0, first.Width, 1e-9)
	assert.InDelta(t, 842.0, first.Height, 1e-9)
	assert.Contains(t, first.Text, "ICICI Bank Statement")
	require.NotEmpty(t, first.Tables)

	// The header and the two transaction rows group into one table.
	table := first.Tables[0]
	require.GreaterOrEqual(t, len(table), 3)
	assert.Equal(t, "1", table[1][0])

	// Page two has prose only.
	assert.Empty(t, analysis.Pages[1].Tables)
	assert.Equal(t, len(first.Tables), analysis.TablesFound)
}

func TestAnalyzeTruncatesPageText(t *testing.T) {
	withFakeInfo(t, twoPageInfo(), nil)

	long := strings.Repeat("x", 5000)
	a := New(pdfextract.NewMockExtractor(long, nil), nil)
	analysis := a.Analyze("statement.pdf")

	require.NotEmpty(t, analysis.Pages)
	assert.Len(t, analysis.Pages[0].Text, 1000)
}

func TestAnalyzeUnreadableDocument(t *testing.T) {
	withFakeInfo(t, pdfextract.Info{}, errors.New("bad xref table"))

	a := New(pdfextract.NewMockExtractor("", nil), nil)
	analysis := a.Analyze("broken.pdf")

	assert.Contains(t, analysis.Err, "PDF analysis failed")
	assert.Zero(t, analysis.NumPages)
	assert.Empty(t, analysis.Pages)
}

func TestAnalyzeDegradedTextExtraction(t *testing.T) {
	withFakeInfo(t, twoPageInfo(), nil)

	a := New(pdfextract.NewMockExtractor("", errors.New("pdftotext not found")), nil)
	analysis := a.Analyze("statement.pdf")

	// Metadata survives even when text extraction fails.
	assert.Equal(t, 4, analysis.NumPages)
	assert.Contains(t, analysis.Err, "text extraction failed")
	require.Len(t, analysis.Pages, 2)
	assert.Empty(t, analysis.Pages[0].Text)
}

func TestSplitCells(t *testing.T) {
	cells := splitCells("  1    01/04/2024   UPI/payment   1,200.00 ")
	assert.Equal(t, []string{"1", "01/04/2024", "UPI/payment", "1,200.00"}, cells)

	assert.Nil(t, splitCells("   "))
	assert.Equal(t, []string{"single value"}, splitCells("single value"))
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	s := strings.Repeat("é", 10)

	got := truncate(s, 5)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "éé", got)

	assert.Equal(t, s, truncate(s, len(s)))
	assert.Equal(t, "abc", truncate("abcdef", 3))
}
