// Package iciciparser parses ICICI bank statement PDFs into transaction
// records and writes them as CSV. It is the reference parser the agent's
// generated parsers are expected to reproduce.
package iciciparser

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/logging"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/pdfextract"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// Transaction represents a single row of an ICICI statement.
// It uses struct tags for gocsv marshaling.
type Transaction struct {
	SerialNumber       string `csv:"S No."`
	ValueDate          string `csv:"Value Date"`
	TransactionDate    string `csv:"Transaction Date"`
	ChequeNumber       string `csv:"Cheque Number"`
	TransactionRemarks string `csv:"Transaction Remarks"`
	WithdrawalAmount   string `csv:"Withdrawal Amount (INR)"`
	DepositAmount      string `csv:"Deposit Amount (INR)"`
	Balance            string `csv:"Balance (INR)"`
}

const minCells = 8

var (
	// Statement dates are DD/MM/YYYY; a data row carries one in its second cell.
	datePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)
	cellSplit   = regexp.MustCompile(` {2,}`)
	nonNumeric  = regexp.MustCompile(`[^\d.-]`)

	headerKeys = []string{"S No.", "Value Date", "Transaction Date"}
)

// Parse extracts ICICI transactions from a PDF using the given extractor.
// Rows that do not look like transactions (headers, summaries, overflow
// lines) are skipped. A statement with no recognizable rows yields an
// empty slice, not an error.
func Parse(pdfPath string, extractor pdfextract.Extractor, logger logging.Logger) ([]Transaction, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	logger.Info("Parsing ICICI statement PDF",
		logging.Field{Key: logging.FieldFile, Value: pdfPath})

	text, err := extractor.ExtractText(pdfPath)
	if err != nil {
		logger.WithError(err).Error("Failed to extract text from PDF")
		return nil, fmt.Errorf("error extracting text from PDF: %w", err)
	}

	var transactions []Transaction
	for _, page := range pdfextract.SplitPages(text) {
		for _, line := range strings.Split(page, "\n") {
			cells := splitCells(line)
			if !isTransactionRow(cells) {
				continue
			}
			transactions = append(transactions, rowToTransaction(cells))
		}
	}

	if len(transactions) == 0 {
		logger.Warn("No transactions extracted from statement",
			logging.Field{Key: logging.FieldFile, Value: pdfPath})
	} else {
		logger.Info("Successfully parsed ICICI statement",
			logging.Field{Key: "count", Value: len(transactions)})
	}
	return transactions, nil
}

// ParseFile parses an ICICI statement PDF using the real pdftotext-backed
// extractor. This is the main entry point for parsing statement files.
func ParseFile(pdfPath string, logger logging.Logger) ([]Transaction, error) {
	return Parse(pdfPath, &pdfextract.RealExtractor{}, logger)
}

// WriteCSVFile writes transactions to a CSV file in the reference layout.
func WriteCSVFile(filePath string, transactions []Transaction, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	f, err := os.Create(filePath)
	if err != nil {
		logger.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.WithError(cerr).Warn("Failed to close CSV file")
		}
	}()

	if err := gocsv.Marshal(&transactions, f); err != nil {
		logger.WithError(err).Error("Failed to write CSV file")
		return fmt.Errorf("error writing CSV: %w", err)
	}

	logger.Info("Wrote transactions to CSV",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: "count", Value: len(transactions)})
	return nil
}

// isTransactionRow reports whether a split line is a statement data row:
// at least eight cells, not a header, and a DD/MM/YYYY value date in the
// second cell.
func isTransactionRow(cells []string) bool {
	if len(cells) < minCells {
		return false
	}
	for _, hk := range headerKeys {
		if strings.Contains(cells[0], hk) {
			return false
		}
	}
	return datePattern.MatchString(cells[1])
}

func rowToTransaction(cells []string) Transaction {
	// Overflow cells beyond the expected eight belong to the remarks
	// column, which pdftotext sometimes splits on internal spacing.
	// The three amount columns are always the rightmost cells.
	tail := cells[len(cells)-3:]
	remarks := strings.Join(cells[4:len(cells)-3], " ")

	return Transaction{
		SerialNumber:       cells[0],
		ValueDate:          cells[1],
		TransactionDate:    cells[2],
		ChequeNumber:       cells[3],
		TransactionRemarks: remarks,
		WithdrawalAmount:   normalizeAmount(tail[0]),
		DepositAmount:      normalizeAmount(tail[1]),
		Balance:            normalizeAmount(tail[2]),
	}
}

// normalizeAmount strips grouping commas and currency symbols, mapping
// blank or unparseable cells to "0".
func normalizeAmount(raw string) string {
	cleaned := nonNumeric.ReplaceAllString(raw, "")
	if cleaned == "" {
		return "0"
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return "0"
	}
	return amount.String()
}

func splitCells(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	return cellSplit.Split(line, -1)
}
