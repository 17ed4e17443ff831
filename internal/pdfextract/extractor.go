// Package pdfextract provides text and metadata extraction from PDF files.
package pdfextract

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Extractor defines the interface for extracting text from PDF files.
// This interface allows for dependency injection and makes callers testable
// by providing different implementations for production and testing.
type Extractor interface {
	// ExtractText extracts layout-preserved text content from a PDF file at
	// the given path. Pages are separated by form-feed characters.
	ExtractText(pdfPath string) (string, error)
}

// Define extractTextFromPDF as a variable holding a function so tests can
// replace the external tool invocation.
var extractTextFromPDF = func(pdfFile string) (string, error) {
	tempFile := pdfFile + ".txt"

	// Use pdftotext command-line tool to extract text with layout preserved
	cmd := exec.Command("pdftotext", "-layout", pdfFile, tempFile)
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

// RealExtractor implements Extractor using the pdftotext command.
// This is the production implementation and requires pdftotext to be installed.
type RealExtractor struct{}

// NewRealExtractor creates a new RealExtractor instance.
func NewRealExtractor() *RealExtractor {
	return &RealExtractor{}
}

// ExtractText extracts text from a PDF file using the pdftotext command.
func (e *RealExtractor) ExtractText(pdfPath string) (string, error) {
	return extractTextFromPDF(pdfPath)
}

// MockExtractor implements Extractor for testing purposes.
// It returns predefined mock data instead of reading a real PDF file.
type MockExtractor struct {
	MockText string
	MockErr  error
}

// NewMockExtractor creates a new MockExtractor with the given mock data.
func NewMockExtractor(mockText string, mockErr error) *MockExtractor {
	return &MockExtractor{
		MockText: mockText,
		MockErr:  mockErr,
	}
}

// ExtractText returns the predefined mock text or error.
func (e *MockExtractor) ExtractText(pdfPath string) (string, error) {
	if e.MockErr != nil {
		return "", e.MockErr
	}
	return e.MockText, nil
}

// SplitPages splits extracted text into per-page chunks on the form-feed
// separators pdftotext emits. A trailing empty chunk is dropped.
func SplitPages(text string) []string {
	pages := strings.Split(text, "\f")
	if len(pages) > 0 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}
