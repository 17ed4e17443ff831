package pdfextract

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageInfo carries the metadata of a single page.
type PageInfo struct {
	Number int
	Width  float64
	Height float64
}

// Info carries document-level metadata: the total page count and the
// metadata of the pages that were inspected.
type Info struct {
	NumPages int
	Pages    []PageInfo
}

// ReadInfo opens a PDF and returns its page count plus per-page dimensions
// for at most maxPages pages.
func ReadInfo(pdfPath string, maxPages int) (info Info, err error) {
	// The underlying reader panics on malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF %s: %v", pdfPath, r)
		}
	}()

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return Info{}, fmt.Errorf("opening PDF: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	info.NumPages = r.NumPage()
	for i := 1; i <= info.NumPages && i <= maxPages; i++ {
		page := r.Page(i)
		pi := PageInfo{Number: i}
		if !page.V.IsNull() {
			if box := page.V.Key("MediaBox"); box.Kind() == pdf.Array && box.Len() == 4 {
				pi.Width = box.Index(2).Float64() - box.Index(0).Float64()
				pi.Height = box.Index(3).Float64() - box.Index(1).Float64()
			}
		}
		info.Pages = append(info.Pages, pi)
	}

	return info, nil
}
