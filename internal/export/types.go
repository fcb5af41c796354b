// Package export renders the CV as a printable HTML page or a PDF.
package export

import "errors"

// Format represents the export output format
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// ParseFormat defaults to PDF when name is empty.
func ParseFormat(name string) (Format, bool) {
	switch Format(name) {
	case "", FormatPDF:
		return FormatPDF, true
	case FormatHTML:
		return FormatHTML, true
	default:
		return "", false
	}
}

// Result contains the export output
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

var (
	// ErrPDFDependencyMissing indicates no headless Chromium is installed.
	ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
	// ErrUnsupportedFormat is returned for formats other than pdf and html.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
