package export

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// CVSource loads the full CV mapping, section name to payload.
type CVSource interface {
	FullCV(ctx context.Context) (map[string]any, error)
}

// Service provides CV export functionality
type Service struct {
	source CVSource
	print  func(ctx context.Context, html string) ([]byte, error)
	now    func() time.Time
}

// NewService creates a new export service
func NewService(source CVSource) *Service {
	return &Service{source: source, print: printPDF, now: time.Now}
}

// Export renders the current CV in the requested format
func (s *Service) Export(ctx context.Context, format Format) (*Result, error) {
	if format != FormatPDF && format != FormatHTML {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	cv, err := s.source.FullCV(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cv: %w", err)
	}
	data := BuildTemplateData(cv, s.now())
	html, err := RenderHTML(data)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	base := sanitizeFilename(strings.TrimSpace(data.Name + " CV"))
	if format == FormatHTML {
		return &Result{Data: []byte(html), Filename: base + ".html", MimeType: "text/html; charset=utf-8"}, nil
	}

	pdf, err := s.print(ctx, html)
	if err != nil {
		return nil, err
	}
	return &Result{Data: pdf, Filename: base + ".pdf", MimeType: "application/pdf"}, nil
}
