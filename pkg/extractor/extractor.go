package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Supported declared content types. The switch in Extract is the single
// dispatch point; adding a format means adding a constant, a decoder and
// a case here.
const (
	TypePDF  = "application/pdf"
	TypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypeText = "text/plain"
)

var (
	// ErrUnsupportedFormat is returned for any content type outside the
	// supported set.
	ErrUnsupportedFormat = errors.New("unsupported content type")

	// ErrExtraction wraps I/O and parse failures of a supported format.
	ErrExtraction = errors.New("text extraction failed")
)

// Supported reports whether a declared content type has a decoder.
func Supported(contentType string) bool {
	switch contentType {
	case TypePDF, TypeDocx, TypeText:
		return true
	}
	return false
}

// Extractor derives plain text from stored files. PDF decoding shells
// out to pdftotext through an injectable runner so tests can stub it.
type Extractor struct {
	runner CommandRunner
}

func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// Extract materializes the file's text content as a single string.
// Fails with ErrUnsupportedFormat for unknown content types and with a
// wrapped ErrExtraction for decode failures.
func (e *Extractor) Extract(ctx context.Context, path string, contentType string) (string, error) {
	var (
		text string
		err  error
	)

	switch contentType {
	case TypePDF:
		text, err = e.extractPDF(ctx, path)
	case TypeDocx:
		text, err = extractDocx(path)
	case TypeText:
		text, err = extractPlain(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
	}

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return strings.TrimSpace(text), nil
}
