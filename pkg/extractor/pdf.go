package extractor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrPDFToolNotFound indicates the pdftotext binary (poppler-utils) is
// missing from PATH.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH (install poppler-utils)")

// CommandRunner executes an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// CheckPDFToolAvailable verifies pdftotext is installed.
func CheckPDFToolAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// extractPDF converts a PDF to plain text with `pdftotext <file> -`,
// writing the document to stdout. Layout flags are deliberately left
// default: retrieval chunks don't benefit from column preservation.
func (e *Extractor) extractPDF(ctx context.Context, path string) (string, error) {
	out, err := e.runner.Run(ctx, "pdftotext", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext %s: %w", path, err)
	}
	return string(out), nil
}
