package extractor

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error

	gotName string
	gotArgs []string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.gotName = name
	m.gotArgs = args
	return m.output, m.err
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported(TypePDF))
	assert.True(t, Supported(TypeDocx))
	assert.True(t, Supported(TypeText))
	assert.False(t, Supported("image/png"))
	assert.False(t, Supported(""))
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), "/tmp/file.bin", "application/octet-stream")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtract_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("  hello world\n"), 0o644))

	text, err := New().Extract(context.Background(), path, TypeText)

	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestExtract_PlainText_MissingFile(t *testing.T) {
	_, err := New().Extract(context.Background(), "/nonexistent/file.txt", TypeText)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtraction)
}

func TestExtract_PDF_WithRunner(t *testing.T) {
	runner := &mockRunner{output: []byte("PDF body text.\n")}
	e := NewWithRunner(runner)

	text, err := e.Extract(context.Background(), "/uploads/doc.pdf", TypePDF)

	require.NoError(t, err)
	assert.Equal(t, "PDF body text.", text)
	assert.Equal(t, "pdftotext", runner.gotName)
	assert.Equal(t, []string{"/uploads/doc.pdf", "-"}, runner.gotArgs)
}

func TestExtract_PDF_RunnerFailure(t *testing.T) {
	runner := &mockRunner{err: errors.New("exit status 1")}

	_, err := NewWithRunner(runner).Extract(context.Background(), "/uploads/doc.pdf", TypePDF)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtraction)
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtract_Docx(t *testing.T) {
	path := writeDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	text, err := New().Extract(context.Background(), path, TypeDocx)

	require.NoError(t, err)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", text)
}

func TestExtract_Docx_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := New().Extract(context.Background(), path, TypeDocx)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtraction)
}

func TestExtract_Docx_MissingDocumentXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("docProps/core.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	_, err = New().Extract(context.Background(), path, TypeDocx)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtraction)
}

func writeDocx(t *testing.T, documentXML string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sample.docx")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	return path
}
