package extractor

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupported(t *testing.T) {
	assert.True(t, Supported(ContentTypePDF))
	assert.True(t, Supported(ContentTypeDOCX))
	assert.True(t, Supported(ContentTypeText))
	assert.False(t, Supported("image/png"))
	assert.False(t, Supported(""))
}

func TestExtractPlainText(t *testing.T) {
	text, err := Extract([]byte("This Agreement is made between the parties."), ContentTypeText)
	require.NoError(t, err)
	assert.Equal(t, "This Agreement is made between the parties.", text)
}

func TestExtractEmptyText(t *testing.T) {
	_, err := Extract([]byte("   \n\t "), ContentTypeText)
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtractUnsupportedType(t *testing.T) {
	_, err := Extract([]byte("data"), "application/zip")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestDecodeContentStream(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "simple Tj operator",
			content: "BT /F1 12 Tf (Hello World) Tj ET",
			want:    "Hello World ",
		},
		{
			name:    "multiple literals",
			content: "(Termination) Tj (for Cause) Tj",
			want:    "Termination for Cause ",
		},
		{
			name:    "escaped parens",
			content: `(Section 2\(a\)) Tj`,
			want:    "Section 2(a) ",
		},
		{
			name:    "escaped newline",
			content: `(line one\nline two) Tj`,
			want:    "line one\nline two ",
		},
		{
			name:    "nested parens",
			content: "(outer (inner) text) Tj",
			want:    "outer (inner) text ",
		},
		{
			name:    "no literals",
			content: "BT /F1 12 Tf ET",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeContentStream(tt.content))
		})
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractDOCX(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Confidentiality.</w:t></w:r><w:r><w:t> Each party shall protect.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Termination for Cause.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := Extract(buildDocx(t, doc), ContentTypeDOCX)
	require.NoError(t, err)
	assert.Contains(t, text, "Confidentiality. Each party shall protect.")
	assert.Contains(t, text, "Termination for Cause.")

	// Paragraph boundaries become newlines.
	assert.Contains(t, text, "protect.\n")
}

func TestExtractDOCXMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Extract(buf.Bytes(), ContentTypeDOCX)
	assert.Error(t, err)
}

func TestExtractDOCXNotAZip(t *testing.T) {
	_, err := Extract([]byte("plainly not a zip archive"), ContentTypeDOCX)
	assert.Error(t, err)
}
