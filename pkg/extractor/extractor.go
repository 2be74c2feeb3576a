// Package extractor turns uploaded contract files into plain text. PDF pages
// go through pdfcpu; DOCX archives are walked directly; text files pass
// through. Scanned-image OCR is out of scope here and surfaces as an
// unsupported type.
package extractor

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeText = "text/plain"
)

// ErrUnsupportedType rejects uploads the pipeline cannot read.
var ErrUnsupportedType = errors.New("unsupported file type")

// ErrNoText is returned when a structurally valid file yields no text at all.
var ErrNoText = errors.New("no text could be extracted")

// Extract returns the plain text of the uploaded file.
func Extract(data []byte, contentType string) (string, error) {
	var text string
	var err error

	switch contentType {
	case ContentTypePDF:
		text, err = extractPDF(data)
	case ContentTypeDOCX:
		text, err = extractDOCX(data)
	case ContentTypeText:
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

// Supported reports whether the content type can be extracted at all,
// letting the upload handler fail fast before writing anything to disk.
func Supported(contentType string) bool {
	switch contentType {
	case ContentTypePDF, ContentTypeDOCX, ContentTypeText:
		return true
	default:
		return false
	}
}

// extractPDF validates the document with pdfcpu, dumps the decoded page
// content streams to a scratch dir and pulls the string literals out of the
// text-showing operators.
func extractPDF(data []byte) (string, error) {
	scratch, err := os.MkdirTemp("", "design-extract-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(scratch)

	inFile := filepath.Join(scratch, "in.pdf")
	if err := os.WriteFile(inFile, data, 0o600); err != nil {
		return "", err
	}

	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed

	pageCount, err := api.PageCountFile(inFile)
	if err != nil {
		return "", fmt.Errorf("invalid pdf: %w", err)
	}
	if pageCount == 0 {
		return "", ErrNoText
	}

	contentDir := filepath.Join(scratch, "content")
	if err := os.MkdirAll(contentDir, 0o700); err != nil {
		return "", err
	}
	if err := api.ExtractContentFile(inFile, contentDir, nil, cfg); err != nil {
		return "", fmt.Errorf("extract pdf content: %w", err)
	}

	var sb strings.Builder
	entries, err := os.ReadDir(contentDir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(contentDir, entry.Name()))
		if err != nil {
			return "", err
		}
		sb.WriteString(decodeContentStream(string(raw)))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// decodeContentStream collects the parenthesized string literals of a PDF
// content stream (the arguments of Tj/TJ/' operators). Escapes for
// backslash, parens and the common whitespace codes are honored; anything
// fancier (hex strings, CID fonts) is skipped rather than garbled.
func decodeContentStream(content string) string {
	var out strings.Builder
	depth := 0
	escaped := false

	for i := 0; i < len(content); i++ {
		c := content[i]
		if depth == 0 {
			if c == '(' {
				depth = 1
			}
			continue
		}
		if escaped {
			switch c {
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case 'r', 'f', 'b':
				out.WriteByte(' ')
			default:
				out.WriteByte(c)
			}
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '(':
			depth++
			out.WriteByte('(')
		case ')':
			depth--
			if depth == 0 {
				out.WriteByte(' ')
			} else {
				out.WriteByte(')')
			}
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}

// extractDOCX reads word/document.xml out of the archive and concatenates
// the runs, paragraph by paragraph.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("invalid docx: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		return docxParagraphs(rc)
	}
	return "", fmt.Errorf("invalid docx: missing word/document.xml")
}

func docxParagraphs(r io.Reader) (string, error) {
	dec := newDocxDecoder(r)
	return dec.text()
}
