// Package resume reads plain text out of uploaded resume files.
package resume

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	FormatPDF  = ".pdf"
	FormatDOCX = ".docx"
	FormatTXT  = ".txt"
)

var allowed = []string{FormatPDF, FormatDOCX, FormatTXT}

var (
	xmlTags        = regexp.MustCompile(`<[^>]+>`)
	repeatedSpaces = regexp.MustCompile(`[ \t]+`)
)

func allowedList() string {
	return strings.Join(allowed, ", ")
}

// AllowedFile reports whether name has an accepted extension.
func AllowedFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range allowed {
		if ext == candidate {
			return true
		}
	}
	return false
}

// ExtractFile reads the file at path into memory and extracts its text.
func ExtractFile(path string) (string, error) {
	if !AllowedFile(path) {
		return "", &UnsupportedFormatError{Name: filepath.Base(path), Extension: strings.ToLower(filepath.Ext(path))}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading resume %q: %w", path, err)
	}
	return ExtractText(filepath.Base(path), data)
}

// ExtractText returns the text of a resume held in memory. The format is
// chosen from the extension of name.
func ExtractText(name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))

	var (
		text string
		err  error
	)
	switch ext {
	case FormatPDF:
		text, err = pdfText(data)
	case FormatDOCX:
		text, err = docxText(data)
	case FormatTXT:
		text, err = plainText(data)
	default:
		return "", &UnsupportedFormatError{Name: name, Extension: ext}
	}

	if err != nil {
		return "", &ExtractionError{Name: name, Format: strings.TrimPrefix(ext, "."), Cause: err}
	}
	return text, nil
}

func pdfText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty file")
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func docxText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty file")
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	return stripDocumentXML(doc.Editable().GetContent()), nil
}

// stripDocumentXML turns WordprocessingML into text, one line per paragraph.
func stripDocumentXML(content string) string {
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = strings.ReplaceAll(content, "<w:tab/>", "\t")
	content = strings.ReplaceAll(content, "<w:br/>", "\n")
	content = xmlTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	lines := strings.Split(content, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(repeatedSpaces.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func plainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("text is not valid UTF-8")
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}
