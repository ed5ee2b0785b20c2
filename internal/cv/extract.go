// Package cv parses candidate résumés into structured profiles: detected
// skills, years of experience, and education level.
package cv

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedFormat is returned for file extensions no extractor handles.
type ErrUnsupportedFormat struct {
	Extension string
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported file format %q (supported: .pdf, .docx, .txt)", e.Extension)
}

// ParseError reports a file that matched a supported format but could not be
// decoded into text.
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TextExtractor turns an uploaded résumé file into plain text. The filename
// carries the format hint; implementations dispatch on its extension.
type TextExtractor interface {
	Extract(content []byte, filename string) (string, error)
}

// PlainTextExtractor accepts files that are already text (.txt) and treats
// .pdf/.docx uploads whose payload is valid UTF-8 text the same way. Binary
// PDF/DOCX decoding belongs to a dedicated extractor behind the same
// interface.
type PlainTextExtractor struct{}

func (PlainTextExtractor) Extract(content []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".pdf", ".docx":
	default:
		return "", &ErrUnsupportedFormat{Extension: ext}
	}

	if !utf8.Valid(content) {
		return "", &ParseError{Filename: filename, Err: fmt.Errorf("content is not text")}
	}

	text := strings.TrimSpace(string(content))
	if text == "" {
		return "", &ParseError{Filename: filename, Err: fmt.Errorf("no text content")}
	}
	return text, nil
}
