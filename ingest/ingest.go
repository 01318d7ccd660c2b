// Package ingest normalizes raw documents into plain text for analysis.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	ErrDocumentNotFound   = errors.New("document not found")
	ErrUnsupportedFormat  = errors.New("unsupported document format")
	ErrDocumentTooLarge   = errors.New("document exceeds the upload limit")
	ErrUnreadableDocument = errors.New("document text could not be extracted")
)

var supportedExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// MaxUploadBytes bounds the size of an accepted upload.
const MaxUploadBytes = 10 << 20

type Document struct {
	Source  string `json:"source"`
	Path    string `json:"path,omitempty"`
	Name    string `json:"filename,omitempty"`
	Content string `json:"content"`
	Length  int    `json:"length"`
}

// FromFile reads a text or markdown document from disk. Length is the size of the
// file before whitespace trimming.
func FromFile(path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Document{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
		}
		return Document{}, fmt.Errorf("stat document: %w", err)
	}
	if info.IsDir() {
		return Document{}, fmt.Errorf("%w: %s is a directory", ErrDocumentNotFound, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read document: %w", err)
	}

	return Document{
		Source:  "file",
		Path:    path,
		Content: strings.TrimSpace(string(data)),
		Length:  len(data),
	}, nil
}

// FromUpload reads an uploaded document. PDFs are converted to plain text; anything
// else must be declared or named as text. Uploads over MaxUploadBytes are rejected.
func FromUpload(filename string, contentType string, r io.Reader) (Document, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = ""
	}

	ext := strings.ToLower(filepath.Ext(filename))
	isPDF := mediaType == "application/pdf" || ext == ".pdf"
	isText := strings.HasPrefix(mediaType, "text/") || supportedExtensions[ext]
	if !isPDF && !isText {
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return Document{}, fmt.Errorf("%w: %s", ErrDocumentTooLarge, filename)
	}

	text := string(data)
	if isPDF {
		text, err = extractPDFText(data)
		if err != nil {
			return Document{}, fmt.Errorf("%w: %s: %v", ErrUnreadableDocument, filename, err)
		}
	}

	return Document{
		Source:  "upload",
		Name:    filename,
		Content: strings.TrimSpace(text),
		Length:  len(text),
	}, nil
}

func extractPDFText(data []byte) (text string, err error) {
	// the reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
