package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/ppiankov/veracity/internal/extract"
)

// ErrUnsupportedFormat is returned for file types that cannot be read as text
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrFileTooLarge is returned when a file exceeds the configured size limit
var ErrFileTooLarge = errors.New("file too large")

// DefaultMaxBytes is used when no limit is given
const DefaultMaxBytes int64 = 10 << 20

// Document is the plain text loaded from a file
type Document struct {
	Title  string
	Path   string
	Format string
	Text   string
}

// SupportedExtensions lists the file extensions LoadFile understands
func SupportedExtensions() []string {
	return []string{".txt", ".text", ".md", ".markdown", ".html", ".htm", ".pdf", ".docx"}
}

// LoadFile reads path and converts it to plain text by extension
func LoadFile(path string, maxBytes int64) (*Document, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", path, ErrUnsupportedFormat)
	}
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("%s is %d bytes (limit %d): %w", path, info.Size(), maxBytes, ErrFileTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var text string

	switch ext {
	case ".txt", ".text", ".md", ".markdown":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("%s is not valid UTF-8 text: %w", path, ErrUnsupportedFormat)
		}
		text = string(raw)
	case ".html", ".htm":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		text, err = extract.VisibleText(string(raw))
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
	case ".pdf":
		text, err = parsePDF(path)
		if err != nil {
			return nil, err
		}
	case ".docx":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		text, err = parseDOCX(raw)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}

	return &Document{
		Title:  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:   path,
		Format: strings.TrimPrefix(ext, "."),
		Text:   normalizeWhitespace(text),
	}, nil
}

func parseDOCX(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open docx zip: %w", err)
	}

	var xmlData []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		xmlData, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}
		break
	}
	if len(xmlData) == 0 {
		return "", fmt.Errorf("word/document.xml not found")
	}

	decoder := xml.NewDecoder(bytes.NewReader(xmlData))
	var b strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "p":
				if b.Len() > 0 {
					b.WriteString("\n")
				}
			case "tab":
				b.WriteString(" ")
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

func parsePDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("no extractable text found in pdf")
	}
	return b.String(), nil
}

// normalizeWhitespace collapses runs of spaces and drops blank lines
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
