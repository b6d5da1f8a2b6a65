// Package ingest reads chat logs and meeting notes from documents so each
// line can go through extraction.
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

	"github.com/ledongthuc/pdf"
)

var ErrUnsupported = errors.New("unsupported file type")

// Document is the text of one file, one utterance per line.
type Document struct {
	Title      string
	SourcePath string
	Lines      []string
}

func (d *Document) Text() string {
	return strings.Join(d.Lines, "\n")
}

// Extensions lists the file types ParseFile reads.
var Extensions = []string{".docx", ".pdf", ".txt"}

func ParseFile(path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var (
		text string
		err  error
	)
	switch ext {
	case ".docx":
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read file: %w", readErr)
		}
		text, err = parseDOCX(raw)
	case ".pdf":
		text, err = parsePDF(path)
	case ".txt":
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read file: %w", readErr)
		}
		text = string(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	if err != nil {
		return nil, err
	}

	return &Document{
		Title:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		SourcePath: path,
		Lines:      splitLines(text),
	}, nil
}

// parseDOCX returns one line per paragraph of word/document.xml. Tabs read
// as spaces and manual line breaks start a new line.
func parseDOCX(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open docx zip: %w", err)
	}
	body, err := zr.Open("word/document.xml")
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer body.Close()

	var (
		lines   []string
		current strings.Builder
		inText  bool
	)
	flush := func() {
		lines = append(lines, current.String())
		current.Reset()
	}

	decoder := xml.NewDecoder(body)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
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
			case "tab":
				current.WriteString(" ")
			case "br", "cr":
				flush()
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flush()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	if current.Len() > 0 {
		flush()
	}
	return strings.Join(lines, "\n"), nil
}

// parsePDF returns the text rows of every page, top to bottom. A page whose
// rows cannot be read falls back to its plain text.
func parsePDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var lines []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			plain, plainErr := page.GetPlainText(nil)
			if plainErr != nil {
				return "", fmt.Errorf("read pdf page %d: %w", i, err)
			}
			lines = append(lines, plain)
			continue
		}
		for _, row := range rows {
			var b strings.Builder
			for _, word := range row.Content {
				b.WriteString(word.S)
			}
			lines = append(lines, b.String())
		}
	}
	text := strings.Join(lines, "\n")
	if strings.TrimSpace(text) == "" {
		return "", errors.New("no extractable text found in pdf")
	}
	return text, nil
}

// splitLines drops blank lines and collapses runs of spaces inside a line.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
