package ingest

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseDOCX(t *testing.T) {
	raw := buildDOCX(t, `<w:document><w:body><w:p><w:r><w:t>พรุ่งนี้ประชุม</w:t></w:r><w:r><w:t> 10 โมง</w:t></w:r></w:p><w:p><w:r><w:t>วันศุกร์ไปหาหมอ</w:t></w:r></w:p></w:body></w:document>`)
	got, err := parseDOCX(raw)
	if err != nil {
		t.Fatalf("parseDOCX failed: %v", err)
	}
	want := []string{"พรุ่งนี้ประชุม 10 โมง", "วันศุกร์ไปหาหมอ"}
	if lines := splitLines(got); !reflect.DeepEqual(lines, want) {
		t.Fatalf("expected %q, got %q", want, lines)
	}
}

func TestParseFileDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.docx")
	raw := buildDOCX(t, `<w:document><w:body><w:p><w:r><w:t>ประชุมทีม</w:t></w:r></w:p></w:body></w:document>`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write docx: %v", err)
	}
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse file: %v", err)
	}
	if doc.Title != "notes" || len(doc.Lines) != 1 || doc.Lines[0] != "ประชุมทีม" {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestParseDOCXTabsAndBreaks(t *testing.T) {
	raw := buildDOCX(t, `<w:document><w:body><w:p><w:r><w:t>ประชุม</w:t><w:tab/><w:t>10:00</w:t><w:br/><w:t>กินข้าว</w:t></w:r></w:p></w:body></w:document>`)
	got, err := parseDOCX(raw)
	if err != nil {
		t.Fatalf("parseDOCX failed: %v", err)
	}
	want := []string{"ประชุม 10:00", "กินข้าว"}
	if lines := splitLines(got); !reflect.DeepEqual(lines, want) {
		t.Fatalf("expected %q, got %q", want, lines)
	}
}

func TestParseDOCXWithoutDocument(t *testing.T) {
	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	if _, err := zw.Create("word/styles.xml"); err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if _, err := parseDOCX(b.Bytes()); err == nil {
		t.Fatal("expected an error for a docx without word/document.xml")
	}
}

func TestParseFilePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agenda.pdf")
	if err := os.WriteFile(path, buildPDF([]string{"Meeting tomorrow 10:00", "Lunch with Somchai"}), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse pdf: %v", err)
	}
	if doc.Title != "agenda" || len(doc.Lines) != 2 {
		t.Fatalf("expected 2 lines from agenda.pdf, got %+v", doc)
	}
	if text := doc.Text(); !strings.Contains(text, "Meeting tomorrow 10:00") || !strings.Contains(text, "Lunch with Somchai") {
		t.Fatalf("unexpected pdf lines %q", doc.Lines)
	}
}

func TestParseFileBrokenPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\nnot really"), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if _, err := ParseFile(path); err == nil {
		t.Fatal("expected an error for a broken pdf")
	}
}

func TestParseFileText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.txt")
	content := "\xef\xbb\xbfพรุ่งนี้ประชุม\r\n\r\n   วันศุกร์   ไปหาหมอ  \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse file: %v", err)
	}
	want := []string{"พรุ่งนี้ประชุม", "วันศุกร์ ไปหาหมอ"}
	if !reflect.DeepEqual(doc.Lines, want) {
		t.Fatalf("expected %q, got %q", want, doc.Lines)
	}
	if doc.Text() != "พรุ่งนี้ประชุม\nวันศุกร์ ไปหาหมอ" {
		t.Fatalf("unexpected text %q", doc.Text())
	}
}

func TestParseFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.csv")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	_, err := ParseFile(path)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected unsupported file type error, got %v", err)
	}
}

func buildDOCX(t *testing.T, bodyXML string) []byte {
	t.Helper()
	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	xml := `<?xml version="1.0" encoding="UTF-8"?>` + bodyXML
	if _, err := f.Write([]byte(xml)); err != nil {
		t.Fatalf("write xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return b.Bytes()
}

// buildPDF writes a one-page PDF with one text line per entry, using the
// built-in Helvetica font.
func buildPDF(lines []string) []byte {
	var content strings.Builder
	content.WriteString("BT /F1 12 Tf\n")
	for i, line := range lines {
		fmt.Fprintf(&content, "1 0 0 1 72 %d Tm (%s) Tj\n", 720-20*i, line)
	}
	content.WriteString("ET")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}
