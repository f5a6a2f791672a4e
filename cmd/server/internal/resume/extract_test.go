package resume

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/apperr"
)

func TestValidate(t *testing.T) {
	e := NewExtractor(1024)
	cases := []struct {
		name     string
		filename string
		size     int64
		wantCode string
	}{
		{"missing filename", "", 10, apperr.CodeMissingFile},
		{"unsupported extension", "resume.exe", 10, apperr.CodeInvalidFileType},
		{"too large", "resume.pdf", 2048, apperr.CodeFileTooLarge},
		{"ok pdf", "resume.pdf", 512, ""},
		{"ok docx uppercase", "Resume.DOCX", 512, ""},
		{"ok txt", "resume.txt", 512, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := e.Validate(tc.filename, tc.size)
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantCode) {
				t.Errorf("err = %v, want code %s", err, tc.wantCode)
			}
		})
	}
}

func TestExtractTXT(t *testing.T) {
	e := NewExtractor(0)
	text, err := e.Extract("resume.txt", []byte("  Senior   Engineer\n\n5 years of Go  \n"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if text != "Senior Engineer\n5 years of Go" {
		t.Errorf("text = %q", text)
	}
}

// 非 UTF-8 的旧编码文本按 Windows-1252 解码。
func TestExtractTXTLatinEncoding(t *testing.T) {
	e := NewExtractor(0)
	// Windows-1252 里 0xE9 是 é
	data := []byte{'I', 'n', 'g', 0xE9, 'n', 'i', 'e', 'u', 'r'}
	text, err := e.Extract("resume.txt", data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if text != "Ingénieur" {
		t.Errorf("text = %q", text)
	}
}

func TestExtractTXTEmpty(t *testing.T) {
	e := NewExtractor(0)
	_, err := e.Extract("resume.txt", []byte("   \n  \n"))
	if err == nil || !strings.Contains(err.Error(), apperr.CodeEmptyDocument) {
		t.Errorf("err = %v, want empty document", err)
	}
}

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(body)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractDOCX(t *testing.T) {
	doc := `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>Platform Engineer</t></r><r><t> with Kubernetes</t></r></p>
    <p><r><t>Five years experience</t></r></p>
  </body>
</document>`
	e := NewExtractor(0)
	text, err := e.Extract("resume.docx", buildDOCX(t, doc))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(text, "Platform Engineer with Kubernetes") {
		t.Errorf("text = %q", text)
	}
	if !strings.Contains(text, "Five years experience") {
		t.Errorf("text = %q", text)
	}
}

func TestExtractDOCXMissingBody(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, _ := w.Create("word/other.xml")
	f.Write([]byte("<x/>"))
	w.Close()

	e := NewExtractor(0)
	_, err := e.Extract("resume.docx", buf.Bytes())
	if err == nil || !strings.Contains(err.Error(), apperr.CodeInvalidFileType) {
		t.Errorf("err = %v, want invalid file type", err)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	e := NewExtractor(0)
	_, err := e.Extract("resume.pdf", []byte("definitely not a pdf"))
	if err == nil || !strings.Contains(err.Error(), apperr.CodeInvalidFileType) {
		t.Errorf("err = %v, want invalid file type", err)
	}
}

func TestCleanText(t *testing.T) {
	in := "Line   one\r\n\r\n\tLine\ttwo  \n\n\n"
	if got := CleanText(in); got != "Line one\nLine two" {
		t.Errorf("CleanText = %q", got)
	}
}

func TestWordCount(t *testing.T) {
	if n := WordCount("five years of Go experience"); n != 5 {
		t.Errorf("WordCount = %d, want 5", n)
	}
	if n := WordCount("   "); n != 0 {
		t.Errorf("WordCount = %d, want 0", n)
	}
}
