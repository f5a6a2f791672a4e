// Package resume 从上传的简历文件中抽取纯文本。支持 PDF、DOCX、TXT,
// 文件大小与类型在进入解析前校验。
package resume

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/apperr"
)

// DefaultMaxFileBytes 上传文件大小上限。
const DefaultMaxFileBytes = 5 << 20

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

// Extractor 执行文件校验与文本抽取。
type Extractor struct {
	maxBytes int64
}

// NewExtractor 创建抽取器,maxBytes 不合法时取默认 5MB。
func NewExtractor(maxBytes int64) *Extractor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileBytes
	}
	return &Extractor{maxBytes: maxBytes}
}

// Validate 在读取内容之前校验文件名与大小。
func (e *Extractor) Validate(filename string, size int64) error {
	if filename == "" {
		return apperr.Validation(apperr.CodeMissingFile, "no file provided")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return apperr.Validation(apperr.CodeInvalidFileType,
			fmt.Sprintf("unsupported file type %q, allowed: pdf, docx, txt", ext))
	}
	if size > e.maxBytes {
		return apperr.Validation(apperr.CodeFileTooLarge,
			fmt.Sprintf("file exceeds %d byte limit", e.maxBytes))
	}
	return nil
}

// Extract 按扩展名分发到对应的解析器,返回清理后的文本。
// 解析出的文本为空时报 EMPTY_DOCUMENT,扫描件 PDF 是典型来源。
func (e *Extractor) Extract(filename string, data []byte) (string, error) {
	if err := e.Validate(filename, int64(len(data))); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDOCX(data)
	case ".txt":
		text, err = extractTXT(data)
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", apperr.Validation(apperr.CodeEmptyDocument,
			"no text could be extracted from the document")
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperr.Validation(apperr.CodeInvalidFileType, "file is not a readable PDF")
	}
	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// 单页解析失败不放弃整份文档
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// docx 正文存放在 word/document.xml,段落间用换行分隔。
type docxDocument struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Runs []struct {
		Texts []string `xml:"t"`
	} `xml:"r"`
}

func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperr.Validation(apperr.CodeInvalidFileType, "file is not a readable DOCX archive")
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", apperr.Validation(apperr.CodeInvalidFileType, "DOCX document body unreadable")
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", apperr.Validation(apperr.CodeInvalidFileType, "DOCX document body unreadable")
		}
		var doc docxDocument
		if err := xml.Unmarshal(raw, &doc); err != nil {
			return "", apperr.Validation(apperr.CodeInvalidFileType, "DOCX document body is not valid XML")
		}
		var sb strings.Builder
		for _, p := range doc.Body.Paragraphs {
			for _, r := range p.Runs {
				for _, t := range r.Texts {
					sb.WriteString(t)
				}
			}
			sb.WriteString("\n")
		}
		return sb.String(), nil
	}
	return "", apperr.Validation(apperr.CodeInvalidFileType, "DOCX archive has no document body")
}

// extractTXT 优先按 UTF-8 读取,无效时退回 Windows-1252 解码,
// 常见于旧版 Word 导出的纯文本。
func extractTXT(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", apperr.Validation(apperr.CodeInvalidFileType, "text file has unsupported encoding")
	}
	return string(decoded), nil
}

// CleanText 压缩空白并去掉控制字符,换行保留为段落边界。
func CleanText(text string) string {
	var sb strings.Builder
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		sb.WriteString(strings.Join(fields, " "))
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// WordCount 返回抽取文本的词数,供响应里展示。
func WordCount(text string) int {
	return len(strings.Fields(text))
}
