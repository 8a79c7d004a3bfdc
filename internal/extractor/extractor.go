// Package extractor 简历容器格式的文本提取：PDF 定位片段、PDF 纯文本（Eino / Tika）、DOCX。
package extractor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"resume-parser-go/internal/types"
)

// ErrUnsupportedFormat 既不是 PDF 也不是 DOCX
var ErrUnsupportedFormat = errors.New("unsupported file format: only pdf and docx are allowed")

// MIME 类型
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Extractor 单一格式的文本提取器
type Extractor interface {
	Extract(ctx context.Context, data []byte, uri string) (*types.ExtractedDocument, error)
}

// DetectFormat 先看 MIME 类型，再看扩展名
func DetectFormat(fileName, contentType string) types.FileFormat {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case MimePDF:
		return types.FormatPDF
	case MimeDOCX:
		return types.FormatDOCX
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return types.FormatPDF
	case ".docx":
		return types.FormatDOCX
	}
	return types.FormatUnknown
}

// ContentType 格式对应的 MIME 类型
func ContentType(format types.FileFormat) string {
	switch format {
	case types.FormatPDF:
		return MimePDF
	case types.FormatDOCX:
		return MimeDOCX
	default:
		return "application/octet-stream"
	}
}

// Router 按格式分派到具体的提取器
type Router struct {
	pdf  Extractor
	docx Extractor
}

// NewRouter 创建格式路由
func NewRouter(pdf, docx Extractor) *Router {
	return &Router{pdf: pdf, docx: docx}
}

// Extract 按声明的格式提取文本，未知格式返回 ErrUnsupportedFormat
func (r *Router) Extract(ctx context.Context, format types.FileFormat, data []byte, uri string) (*types.ExtractedDocument, error) {
	var ex Extractor
	switch format {
	case types.FormatPDF:
		ex = r.pdf
	case types.FormatDOCX:
		ex = r.docx
	}
	if ex == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	doc, err := ex.Extract(ctx, data, uri)
	if err != nil {
		return nil, err
	}
	doc.Format = format
	return doc, nil
}
