package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
	"time"

	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/types"
)

const docxBodyPart = "word/document.xml"

var (
	xmlTagRe        = regexp.MustCompile(`<[^>]+>`)
	inlineSpaceRe   = regexp.MustCompile(`[ \t\r\f\v]+`)
	repeatedBreakRe = regexp.MustCompile(`\n\s*\n+`)
)

var (
	// ErrNoDocumentXML DOCX 包中缺少正文部分
	ErrNoDocumentXML = errors.New("no document.xml found in docx")
	// ErrDocumentXMLTooLarge 正文解压后超过上限
	ErrDocumentXMLTooLarge = errors.New("document.xml exceeds size limit")
)

// DOCXExtractor 直接读取 word/document.xml，段落边界转换为换行
type DOCXExtractor struct {
	maxXMLBytes int64
}

// DOCXOption DOCX 提取器选项
type DOCXOption func(*DOCXExtractor)

// WithMaxXMLBytes 设置 document.xml 解压后的大小上限，<=0 时保持默认值
func WithMaxXMLBytes(n int64) DOCXOption {
	return func(e *DOCXExtractor) {
		if n > 0 {
			e.maxXMLBytes = n
		}
	}
}

// NewDOCXExtractor 创建 DOCX 提取器
func NewDOCXExtractor(opts ...DOCXOption) *DOCXExtractor {
	e := &DOCXExtractor{maxXMLBytes: constants.MaxDocxXMLBytes}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ Extractor = (*DOCXExtractor)(nil)

// Extract 解析 DOCX 字节
func (e *DOCXExtractor) Extract(ctx context.Context, data []byte, uri string) (*types.ExtractedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("打开DOCX失败 (URI: %s): %w", uri, err)
	}

	var body []byte
	for _, f := range zr.File {
		if f.Name != docxBodyPart {
			continue
		}
		// 压缩包头中的大小可以伪造，读取时仍按上限截断
		if f.UncompressedSize64 > uint64(e.maxXMLBytes) {
			return nil, fmt.Errorf("%w: %d > %d 字节 (URI: %s)", ErrDocumentXMLTooLarge, f.UncompressedSize64, e.maxXMLBytes, uri)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("读取 %s 失败: %w", docxBodyPart, err)
		}
		body, err = readAllLimited(rc, e.maxXMLBytes)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("读取 %s 失败 (URI: %s): %w", docxBodyPart, uri, err)
		}
		break
	}
	if len(body) == 0 {
		return nil, ErrNoDocumentXML
	}

	text := documentXMLToText(string(body))
	return &types.ExtractedDocument{
		Format: types.FormatDOCX,
		Text:   text,
		Meta: map[string]interface{}{
			"source_file_path": uri,
			"extraction_time":  time.Now().Format(time.RFC3339),
			"text_length":      len(text),
		},
	}, nil
}

// readAllLimited 最多读取 limit 字节，超出时返回 ErrDocumentXMLTooLarge
func readAllLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: 超过 %d 字节", ErrDocumentXMLTooLarge, limit)
	}
	return data, nil
}

// documentXMLToText 段落与换行标记转为 \n，制表符保留，其余标签去掉后解码实体
func documentXMLToText(xml string) string {
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:br/>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	txt := xmlTagRe.ReplaceAllString(xml, "")
	txt = html.UnescapeString(txt)
	txt = strings.ReplaceAll(txt, " ", " ")

	lines := strings.Split(txt, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpaceRe.ReplaceAllString(line, " "))
	}
	txt = strings.Join(lines, "\n")
	txt = repeatedBreakRe.ReplaceAllString(txt, "\n")
	return strings.TrimSpace(txt)
}
