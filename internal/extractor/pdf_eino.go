package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/types"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/rs/zerolog"
)

// EinoPDFTextExtractor 使用 Eino PDF Parser 提取整份文档的纯文本
type EinoPDFTextExtractor struct {
	parser  *pdf.PDFParser
	timeout time.Duration
	logger  zerolog.Logger
}

// EinoPDFOption PDF提取器的配置选项
type EinoPDFOption func(*EinoPDFTextExtractor)

// WithEinoTimeout 单次解析超时
func WithEinoTimeout(timeout time.Duration) EinoPDFOption {
	return func(e *EinoPDFTextExtractor) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

var _ Extractor = (*EinoPDFTextExtractor)(nil)

// NewEinoPDFTextExtractor 初始化 Eino PDF 文本提取器，不按页面分割
func NewEinoPDFTextExtractor(ctx context.Context, options ...EinoPDFOption) (*EinoPDFTextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Eino PDF parser: %w", err)
	}

	extractor := &EinoPDFTextExtractor{
		parser:  p,
		timeout: 30 * time.Second,
		logger:  logger.Component("pdf_eino"),
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor, nil
}

// Extract 解析 PDF 字节，返回的文档只有 Text，没有定位片段
func (e *EinoPDFTextExtractor) Extract(ctx context.Context, data []byte, uri string) (*types.ExtractedDocument, error) {
	startTime := time.Now()
	extraMeta := map[string]interface{}{
		"source_file_path": uri,
		"extraction_time":  startTime.Format(time.RFC3339),
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	docs, err := e.parser.Parse(ctx, bytes.NewReader(data),
		einoParser.WithURI(uri),
		einoParser.WithExtraMeta(extraMeta),
	)
	duration := time.Since(startTime)
	if err != nil {
		e.logger.Warn().Err(err).Str("uri", uri).Dur("duration", duration).Msg("Eino PDF解析失败")
		return nil, fmt.Errorf("eino PDF parser failed for URI %s: %w", uri, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("eino PDF parser returned no documents for URI %s", uri)
	}

	contents := make([]string, 0, len(docs))
	for _, doc := range docs {
		contents = append(contents, doc.Content)
	}
	text := strings.Join(contents, "\n")

	metadata := make(map[string]interface{})
	for k, v := range docs[0].MetaData {
		metadata[k] = v
	}
	for k, v := range extraMeta {
		metadata[k] = v
	}
	metadata["processing_duration_ms"] = duration.Milliseconds()
	metadata["document_count"] = len(docs)
	metadata["text_length"] = len(text)

	e.logger.Debug().Str("uri", uri).Int("chars", len(text)).Dur("duration", duration).Msg("Eino PDF提取完成")
	return &types.ExtractedDocument{Format: types.FormatPDF, Text: text, Meta: metadata}, nil
}
