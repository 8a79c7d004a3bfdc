package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/types"
	"resume-parser-go/pkg/ratelimit"

	"github.com/rs/zerolog"
)

// 元数据模式
const (
	MetadataFull    = "full"
	MetadataMinimal = "minimal"
	MetadataNone    = "none"
)

// TikaExtractor 基于 Apache Tika 服务器的纯文本提取器，PDF 与 DOCX 共用
type TikaExtractor struct {
	// Tika服务器地址，例如 http://localhost:9998
	ServerURL string
	Client    *http.Client

	format             types.FileFormat
	metadataMode       string
	extractAnnotations bool
	limiter            *ratelimit.TokenBucket
	logger             zerolog.Logger
}

// TikaOption 定义配置选项函数
type TikaOption func(*TikaExtractor)

// WithMetadataMode full / minimal / none，未知值按 minimal 处理
func WithMetadataMode(mode string) TikaOption {
	return func(e *TikaExtractor) {
		switch mode {
		case MetadataFull, MetadataNone:
			e.metadataMode = mode
		default:
			e.metadataMode = MetadataMinimal
		}
	}
}

// WithAnnotations 配置是否提取PDF链接注释文本
func WithAnnotations(extract bool) TikaOption {
	return func(e *TikaExtractor) {
		e.extractAnnotations = extract
	}
}

// WithTimeout 配置HTTP客户端超时时间
func WithTimeout(timeout time.Duration) TikaOption {
	return func(e *TikaExtractor) {
		if timeout > 0 {
			e.Client.Timeout = timeout
		}
	}
}

// WithHTTPClient 使用自定义HTTP客户端
func WithHTTPClient(client *http.Client) TikaOption {
	return func(e *TikaExtractor) {
		if client != nil {
			e.Client = client
		}
	}
}

// WithRateLimiter 请求前获取令牌，Tika 繁忙或连接抖动时按退避重试；可在多个提取器间共享
func WithRateLimiter(tb *ratelimit.TokenBucket) TikaOption {
	return func(e *TikaExtractor) {
		e.limiter = tb
	}
}

var _ Extractor = (*TikaExtractor)(nil)

// NewTikaExtractor 创建处理指定格式的 Tika 提取器
func NewTikaExtractor(serverURL string, format types.FileFormat, options ...TikaOption) *TikaExtractor {
	extractor := &TikaExtractor{
		ServerURL:          strings.TrimRight(serverURL, "/"),
		Client:             &http.Client{Timeout: 60 * time.Second},
		format:             format,
		metadataMode:       MetadataMinimal,
		extractAnnotations: true,
		logger:             logger.Component("tika").With().Str("format", string(format)).Logger(),
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor
}

// Extract 通过 PUT /tika 获取纯文本，按元数据模式再请求 /meta
func (e *TikaExtractor) Extract(ctx context.Context, data []byte, uri string) (*types.ExtractedDocument, error) {
	startTime := time.Now()

	metadata := map[string]interface{}{
		"extraction_time":  startTime.Format(time.RFC3339),
		"source_file_path": uri,
	}

	body, err := e.put(ctx, "/tika", "text/plain; charset=utf-8", data, uri)
	if err != nil {
		e.logger.Warn().Err(err).Str("uri", uri).Msg("Tika文本提取失败")
		return nil, err
	}
	text := string(body)
	metadata["text_length"] = len(text)

	if e.metadataMode != MetadataNone {
		raw, err := e.extractMetadata(ctx, data, uri)
		if err != nil {
			e.logger.Warn().Err(err).Str("uri", uri).Msg("元数据提取失败，继续使用基本元数据")
		}
		for k, v := range raw {
			if e.metadataMode == MetadataFull || isImportantMetadata(k) {
				metadata[k] = v
			}
		}
	}
	metadata["processing_duration_ms"] = time.Since(startTime).Milliseconds()

	e.logger.Debug().
		Str("uri", uri).
		Int("chars", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Tika文本提取完成")

	return &types.ExtractedDocument{Format: e.format, Text: text, Meta: metadata}, nil
}

// isImportantMetadata 精简模式下保留的元数据字段
func isImportantMetadata(key string) bool {
	switch key {
	case "Content-Type",
		"dc:title",
		"dc:creator",
		"dcterms:created",
		"language",
		"xmpTPg:NPages",
		"pdf:PDFVersion",
		"pdf:charsPerPage",
		"pdf:docinfo:title",
		"pdf:docinfo:created",
		"pdf:totalUnmappedUnicodeChars",
		"meta:page-count":
		return true
	}
	return false
}

func (e *TikaExtractor) extractMetadata(ctx context.Context, data []byte, uri string) (map[string]interface{}, error) {
	body, err := e.put(ctx, "/meta", "application/json", data, uri)
	if err != nil {
		return nil, err
	}
	var metadata map[string]interface{}
	if err := json.Unmarshal(body, &metadata); err != nil {
		return nil, fmt.Errorf("解析元数据JSON失败: %w", err)
	}
	return metadata, nil
}

func (e *TikaExtractor) put(ctx context.Context, path, accept string, data []byte, uri string) ([]byte, error) {
	if e.limiter == nil {
		return e.putOnce(ctx, path, accept, data, uri)
	}
	var body []byte
	err := e.limiter.RetryWithBackoff(ctx, func() error {
		var err error
		body, err = e.putOnce(ctx, path, accept, data, uri)
		if err != nil && ratelimit.IsRetryable(err) {
			e.logger.Debug().Err(err).Str("path", path).Msg("Tika请求失败，准备重试")
		}
		return err
	})
	return body, err
}

func (e *TikaExtractor) putOnce(ctx context.Context, path, accept string, data []byte, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, e.ServerURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", ContentType(e.format))
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Charset", "utf-8")
	if uri != "" {
		req.Header.Set("X-Tika-Resource-Name", uri)
	}
	if e.format == types.FormatPDF && !e.extractAnnotations {
		req.Header.Set("X-Tika-PDFExtractAnnotationText", "false")
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送请求到Tika服务器失败: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return nil, fmt.Errorf("tika服务器返回错误状态码: %d: %w", resp.StatusCode, ratelimit.ErrTransient)
	default:
		return nil, fmt.Errorf("tika服务器返回错误状态码: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取Tika响应失败: %w", err)
	}
	return body, nil
}
