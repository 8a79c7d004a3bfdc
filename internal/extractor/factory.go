package extractor

import (
	"context"
	"fmt"
	"time"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/types"
	"resume-parser-go/pkg/ratelimit"
)

// NewFromConfig 按 extractor / tika 配置组装格式路由
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Router, error) {
	// PDF 与 DOCX 共用同一个 Tika 服务器，因此共用一个令牌桶
	limiter := ratelimit.NewTokenBucket(cfg.Tika.RequestsPerMinute, 0).
		WithRetryPolicy(500*time.Millisecond, max(cfg.Tika.MaxRetries, 0))
	tikaOpts := []TikaOption{
		WithMetadataMode(cfg.Tika.MetadataMode),
		WithTimeout(cfg.Tika.RequestTimeout()),
		WithRateLimiter(limiter),
	}

	var pdfExtractor Extractor
	switch cfg.Extractor.PDFMode {
	case config.PDFModeFragments, "":
		pdfExtractor = NewFragmentPDFExtractor()
	case config.PDFModeEino:
		e, err := NewEinoPDFTextExtractor(ctx, WithEinoTimeout(cfg.Extractor.ExtractTimeout()))
		if err != nil {
			return nil, err
		}
		pdfExtractor = e
	case config.PDFModeTika:
		pdfExtractor = NewTikaExtractor(cfg.Tika.ServerURL, types.FormatPDF, tikaOpts...)
	default:
		return nil, fmt.Errorf("不支持的 pdf_mode: %q", cfg.Extractor.PDFMode)
	}

	var docxExtractor Extractor
	switch cfg.Extractor.DOCXMode {
	case config.DOCXModeNative, "":
		docxExtractor = NewDOCXExtractor()
	case config.DOCXModeTika:
		docxExtractor = NewTikaExtractor(cfg.Tika.ServerURL, types.FormatDOCX, tikaOpts...)
	default:
		return nil, fmt.Errorf("不支持的 docx_mode: %q", cfg.Extractor.DOCXMode)
	}

	return NewRouter(pdfExtractor, docxExtractor), nil
}
