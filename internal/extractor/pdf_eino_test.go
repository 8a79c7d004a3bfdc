package extractor

import (
	"context"
	"testing"
	"time"

	"resume-parser-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEinoPDFTextExtractor(t *testing.T) {
	extractor, err := NewEinoPDFTextExtractor(context.Background(), WithEinoTimeout(5*time.Second))
	require.NoError(t, err)
	require.NotNil(t, extractor.parser)
	assert.Equal(t, 5*time.Second, extractor.timeout)

	_, err = extractor.Extract(context.Background(), []byte("not a pdf"), "bad.pdf")
	assert.Error(t, err, "非 PDF 内容应返回错误")
}

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()

	cfg := config.DefaultConfig()
	router, err := NewFromConfig(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &FragmentPDFExtractor{}, router.pdf)
	assert.IsType(t, &DOCXExtractor{}, router.docx)

	cfg.Extractor.PDFMode = config.PDFModeEino
	cfg.Extractor.DOCXMode = config.DOCXModeTika
	router, err = NewFromConfig(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &EinoPDFTextExtractor{}, router.pdf)
	tika, ok := router.docx.(*TikaExtractor)
	require.True(t, ok)
	assert.Equal(t, cfg.Tika.RequestTimeout(), tika.Client.Timeout)

	cfg.Extractor.PDFMode = config.PDFModeTika
	router, err = NewFromConfig(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &TikaExtractor{}, router.pdf)

	cfg.Extractor.PDFMode = "ocr"
	_, err = NewFromConfig(ctx, cfg)
	assert.Error(t, err)
}
