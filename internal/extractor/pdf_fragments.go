package extractor

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/types"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

// glyphGapRatio 相邻字形水平间距超过 字号*该比例 时视为词间断开
const glyphGapRatio = 0.15

// FragmentPDFExtractor 逐页读取内容流，输出带纵坐标与字号的文本片段
type FragmentPDFExtractor struct {
	logger zerolog.Logger
}

// NewFragmentPDFExtractor 创建定位片段 PDF 提取器
func NewFragmentPDFExtractor() *FragmentPDFExtractor {
	return &FragmentPDFExtractor{logger: logger.Component("pdf_fragments")}
}

var _ Extractor = (*FragmentPDFExtractor)(nil)

// Extract 解析 PDF 字节。内容流损坏时底层库可能 panic，这里转成错误返回。
func (e *FragmentPDFExtractor) Extract(ctx context.Context, data []byte, uri string) (doc *types.ExtractedDocument, err error) {
	startTime := time.Now()
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("读取PDF内容流失败 (URI: %s): %v", uri, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("打开PDF失败 (URI: %s): %w", uri, err)
	}

	numPages := reader.NumPage()
	pages := make([][]types.TextFragment, 0, numPages)
	fragments := 0
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		frags := mergeGlyphs(page.Content().Text)
		fragments += len(frags)
		pages = append(pages, frags)
	}

	e.logger.Debug().
		Str("uri", uri).
		Int("pages", numPages).
		Int("fragments", fragments).
		Dur("duration", time.Since(startTime)).
		Msg("PDF定位片段提取完成")

	return &types.ExtractedDocument{
		Format: types.FormatPDF,
		Pages:  pages,
		Meta: map[string]interface{}{
			"source_file_path": uri,
			"extraction_time":  startTime.Format(time.RFC3339),
			"page_count":       numPages,
			"fragment_count":   fragments,
		},
	}, nil
}

// mergeGlyphs 把内容流中逐字形的文本合并为词级片段：
// 同一基线、同一字号且水平相邻的字形拼在一起，空格或较大间距处断开。
func mergeGlyphs(glyphs []pdf.Text) []types.TextFragment {
	var (
		out     []types.TextFragment
		run     strings.Builder
		cur     types.TextFragment
		lastEnd float64
		open    bool
	)
	flush := func() {
		if open && strings.TrimSpace(run.String()) != "" {
			cur.Text = run.String()
			out = append(out, cur)
		}
		run.Reset()
		open = false
	}

	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			flush()
			continue
		}
		contiguous := open &&
			math.Abs(g.Y-cur.BaselineY) < 0.5 &&
			g.FontSize == cur.FontSize &&
			g.X-lastEnd < cur.FontSize*glyphGapRatio &&
			g.X >= lastEnd-cur.FontSize
		if !contiguous {
			flush()
			cur = types.TextFragment{BaselineY: g.Y, FontSize: g.FontSize}
			open = true
		}
		run.WriteString(g.S)
		lastEnd = g.X + g.W
	}
	flush()
	return out
}
