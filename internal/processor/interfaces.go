package processor

import (
	"context"

	"resume-parser-go/internal/types"
)

// TextExtractor 容器格式文本提取接口，由 extractor.Router 实现
type TextExtractor interface {
	Extract(ctx context.Context, format types.FileFormat, data []byte, uri string) (*types.ExtractedDocument, error)
}

// CandidateCache 解析结果缓存接口，键为文件内容的 MD5
type CandidateCache interface {
	// Get 未命中时返回 (nil, false, nil)
	Get(ctx context.Context, fileMD5 string) (*types.Candidate, bool, error)
	Set(ctx context.Context, fileMD5 string, candidate *types.Candidate) error
}

// ProgressFunc 批量解析进度回调：开始处理第 index 个文件前调用一次，全部结束后以 index == total 再调用一次
type ProgressFunc func(index, total int, fileName string)
