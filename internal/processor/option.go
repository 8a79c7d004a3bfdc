package processor

import (
	"time"

	"resume-parser-go/internal/parser"
	"resume-parser-go/internal/types"

	"github.com/rs/zerolog"
)

// ComponentOpt 组件选项类型，仅改变 Components 结构体内的字段
type ComponentOpt func(*Components)

// SettingOpt 设置选项类型，仅改变 Settings 结构体内的字段
type SettingOpt func(*Settings)

// ----- 组件选项 -----

// WithExtractor 设置文本提取器
func WithExtractor(extractor TextExtractor) ComponentOpt {
	return func(c *Components) {
		c.Extractor = extractor
	}
}

// WithParser 设置文本级解析器
func WithParser(p *parser.ResumeTextParser) ComponentOpt {
	return func(c *Components) {
		c.Parser = p
	}
}

// WithCache 设置解析结果缓存，nil 表示不缓存
func WithCache(cache CandidateCache) ComponentOpt {
	return func(c *Components) {
		c.Cache = cache
	}
}

// ----- 设置选项 -----

// WithMaxFileBytes 单个文件大小上限
func WithMaxFileBytes(n int64) SettingOpt {
	return func(s *Settings) {
		if n > 0 {
			s.MaxFileBytes = n
		}
	}
}

// WithAllowedFormats 允许的容器格式
func WithAllowedFormats(formats ...types.FileFormat) SettingOpt {
	return func(s *Settings) {
		if len(formats) > 0 {
			s.AllowedFormats = formats
		}
	}
}

// WithExtractTimeout 单个文件文本提取超时，<=0 表示不限
func WithExtractTimeout(d time.Duration) SettingOpt {
	return func(s *Settings) {
		s.ExtractTimeout = d
	}
}

// WithClock 设置 uploadedAt 使用的时钟
func WithClock(now func() time.Time) SettingOpt {
	return func(s *Settings) {
		if now != nil {
			s.Now = now
		}
	}
}

// WithIDGenerator 设置候选人 ID 生成函数
func WithIDGenerator(newID func() string) SettingOpt {
	return func(s *Settings) {
		if newID != nil {
			s.NewID = newID
		}
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger zerolog.Logger) SettingOpt {
	return func(s *Settings) {
		s.Logger = logger
	}
}
