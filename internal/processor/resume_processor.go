package processor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/extractor"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/parser"
	"resume-parser-go/internal/types"
	"resume-parser-go/pkg/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Components 聚合所有功能组件依赖，便于集中管理和测试替换
type Components struct {
	Extractor TextExtractor            // 容器格式文本提取
	Parser    *parser.ResumeTextParser // 文本级启发式解析
	Cache     CandidateCache           // 可选的解析结果缓存
}

// Settings 纯配置项，不包含任何业务逻辑组件
type Settings struct {
	MaxFileBytes   int64
	AllowedFormats []types.FileFormat
	ExtractTimeout time.Duration
	Now            func() time.Time
	NewID          func() string
	Logger         zerolog.Logger
}

// ResumeProcessor 文件级解析编排：校验、提取、解析、补全元数据。
// 单个文件失败时返回占位记录与错误；批量解析时失败的文件被跳过。
type ResumeProcessor struct {
	Components
	Settings
}

// FailedFile 批量解析中被跳过的文件
type FailedFile struct {
	FileName string
	Err      error
}

// BatchResult 批量解析结果，Candidates 与输入顺序一致（不含失败的文件）
type BatchResult struct {
	Candidates []types.Candidate
	Failed     []FailedFile
}

func defaultSettings() *Settings {
	return &Settings{
		MaxFileBytes:   constants.DefaultMaxFileBytes,
		AllowedFormats: []types.FileFormat{types.FormatPDF, types.FormatDOCX},
		Now:            time.Now,
		NewID:          func() string { return uuid.New().String() },
		Logger:         logger.Component("processor"),
	}
}

// NewResumeProcessor 由组件与设置构造处理器
func NewResumeProcessor(comp *Components, set *Settings, opts ...SettingOpt) *ResumeProcessor {
	for _, opt := range opts {
		opt(set)
	}

	def := defaultSettings()
	if set.Now == nil {
		set.Now = def.Now
	}
	if set.NewID == nil {
		set.NewID = def.NewID
	}
	if set.MaxFileBytes <= 0 {
		set.MaxFileBytes = def.MaxFileBytes
	}
	if len(set.AllowedFormats) == 0 {
		set.AllowedFormats = def.AllowedFormats
	}
	if comp.Parser == nil {
		comp.Parser = parser.NewResumeTextParser()
	}

	return &ResumeProcessor{Components: *comp, Settings: *set}
}

// CreateProcessor 便捷工厂函数，用于创建组件和设置并构造处理器
func CreateProcessor(compOpts []ComponentOpt, setOpts []SettingOpt) (*ResumeProcessor, error) {
	components := &Components{}
	for _, opt := range compOpts {
		opt(components)
	}
	if components.Extractor == nil {
		return nil, fmt.Errorf("必须提供文本提取器组件")
	}
	return NewResumeProcessor(components, defaultSettings(), setOpts...), nil
}

// NewProcessorFromConfig 按配置组装提取器与解析器；cache 为 nil 时不缓存
func NewProcessorFromConfig(ctx context.Context, cfg *config.Config, cache CandidateCache) (*ResumeProcessor, error) {
	router, err := extractor.NewFromConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("创建文本提取器失败: %w", err)
	}

	parserOpts := []parser.Option{
		parser.WithSkillCap(cfg.Parser.SkillCap),
		parser.WithNameHint(cfg.Parser.NameHintEnabled()),
	}
	if len(cfg.Parser.SectionHeaders) > 0 {
		custom := make(map[types.SectionKind]string, len(cfg.Parser.SectionHeaders))
		for kind, pattern := range cfg.Parser.SectionHeaders {
			custom[types.SectionKind(kind)] = pattern
		}
		detector, err := parser.NewSectionDetector(custom)
		if err != nil {
			return nil, fmt.Errorf("章节标题配置无效: %w", err)
		}
		parserOpts = append(parserOpts, parser.WithSectionDetector(detector))
	}

	formats := make([]types.FileFormat, 0, len(cfg.Upload.AllowedFormats))
	for _, f := range cfg.Upload.AllowedFormats {
		formats = append(formats, types.FileFormat(strings.ToLower(f)))
	}

	compOpts := []ComponentOpt{
		WithExtractor(router),
		WithParser(parser.NewResumeTextParser(parserOpts...)),
	}
	if cache != nil {
		compOpts = append(compOpts, WithCache(cache))
	}
	return CreateProcessor(compOpts, []SettingOpt{
		WithMaxFileBytes(cfg.Upload.MaxFileBytes()),
		WithAllowedFormats(formats...),
		WithExtractTimeout(cfg.Extractor.ExtractTimeout()),
	})
}

// Parse 解析单个文件。失败时返回占位记录（非 nil）与错误，由调用方决定是否使用占位记录。
func (rp *ResumeProcessor) Parse(ctx context.Context, file types.ResumeFile) (*types.Candidate, error) {
	log := rp.Logger.With().Str("file", file.Name).Logger()

	if _, err := rp.validate(file); err != nil {
		log.Warn().Err(err).Msg("文件校验失败")
		return rp.FallbackCandidate(file), err
	}

	fileMD5 := utils.ContentFingerprint(file.Data)
	if cached := rp.lookupCache(ctx, fileMD5, log); cached != nil {
		rp.stamp(cached, file)
		log.Debug().Str("md5", fileMD5).Msg("命中解析结果缓存")
		return cached, nil
	}

	result, err := rp.Analyze(ctx, file)
	if err != nil {
		log.Warn().Err(err).Msg("简历解析失败，使用占位记录")
		return rp.FallbackCandidate(file), err
	}

	candidate := result.Candidate
	if rp.Cache != nil {
		if err := rp.Cache.Set(ctx, fileMD5, &candidate); err != nil {
			log.Warn().Err(err).Msg("写入解析结果缓存失败")
		}
	}
	return &candidate, nil
}

// Analyze 校验、提取并解析单个文件，返回包含规范化行与章节范围的完整结果，不读写缓存
func (rp *ResumeProcessor) Analyze(ctx context.Context, file types.ResumeFile) (*parser.ParseResult, error) {
	startTime := time.Now()
	log := rp.Logger.With().Str("file", file.Name).Logger()

	format, err := rp.validate(file)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("format", string(format)).Int("bytes", len(file.Data)).Msg("开始解析简历")

	doc, err := rp.extract(ctx, format, file)
	if err != nil {
		return nil, err
	}

	result := rp.Parser.ParseDocument(doc)
	rp.stamp(&result.Candidate, file)

	log.Debug().
		Str("name", logger.SafeValue("name", result.Candidate.Name)).
		Str("email", logger.SafeValue("email", result.Candidate.Email)).
		Str("job_title", logger.SafeValue("job_title", result.Candidate.JobTitle)).
		Int("skills", len(result.Candidate.Skills)).
		Int("experience", len(result.Candidate.Experience)).
		Int("sections", len(result.Sections)).
		Dur("duration", time.Since(startTime)).
		Msg("简历解析完成")
	return result, nil
}

// ParseBatch 按顺序逐个解析，失败的文件记录日志后跳过，不影响其他文件。
// 只有上下文被取消时才提前结束并返回错误，此时已完成的结果仍然返回。
func (rp *ResumeProcessor) ParseBatch(ctx context.Context, files []types.ResumeFile, progress ProgressFunc) (*BatchResult, error) {
	result := &BatchResult{Candidates: make([]types.Candidate, 0, len(files))}
	total := len(files)

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if progress != nil {
			progress(i, total, file.Name)
		}

		candidate, err := rp.Parse(ctx, file)
		if err != nil {
			rp.Logger.Warn().Err(err).Str("file", file.Name).Int("index", i).Msg("跳过解析失败的文件")
			result.Failed = append(result.Failed, FailedFile{FileName: file.Name, Err: err})
			continue
		}
		result.Candidates = append(result.Candidates, *candidate)
	}

	if progress != nil {
		progress(total, total, "")
	}
	rp.Logger.Info().
		Int("total", total).
		Int("parsed", len(result.Candidates)).
		Int("failed", len(result.Failed)).
		Msg("批量解析完成")
	return result, nil
}

// FallbackCandidate 解析失败时的占位记录
func (rp *ResumeProcessor) FallbackCandidate(file types.ResumeFile) *types.Candidate {
	c := &types.Candidate{
		Name:            constants.FallbackCandidateName,
		JobTitle:        constants.FallbackJobTitle,
		TotalExperience: 0,
		Skills: []types.Skill{
			{Name: "Problem Solving", Category: types.CategorySoft, YearsOfExperience: 1, Confidence: 0.5},
			{Name: "Communication", Category: types.CategorySoft, YearsOfExperience: 1, Confidence: 0.5},
		},
		Education:  []string{},
		Experience: []types.WorkExperience{},
	}
	rp.stamp(c, file)
	return c
}

// validate 检查文件非空、大小与格式
func (rp *ResumeProcessor) validate(file types.ResumeFile) (types.FileFormat, error) {
	if len(file.Data) == 0 {
		return types.FormatUnknown, NewValidationError(file.Name, ErrEmptyFile, "")
	}
	if int64(len(file.Data)) > rp.MaxFileBytes {
		return types.FormatUnknown, NewValidationError(file.Name, ErrFileTooLarge,
			fmt.Sprintf("%d 字节，上限 %d 字节", len(file.Data), rp.MaxFileBytes))
	}
	format := extractor.DetectFormat(file.Name, file.ContentType)
	if format == types.FormatUnknown || !slices.Contains(rp.AllowedFormats, format) {
		return types.FormatUnknown, NewValidationError(file.Name, ErrUnsupportedFormat,
			fmt.Sprintf("content-type %q", file.ContentType))
	}
	return format, nil
}

func (rp *ResumeProcessor) extract(ctx context.Context, format types.FileFormat, file types.ResumeFile) (*types.ExtractedDocument, error) {
	if rp.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rp.ExtractTimeout)
		defer cancel()
	}

	doc, err := rp.Extractor.Extract(ctx, format, file.Data, file.Name)
	if err != nil {
		if errors.Is(err, extractor.ErrUnsupportedFormat) {
			return nil, NewValidationError(file.Name, ErrUnsupportedFormat, err.Error())
		}
		return nil, NewExtractError(file.Name, err)
	}
	if doc == nil || (strings.TrimSpace(doc.Text) == "" && strings.TrimSpace(parser.JoinPages(doc.Pages)) == "") {
		return nil, NewEmptyTextError(file.Name)
	}
	return doc, nil
}

// stamp 填写与文件绑定的字段
func (rp *ResumeProcessor) stamp(c *types.Candidate, file types.ResumeFile) {
	c.ID = rp.NewID()
	c.FileName = file.Name
	c.UploadedAt = rp.Now()
	c.Status = types.StatusActive
}

func (rp *ResumeProcessor) lookupCache(ctx context.Context, fileMD5 string, log zerolog.Logger) *types.Candidate {
	if rp.Cache == nil {
		return nil
	}
	cached, ok, err := rp.Cache.Get(ctx, fileMD5)
	if err != nil {
		log.Warn().Err(err).Msg("读取解析结果缓存失败，继续解析")
		return nil
	}
	if !ok {
		return nil
	}
	return cached
}
