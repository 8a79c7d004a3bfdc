// Package parser 简历文本的启发式解析：行重建、章节检测、字段抽取与时间段换算。
// 本包只做纯计算，不做任何 I/O，也不记录日志。
package parser

import (
	"strings"
	"time"

	"resume-parser-go/internal/types"
)

// ResumeTextParser 文本级解析器，可并发使用
type ResumeTextParser struct {
	now      func() time.Time
	skillCap int
	useHint  bool
	detector *SectionDetector
}

// Option 解析器选项
type Option func(*ResumeTextParser)

// WithClock 设置 "present/current" 解析所用的时钟
func WithClock(now func() time.Time) Option {
	return func(p *ResumeTextParser) {
		if now != nil {
			p.now = now
		}
	}
}

// WithSkillCap 设置全文扫描模式下的技能数量上限，<=0 表示不限
func WithSkillCap(n int) Option {
	return func(p *ResumeTextParser) {
		p.skillCap = n
	}
}

// WithNameHint 是否使用首页字号排序得到的姓名提示
func WithNameHint(enabled bool) Option {
	return func(p *ResumeTextParser) {
		p.useHint = enabled
	}
}

// WithSectionDetector 使用自定义章节规则
func WithSectionDetector(d *SectionDetector) Option {
	return func(p *ResumeTextParser) {
		if d != nil {
			p.detector = d
		}
	}
}

// NewResumeTextParser 创建解析器
func NewResumeTextParser(opts ...Option) *ResumeTextParser {
	p := &ResumeTextParser{
		now:      time.Now,
		skillCap: DefaultSkillCap,
		useHint:  true,
		detector: defaultDetector,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseResult 文本级解析结果。
// Candidate 中的 ID、FileName、UploadedAt、Status 由上层填写。
type ParseResult struct {
	Candidate       types.Candidate
	NormalizedLines []string
	Sections        map[types.SectionKind]types.SectionRange
}

// ParseDocument 解析提取组件的输出：有定位片段时先重建行并计算姓名提示
func (p *ResumeTextParser) ParseDocument(doc *types.ExtractedDocument) *ParseResult {
	if doc == nil {
		return p.Parse("", "")
	}
	text := doc.Text
	hint := ""
	if len(doc.Pages) > 0 {
		if strings.TrimSpace(text) == "" {
			text = JoinPages(doc.Pages)
		}
		if p.useHint {
			hint = ExtractNameHint(doc.Pages)
		}
	}
	return p.Parse(text, hint)
}

// Parse 解析完整文本。
// 姓名、职位与联系方式在原始行上识别；技能、经历、教育优先使用检测到的章节，
// 章节缺失时退回全文扫描。
func (p *ResumeTextParser) Parse(text, nameHint string) *ParseResult {
	now := p.now()
	lines := SplitLines(text)

	jobTitle := ExtractJobTitle(lines)
	email := ExtractEmail(text)
	phone := ExtractPhone(text)
	location := ExtractLocation(lines)
	name := ExtractName(lines, nameHint, locateContext(lines, jobTitle, email, phone))

	normalized := NormalizeLines(text)
	sections := p.detector.Detect(normalized)

	var skills []types.Skill
	if r, ok := sections[types.SectionSkills]; ok {
		skills = ParseSkillsSection(SectionBody(normalized, r))
	} else {
		skills = ExtractSkills(text, p.skillCap)
	}
	if skills == nil {
		skills = []types.Skill{}
	}

	var experience []types.WorkExperience
	if r, ok := sections[types.SectionExperience]; ok {
		experience = ParseExperienceSection(SectionBody(normalized, r))
	} else {
		experience = ExtractWorkExperience(text)
	}

	var education []string
	if r, ok := sections[types.SectionEducation]; ok {
		education = ParseEducationSection(SectionBody(normalized, r))
	} else {
		education = ExtractEducation(text)
	}

	return &ParseResult{
		Candidate: types.Candidate{
			Name:            name,
			JobTitle:        jobTitle,
			TotalExperience: TotalExperience(text, experience, now),
			Skills:          skills,
			Email:           email,
			Phone:           phone,
			Location:        location,
			Summary:         ExtractSummary(text),
			Education:       education,
			Experience:      experience,
		},
		NormalizedLines: normalized,
		Sections:        sections,
	}
}
