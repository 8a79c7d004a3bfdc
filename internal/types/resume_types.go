package types

import (
	"slices"
	"time"
)

// SectionKind 表示简历章节类型
type SectionKind string

const (
	// SectionSkills 技能章节
	SectionSkills SectionKind = "skills"
	// SectionExperience 工作经历章节
	SectionExperience SectionKind = "experience"
	// SectionEducation 教育经历章节
	SectionEducation SectionKind = "education"
	// SectionProjects 项目经历章节
	SectionProjects SectionKind = "projects"
	// SectionContact 联系方式章节
	SectionContact SectionKind = "contact"
)

// SectionKinds 按检测优先级排列的全部章节类型
var SectionKinds = []SectionKind{
	SectionSkills,
	SectionExperience,
	SectionEducation,
	SectionProjects,
	SectionContact,
}

// SectionRange 章节在规范化文本中的行范围（闭区间，StartLine 为标题行）
type SectionRange struct {
	Kind      SectionKind `json:"kind"`
	StartLine int         `json:"start_line"`
	EndLine   int         `json:"end_line"`
}

// SkillCategory 技能分类
type SkillCategory string

const (
	CategoryFrontend SkillCategory = "frontend"
	CategoryBackend  SkillCategory = "backend"
	CategoryTools    SkillCategory = "tools"
	CategorySoft     SkillCategory = "soft"
	CategoryDatabase SkillCategory = "database"
	CategoryCloud    SkillCategory = "cloud"
)

// SkillCategories 全部技能分类，顺序固定
var SkillCategories = []SkillCategory{
	CategoryFrontend,
	CategoryBackend,
	CategoryTools,
	CategorySoft,
	CategoryDatabase,
	CategoryCloud,
}

// IsValidSkillCategory 是否为已知的技能分类
func IsValidSkillCategory(c SkillCategory) bool {
	return slices.Contains(SkillCategories, c)
}

// Skill 候选人技能
type Skill struct {
	Name              string        `json:"name"`
	Category          SkillCategory `json:"category"`
	YearsOfExperience int           `json:"yearsOfExperience"`
	Confidence        float64       `json:"confidence"` // [0,1]
}

// WorkExperience 一段工作经历
type WorkExperience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// CandidateStatus 候选人状态，仅由外部存储层修改
type CandidateStatus string

const (
	StatusActive       CandidateStatus = "active"
	StatusNotToForward CandidateStatus = "not-to-forward"
	StatusArchived     CandidateStatus = "archived"
)

// Candidate 解析输出的候选人记录
type Candidate struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	JobTitle        string           `json:"jobTitle"`
	TotalExperience float64          `json:"totalExperience"`
	Skills          []Skill          `json:"skills"`
	Email           string           `json:"email,omitempty"`
	Phone           string           `json:"phone,omitempty"`
	Location        string           `json:"location,omitempty"`
	Summary         string           `json:"summary,omitempty"`
	Education       []string         `json:"education"`
	Experience      []WorkExperience `json:"experience"`
	FileName        string           `json:"fileName,omitempty"`
	UploadedAt      time.Time        `json:"uploadedAt"`
	Status          CandidateStatus  `json:"status"`
}

// TextFragment PDF页面中的一段定位文本，由外部文本提取组件产生
type TextFragment struct {
	Text      string  `json:"text"`
	BaselineY float64 `json:"baselineY"`
	FontSize  float64 `json:"fontSize"`
}

// ReconstructedLine 重建后的一行文本
type ReconstructedLine struct {
	Text        string  `json:"text"`
	MaxFontSize float64 `json:"maxFontSize"`
}

// FileFormat 简历文件容器格式
type FileFormat string

const (
	FormatPDF     FileFormat = "pdf"
	FormatDOCX    FileFormat = "docx"
	FormatUnknown FileFormat = "unknown"
)

// ExtractedDocument 文本提取组件的输出。
// PDF 定位模式下 Pages 非空；纯文本模式（DOCX、Tika、Eino）下只有 Text。
type ExtractedDocument struct {
	Format FileFormat
	Text   string
	Pages  [][]TextFragment
	Meta   map[string]interface{}
}

// ResumeFile 待解析的上传文件
type ResumeFile struct {
	Name        string
	ContentType string // 可为空，此时按扩展名判断格式
	Data        []byte
}
