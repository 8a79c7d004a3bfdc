package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"resume-parser-go/internal/types"
)

// defaultSectionHeaderPatterns 默认的章节标题正则（行首锚定，不区分大小写，含印尼语同义词）
var defaultSectionHeaderPatterns = map[types.SectionKind]string{
	types.SectionSkills:     `(?i)^(top\s+skills|skills?|technical skills?|keahlian)`,
	types.SectionExperience: `(?i)^(experience|work\s+history|employment|professional\s+experience|pengalaman)`,
	types.SectionEducation:  `(?i)^(education|academic|pendidikan)`,
	types.SectionProjects:   `(?i)^(projects?|portfolio|proyek)`,
	types.SectionContact:    `(?i)^(contact|contacts?|kontak)`,
}

// sectionHeader 编译后的章节标题规则
type sectionHeader struct {
	kind types.SectionKind
	re   *regexp.Regexp
}

// SectionDetector 章节检测器
type SectionDetector struct {
	headers []sectionHeader
}

// defaultDetector 默认规则的检测器，规则为常量，编译不会失败
var defaultDetector = mustSectionDetector(nil)

func mustSectionDetector(custom map[types.SectionKind]string) *SectionDetector {
	d, err := NewSectionDetector(custom)
	if err != nil {
		panic(err)
	}
	return d
}

// NewSectionDetector 创建章节检测器，custom 中的规则覆盖同类型的默认规则
func NewSectionDetector(custom map[types.SectionKind]string) (*SectionDetector, error) {
	patterns := make(map[types.SectionKind]string, len(defaultSectionHeaderPatterns))
	for kind, p := range defaultSectionHeaderPatterns {
		patterns[kind] = p
	}
	for kind, p := range custom {
		if _, known := patterns[kind]; !known {
			return nil, fmt.Errorf("未知的章节类型: %s", kind)
		}
		patterns[kind] = p
	}

	d := &SectionDetector{}
	// 按固定顺序编译，保证一行同时命中多个规则时结果稳定
	for _, kind := range types.SectionKinds {
		re, err := regexp.Compile(patterns[kind])
		if err != nil {
			return nil, fmt.Errorf("编译章节正则表达式错误 %s: %w", kind, err)
		}
		d.headers = append(d.headers, sectionHeader{kind: kind, re: re})
	}
	return d, nil
}

// DetectSections 使用默认规则检测章节
func DetectSections(lines []string) map[types.SectionKind]types.SectionRange {
	return defaultDetector.Detect(lines)
}

// Detect 扫描规范化行，返回每种章节的行范围。
// 同一类型只记录第一次出现的标题；每个范围截止到下一个标题的前一行或文末。
// 未检测到的类型不出现在结果中。
func (d *SectionDetector) Detect(lines []string) map[types.SectionKind]types.SectionRange {
	starts := make(map[types.SectionKind]int)
	for idx, line := range lines {
		if kind, ok := d.classifyLine(line, starts); ok {
			starts[kind] = idx
		}
	}

	ordered := make([]int, 0, len(starts))
	for _, s := range starts {
		ordered = append(ordered, s)
	}
	sort.Ints(ordered)

	ranges := make(map[types.SectionKind]types.SectionRange, len(starts))
	for kind, start := range starts {
		end := len(lines) - 1
		i := sort.SearchInts(ordered, start+1)
		if i < len(ordered) {
			end = ordered[i] - 1
		}
		ranges[kind] = types.SectionRange{Kind: kind, StartLine: start, EndLine: end}
	}
	return ranges
}

// classifyLine 返回该行所属的、尚未记录的第一个章节类型
func (d *SectionDetector) classifyLine(line string, seen map[types.SectionKind]int) (types.SectionKind, bool) {
	for _, h := range d.headers {
		if _, done := seen[h.kind]; done {
			continue
		}
		if h.re.MatchString(line) {
			return h.kind, true
		}
	}
	return "", false
}

// SectionBody 返回章节标题之后、范围结束之前（含）的行
func SectionBody(lines []string, r types.SectionRange) []string {
	start := r.StartLine + 1
	end := r.EndLine + 1
	if start > len(lines) {
		start = len(lines)
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return nil
	}
	return lines[start:end]
}

// OrderedSections 按起始行排序的章节范围
func OrderedSections(sections map[types.SectionKind]types.SectionRange) []types.SectionRange {
	out := make([]types.SectionRange, 0, len(sections))
	for _, r := range sections {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartLine < out[j].StartLine })
	return out
}

// FormatSections 将检测结果格式化为易读文本，便于调试
func FormatSections(lines []string, sections map[types.SectionKind]types.SectionRange) string {
	var result strings.Builder
	ordered := OrderedSections(sections)
	for i, r := range ordered {
		result.WriteString(fmt.Sprintf("=== %s (%d-%d) ===\n", r.Kind, r.StartLine, r.EndLine))
		result.WriteString(strings.Join(SectionBody(lines, r), "\n"))
		if i < len(ordered)-1 {
			result.WriteString("\n\n")
		}
	}
	return result.String()
}
