package parser

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"resume-parser-go/internal/types"
)

// DefaultSkillCap 全文扫描模式下技能列表的最大长度
const DefaultSkillCap = 15

// explicitSkillYearsRe 技能章节内 "<技能>: N years" / "<技能> - N years"
var explicitSkillYearsRe = regexp.MustCompile(`(?i)([A-Za-z0-9.+#\-\s/]+?)\s*[:\-]\s*(\d+)\s*years?`)

// ExtractSkills 全文关键词扫描：去重、按置信度降序，截取前 limit 个（limit<=0 不截取）
func ExtractSkills(text string, limit int) []types.Skill {
	textLower := strings.ToLower(text)
	seen := make(map[string]struct{})
	var skills []types.Skill

	for _, group := range skillVocabulary {
		for _, keyword := range group.Keywords {
			key := strings.ToLower(keyword)
			if !strings.Contains(textLower, key) {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			skills = append(skills, types.Skill{
				Name:              keyword,
				Category:          group.Category,
				YearsOfExperience: SkillExperience(text, keyword),
				Confidence:        SkillConfidence(text, keyword),
			})
		}
	}

	sortByConfidence(skills)
	if limit > 0 && len(skills) > limit {
		skills = skills[:limit]
	}
	return skills
}

// skillYearsTemplates 技能年限的明确表述，%s 为转义后的小写技能名。
// 只允许行内空白：年限与技能必须在同一行。
var skillYearsTemplates = []string{
	`(\d+)[ \t]*years?[ \t]*(?:of[ \t]*)?%s`,
	`%s[ \t]*\((\d+)[ \t]*years?\)`,
	`%s[ \t]*(?:for[ \t]*)?(\d+)[ \t]*years?`,
	`%s[ \t]*[:\-][ \t]*(\d+)[ \t]*years?`,
	`[•\-][ \t]*%s[ \t]*:?[ \t]*(\d+)[ \t]*years?`,
}

// skillYearsPatterns 词表中每个技能（小写）预编译的年限正则
var skillYearsPatterns = buildSkillYearsPatterns()

func buildSkillYearsPatterns() map[string][]*regexp.Regexp {
	patterns := make(map[string][]*regexp.Regexp)
	for _, group := range skillVocabulary {
		for _, keyword := range group.Keywords {
			key := strings.ToLower(keyword)
			if _, ok := patterns[key]; !ok {
				patterns[key] = compileSkillYears(key)
			}
		}
	}
	return patterns
}

func compileSkillYears(key string) []*regexp.Regexp {
	quoted := regexp.QuoteMeta(key)
	res := make([]*regexp.Regexp, len(skillYearsTemplates))
	for i, tpl := range skillYearsTemplates {
		res[i] = regexp.MustCompile(strings.ReplaceAll(tpl, "%s", quoted))
	}
	return res
}

// SkillExperience 推断某项技能的年限：先找明确的年限表述，否则按出现次数估计（>=3 次 3 年，2 次 2 年，否则 1 年）
func SkillExperience(text, skill string) int {
	textLower := strings.ToLower(text)
	key := strings.ToLower(skill)

	patterns, ok := skillYearsPatterns[key]
	if !ok {
		patterns = compileSkillYears(key)
	}
	for _, re := range patterns {
		if m := re.FindStringSubmatch(textLower); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n
			}
		}
	}

	switch freq := strings.Count(textLower, key); {
	case freq >= 3:
		return 3
	case freq >= 2:
		return 2
	default:
		return 1
	}
}

// SkillConfidence 技能置信度：基础 0.5，上下文措辞与出现次数各自叠加，最高 1.0
func SkillConfidence(text, skill string) float64 {
	textLower := strings.ToLower(text)
	s := strings.ToLower(skill)

	confidence := 0.5
	if strings.Contains(textLower, s+" experience") {
		confidence += 0.2
	}
	if strings.Contains(textLower, "proficient in "+s) {
		confidence += 0.2
	}
	if strings.Contains(textLower, "expert in "+s) {
		confidence += 0.3
	}
	if strings.Contains(textLower, "skilled in "+s) {
		confidence += 0.1
	}
	freq := strings.Count(textLower, s)
	confidence += math.Min(float64(freq)*0.1, 0.3)

	return roundConfidence(math.Min(confidence, 1.0))
}

// roundConfidence 消除浮点累加误差，保留两位小数
func roundConfidence(v float64) float64 {
	return math.Round(v*100) / 100
}

// ParseSkillsSection 技能章节模式：对章节文本做关键词扫描（不截取），
// 再逐行识别明确的年限表述，提高已有技能的年限与置信度，或新增 tools 类技能，最后重新按置信度排序。
func ParseSkillsSection(body []string) []types.Skill {
	skills := ExtractSkills(strings.Join(body, "\n"), 0)
	index := make(map[string]int, len(skills))
	for i, s := range skills {
		index[strings.ToLower(s.Name)] = i
	}

	for _, line := range body {
		m := explicitSkillYearsRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(m[1]), "-"))
		if name == "" {
			continue
		}
		years, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		key := strings.ToLower(name)
		if i, ok := index[key]; ok {
			skills[i].YearsOfExperience = max(skills[i].YearsOfExperience, years)
			skills[i].Confidence = roundConfidence(math.Min(1, skills[i].Confidence+0.2))
			continue
		}
		skills = append(skills, types.Skill{
			Name:              name,
			Category:          types.CategoryTools,
			YearsOfExperience: years,
			Confidence:        0.6,
		})
		index[key] = len(skills) - 1
	}
	sortByConfidence(skills)
	return skills
}

func sortByConfidence(skills []types.Skill) {
	sort.SliceStable(skills, func(i, j int) bool {
		return skills[i].Confidence > skills[j].Confidence
	})
}
