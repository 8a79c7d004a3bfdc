package parser

import (
	"regexp"
	"strings"

	"resume-parser-go/internal/types"
)

var (
	// "Company — Position"
	companyDashRe = regexp.MustCompile(`^(.+?)\s+(?:—|–|-)\s+(.+)$`)
	// "Position - Company (Duration)"
	headerWithParenRe = regexp.MustCompile(`(?i)^(.+?)\s+(?:-|–)\s+(.+?)\s*\(([^)]+)\)`)
	// "Position at/@/-/| Company"
	roleCompanyRe = regexp.MustCompile(`(?i)^(.+?)\s+(?:at|@|-|\|)\s+(.+)$`)
	// "(... 2020 ...)"
	durationParenRe = regexp.MustCompile(`\(([^)]+\d{4}[^)]*)\)`)
	trailingParenRe = regexp.MustCompile(`\s*\(([^)]+)\).*`)
	bulletPrefixRe  = regexp.MustCompile(`^[-•*◦▪▫]\s*`)
	emptyParenRe    = regexp.MustCompile(`\(\s*\)`)

	experienceEnterWords = []string{"experience", "employment", "work history", "professional experience"}
	experienceExitWords  = []string{"education", "skills", "projects", "certifications", "awards"}
)

const bulletGlyphs = "-•*◦▪▫"

// scanState 全文扫描时是否处于目标章节内
type scanState int

const (
	stateOutside scanState = iota
	stateInside
)

// experienceAccumulator 工作经历累加器。
// pending 为正在构建的条目，只有公司与职位都非空时才会提交到 entries。
type experienceAccumulator struct {
	entries []types.WorkExperience
	pending types.WorkExperience
}

// commit 提交完整的待定条目并重置
func (a *experienceAccumulator) commit() {
	if a.pending.Company != "" && a.pending.Position != "" {
		a.entries = append(a.entries, a.pending)
	}
	a.pending = types.WorkExperience{}
}

// begin 开始一个新条目，之前的待定条目先尝试提交
func (a *experienceAccumulator) begin(next types.WorkExperience) {
	a.commit()
	a.pending = next
}

// result 结束扫描并返回已提交的条目
func (a *experienceAccumulator) result() []types.WorkExperience {
	a.commit()
	if a.entries == nil {
		return []types.WorkExperience{}
	}
	return a.entries
}

// feed 处理章节内的一行：新条目标题、时间段或描述要点
func (a *experienceAccumulator) feed(line string) {
	if line == "" {
		return
	}
	bullet := isBulletLine(line)

	if !bullet {
		if next, ok := firstMatch[types.WorkExperience](
			func() (types.WorkExperience, bool) { return matchCompanyDash(line) },
			func() (types.WorkExperience, bool) { return matchHeaderWithParen(line) },
		); ok {
			a.begin(next)
			return
		}
	}

	duration, isRange := matchDurationRange(line)
	if !isRange {
		if m := durationParenRe.FindStringSubmatch(line); m != nil {
			duration = m[1]
		}
	}

	// 去掉时间段后仍是 "职位 at 公司" 形式的行开始新条目，时间段归入新条目
	if !bullet {
		if next, ok := matchRoleCompany(stripDateRanges(line)); ok {
			next.Duration = duration
			a.begin(next)
			return
		}
	}

	if duration != "" {
		a.pending.Duration = duration
	}
	if isRange {
		return
	}

	if desc, ok := descriptionFromBullet(line); ok {
		a.pending.Description += desc + " "
	}
}

func isBulletLine(line string) bool {
	return line != "" && strings.ContainsRune(bulletGlyphs, []rune(line)[0])
}

// matchCompanyDash "公司 — 职位"，仅当右侧含职位词且左侧不含时成立
func matchCompanyDash(line string) (types.WorkExperience, bool) {
	m := companyDashRe.FindStringSubmatch(line)
	if m == nil {
		return types.WorkExperience{}, false
	}
	left, right := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	if !containsAny(strings.ToLower(right), experienceJobWords...) || containsAny(strings.ToLower(left), experienceJobWords...) {
		return types.WorkExperience{}, false
	}
	return types.WorkExperience{Company: left, Position: right}, true
}

// matchHeaderWithParen "职位 - 公司 (时间段)"
func matchHeaderWithParen(line string) (types.WorkExperience, bool) {
	m := headerWithParenRe.FindStringSubmatch(line)
	if m == nil {
		return types.WorkExperience{}, false
	}
	return types.WorkExperience{
		Position: strings.TrimSpace(m[1]),
		Company:  strings.TrimSpace(m[2]),
		Duration: strings.TrimSpace(m[3]),
	}, true
}

// matchRoleCompany "职位 at/@/-/| 公司"，公司中的括号内容被去掉
func matchRoleCompany(line string) (types.WorkExperience, bool) {
	m := roleCompanyRe.FindStringSubmatch(line)
	if m == nil {
		return types.WorkExperience{}, false
	}
	return types.WorkExperience{
		Position: strings.TrimSpace(m[1]),
		Company:  trailingParenRe.ReplaceAllString(strings.TrimSpace(m[2]), ""),
	}, true
}

// stripDateRanges 去掉行内的月份区间、年份区间以及因此留下的空括号
func stripDateRanges(line string) string {
	line = monthRangeRe.ReplaceAllString(line, "")
	line = yearRangeRe.ReplaceAllString(line, "")
	line = emptyParenRe.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

// matchDurationRange 月份区间或年份区间
func matchDurationRange(line string) (string, bool) {
	if m := monthRangeRe.FindStringSubmatch(line); m != nil {
		return formatMonthRange(m), true
	}
	if m := yearRangeRe.FindStringSubmatch(line); m != nil {
		return m[1] + " - " + m[2], true
	}
	return "", false
}

// descriptionFromBullet 较长的要点行（不含 @ 与四位年份）作为描述
func descriptionFromBullet(line string) (string, bool) {
	if !isBulletLine(line) || runeLen(line) <= 20 || strings.Contains(line, "@") || fourDigitYearRe.MatchString(line) {
		return "", false
	}
	clean := strings.TrimSpace(bulletPrefixRe.ReplaceAllString(line, ""))
	if runeLen(clean) <= 10 {
		return "", false
	}
	return clean, true
}

// ParseExperienceSection 工作经历章节模式
func ParseExperienceSection(body []string) []types.WorkExperience {
	acc := &experienceAccumulator{}
	for _, line := range body {
		acc.feed(line)
	}
	return acc.result()
}

// ExtractWorkExperience 全文模式：遇到经历类标题进入章节，遇到教育/技能/项目/证书/奖项标题退出（退出前提交待定条目）
func ExtractWorkExperience(text string) []types.WorkExperience {
	acc := &experienceAccumulator{}
	state := stateOutside

	for _, line := range rawLines(text) {
		lower := strings.ToLower(line)
		if containsAny(lower, experienceEnterWords...) {
			state = stateInside
			continue
		}
		if state == stateInside && containsAny(lower, experienceExitWords...) {
			state = stateOutside
			acc.commit()
			continue
		}
		if state == stateInside {
			acc.feed(line)
		}
	}
	return acc.result()
}
