package parser

import (
	"regexp"
	"strings"
)

const (
	// DefaultName 未识别出姓名时的占位值
	DefaultName = "Unknown Candidate"
	// DefaultJobTitle 未识别出职位时的占位值
	DefaultJobTitle = "Software Developer"

	nameMaxLen = 50
)

var (
	nameForbiddenRe = regexp.MustCompile(`[,:|]`)
	digitRe         = regexp.MustCompile(`\d`)
	properWordRe    = regexp.MustCompile(`^[A-Za-z'.-]+$`)

	titleHeaderRe       = regexp.MustCompile(`(?i)summary|experience|education|skills|contact`)
	titleLooseExcludeRe = regexp.MustCompile(`(?i)phone|email|summary|experience|education|skills`)
	titleDigitOrAtRe    = regexp.MustCompile(`[\d@]`)
	httpRe              = regexp.MustCompile(`(?i)http`)

	// 职位后缀中的公司部分：" at X"、" - X"、" | X"、" @ X"
	titleSuffixRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s+at\s+.*$`),
		regexp.MustCompile(`\s+(?:—|–|-)\s+.*$`),
		regexp.MustCompile(`\s*\|\s*.*$`),
		regexp.MustCompile(`\s*@\s*.*$`),
	}
)

// isSectionLine 行内包含章节关键词
func isSectionLine(s string) bool {
	return containsAny(strings.ToLower(s), "summary", "experience", "education", "skills", "projects", "contact")
}

// LooksLikeName 判断一行文本是否像姓名
func LooksLikeName(s string) bool {
	if s == "" || runeLen(s) > nameMaxLen {
		return false
	}
	if strings.Contains(s, "@") || strings.Contains(s, "http") {
		return false
	}
	if digitRe.MatchString(s) || nameForbiddenRe.MatchString(s) || isSectionLine(s) {
		return false
	}
	words := strings.Fields(s)
	if len(words) < 1 || len(words) > 5 {
		return false
	}
	for _, w := range words {
		if _, stop := nameStopWords[strings.ToLower(w)]; stop {
			return false
		}
		if !properWordRe.MatchString(w) {
			return false
		}
	}
	return true
}

// nameContext 姓名识别时参考的位置信息，索引为 -1 表示未找到
type nameContext struct {
	jobIndex     int
	contactIndex int
}

// ExtractName 按优先级查找姓名：职位行之前 3 行、联系方式行之前 3 行、
// 字号提示、前 5 行、前 20 行。
func ExtractName(lines []string, nameHint string, ctx nameContext) string {
	scan := func(from, to, step int) strategy[string] {
		return func() (string, bool) {
			for i := from; i != to; i += step {
				if i < 0 || i >= len(lines) {
					break
				}
				if cand := strings.TrimSpace(lines[i]); LooksLikeName(cand) {
					return cand, true
				}
			}
			return "", false
		}
	}

	var strategies []strategy[string]
	if ctx.jobIndex >= 0 {
		strategies = append(strategies, scan(max(0, ctx.jobIndex-3), ctx.jobIndex, 1))
	}
	if ctx.contactIndex > 0 {
		strategies = append(strategies, scan(ctx.contactIndex-1, max(0, ctx.contactIndex-3)-1, -1))
	}
	strategies = append(strategies,
		func() (string, bool) {
			hint := strings.TrimSpace(nameHint)
			return hint, LooksLikeName(hint)
		},
		scan(0, min(5, len(lines)), 1),
		scan(0, min(20, len(lines)), 1),
	)
	return firstMatchOr(DefaultName, strategies...)
}

// ExtractJobTitle 先在前 10 个非标题行中查找职位关键词；
// 未找到时在前 15 行中用更宽松的过滤条件重试。
func ExtractJobTitle(lines []string) string {
	strict := func() (string, bool) {
		for i := 0; i < min(10, len(lines)); i++ {
			line := strings.TrimSpace(lines[i])
			if line == "" || titleHeaderRe.MatchString(line) {
				continue
			}
			if title, ok := titleFromLine(line); ok && runeLen(title) >= 3 && runeLen(title) <= 80 {
				return title, true
			}
		}
		return "", false
	}
	loose := func() (string, bool) {
		for i := 0; i < min(15, len(lines)); i++ {
			line := strings.TrimSpace(lines[i])
			n := runeLen(line)
			if n <= 5 || n >= 100 {
				continue
			}
			if titleDigitOrAtRe.MatchString(line) || httpRe.MatchString(line) || titleLooseExcludeRe.MatchString(line) {
				continue
			}
			if title, ok := titleFromLine(line); ok {
				return title, true
			}
		}
		return "", false
	}
	return firstMatchOr[string](DefaultJobTitle, strict, loose)
}

// titleFromLine 从最早出现的职位关键词截取到行尾，并去掉公司后缀
func titleFromLine(line string) (string, bool) {
	loc := jobTitleKeywordRe.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	title := line[loc[0]:]
	for _, re := range titleSuffixRes {
		title = re.ReplaceAllString(title, "")
	}
	title = strings.TrimSpace(whitespaceRe.ReplaceAllString(title, " "))
	return title, title != ""
}

// locateContext 找出职位行与联系方式行的位置
func locateContext(lines []string, jobTitle, email, phone string) nameContext {
	ctx := nameContext{jobIndex: indexOfLine(lines, func(l string) bool {
		return strings.Contains(l, jobTitle)
	}), contactIndex: -1}

	emailIdx, phoneIdx := -1, -1
	if email != "" {
		emailIdx = indexOfLine(lines, func(l string) bool {
			return strings.Contains(l, email) || strings.Contains(strings.ToLower(l), "email")
		})
	}
	if phone != "" {
		phoneIdx = indexOfLine(lines, func(l string) bool {
			return strings.Contains(l, phone) || strings.Contains(strings.ToLower(l), "phone")
		})
	}
	switch {
	case emailIdx >= 0 && phoneIdx >= 0:
		ctx.contactIndex = min(emailIdx, phoneIdx)
	case emailIdx >= 0:
		ctx.contactIndex = emailIdx
	default:
		ctx.contactIndex = phoneIdx
	}
	return ctx
}

func indexOfLine(lines []string, pred func(string) bool) int {
	for i, l := range lines {
		if pred(l) {
			return i
		}
	}
	return -1
}
