package parser

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// 依次尝试：国际格式（含分隔符）、"phone:" 标签后的内容、本地格式（0 开头）
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+?\d{1,3}[\s-]?\(?\d{1,4}\)?(?:[\s-]?\d{3,4}){2,4}`),
		regexp.MustCompile(`(?i)phone[:\s]*([+()0-9\s-]{7,})`),
		regexp.MustCompile(`\b0\d{2,3}[\s-]?\d{3,4}[\s-]?\d{3,4}\b`),
	}

	regionCodeRe = regexp.MustCompile(`[A-Z]{2}`)
)

// ExtractEmail 返回文本中第一个邮箱地址
func ExtractEmail(text string) string {
	return emailRe.FindString(text)
}

// ExtractPhone 按优先级尝试各电话格式，第一个命中者胜出
func ExtractPhone(text string) string {
	strategies := make([]strategy[string], 0, len(phonePatterns))
	for _, re := range phonePatterns {
		re := re
		strategies = append(strategies, func() (string, bool) {
			m := re.FindStringSubmatch(text)
			if m == nil {
				return "", false
			}
			if len(m) > 1 && m[1] != "" {
				return strings.TrimSpace(m[1]), true
			}
			return strings.TrimSpace(m[0]), true
		})
	}
	return firstMatchOr("", strategies...)
}

// ExtractLocation 第一行包含逗号，且包含 City/State/Country 或两个连续大写字母（地区代码）
func ExtractLocation(lines []string) string {
	for _, line := range lines {
		if !strings.Contains(line, ",") {
			continue
		}
		if containsAny(line, "City", "State", "Country") || regionCodeRe.MatchString(line) {
			return line
		}
	}
	return ""
}

// ExtractSummary 找到第一个 summary/objective/profile/about 行，取其后最多 3 行中长度大于 10 的内容
func ExtractSummary(text string) string {
	lines := rawLines(text)
	for i, line := range lines {
		if !containsAny(strings.ToLower(line), "summary", "objective", "profile", "about") {
			continue
		}
		end := min(i+4, len(lines))
		var picked []string
		for _, l := range lines[i+1 : end] {
			if runeLen(l) > 10 {
				picked = append(picked, l)
			}
		}
		if len(picked) > 0 {
			return strings.Join(picked, " ")
		}
	}
	return ""
}

func runeLen(s string) int {
	return len([]rune(s))
}
