package parser

import (
	"regexp"
	"strings"
)

var (
	lineBreakRe   = regexp.MustCompile(`[\r\f]`)
	bulletGlyphRe = regexp.MustCompile(`[•*\x{2023}\x{25E6}\x{25AA}\x{25AB}]`)
	pipeRe        = regexp.MustCompile(`[\x{00A6}|]`)
)

// SplitLines 按换行切分，去除首尾空白并丢弃空行
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// rawLines 按换行切分并去除首尾空白，保留空行（全文状态机扫描使用）
func rawLines(text string) []string {
	raw := strings.Split(text, "\n")
	for i := range raw {
		raw[i] = strings.TrimSpace(raw[i])
	}
	return raw
}

// NormalizeLines 生成章节检测使用的规范化行：
// 项目符号统一为 "-"，竖线/断竖线统一为 " | "，空白折叠，空行丢弃。
func NormalizeLines(text string) []string {
	text = lineBreakRe.ReplaceAllString(text, "\n")
	text = bulletGlyphRe.ReplaceAllString(text, "-")
	text = pipeRe.ReplaceAllString(text, " | ")

	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(whitespaceRe.ReplaceAllString(l, " "))
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
