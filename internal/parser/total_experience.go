package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"resume-parser-go/internal/types"
)

// 明确声明总年限的写法，按顺序尝试；只在同一行内匹配
var totalExperienceRes = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)[ \t]*years?[ \t]*(?:of[ \t]*)?(?:total[ \t]*)?experience`),
	regexp.MustCompile(`experience:[ \t]*(\d+)[ \t]*years?`),
	regexp.MustCompile(`(\d+)[ \t]*years?[ \t]*in[ \t]*(?:software[ \t]*)?development`),
}

// ExplicitTotalExperience 文本中明确写出的总年限，例如 "5 years of experience"
func ExplicitTotalExperience(text string) (float64, bool) {
	lower := strings.ToLower(text)
	strategies := make([]strategy[float64], 0, len(totalExperienceRes))
	for _, re := range totalExperienceRes {
		re := re
		strategies = append(strategies, func() (float64, bool) {
			return firstIntCapture(re, lower)
		})
	}
	return firstMatch(strategies...)
}

// MaxYearsMention 文本中所有 "N years" 的最大值
func MaxYearsMention(text string) (float64, bool) {
	found := false
	best := 0
	for _, m := range explicitYearsRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if !found || n > best {
			best = n
		}
		found = true
	}
	return float64(best), found
}

// TotalExperience 总工作年限，依次取：明确声明的年限、经历时间段之和（月/12，保留一位小数）、
// 最大的 "N years"、经历条数 * 2，否则为 0。
func TotalExperience(text string, experience []types.WorkExperience, now time.Time) float64 {
	return firstMatchOr[float64](0,
		func() (float64, bool) { return ExplicitTotalExperience(text) },
		func() (float64, bool) {
			months := TotalMonths(experience, now)
			if months <= 0 {
				return 0, false
			}
			return math.Round(float64(months)/12*10) / 10, true
		},
		func() (float64, bool) { return MaxYearsMention(text) },
		func() (float64, bool) {
			return float64(len(experience) * 2), len(experience) > 0
		},
	)
}

func firstIntCapture(re *regexp.Regexp, s string) (float64, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return float64(n), true
}
