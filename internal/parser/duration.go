package parser

import (
	"strconv"
	"strings"
	"time"

	"resume-parser-go/internal/types"
)

// ToMonths 将时间段文本换算为月数。按优先级识别：
//  1. "Month YYYY - [Month] YYYY|present|current"
//  2. "YYYY - YYYY|present|current"
//  3. "N years"
//
// 缺省的结束月份取当前月份，present/current 取当前年份。无法识别时返回 false。
func ToMonths(duration string, now time.Time) (int, bool) {
	if strings.TrimSpace(duration) == "" {
		return 0, false
	}

	if m := monthRangeRe.FindStringSubmatch(duration); m != nil {
		startMonth := monthIndex[strings.ToLower(m[1])]
		startYear, _ := strconv.Atoi(m[2])
		endYear := resolveYear(m[4], now)
		endMonth := int(now.Month()) - 1
		if m[3] != "" {
			endMonth = monthIndex[strings.ToLower(m[3])]
		}
		return max(0, (endYear-startYear)*12+(endMonth-startMonth)), true
	}

	if m := yearRangeRe.FindStringSubmatch(duration); m != nil {
		startYear, _ := strconv.Atoi(m[1])
		endYear := resolveYear(m[2], now)
		return max(0, (endYear-startYear)*12), true
	}

	if m := explicitYearsRe.FindStringSubmatch(duration); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 12, true
	}
	return 0, false
}

func resolveYear(s string, now time.Time) int {
	switch strings.ToLower(s) {
	case "present", "current":
		return now.Year()
	}
	y, _ := strconv.Atoi(s)
	return y
}

// TotalMonths 累加所有工作经历的月数，无法解析的条目计 0
func TotalMonths(items []types.WorkExperience, now time.Time) int {
	total := 0
	for _, it := range items {
		if m, ok := ToMonths(it.Duration, now); ok {
			total += m
		}
	}
	return total
}

// formatMonthRange 将月份区间匹配结果规范为 "Jan 2020 - Mar 2022" 形式
func formatMonthRange(m []string) string {
	end := m[4]
	if m[3] != "" {
		end = m[3] + " " + end
	}
	return m[1] + " " + m[2] + " - " + end
}
