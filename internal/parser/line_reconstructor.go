package parser

import (
	"math"
	"sort"
	"strings"

	"resume-parser-go/internal/types"
)

// lineYTolerance 纵坐标相差不超过该值的文本片段视为同一行
const lineYTolerance = 2

// nameHintMaxLen 姓名提示候选的最大长度
const nameHintMaxLen = 60

// lineCluster 同一行的片段聚类
type lineCluster struct {
	key     int // 首个片段的取整纵坐标，之后不再变化
	parts   []string
	maxFont float64
}

// ReconstructLines 将单页的定位片段按纵坐标聚类成行，并按从上到下的顺序返回。
// PDF 坐标系纵轴向上，因此纵坐标降序即阅读顺序。
func ReconstructLines(fragments []types.TextFragment) []types.ReconstructedLine {
	var clusters []*lineCluster

	for _, frag := range fragments {
		text := strings.TrimSpace(frag.Text)
		if text == "" {
			continue
		}
		y := int(math.Round(frag.BaselineY))

		target := nearestCluster(clusters, y)
		if target == nil {
			target = &lineCluster{key: y}
			clusters = append(clusters, target)
		}
		target.parts = append(target.parts, text)
		if frag.FontSize > target.maxFont {
			target.maxFont = frag.FontSize
		}
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].key > clusters[j].key
	})

	lines := make([]types.ReconstructedLine, 0, len(clusters))
	for _, c := range clusters {
		lines = append(lines, types.ReconstructedLine{
			Text:        strings.Join(c.parts, " "),
			MaxFontSize: c.maxFont,
		})
	}
	return lines
}

// nearestCluster 查找容差范围内最近的已有聚类，距离相同时取先建立的
func nearestCluster(clusters []*lineCluster, y int) *lineCluster {
	var best *lineCluster
	bestDist := lineYTolerance + 1
	for _, c := range clusters {
		d := c.key - y
		if d < 0 {
			d = -d
		}
		if d <= lineYTolerance && d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

// JoinPages 逐页重建行并拼接为完整文本，每页末尾补一个换行
func JoinPages(pages [][]types.TextFragment) string {
	var sb strings.Builder
	for _, page := range pages {
		lines := ReconstructLines(page)
		for i, line := range lines {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(line.Text)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RankLinesByFontSize 按行内最大字号降序排列，字号相同保持阅读顺序
func RankLinesByFontSize(lines []types.ReconstructedLine) []types.ReconstructedLine {
	ranked := make([]types.ReconstructedLine, len(lines))
	copy(ranked, lines)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MaxFontSize > ranked[j].MaxFontSize
	})
	return ranked
}

// ExtractNameHint 只看第一页，取字号最大且看起来像横幅（姓名/职位）的行。
// 返回值只是提示，使用前仍需通过姓名校验。
func ExtractNameHint(pages [][]types.TextFragment) string {
	if len(pages) == 0 {
		return ""
	}
	for _, line := range RankLinesByFontSize(ReconstructLines(pages[0])) {
		text := strings.TrimSpace(line.Text)
		if rejectedAsNameHint(text) {
			continue
		}
		words := strings.Fields(text)
		if len(words) >= 1 && len(words) <= 5 {
			return text
		}
	}
	return ""
}

func rejectedAsNameHint(s string) bool {
	if len([]rune(s)) > nameHintMaxLen || strings.Contains(s, "@") {
		return true
	}
	return containsAny(strings.ToLower(s), "summary", "experience", "education", "skills", "contact")
}
