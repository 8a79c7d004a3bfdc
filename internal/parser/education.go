package parser

import (
	"regexp"
	"strings"
)

var (
	// 章节模式的院校/学位词表（整体不区分大小写）
	educationSectionRe = regexp.MustCompile(`(?i)University|College|Institute|Bachelor|Master|PhD|Degree|Diploma|B\.?Sc\.?|M\.?Sc\.?|Universitas|Sarjana|S[123]`)

	// 全文模式额外接受 Center/School/Certificate/Certification；S1/S2/S3 区分大小写
	educationFullTextRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)University|College|Institute|Center|School`),
		regexp.MustCompile(`(?i)Bachelor|Master|PhD|Degree|Diploma|Certificate|Certification`),
		regexp.MustCompile(`(?i)B\.?Sc\.?|M\.?Sc\.?`),
		regexp.MustCompile(`(?i)Universitas|Sarjana`),
		regexp.MustCompile(`S[123]`),
	}

	educationEnterWords = []string{"education", "academic", "pendidikan"}
)

// ParseEducationSection 教育章节模式：保留命中院校/学位词表的行（原样）
func ParseEducationSection(body []string) []string {
	education := []string{}
	for _, line := range body {
		if educationSectionRe.MatchString(line) {
			education = append(education, line)
		}
	}
	return education
}

// ExtractEducation 全文模式：遇到 education/academic/pendidikan 行进入章节，
// 此后收集所有命中词表的行。进入后没有退出条件，一直扫描到文末。
func ExtractEducation(text string) []string {
	education := []string{}
	state := stateOutside

	for _, line := range rawLines(text) {
		if containsAny(strings.ToLower(line), educationEnterWords...) {
			state = stateInside
			continue
		}
		if state == stateInside && matchesEducationVocabulary(line) {
			education = append(education, line)
		}
	}
	return education
}

func matchesEducationVocabulary(line string) bool {
	for _, re := range educationFullTextRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
