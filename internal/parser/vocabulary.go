package parser

import (
	"regexp"
	"strings"

	"resume-parser-go/internal/types"
)

// 以下词表与正则在进程内只构建一次，之后只读。

// jobTitleKeywords 职位关键词，用于职位识别
var jobTitleKeywords = []string{
	"Developer", "Engineer", "Manager", "Analyst", "Designer", "Consultant", "Specialist",
	"Lead", "Senior", "Junior", "Associate", "Principal", "Staff", "Architect", "Coordinator",
	"Administrator", "Executive", "Officer", "Representative", "Assistant", "Intern", "Trainee",
}

// experienceJobWords 判断 "公司 — 职位" 形式时右侧必须包含的职位词
var experienceJobWords = []string{
	"developer", "engineer", "manager", "analyst", "designer", "consultant", "specialist",
	"lead", "senior", "junior", "associate", "principal", "staff", "architect", "coordinator",
	"administrator", "executive", "officer",
}

// nameStopWords 出现这些词的行不会被当作姓名
var nameStopWords = map[string]struct{}{
	"software": {}, "developer": {}, "engineer": {}, "manager": {}, "analyst": {}, "consultant": {},
	"specialist": {}, "lead": {}, "senior": {}, "junior": {}, "architect": {}, "designer": {},
}

// skillGroup 一个分类下的技能关键词
type skillGroup struct {
	Category types.SkillCategory
	Keywords []string
}

// skillVocabulary 技能词表。顺序即去重优先级：同名技能以先出现的分类为准。
var skillVocabulary = []skillGroup{
	{types.CategoryFrontend, []string{"React", "Vue", "Angular", "JavaScript", "TypeScript", "HTML", "CSS", "SASS", "SCSS", "Next.js", "Nuxt.js", "jQuery", "Bootstrap", "Tailwind"}},
	{types.CategoryBackend, []string{"Node.js", "Python", "Java", "C#", "PHP", "Ruby", "Go", "Rust", "Django", "Flask", "Express", "Spring", "Laravel", "Rails", "ASP.NET"}},
	{types.CategoryDatabase, []string{"MySQL", "PostgreSQL", "MongoDB", "Redis", "SQLite", "Oracle", "SQL Server", "DynamoDB", "Cassandra", "Elasticsearch", "SQL"}},
	{types.CategoryCloud, []string{"AWS", "Azure", "GCP", "Google Cloud", "Docker", "Kubernetes", "Terraform", "CloudFormation", "Heroku", "Vercel", "Netlify"}},
	{types.CategoryTools, []string{"Git", "GitHub", "GitLab", "Jenkins", "CI/CD", "Docker", "Kubernetes", "Terraform", "Ansible", "Jira", "Confluence", "Slack", "VS Code", "IntelliJ", "Power BI", "Tableau", "Excel", "HRIS", "Figma", "Design System", "Prototyping", "A/B Testing", "Usability Testing"}},
	{types.CategorySoft, []string{"Leadership", "Communication", "Teamwork", "Problem Solving", "Project Management", "Agile", "Scrum", "Mentoring", "Public Speaking", "Recruitment & Selection", "Recruitment", "Selection", "Employee Relations", "Talent Acquisition", "People & Culture", "Onboarding", "Employer Branding", "User Research"}},
}

// monthPattern 月份名（全称或三字母缩写）
const monthPattern = `(Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)`

var monthIndex = map[string]int{
	"jan": 0, "january": 0,
	"feb": 1, "february": 1,
	"mar": 2, "march": 2,
	"apr": 3, "april": 3,
	"may": 4,
	"jun": 5, "june": 5,
	"jul": 6, "july": 6,
	"aug": 7, "august": 7,
	"sep": 8, "september": 8,
	"oct": 9, "october": 9,
	"nov": 10, "november": 10,
	"dec": 11, "december": 11,
}

var (
	// "Jan 2020 - Mar 2022" / "January 2020 – present"
	monthRangeRe = regexp.MustCompile(`(?i)` + monthPattern + `\s+(\d{4})\s*[-–]\s*(?:` + monthPattern + `\s+)?(\d{4}|present|current)`)
	// "2019 - 2021" / "2019 – present"
	yearRangeRe = regexp.MustCompile(`(?i)(\d{4})\s*[-–]\s*(\d{4}|present|current)`)
	// "3 years"
	explicitYearsRe = regexp.MustCompile(`(?i)(\d+)\s+years?`)
	fourDigitYearRe = regexp.MustCompile(`\d{4}`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// jobTitleKeywordRe 任意职位关键词（不区分大小写），最左匹配即最早出现的关键词
var jobTitleKeywordRe = regexp.MustCompile(`(?i)(` + joinQuoted(jobTitleKeywords) + `)`)

func joinQuoted(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}

// containsAny 判断 s 是否包含任一子串
func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
