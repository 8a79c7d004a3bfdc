package matching

import "resume-parser-go/internal/types"

var categoryLabels = map[types.SkillCategory]string{
	types.CategoryFrontend: "Frontend Skills",
	types.CategoryBackend:  "Backend Skills",
	types.CategoryTools:    "Development Tools",
	types.CategorySoft:     "Soft Skills",
	types.CategoryDatabase: "Database Skills",
	types.CategoryCloud:    "Cloud Platforms",
}

// SkillsByCategory 按类别分组；六个类别总是存在（可能为空切片），组内保持原顺序
func SkillsByCategory(skills []types.Skill) map[types.SkillCategory][]types.Skill {
	groups := make(map[types.SkillCategory][]types.Skill, len(types.SkillCategories))
	for _, c := range types.SkillCategories {
		groups[c] = []types.Skill{}
	}
	for _, s := range skills {
		if _, ok := groups[s.Category]; ok {
			groups[s.Category] = append(groups[s.Category], s)
		}
	}
	return groups
}

// CategoryLabel 类别的展示名称，未知类别原样返回
func CategoryLabel(c types.SkillCategory) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}
