package matching

import (
	"testing"

	"resume-parser-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateWith(name string, skills ...types.Skill) types.Candidate {
	return types.Candidate{Name: name, Skills: skills}
}

func skill(name string, category types.SkillCategory, years int) types.Skill {
	return types.Skill{Name: name, Category: category, YearsOfExperience: years, Confidence: 0.7}
}

var backendJob = &Job{
	ID:    "job-1",
	Title: "Backend Engineer",
	Requirements: []JobRequirement{
		{SkillName: "Go", Category: types.CategoryBackend, MinimumYears: 4, IsRequired: true, Weight: 5},
		{SkillName: "Docker", Category: types.CategoryCloud, MinimumYears: 2, IsRequired: false, Weight: 3},
		{SkillName: "PostgreSQL", Category: types.CategoryDatabase, MinimumYears: 1, IsRequired: true, Weight: 2},
	},
	Status: JobActive,
}

func TestCalculateMatchScore(t *testing.T) {
	tests := []struct {
		name      string
		candidate types.Candidate
		want      float64
	}{
		{
			name: "全部满足",
			candidate: candidateWith("A",
				skill("Go", types.CategoryBackend, 5),
				skill("Docker", types.CategoryCloud, 2),
				skill("PostgreSQL", types.CategoryDatabase, 3)),
			want: 100,
		},
		{
			// Go 2/4 年得 25 分，Docker 30 分，PostgreSQL 20 分，共 75/100
			name: "年限不足按比例得分",
			candidate: candidateWith("B",
				skill("Go", types.CategoryBackend, 2),
				skill("Docker", types.CategoryCloud, 3),
				skill("PostgreSQL", types.CategoryDatabase, 1)),
			want: 75,
		},
		{
			// Go 50 分，缺少必需的 PostgreSQL 扣 10 分，共 40/100
			name:      "缺少必需技能扣分",
			candidate: candidateWith("C", skill("Go", types.CategoryBackend, 6)),
			want:      40,
		},
		{
			name:      "扣分后不低于 0",
			candidate: candidateWith("D", skill("Figma", types.CategoryTools, 3)),
			want:      0,
		},
		{
			name: "包含关系与大小写不敏感",
			candidate: candidateWith("E",
				skill("golang", types.CategoryBackend, 4),
				skill("docker compose", types.CategoryTools, 2),
				skill("POSTGRESQL", types.CategoryDatabase, 1)),
			want: 100,
		},
		{
			name:      "没有技能",
			candidate: candidateWith("F"),
			want:      0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateMatchScore(&tt.candidate, backendJob)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}

	assert.Zero(t, CalculateMatchScore(nil, backendJob))
	assert.Zero(t, CalculateMatchScore(&tests[0].candidate, &Job{Title: "Empty"}))
}

func TestRankCandidates(t *testing.T) {
	candidates := []types.Candidate{
		candidateWith("low", skill("Figma", types.CategoryTools, 3)),
		candidateWith("high", skill("Go", types.CategoryBackend, 5), skill("Docker", types.CategoryCloud, 2), skill("PostgreSQL", types.CategoryDatabase, 3)),
		candidateWith("mid", skill("Go", types.CategoryBackend, 6)),
		candidateWith("low2"),
	}

	ranked := RankCandidates(candidates, backendJob)
	require.Len(t, ranked, 4)
	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"high", "mid", "low", "low2"}, names, "同分保持输入顺序")
	assert.Equal(t, 100.0, ranked[0].MatchScore)
}

func TestJobValidate(t *testing.T) {
	require.NoError(t, backendJob.Validate())

	bad := []Job{
		{Title: " "},
		{Title: "X", Requirements: []JobRequirement{{SkillName: "", Weight: 3}}},
		{Title: "X", Requirements: []JobRequirement{{SkillName: "Go", Weight: 11}}},
		{Title: "X", Requirements: []JobRequirement{{SkillName: "Go", Weight: 0}}},
		{Title: "X", Requirements: []JobRequirement{{SkillName: "Go", Weight: 3, MinimumYears: -1}}},
		{Title: "X", Requirements: []JobRequirement{{SkillName: "Go", Weight: 3, Category: "quantum"}}},
	}
	for _, j := range bad {
		assert.Error(t, j.Validate(), "%+v", j)
	}
}

func TestSkillsByCategory(t *testing.T) {
	groups := SkillsByCategory([]types.Skill{
		skill("React", types.CategoryFrontend, 2),
		skill("Go", types.CategoryBackend, 3),
		skill("Vue", types.CategoryFrontend, 1),
	})
	assert.Len(t, groups, 6)
	assert.Equal(t, []string{"React", "Vue"}, []string{groups[types.CategoryFrontend][0].Name, groups[types.CategoryFrontend][1].Name})
	assert.Len(t, groups[types.CategoryBackend], 1)
	assert.NotNil(t, groups[types.CategoryCloud])
	assert.Empty(t, groups[types.CategoryCloud])
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Frontend Skills", CategoryLabel(types.CategoryFrontend))
	assert.Equal(t, "Development Tools", CategoryLabel(types.CategoryTools))
	assert.Equal(t, "Cloud Platforms", CategoryLabel(types.CategoryCloud))
	assert.Equal(t, "quantum", CategoryLabel("quantum"))
}
