package matching

import (
	"sort"
	"strings"

	"resume-parser-go/internal/types"
)

// 评分系数：满足年限得 weight*10，缺少必需技能扣 weight*5
const (
	fullScorePerWeight      = 10.0
	missingPenaltyPerWeight = 5.0
)

// RankedCandidate 带匹配分的候选人，JSON 中与候选人字段平铺
type RankedCandidate struct {
	types.Candidate
	MatchScore float64 `json:"matchScore"`
}

// CalculateMatchScore 加权匹配分，范围 [0, 100]。
// 技能名相同或候选人技能名包含要求的技能名即视为匹配（不区分大小写）；
// 年限不足时按比例得分，缺少必需技能时扣分。
func CalculateMatchScore(candidate *types.Candidate, job *Job) float64 {
	if candidate == nil || job == nil || len(candidate.Skills) == 0 || len(job.Requirements) == 0 {
		return 0
	}

	var totalScore, totalWeight float64
	for _, req := range job.Requirements {
		weight := float64(req.Weight)
		if skill, ok := findMatchingSkill(candidate.Skills, req.SkillName); ok {
			if skill.YearsOfExperience >= req.MinimumYears {
				totalScore += weight * fullScorePerWeight
			} else {
				ratio := float64(skill.YearsOfExperience) / float64(req.MinimumYears)
				totalScore += weight * fullScorePerWeight * ratio
			}
		} else if req.IsRequired {
			totalScore -= weight * missingPenaltyPerWeight
		}
		totalWeight += weight * fullScorePerWeight
	}

	if totalWeight <= 0 {
		return 0
	}
	return min(100, max(0, totalScore/totalWeight*100))
}

func findMatchingSkill(skills []types.Skill, name string) (types.Skill, bool) {
	want := strings.ToLower(name)
	for _, s := range skills {
		have := strings.ToLower(s.Name)
		if have == want || strings.Contains(have, want) {
			return s, true
		}
	}
	return types.Skill{}, false
}

// RankCandidates 计算每位候选人的匹配分并按分数降序排列，同分保持输入顺序
func RankCandidates(candidates []types.Candidate, job *Job) []RankedCandidate {
	ranked := make([]RankedCandidate, 0, len(candidates))
	for i := range candidates {
		ranked = append(ranked, RankedCandidate{
			Candidate:  candidates[i],
			MatchScore: CalculateMatchScore(&candidates[i], job),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})
	return ranked
}
