// Package matching 候选人与岗位要求的匹配评分，以及技能分组展示辅助函数。
package matching

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-parser-go/internal/types"
)

// JobStatus 岗位状态
type JobStatus string

const (
	JobActive JobStatus = "active"
	JobClosed JobStatus = "closed"
)

// 权重取值范围
const (
	MinRequirementWeight = 1
	MaxRequirementWeight = 10
)

// JobRequirement 岗位的一项技能要求
type JobRequirement struct {
	SkillName    string              `json:"skillName"`
	Category     types.SkillCategory `json:"category"`
	MinimumYears int                 `json:"minimumYears"`
	IsRequired   bool                `json:"isRequired"`
	Weight       int                 `json:"weight"` // 1-10
}

// Job 岗位
type Job struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description,omitempty"`
	Requirements []JobRequirement `json:"requirements"`
	Location     string           `json:"location,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	Status       JobStatus        `json:"status"`
}

// Validate 检查岗位要求的基本约束
func (j *Job) Validate() error {
	if strings.TrimSpace(j.Title) == "" {
		return errors.New("岗位名称不能为空")
	}
	for i, r := range j.Requirements {
		if strings.TrimSpace(r.SkillName) == "" {
			return fmt.Errorf("第 %d 项要求缺少技能名称", i+1)
		}
		if r.Weight < MinRequirementWeight || r.Weight > MaxRequirementWeight {
			return fmt.Errorf("技能 %s 的权重 %d 超出范围 [%d, %d]", r.SkillName, r.Weight, MinRequirementWeight, MaxRequirementWeight)
		}
		if r.MinimumYears < 0 {
			return fmt.Errorf("技能 %s 的最低年限不能为负数", r.SkillName)
		}
		if r.Category != "" && !types.IsValidSkillCategory(r.Category) {
			return fmt.Errorf("技能 %s 的类别 %q 无效", r.SkillName, r.Category)
		}
	}
	return nil
}
