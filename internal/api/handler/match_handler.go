package handler

import (
	"context"

	"resume-parser-go/internal/matching"
	"resume-parser-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// MatchRequest 岗位与待排序的候选人
type MatchRequest struct {
	Job        matching.Job      `json:"job"`
	Candidates []types.Candidate `json:"candidates"`
}

// MatchResponse 按匹配分降序的候选人
type MatchResponse struct {
	JobID   string                     `json:"jobId,omitempty"`
	Results []matching.RankedCandidate `json:"results"`
}

// MatchHandler 候选人与岗位匹配接口
type MatchHandler struct{}

// NewMatchHandler 创建匹配接口处理器
func NewMatchHandler() *MatchHandler {
	return &MatchHandler{}
}

// HandleMatch POST /match
func (h *MatchHandler) HandleMatch(c context.Context, ctx *app.RequestContext) {
	var req MatchRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体不是有效的JSON"})
		return
	}
	if err := req.Job.Validate(); err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
		return
	}

	ctx.JSON(consts.StatusOK, &MatchResponse{
		JobID:   req.Job.ID,
		Results: matching.RankCandidates(req.Candidates, &req.Job),
	})
}
