package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/matching"
	"resume-parser-go/internal/processor"
	"resume-parser-go/internal/types"
	"resume-parser-go/pkg/utils"

	"github.com/cloudwego/hertz/pkg/app"
	hertzutils "github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// 对外展示的错误信息，不暴露底层解析错误
const (
	msgFileMissing       = "文件未找到"
	msgUnsupportedFormat = "仅支持 PDF 与 DOCX 文件"
	msgFileTooLarge      = "文件超过大小上限"
	msgEmptyFile         = "文件内容为空"
	msgProcessingFailed  = "processing failed for this file"
)

// ResumeHandler 简历解析接口
type ResumeHandler struct {
	cfg             *config.Config
	processorModule *processor.ResumeProcessor
}

// NewResumeHandler 创建一个新的简历处理器
func NewResumeHandler(cfg *config.Config, processorModule *processor.ResumeProcessor) *ResumeHandler {
	return &ResumeHandler{cfg: cfg, processorModule: processorModule}
}

// SkillGroup 按类别分组的技能，用于展示
type SkillGroup struct {
	Category types.SkillCategory `json:"category"`
	Label    string              `json:"label"`
	Skills   []types.Skill       `json:"skills"`
}

// ParseResponse 单个文件解析响应
type ParseResponse struct {
	Candidate   *types.Candidate `json:"candidate"`
	SkillGroups []SkillGroup     `json:"skillGroups"`
}

// FailedFileResponse 批量解析中被跳过的文件
type FailedFileResponse struct {
	FileName string `json:"fileName"`
	Error    string `json:"error"`
}

// BatchParseResponse 批量解析响应
type BatchParseResponse struct {
	Total      int                  `json:"total"`
	Parsed     int                  `json:"parsed"`
	Candidates []types.Candidate    `json:"candidates"`
	Failed     []FailedFileResponse `json:"failed"`
}

// HandleParse POST /resume/parse，表单字段 file
func (h *ResumeHandler) HandleParse(c context.Context, ctx *app.RequestContext) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(consts.StatusBadRequest, hertzutils.H{"error": msgFileMissing})
		return
	}

	file, err := h.readUpload(fileHeader)
	if err != nil {
		status, msg := errorResponse(err)
		ctx.JSON(status, hertzutils.H{"error": msg, "fileName": utils.SanitizeFileName(fileHeader.Filename)})
		return
	}

	candidate, err := h.processorModule.Parse(c, file)
	if err != nil {
		status, msg := errorResponse(err)
		logger.Ctx(c).Warn().Err(err).Str("file", file.Name).Int("status", status).Msg("简历解析失败")
		ctx.JSON(status, hertzutils.H{
			"error":     msg,
			"fileName":  file.Name,
			"candidate": candidate,
		})
		return
	}

	ctx.JSON(consts.StatusOK, &ParseResponse{
		Candidate:   candidate,
		SkillGroups: groupSkills(candidate.Skills),
	})
}

// HandleParseBatch POST /resume/parse/batch，表单字段 files（可多个）
func (h *ResumeHandler) HandleParseBatch(c context.Context, ctx *app.RequestContext) {
	form, err := ctx.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		ctx.JSON(consts.StatusBadRequest, hertzutils.H{"error": msgFileMissing})
		return
	}

	headers := form.File["files"]
	files := make([]types.ResumeFile, 0, len(headers))
	var failed []FailedFileResponse
	for _, fh := range headers {
		f, err := h.readUpload(fh)
		if err != nil {
			_, msg := errorResponse(err)
			failed = append(failed, FailedFileResponse{FileName: utils.SanitizeFileName(fh.Filename), Error: msg})
			continue
		}
		files = append(files, f)
	}

	result, err := h.processorModule.ParseBatch(c, files, func(index, total int, fileName string) {
		if index < total {
			logger.Ctx(c).Debug().Int("index", index).Int("total", total).Str("file", fileName).Msg("批量解析进度")
		}
	})
	if err != nil {
		ctx.JSON(consts.StatusServiceUnavailable, hertzutils.H{"error": "请求已取消"})
		return
	}

	for _, f := range result.Failed {
		_, msg := errorResponse(f.Err)
		failed = append(failed, FailedFileResponse{FileName: f.FileName, Error: msg})
	}
	if failed == nil {
		failed = []FailedFileResponse{}
	}

	ctx.JSON(consts.StatusOK, &BatchParseResponse{
		Total:      len(headers),
		Parsed:     len(result.Candidates),
		Candidates: result.Candidates,
		Failed:     failed,
	})
}

// HandleHealth GET /health
func (h *ResumeHandler) HandleHealth(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, hertzutils.H{"status": "ok", "parserVersion": constants.ParserVersion})
}

// readUpload 读取上传文件；读取前按声明大小拒绝超限文件
func (h *ResumeHandler) readUpload(fh *multipart.FileHeader) (types.ResumeFile, error) {
	name := utils.SanitizeFileName(fh.Filename)
	if limit := h.cfg.Upload.MaxFileBytes(); limit > 0 && fh.Size > limit {
		return types.ResumeFile{}, processor.NewValidationError(name, processor.ErrFileTooLarge,
			fmt.Sprintf("%d 字节，上限 %d 字节", fh.Size, limit))
	}
	f, err := fh.Open()
	if err != nil {
		return types.ResumeFile{}, fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return types.ResumeFile{}, fmt.Errorf("读取上传文件失败: %w", err)
	}
	return types.ResumeFile{
		Name:        name,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// errorResponse 把处理错误映射为状态码与对外信息
func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, processor.ErrUnsupportedFormat):
		return consts.StatusUnsupportedMediaType, msgUnsupportedFormat
	case errors.Is(err, processor.ErrFileTooLarge):
		return consts.StatusRequestEntityTooLarge, msgFileTooLarge
	case errors.Is(err, processor.ErrEmptyFile):
		return consts.StatusBadRequest, msgEmptyFile
	default:
		return consts.StatusUnprocessableEntity, msgProcessingFailed
	}
}

func groupSkills(skills []types.Skill) []SkillGroup {
	byCategory := matching.SkillsByCategory(skills)
	groups := make([]SkillGroup, 0, len(types.SkillCategories))
	for _, c := range types.SkillCategories {
		groups = append(groups, SkillGroup{
			Category: c,
			Label:    matching.CategoryLabel(c),
			Skills:   byCategory[c],
		})
	}
	return groups
}
