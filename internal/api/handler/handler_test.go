package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"
	"time"

	"resume-parser-go/internal/api/handler"
	"resume-parser-go/internal/api/router"
	"resume-parser-go/internal/config"
	"resume-parser-go/internal/extractor"
	"resume-parser-go/internal/matching"
	"resume-parser-go/internal/parser"
	"resume-parser-go/internal/processor"
	"resume-parser-go/internal/types"
	"resume-parser-go/pkg/ratelimit"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResumeText = `Jane Doe
Senior Backend Engineer
jane.doe@example.com | +1 555 123 4567
San Francisco, CA

Skills
Go: 5 years
Docker, Kubernetes, PostgreSQL

Experience
Senior Backend Engineer at Acme Corp
Jan 2020 - Present
- Built payment services handling millions of requests daily

Education
B.Sc Computer Science, State University`

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// stubExtractor 文件名为 broken.pdf 时返回错误，其余返回示例简历
type stubExtractor struct{}

func (stubExtractor) Extract(ctx context.Context, format types.FileFormat, data []byte, uri string) (*types.ExtractedDocument, error) {
	if uri == "broken.pdf" {
		return nil, errors.New("malformed xref table")
	}
	return &types.ExtractedDocument{Format: format, Text: sampleResumeText}, nil
}

type uploadFile struct {
	field       string
	name        string
	contentType string
	data        []byte
}

func setupServer(t *testing.T) *server.Hertz {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Upload.MaxFileSizeMB = 1

	rp, err := processor.CreateProcessor(
		[]processor.ComponentOpt{
			processor.WithExtractor(stubExtractor{}),
			processor.WithParser(parser.NewResumeTextParser(parser.WithClock(func() time.Time { return fixedNow }))),
		},
		[]processor.SettingOpt{
			processor.WithMaxFileBytes(cfg.Upload.MaxFileBytes()),
			processor.WithClock(func() time.Time { return fixedNow }),
		},
	)
	require.NoError(t, err)

	h := server.New(server.WithHostPorts("127.0.0.1:0"))
	router.RegisterRoutes(h, handler.NewResumeHandler(cfg, rp), handler.NewMatchHandler())
	return h
}

func multipartBody(t *testing.T, files ...uploadFile) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		header.Set("Content-Type", f.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func pdfUpload(field, name string) uploadFile {
	return uploadFile{field: field, name: name, contentType: extractor.MimePDF, data: []byte("%PDF-1.4 " + name)}
}

func postMultipart(t *testing.T, h *server.Hertz, url string, files ...uploadFile) *ut.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, files...)
	return ut.PerformRequest(h.Engine, "POST", url,
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: contentType})
}

func TestHandleParse_Success(t *testing.T) {
	h := setupServer(t)

	resp := postMultipart(t, h, "/api/v1/resume/parse", pdfUpload("file", "jane.pdf"))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var parsed handler.ParseResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &parsed))
	require.NotNil(t, parsed.Candidate)
	assert.Equal(t, "Jane Doe", parsed.Candidate.Name)
	assert.Equal(t, "jane.pdf", parsed.Candidate.FileName)
	assert.Equal(t, types.StatusActive, parsed.Candidate.Status)
	assert.NotEmpty(t, parsed.Candidate.ID)

	require.Len(t, parsed.SkillGroups, len(types.SkillCategories), "每个类别都有一组")
	for i, g := range parsed.SkillGroups {
		assert.Equal(t, types.SkillCategories[i], g.Category)
		assert.Equal(t, matching.CategoryLabel(g.Category), g.Label)
	}
}

func TestHandleParse_Errors(t *testing.T) {
	h := setupServer(t)

	tests := []struct {
		name   string
		file   uploadFile
		status int
	}{
		{"不支持的格式", uploadFile{field: "file", name: "notes.txt", contentType: "text/plain", data: []byte("hello")}, http.StatusUnsupportedMediaType},
		{"空文件", uploadFile{field: "file", name: "empty.pdf", contentType: extractor.MimePDF, data: nil}, http.StatusBadRequest},
		{"超过大小上限", uploadFile{field: "file", name: "big.pdf", contentType: extractor.MimePDF, data: bytes.Repeat([]byte("a"), 2<<20)}, http.StatusRequestEntityTooLarge},
		{"字段名错误", uploadFile{field: "resume", name: "jane.pdf", contentType: extractor.MimePDF, data: []byte("%PDF")}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postMultipart(t, h, "/api/v1/resume/parse", tt.file)
			assert.Equal(t, tt.status, resp.Code, resp.Body.String())
		})
	}
}

func TestHandleParse_ExtractFailureReturnsFallback(t *testing.T) {
	h := setupServer(t)

	resp := postMultipart(t, h, "/api/v1/resume/parse", pdfUpload("file", "broken.pdf"))
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	var body struct {
		Error     string           `json:"error"`
		Candidate *types.Candidate `json:"candidate"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "processing failed for this file", body.Error)
	assert.NotContains(t, resp.Body.String(), "xref", "不暴露底层错误")
	require.NotNil(t, body.Candidate)
	assert.Equal(t, "broken.pdf", body.Candidate.FileName)
}

func TestHandleParseBatch(t *testing.T) {
	h := setupServer(t)

	resp := postMultipart(t, h, "/api/v1/resume/parse/batch",
		pdfUpload("files", "a.pdf"),
		pdfUpload("files", "broken.pdf"),
		uploadFile{field: "files", name: "notes.txt", contentType: "text/plain", data: []byte("hello")},
		pdfUpload("files", "b.pdf"),
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var batch handler.BatchParseResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &batch))
	assert.Equal(t, 4, batch.Total)
	assert.Equal(t, 2, batch.Parsed)
	require.Len(t, batch.Candidates, 2)
	assert.Equal(t, "a.pdf", batch.Candidates[0].FileName)
	assert.Equal(t, "b.pdf", batch.Candidates[1].FileName)

	require.Len(t, batch.Failed, 2)
	failed := map[string]string{}
	for _, f := range batch.Failed {
		failed[f.FileName] = f.Error
	}
	assert.Equal(t, "processing failed for this file", failed["broken.pdf"])
	assert.Contains(t, failed, "notes.txt")
}

func TestHandleParseBatch_NoFiles(t *testing.T) {
	h := setupServer(t)
	resp := postMultipart(t, h, "/api/v1/resume/parse/batch", pdfUpload("file", "a.pdf"))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHandleMatch(t *testing.T) {
	h := setupServer(t)

	req := handler.MatchRequest{
		Job: matching.Job{
			ID:    "job-1",
			Title: "Backend Engineer",
			Requirements: []matching.JobRequirement{
				{SkillName: "Go", Category: types.CategoryBackend, MinimumYears: 3, IsRequired: true, Weight: 5},
			},
		},
		Candidates: []types.Candidate{
			{ID: "weak", Skills: []types.Skill{{Name: "Go", Category: types.CategoryBackend, YearsOfExperience: 1}}},
			{ID: "strong", Skills: []types.Skill{{Name: "Go", Category: types.CategoryBackend, YearsOfExperience: 5}}},
		},
	}
	payload, err := json.Marshal(req)
	require.NoError(t, err)

	resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/match",
		&ut.Body{Body: bytes.NewReader(payload), Len: len(payload)},
		ut.Header{Key: "Content-Type", Value: "application/json"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var matched handler.MatchResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &matched))
	assert.Equal(t, "job-1", matched.JobID)
	require.Len(t, matched.Results, 2)
	assert.Equal(t, "strong", matched.Results[0].ID)
	assert.Greater(t, matched.Results[0].MatchScore, matched.Results[1].MatchScore)
}

func TestHandleMatch_InvalidRequest(t *testing.T) {
	h := setupServer(t)

	bad := []byte(`{"job": {"title": "", "requirements": []}}`)
	resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/match",
		&ut.Body{Body: bytes.NewReader(bad), Len: len(bad)},
		ut.Header{Key: "Content-Type", Value: "application/json"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	garbage := []byte(`{not json`)
	resp = ut.PerformRequest(h.Engine, "POST", "/api/v1/match",
		&ut.Body{Body: bytes.NewReader(garbage), Len: len(garbage)},
		ut.Header{Key: "Content-Type", Value: "application/json"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHandleHealth(t *testing.T) {
	h := setupServer(t)
	resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"ok"`)
}

func TestParseRoutes_RateLimited(t *testing.T) {
	cfg := config.DefaultConfig()
	rp, err := processor.CreateProcessor([]processor.ComponentOpt{processor.WithExtractor(stubExtractor{})}, nil)
	require.NoError(t, err)

	h := server.New(server.WithHostPorts("127.0.0.1:0"))
	limiter := ratelimit.NewTokenBucket(1, 1)
	router.RegisterRoutes(h, handler.NewResumeHandler(cfg, rp), handler.NewMatchHandler(), ratelimit.Middleware(limiter))

	first := postMultipart(t, h, "/api/v1/resume/parse", pdfUpload("file", "a.pdf"))
	assert.Equal(t, http.StatusOK, first.Code)
	second := postMultipart(t, h, "/api/v1/resume/parse", pdfUpload("file", "b.pdf"))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	health := ut.PerformRequest(h.Engine, "GET", "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, health.Code, "健康检查不受限流影响")
}
