package router

import (
	"resume-parser-go/internal/api/handler"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
)

// RegisterRoutes 注册 API 路由；parseMiddleware 只作用于解析接口（例如限流）
func RegisterRoutes(h *server.Hertz, resumeHandler *handler.ResumeHandler, matchHandler *handler.MatchHandler, parseMiddleware ...app.HandlerFunc) {
	api := h.Group("/api/v1")

	resume := api.Group("/resume", parseMiddleware...)
	resume.POST("/parse", resumeHandler.HandleParse)
	resume.POST("/parse/batch", resumeHandler.HandleParseBatch)

	api.POST("/match", matchHandler.HandleMatch)

	// 健康检查
	api.GET("/health", resumeHandler.HandleHealth)
}
