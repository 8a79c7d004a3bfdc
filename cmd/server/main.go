package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-parser-go/internal/api/handler"
	"resume-parser-go/internal/api/router"
	"resume-parser-go/internal/config"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/processor"
	"resume-parser-go/internal/storage"
	"resume-parser-go/pkg/ratelimit"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/spf13/pflag"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径（默认在常见位置查找）")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("加载配置失败")
	}

	logCloser, err := logger.Init(cfg.Logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化日志失败")
	}
	defer logCloser.Close()
	logger.BridgeHertz()
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()

	resumeProcessor, err := processor.NewProcessorFromConfig(ctx, cfg, storageManager.CandidateCache(&cfg.Redis))
	if err != nil {
		glog.Fatalf("初始化简历处理器失败: %v", err)
	}
	glog.Infof("简历处理器初始化成功 (pdf=%s, docx=%s)", cfg.Extractor.PDFMode, cfg.Extractor.DOCXMode)

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(cfg.Server.MaxRequestBodyMB<<20),
	)

	h.Use(func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		glog.CtxInfof(c, "%s %s -> %d (%s)", ctx.Method(), ctx.Request.URI().Path(), ctx.Response.StatusCode(), time.Since(start))
	})

	var parseMiddleware []app.HandlerFunc
	if cfg.Server.RateLimitPerMinute > 0 {
		parseMiddleware = append(parseMiddleware, ratelimit.Middleware(ratelimit.NewTokenBucket(cfg.Server.RateLimitPerMinute, 0)))
		glog.Infof("解析接口限流: 每分钟 %d 次", cfg.Server.RateLimitPerMinute)
	}
	router.RegisterRoutes(h, handler.NewResumeHandler(cfg, resumeProcessor), handler.NewMatchHandler(), parseMiddleware...)

	go func() {
		if err := h.Run(); err != nil {
			glog.Errorf("服务器运行出错: %v", err)
		}
	}()
	glog.Infof("服务器启动于 %s", cfg.Server.Address)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("正在关闭服务器...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("服务器关闭失败: %v", err)
	}
	glog.Info("服务器已退出")
}
