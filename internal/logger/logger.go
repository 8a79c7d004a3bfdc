// Package logger 全局 zerolog 日志记录器，并把 Hertz 的 hlog 桥接到同一个输出
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"resume-parser-go/internal/config"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger 全局日志实例
var Logger = log.Logger

// Init 按配置初始化全局日志：级别、json/pretty 格式、时间格式、调用位置、可选的日志文件。
// 返回的 io.Closer 用于关闭日志文件，未配置文件时 Close 为空操作。
func Init(cfg config.LoggerConfig) (io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	var base io.Writer = os.Stdout
	if cfg.Output == "stderr" {
		base = os.Stderr
	}
	output := base
	if cfg.Format == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        base,
			TimeFormat: cfg.TimeFormat,
		}
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("创建日志目录失败: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("无法打开日志文件 %s: %w", cfg.File, err)
		}
		output = zerolog.MultiLevelWriter(output, f)
		closer = f
	}

	zctx := zerolog.New(output).Level(level).With().Timestamp()
	if cfg.ReportCaller {
		zctx = zctx.Caller()
	}

	Logger = zctx.Logger()
	log.Logger = Logger
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// BridgeHertz 让 Hertz 的 hlog 使用全局日志实例
func BridgeHertz() {
	hlog.SetLogger(hertzadapter.From(Logger))
	hlog.SetLevel(hertzLevel(Logger.GetLevel()))
}

func hertzLevel(l zerolog.Level) hlog.Level {
	switch l {
	case zerolog.TraceLevel:
		return hlog.LevelTrace
	case zerolog.DebugLevel:
		return hlog.LevelDebug
	case zerolog.WarnLevel:
		return hlog.LevelWarn
	case zerolog.ErrorLevel:
		return hlog.LevelError
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return hlog.LevelFatal
	default:
		return hlog.LevelInfo
	}
}

// Component 带 component 字段的子日志记录器
func Component(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

// Debug 开始一条调试级别的日志事件
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Info 开始一条信息级别的日志事件
func Info() *zerolog.Event {
	return Logger.Info()
}

// Warn 开始一条警告级别的日志事件
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Error 开始一条错误级别的日志事件
func Error() *zerolog.Event {
	return Logger.Error()
}

// Fatal 记录后程序将退出
func Fatal() *zerolog.Event {
	return Logger.Fatal()
}

// Ctx 从上下文中获取日志记录器，上下文中没有时返回全局实例
func Ctx(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &Logger
}

// WithContext 将全局日志记录器放入上下文
func WithContext(ctx context.Context) context.Context {
	return Logger.WithContext(ctx)
}
