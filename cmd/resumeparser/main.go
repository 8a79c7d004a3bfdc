// resumeparser 命令行工具：解析本地或 MinIO 中的简历文件并输出 JSON
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/extractor"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/parser"
	"resume-parser-go/internal/processor"
	"resume-parser-go/internal/storage"
	"resume-parser-go/internal/types"

	"github.com/spf13/pflag"
)

var (
	configPath  = pflag.StringP("config", "c", "", "配置文件路径")
	minioPrefix = pflag.String("minio-prefix", "", "从 MinIO 存储桶中按前缀读取简历")
	outputPath  = pflag.StringP("output", "o", "", "输出 JSON 文件路径（默认标准输出）")
	showSection = pflag.Bool("sections", false, "打印检测到的章节，用于调试规则")
	initConfig  = pflag.String("init-config", "", "在指定路径生成示例配置文件后退出")
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "用法: %s [选项] <简历文件...>\n", filepath.Base(os.Args[0]))
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *initConfig != "" {
		if err := config.CreateSampleConfig(*initConfig); err != nil {
			fmt.Fprintf(os.Stderr, "生成示例配置失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("示例配置已写入 %s\n", *initConfig)
		return
	}

	if err := run(); err != nil {
		logger.Error().Err(err).Msg("执行失败")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	// 标准输出留给结果
	cfg.Logger.Format = "pretty"
	cfg.Logger.Output = "stderr"
	logCloser, err := logger.Init(cfg.Logger)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files, err := collectFiles(ctx, cfg)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		pflag.Usage()
		return fmt.Errorf("没有需要解析的文件")
	}

	var cache processor.CandidateCache
	if cfg.Redis.Enabled {
		store, err := storage.NewStorage(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		cache = store.CandidateCache(&cfg.Redis)
	}

	rp, err := processor.NewProcessorFromConfig(ctx, cfg, cache)
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			return fmt.Errorf("创建输出文件失败: %w", err)
		}
		defer f.Close()
		out = f
	}

	if *showSection {
		return printSections(ctx, rp, files, out)
	}

	result, err := rp.ParseBatch(ctx, files, func(index, total int, fileName string) {
		if index < total {
			logger.Info().Msgf("[%d/%d] %s", index+1, total, fileName)
		}
	})
	if err != nil {
		return err
	}
	for _, f := range result.Failed {
		logger.Warn().Str("file", f.FileName).Err(f.Err).Msg("解析失败，已跳过")
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result.Candidates)
}

// collectFiles 读取命令行给出的本地文件，或 MinIO 前缀下的全部简历
func collectFiles(ctx context.Context, cfg *config.Config) ([]types.ResumeFile, error) {
	if *minioPrefix != "" {
		src, err := storage.NewMinIOSource(ctx, &cfg.MinIO)
		if err != nil {
			return nil, err
		}
		keys, err := src.List(ctx, *minioPrefix)
		if err != nil {
			return nil, err
		}
		logger.Info().Int("count", len(keys)).Str("prefix", *minioPrefix).Msg("从 MinIO 读取简历")
		return src.FetchAll(ctx, keys), nil
	}

	files := make([]types.ResumeFile, 0, pflag.NArg())
	for _, path := range pflag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取文件 %s 失败: %w", path, err)
		}
		name := filepath.Base(path)
		files = append(files, types.ResumeFile{
			Name:        name,
			ContentType: extractor.ContentType(extractor.DetectFormat(name, "")),
			Data:        data,
		})
	}
	return files, nil
}

func printSections(ctx context.Context, rp *processor.ResumeProcessor, files []types.ResumeFile, out io.Writer) error {
	for _, f := range files {
		res, err := rp.Analyze(ctx, f)
		if err != nil {
			logger.Warn().Str("file", f.Name).Err(err).Msg("分析失败")
			continue
		}
		fmt.Fprintf(out, "== %s ==\n%s\n", f.Name, parser.FormatSections(res.NormalizedLines, res.Sections))
	}
	return nil
}
