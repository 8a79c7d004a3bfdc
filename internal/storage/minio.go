package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/extractor"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/types"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// MinIOSource 从存储桶读取待解析的简历文件
type MinIOSource struct {
	client *minio.Client
	bucket string
	logger zerolog.Logger
}

// NewMinIOSource 创建MinIO客户端并确认存储桶存在
func NewMinIOSource(ctx context.Context, cfg *config.MinIOConfig) (*MinIOSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("检查存储桶 %s 是否存在时出错: %w", cfg.BucketName, err)
	}
	if !exists {
		return nil, fmt.Errorf("存储桶 %s 不存在", cfg.BucketName)
	}

	return &MinIOSource{
		client: client,
		bucket: cfg.BucketName,
		logger: logger.Component("minio").With().Str("bucket", cfg.BucketName).Logger(),
	}, nil
}

// List 递归列出前缀下扩展名为 PDF / DOCX 的对象，顺序与存储桶返回顺序一致
func (m *MinIOSource) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("列出存储桶 %s 中的对象失败: %w", m.bucket, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		if extractor.DetectFormat(obj.Key, "") == types.FormatUnknown {
			m.logger.Debug().Str("key", obj.Key).Msg("跳过非简历对象")
			continue
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// Fetch 下载对象，文件名取对象键的最后一段
func (m *MinIOSource) Fetch(ctx context.Context, key string) (types.ResumeFile, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return types.ResumeFile{}, fmt.Errorf("获取对象 %s 失败: %w", key, err)
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return types.ResumeFile{}, fmt.Errorf("读取对象 %s 信息失败: %w", key, err)
	}
	data, err := io.ReadAll(obj)
	if err != nil {
		return types.ResumeFile{}, fmt.Errorf("下载对象 %s 失败: %w", key, err)
	}

	return types.ResumeFile{
		Name:        path.Base(key),
		ContentType: info.ContentType,
		Data:        data,
	}, nil
}

// FetchAll 逐个下载，单个对象失败时记录日志并跳过
func (m *MinIOSource) FetchAll(ctx context.Context, keys []string) []types.ResumeFile {
	files := make([]types.ResumeFile, 0, len(keys))
	for _, key := range keys {
		f, err := m.Fetch(ctx, key)
		if err != nil {
			m.logger.Warn().Err(err).Str("key", key).Msg("跳过下载失败的对象")
			continue
		}
		files = append(files, f)
	}
	return files
}
