package storage

import (
	"context"
	"fmt"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/processor"
)

// Storage 存储管理器，聚合可选的外部存储依赖
type Storage struct {
	// 键值存储，用于解析结果缓存
	Redis *Redis
}

// NewStorage 按配置初始化存储组件。
// Redis 未启用时返回空的管理器；启用但连接失败时返回错误。
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	s := &Storage{}
	if !cfg.Redis.Enabled {
		logger.Info().Msg("Redis缓存未启用，跳过初始化")
		return s, nil
	}

	r, err := NewRedisAdapter(ctx, &cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("初始化Redis失败: %w", err)
	}
	s.Redis = r
	logger.Info().Str("address", cfg.Redis.Address).Msg("Redis客户端初始化成功")
	return s, nil
}

// CandidateCache 未启用缓存时返回 nil 接口
func (s *Storage) CandidateCache(cfg *config.RedisConfig) processor.CandidateCache {
	if s == nil || s.Redis == nil {
		return nil
	}
	return NewRedisCandidateCache(s.Redis.Client, cfg.CacheTTL())
}

// Close 关闭所有连接
func (s *Storage) Close() error {
	if s.Redis != nil {
		return s.Redis.Close()
	}
	return nil
}
