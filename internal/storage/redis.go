package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/types"

	"github.com/redis/go-redis/v9"
)

// Redis wraps the Redis client
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedisAdapter creates a new Redis client connection and pings it
func NewRedisAdapter(ctx context.Context, cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		// 连接池设置
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// 超时设置
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
		MaxRetries:   cfg.MaxRetries,
	})

	r := &Redis{Client: client, config: cfg}
	if err := r.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("无法连接到Redis %s: %w", cfg.Address, err)
	}
	return r, nil
}

// Close 关闭连接
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping 检查连接
func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// RedisCandidateCache 以文件内容 MD5 为键缓存解析结果（JSON），带过期时间
type RedisCandidateCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCandidateCache 创建解析结果缓存，ttl<=0 表示不过期
func NewRedisCandidateCache(client redis.Cmdable, ttl time.Duration) *RedisCandidateCache {
	return &RedisCandidateCache{client: client, ttl: ttl}
}

// CandidateCacheKey 缓存键包含解析规则版本
func CandidateCacheKey(fileMD5 string) string {
	return fmt.Sprintf(constants.KeyParsedCandidate, constants.ParserVersion, fileMD5)
}

// Get 未命中时返回 (nil, false, nil)
func (c *RedisCandidateCache) Get(ctx context.Context, fileMD5 string) (*types.Candidate, bool, error) {
	data, err := c.client.Get(ctx, CandidateCacheKey(fileMD5)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("读取解析结果缓存失败: %w", err)
	}

	var candidate types.Candidate
	if err := json.Unmarshal(data, &candidate); err != nil {
		return nil, false, fmt.Errorf("解析缓存内容失败: %w", err)
	}
	return &candidate, true, nil
}

// Set 写入缓存
func (c *RedisCandidateCache) Set(ctx context.Context, fileMD5 string, candidate *types.Candidate) error {
	data, err := json.Marshal(candidate)
	if err != nil {
		return fmt.Errorf("序列化解析结果失败: %w", err)
	}
	if err := c.client.Set(ctx, CandidateCacheKey(fileMD5), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("写入解析结果缓存失败: %w", err)
	}
	return nil
}
