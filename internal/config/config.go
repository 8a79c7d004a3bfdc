package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// 环境变量覆盖
const (
	EnvTikaURL   = "RESUME_TIKA_URL"
	EnvRedisAddr = "RESUME_REDIS_ADDR"
	EnvLogLevel  = "RESUME_LOG_LEVEL"
)

// PDF / DOCX 文本提取模式
const (
	PDFModeFragments = "fragments" // 定位片段（可重建行并计算姓名提示）
	PDFModeEino      = "eino"      // Eino PDF 纯文本
	PDFModeTika      = "tika"      // Tika 服务器纯文本

	DOCXModeNative = "native" // 直接解析 word/document.xml
	DOCXModeTika   = "tika"
)

// Config 应用程序配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logger    LoggerConfig    `yaml:"logger"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Tika      TikaConfig      `yaml:"tika"`
	Upload    UploadConfig    `yaml:"upload"`
	Redis     RedisConfig     `yaml:"redis"`
	MinIO     MinIOConfig     `yaml:"minio"`
	Parser    ParserConfig    `yaml:"parser"`
}

// ServerConfig 定义服务器配置
type ServerConfig struct {
	Address          string `yaml:"address"`             // 例如 ":8080" or "0.0.0.0:8080"
	MaxRequestBodyMB int    `yaml:"max_request_body_mb"` // 批量上传时请求体上限
	// 解析接口每分钟请求数上限，0 表示不限流
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json, pretty
	TimeFormat   string `yaml:"time_format"`   // 时间格式
	ReportCaller bool   `yaml:"report_caller"` // 是否报告调用位置
	Output       string `yaml:"output"`        // stdout, stderr
	File         string `yaml:"file"`          // 可选，同时写入的日志文件
}

// ExtractorConfig 文本提取配置
type ExtractorConfig struct {
	PDFMode        string `yaml:"pdf_mode"`        // fragments, eino, tika
	DOCXMode       string `yaml:"docx_mode"`       // native, tika
	TimeoutSeconds int    `yaml:"timeout_seconds"` // 单个文件提取超时(秒)
}

// TikaConfig Tika服务器配置结构
type TikaConfig struct {
	ServerURL    string `yaml:"server_url"`      // Tika服务器URL
	Timeout      int    `yaml:"timeout_seconds"` // 超时时间(秒)
	MetadataMode string `yaml:"metadata_mode"`   // 元数据模式: "full", "minimal", "none"
	// 每分钟请求上限与临时错误（429/503、连接被拒）的重试次数，max_retries 为负数时不重试
	RequestsPerMinute int `yaml:"requests_per_minute"`
	MaxRetries        int `yaml:"max_retries"`
}

// UploadConfig 上传文件校验
type UploadConfig struct {
	MaxFileSizeMB  int      `yaml:"max_file_size_mb"`
	AllowedFormats []string `yaml:"allowed_formats"` // pdf, docx
}

// RedisConfig holds configuration for Redis
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"` // 是否启用解析结果缓存
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// 连接池设置
	PoolSize     int `yaml:"pool_size"`
	MinIdleConns int `yaml:"min_idle_conns"`
	// 超时设置
	DialTimeoutSeconds  int `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"`
	MaxRetries          int `yaml:"max_retries"`
	// 解析结果缓存过期时间(小时)
	CacheTTLHours int `yaml:"cache_ttl_hours"`
}

// MinIOConfig MinIO配置结构
type MinIOConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	UseSSL          bool   `yaml:"useSSL"`
	BucketName      string `yaml:"bucketName"`
	Location        string `yaml:"location"` // 可选，存储桶区域
}

// ParserConfig 启发式解析配置
type ParserConfig struct {
	SkillCap int   `yaml:"skill_cap"` // 全文扫描模式下技能数量上限
	NameHint *bool `yaml:"name_hint"` // 是否使用首页字号提示，默认开启
	// 自定义章节标题正则，键为章节类型（skills, experience, education, projects, contact）
	SectionHeaders map[string]string `yaml:"section_headers,omitempty"`
}

// NameHintEnabled 未配置时默认开启
func (p ParserConfig) NameHintEnabled() bool {
	return p.NameHint == nil || *p.NameHint
}

// MaxFileBytes 单个文件大小上限（字节）
func (u UploadConfig) MaxFileBytes() int64 {
	return int64(u.MaxFileSizeMB) << 20
}

// ExtractTimeout 单个文件提取超时
func (e ExtractorConfig) ExtractTimeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// RequestTimeout Tika 单次请求超时
func (t TikaConfig) RequestTimeout() time.Duration {
	return time.Duration(t.Timeout) * time.Second
}

// CacheTTL 解析结果缓存过期时间
func (r RedisConfig) CacheTTL() time.Duration {
	return time.Duration(r.CacheTTLHours) * time.Hour
}

// LoadConfig 从文件加载配置。
// configPath 为空时在常见位置查找 config.yaml，找不到则使用默认配置；
// 显式指定的路径不存在时返回错误。
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = findConfigFile()
		if configPath == "" {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
	}

	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	applyEnvOverrides(&config)
	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// findConfigFile 在常见位置查找配置文件
func findConfigFile() string {
	searchPaths := []string{
		"config.yaml",
		"../config.yaml",
		"../../config.yaml",
		filepath.Join(os.Getenv("HOME"), ".resume-parser", "config.yaml"),
	}

	// 可执行文件所在目录及其上级目录
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		searchPaths = append(searchPaths,
			filepath.Join(execDir, "config.yaml"),
			filepath.Join(execDir, "..", "config.yaml"),
		)
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// applyEnvOverrides 从环境变量覆盖配置（如果存在）
func applyEnvOverrides(config *Config) {
	if v := os.Getenv(EnvTikaURL); v != "" {
		config.Tika.ServerURL = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		config.Redis.Address = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Logger.Level = v
	}
}

// applyDefaults 为未配置的字段设置默认值
func applyDefaults(config *Config) {
	def := DefaultConfig()

	if config.Server.Address == "" {
		config.Server.Address = def.Server.Address
	}
	if config.Server.MaxRequestBodyMB <= 0 {
		config.Server.MaxRequestBodyMB = def.Server.MaxRequestBodyMB
	}
	if config.Logger.Level == "" {
		config.Logger.Level = def.Logger.Level
	}
	if config.Logger.Format == "" {
		config.Logger.Format = def.Logger.Format
	}
	if config.Extractor.PDFMode == "" {
		config.Extractor.PDFMode = def.Extractor.PDFMode
	}
	if config.Extractor.DOCXMode == "" {
		config.Extractor.DOCXMode = def.Extractor.DOCXMode
	}
	if config.Extractor.TimeoutSeconds <= 0 {
		config.Extractor.TimeoutSeconds = def.Extractor.TimeoutSeconds
	}
	if config.Tika.ServerURL == "" {
		config.Tika.ServerURL = def.Tika.ServerURL
	}
	if config.Tika.Timeout <= 0 {
		config.Tika.Timeout = def.Tika.Timeout
	}
	if config.Tika.MetadataMode == "" {
		config.Tika.MetadataMode = def.Tika.MetadataMode
	}
	if config.Tika.RequestsPerMinute <= 0 {
		config.Tika.RequestsPerMinute = def.Tika.RequestsPerMinute
	}
	if config.Tika.MaxRetries == 0 {
		config.Tika.MaxRetries = def.Tika.MaxRetries
	}
	if config.Upload.MaxFileSizeMB <= 0 {
		config.Upload.MaxFileSizeMB = def.Upload.MaxFileSizeMB
	}
	if len(config.Upload.AllowedFormats) == 0 {
		config.Upload.AllowedFormats = def.Upload.AllowedFormats
	}
	if config.Redis.Address == "" {
		config.Redis.Address = def.Redis.Address
	}
	if config.Redis.PoolSize <= 0 {
		config.Redis.PoolSize = def.Redis.PoolSize
	}
	if config.Redis.CacheTTLHours <= 0 {
		config.Redis.CacheTTLHours = def.Redis.CacheTTLHours
	}
	if config.Parser.SkillCap == 0 {
		config.Parser.SkillCap = def.Parser.SkillCap
	}
}

// Validate 检查枚举类配置项
func (c *Config) Validate() error {
	switch c.Extractor.PDFMode {
	case PDFModeFragments, PDFModeEino, PDFModeTika:
	default:
		return fmt.Errorf("不支持的 pdf_mode: %q", c.Extractor.PDFMode)
	}
	switch c.Extractor.DOCXMode {
	case DOCXModeNative, DOCXModeTika:
	default:
		return fmt.Errorf("不支持的 docx_mode: %q", c.Extractor.DOCXMode)
	}
	for _, f := range c.Upload.AllowedFormats {
		switch strings.ToLower(f) {
		case "pdf", "docx":
		default:
			return fmt.Errorf("不支持的文件格式: %q", f)
		}
	}
	return nil
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	config := &Config{}

	config.Server.Address = ":8080"
	config.Server.MaxRequestBodyMB = 100

	// 日志默认配置
	config.Logger.Level = "info"
	config.Logger.Format = "pretty"
	config.Logger.TimeFormat = "2006-01-02 15:04:05"
	config.Logger.ReportCaller = false

	config.Extractor.PDFMode = PDFModeFragments
	config.Extractor.DOCXMode = DOCXModeNative
	config.Extractor.TimeoutSeconds = 30

	// Tika默认配置
	config.Tika.ServerURL = "http://localhost:9998"
	config.Tika.Timeout = 60
	config.Tika.MetadataMode = "minimal"
	config.Tika.RequestsPerMinute = 600
	config.Tika.MaxRetries = 2

	config.Upload.MaxFileSizeMB = 10
	config.Upload.AllowedFormats = []string{"pdf", "docx"}

	// Redis默认配置，缓存默认关闭
	config.Redis.Enabled = false
	config.Redis.Address = "localhost:6379"
	config.Redis.PoolSize = 10
	config.Redis.MinIdleConns = 2
	config.Redis.DialTimeoutSeconds = 5
	config.Redis.ReadTimeoutSeconds = 3
	config.Redis.WriteTimeoutSeconds = 3
	config.Redis.MaxRetries = 3
	config.Redis.CacheTTLHours = 24 * 7

	// MinIO默认配置
	config.MinIO.Endpoint = "localhost:9000"
	config.MinIO.AccessKeyID = "minioadmin"
	config.MinIO.SecretAccessKey = "minioadmin123"
	config.MinIO.BucketName = "resumes"

	config.Parser.SkillCap = 15

	return config
}

// CreateSampleConfig 创建一个示例配置文件
func CreateSampleConfig(filePath string) error {
	if _, err := os.Stat(filePath); err == nil {
		return fmt.Errorf("文件 '%s' 已存在，不会覆盖", filePath)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("写入示例配置文件 '%s' 失败: %w", filePath, err)
	}
	return nil
}
