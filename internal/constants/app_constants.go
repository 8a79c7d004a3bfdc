package constants

const (
	// ParserVersion 解析规则版本，写入缓存键，规则变化后旧缓存自然失效
	ParserVersion = "1.0"

	// DefaultMaxFileBytes 单个简历文件默认大小上限 (10 MiB)
	DefaultMaxFileBytes = 10 << 20

	// MaxDocxXMLBytes DOCX 正文 word/document.xml 解压后的大小上限 (20 MiB)
	MaxDocxXMLBytes = 20 << 20

	// FallbackCandidateName 解析失败时占位记录的姓名
	FallbackCandidateName = "Unknown Candidate"
	// FallbackJobTitle 解析失败时占位记录的职位
	FallbackJobTitle = "Software Developer"
)
