package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "resume"

	// ParseModulePrefix 解析模块
	ParseModulePrefix = "parse"

	// EntityCandidate 解析结果实体
	EntityCandidate = "candidate"

	// KeyParsedCandidate 解析结果缓存 (STRING, JSON)
	// 格式: resume:parse:candidate:{parserVersion}:{fileMD5}
	KeyParsedCandidate = AppPrefix + ":" + ParseModulePrefix + ":" + EntityCandidate + ":%s:%s"
)
