package logger

import "strings"

// MaxPreviewLength 日志中文本预览的最大长度
const MaxPreviewLength = 150

// piiFields 字段名包含这些关键字时，值需要掩码
var piiFields = []string{"email", "phone", "name", "address", "location", "姓名", "电话", "地址"}

// SafeValue 按字段名决定掩码或截断，用于把简历内容写进日志
func SafeValue(field, value string) string {
	lower := strings.ToLower(field)
	for _, keyword := range piiFields {
		if strings.Contains(lower, keyword) {
			return MaskPII(value)
		}
	}
	return Truncate(value, MaxPreviewLength)
}

// MaskPII 保留首尾少量字符，其余替换为 *
//
//	"Jane" -> "J**e", "jane@example.com" -> "ja************om"
func MaskPII(value string) string {
	runes := []rune(value)
	switch n := len(runes); {
	case n == 0:
		return ""
	case n == 1:
		return "*"
	case n == 2:
		return string(runes[0]) + "*"
	case n <= 4:
		return string(runes[0]) + strings.Repeat("*", n-2) + string(runes[n-1])
	default:
		return string(runes[:2]) + strings.Repeat("*", n-4) + string(runes[n-2:])
	}
}

// Truncate 超长时保留前后两段，中间用 ... 连接
func Truncate(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}

	half := max((maxLength-3)/2, 1)
	return string(runes[:half]) + "..." + string(runes[len(runes)-half:])
}
