package utils

import (
	"crypto/md5"
	"encoding/hex"
	"path"
	"strings"
	"unicode"
)

// ContentFingerprint 文件内容的 MD5 十六进制串，用作解析结果缓存键
func ContentFingerprint(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// SanitizeFileName 只保留上传文件名的最后一段，去掉控制字符。
// 部分客户端会把完整本地路径（含 Windows 反斜杠）放进 multipart 文件名。
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
