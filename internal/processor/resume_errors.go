package processor

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	ErrUnsupportedFormat = errors.New("不支持的文件格式，仅支持 PDF 与 DOCX")
	ErrFileTooLarge      = errors.New("文件超过大小上限")
	ErrEmptyFile         = errors.New("文件内容为空")
	ErrExtractFailed     = errors.New("提取简历文本失败")
	ErrNoTextExtracted   = errors.New("未能从文件中提取到文本")
)

// ResumeProcessError 包含详细错误信息的自定义错误
type ResumeProcessError struct {
	FileName string
	Op       string
	BaseErr  error
	Cause    error // 底层库返回的原始错误，可能为空
	Detail   string
}

func (e *ResumeProcessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, 文件:%s): %s", e.BaseErr, e.Op, e.FileName, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, 文件:%s)", e.BaseErr, e.Op, e.FileName)
}

// Unwrap 同时暴露分类错误与原始错误，errors.Is 可匹配两者
func (e *ResumeProcessError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.BaseErr}
	}
	return []error{e.BaseErr, e.Cause}
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *ResumeProcessError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数
func NewValidationError(fileName string, base error, detail string) error {
	return &ResumeProcessError{
		FileName: fileName,
		Op:       "validate",
		BaseErr:  base,
		Detail:   detail,
	}
}

func NewExtractError(fileName string, cause error) error {
	return &ResumeProcessError{
		FileName: fileName,
		Op:       "extract",
		BaseErr:  ErrExtractFailed,
		Cause:    cause,
		Detail:   cause.Error(),
	}
}

func NewEmptyTextError(fileName string) error {
	return &ResumeProcessError{
		FileName: fileName,
		Op:       "extract",
		BaseErr:  ErrNoTextExtracted,
	}
}
