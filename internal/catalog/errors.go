// Package catalog 实现商品草稿组合的核心业务规则：
// 媒体排序、变体唯一性、编辑状态机、分类命名约束与提交校验。
package catalog

import (
	"errors"
	"fmt"
)

// ValidationError 本地校验失败。阻断当前状态转换，
// 调用方保留用户输入以便修正后重试。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError 构造校验错误
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError 判断错误是否为校验失败
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// DuplicateNameError 同级分类名称重复
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("name %q already exists at this level", e.Name)
}

// IsDuplicateNameError 判断错误是否为名称重复
func IsDuplicateNameError(err error) bool {
	var de *DuplicateNameError
	return errors.As(err, &de)
}

// 草稿操作的状态类错误
var (
	ErrVariantNotFound = errors.New("variant not found in draft")
	ErrNotEditing      = errors.New("variant is not being edited")
	ErrIndexOutOfRange = errors.New("media index out of range")
)
