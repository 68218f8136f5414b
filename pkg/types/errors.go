package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPlan 采样计划无效
	ErrInvalidPlan = errors.New("invalid sampling plan")

	// ErrDuplicateCheck 同一会话内检查名称重复
	ErrDuplicateCheck = errors.New("duplicate check name")

	// ErrEmptyCheckName 检查名称为空
	ErrEmptyCheckName = errors.New("empty check name")
)

// InvariantViolation 组件契约被破坏
//
// 属于编程错误，调用方应直接 panic，而不是当作运行时条件处理。
type InvariantViolation struct {
	Component string
	Message   string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Component, e.Message)
}

// IsInvariantViolation 判断错误是否为契约破坏
func IsInvariantViolation(err error) bool {
	var iv *InvariantViolation
	return errors.As(err, &iv)
}
