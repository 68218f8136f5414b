package linkdiag

import "errors"

// 公共错误定义
var (
	// ErrArchiveDisabled 未启用会话存档
	ErrArchiveDisabled = errors.New("archive not enabled")

	// ErrNilConfig 传入的配置为空
	ErrNilConfig = errors.New("config is nil")

	// ErrInvalidHistoryCount 历史会话数量无效
	ErrInvalidHistoryCount = errors.New("history count must be positive")

	// ErrInvalidInterval 监测间隔无效
	ErrInvalidInterval = errors.New("watch interval must be positive")
)
