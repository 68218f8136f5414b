// Package logger 提供 linkdiag 的子系统日志
//
// 基于标准库 log/slog，每个包持有一个子系统 Logger：
//
//	var logger = logger.Logger("sampler")
//
//	logger.Debug("sample done", "target", target, "success", ok)
//
// 级别通过 LINKDIAG_LOG_LEVEL 配置，例如：
//
//	LINKDIAG_LOG_LEVEL=sampler=debug,doctor=debug,info
package logger

import (
	"io"
	"log/slog"
	"sync"
)

var (
	loggers  sync.Map // subsystem -> *slog.Logger
	handlers sync.Map // subsystem -> *levelHandler
)

// Logger 返回子系统 Logger，同名子系统共享同一实例
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	h := newHandler(subsystem, ConfigFromEnv())
	actual, loaded := loggers.LoadOrStore(subsystem, slog.New(h))
	if !loaded {
		handlers.Store(subsystem, h)
	}
	return actual.(*slog.Logger)
}

// SetLevel 运行时调整子系统级别
func SetLevel(subsystem string, level slog.Level) {
	if h, ok := handlers.Load(subsystem); ok {
		h.(*levelHandler).setLevel(level)
	}
}

// SetAllLevels 调整所有已创建子系统的级别
func SetAllLevels(level slog.Level) {
	handlers.Range(func(_, v any) bool {
		v.(*levelHandler).setLevel(level)
		return true
	})
}

// SetOutput 切换全局输出目标，已创建的 Logger 同样生效
func SetOutput(w io.Writer) {
	outputMu.Lock()
	output = w
	outputMu.Unlock()
}

// Discard 返回丢弃所有输出的 Logger
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}
