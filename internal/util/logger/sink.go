package logger

import "log/slog"

// Sink 把进度/审计文本写入子系统 Logger
//
// 不做任何格式化或脱敏，调用方负责消息内容。
type Sink struct {
	l *slog.Logger
}

// NewSink 创建写入指定子系统的 Sink
func NewSink(subsystem string) *Sink {
	return &Sink{l: Logger(subsystem)}
}

// Log 记录一条消息
func (s *Sink) Log(message string) {
	s.l.Info(message)
}
