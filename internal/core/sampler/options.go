package sampler

import (
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

// Progress 采样进度
type Progress struct {
	Target types.Target
	// Done 已完成样本数
	Done int
	// Total 计划样本数，按时长采样时为 0
	Total int
	// SuccessRatePct 截至目前的成功率
	SuccessRatePct float64
}

// ProgressFunc 进度回调
type ProgressFunc func(Progress)

// Option 采样器选项
type Option func(*Sampler)

// WithProgress 每 every 个样本回调一次进度
func WithProgress(every int, fn ProgressFunc) Option {
	return func(s *Sampler) {
		if every > 0 && fn != nil {
			s.progressEvery = every
			s.progress = fn
		}
	}
}

// WithMetrics 上报每个样本
func WithMetrics(r interfaces.MetricsReporter) Option {
	return func(s *Sampler) { s.metrics = r }
}

// WithSink 把进度写入 LogSink
func WithSink(every int, sink interfaces.LogSink) Option {
	if sink == nil {
		return func(*Sampler) {}
	}
	return WithProgress(every, func(p Progress) {
		sink.Log(formatProgress(p))
	})
}
