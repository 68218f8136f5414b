package interfaces

import (
	"context"

	"github.com/dep2p/go-linkdiag/pkg/types"
)

// SystemFact 一条系统检查结果
type SystemFact struct {
	Name     string
	Severity types.Severity
	Detail   string
}

// SystemInspector 主机系统检查
type SystemInspector interface {
	Inspect(ctx context.Context) ([]SystemFact, error)
}

// LogSink 进度/审计文本输出
type LogSink interface {
	Log(message string)
}

// MetricsReporter 探测指标上报
type MetricsReporter interface {
	ObserveProbe(target types.Target, outcome types.ProbeOutcome)
	ObserveCheck(rec types.CheckRecord)
}

// Archive 会话历史存档
type Archive interface {
	Save(ctx context.Context, report *types.Report) error
	Recent(ctx context.Context, n int) ([]*types.Report, error)
}
