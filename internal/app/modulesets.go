package app

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-linkdiag/internal/core/archive"
	"github.com/dep2p/go-linkdiag/internal/core/diagnosis"
	"github.com/dep2p/go-linkdiag/internal/core/doctor"
	"github.com/dep2p/go-linkdiag/internal/core/link"
	"github.com/dep2p/go-linkdiag/internal/core/metrics"
	"github.com/dep2p/go-linkdiag/internal/core/probe"
	"github.com/dep2p/go-linkdiag/internal/core/session"
	"github.com/dep2p/go-linkdiag/internal/core/sysinfo"
	"github.com/dep2p/go-linkdiag/internal/debug/introspect"
	"github.com/dep2p/go-linkdiag/internal/util/logger"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

// FoundationModules 基础设施：时钟与进度输出
func FoundationModules() fx.Option {
	return fx.Options(
		fx.Provide(
			func() clock.Clock { return clock.New() },
			func() interfaces.LogSink { return logger.NewSink("progress") },
		),
	)
}

// CollaboratorModules 外部能力协作者：探测、链路、会话、主机
func CollaboratorModules() fx.Option {
	return fx.Options(
		probe.Module(),
		link.Module(),
		session.Module(),
		sysinfo.Module(),
	)
}

// ObservabilityModules 指标、会话存档与本地自省服务
func ObservabilityModules() fx.Option {
	return fx.Options(
		metrics.Module(),
		archive.Module(),
		introspect.Module(),
	)
}

// EngineModules 诊断引擎与编排器
func EngineModules() fx.Option {
	return fx.Options(
		diagnosis.Module(),
		doctor.Module(),
	)
}

// CoreModules 全部模块
func CoreModules() fx.Option {
	return fx.Options(
		FoundationModules(),
		CollaboratorModules(),
		ObservabilityModules(),
		EngineModules(),
	)
}
