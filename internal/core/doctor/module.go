package doctor

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/internal/core/diagnosis"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	Config *config.Config `optional:"true"`

	Prober        interfaces.Prober
	Adapters      interfaces.AdapterSelector
	Link          interfaces.LinkMonitor
	Tracer        interfaces.Tracer           `optional:"true"`
	System        interfaces.SystemInspector  `optional:"true"`
	Credentials   interfaces.CredentialSource `optional:"true"`
	Authenticator interfaces.Authenticator    `optional:"true"`
	Sessions      interfaces.SessionInspector `optional:"true"`
	Sink          interfaces.LogSink          `optional:"true"`
	Metrics       interfaces.MetricsReporter  `optional:"true"`
	Archive       interfaces.Archive          `optional:"true"`
	Engine        *diagnosis.Engine           `optional:"true"`
	Clock         clock.Clock                 `optional:"true"`
}

// ProvideDoctor 组装编排器
func ProvideDoctor(in ModuleInput) (*Doctor, error) {
	return New(Deps{
		Prober:        in.Prober,
		Tracer:        in.Tracer,
		System:        in.System,
		Adapters:      in.Adapters,
		Link:          in.Link,
		Credentials:   in.Credentials,
		Authenticator: in.Authenticator,
		Sessions:      in.Sessions,
		Sink:          in.Sink,
		Metrics:       in.Metrics,
		Archive:       in.Archive,
		Engine:        in.Engine,
		Clock:         in.Clock,
	}, ConfigFrom(in.Config))
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("doctor",
		fx.Provide(ProvideDoctor),
	)
}
