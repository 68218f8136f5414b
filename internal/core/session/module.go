package session

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	Config *config.SessionConfig `optional:"true"`
	Clock  clock.Clock           `optional:"true"`
}

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	Credentials   interfaces.CredentialSource
	Authenticator interfaces.Authenticator
	Inspector     interfaces.SessionInspector
}

// ProvideServices 按认证方式组装会话协作者
func ProvideServices(input ModuleInput) ModuleOutput {
	cfg := config.DefaultSessionConfig()
	if input.Config != nil {
		cfg = *input.Config
	}

	inspector := NewNetInspector(nil, nil)
	out := ModuleOutput{Inspector: inspector}

	switch cfg.Authenticator {
	case config.AuthIGD:
		out.Credentials = NewIGDCredentials(nil)
		out.Authenticator = NewIGDAuthenticator(nil)
	default:
		out.Credentials = NewConfigCredentials(cfg)
		out.Authenticator = NewInterfaceAuthenticator(inspector, cfg.Interface, cfg.Timeout.Duration(), input.Clock)
	}
	return out
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("session",
		fx.Provide(ProvideServices),
	)
}
