// Package config 将 config.Config 分发给各子系统
//
// 各模块通过 fx 注入自己关心的配置段，而不依赖完整的 Config。
package config

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-linkdiag/config"
)

// Provider 配置提供者
type Provider struct {
	config *config.Config
}

// NewProvider 创建配置提供者，nil 时使用默认配置
func NewProvider(cfg *config.Config) *Provider {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Provider{config: cfg}
}

// GetConfig 获取完整配置
func (p *Provider) GetConfig() *config.Config {
	return p.config
}

// ============================================================================
//                              fx 模块
// ============================================================================

// ProviderResult fx 提供者结果
type ProviderResult struct {
	fx.Out

	Provider  *Provider
	System    *config.SystemConfig
	Link      *config.LinkConfig
	Session   *config.SessionConfig
	Targets   *config.TargetsConfig
	Probe     *config.ProbeConfig
	Sampling  *config.SamplingConfig
	Stability *config.StabilityConfig
	Extended  *config.ExtendedConfig
	Archive   *config.ArchiveConfig
	Metrics   *config.MetricsConfig

	Introspect *config.IntrospectConfig
}

// ProvideConfig 校验并分发配置
func ProvideConfig(cfg *config.Config) (ProviderResult, error) {
	if err := config.ValidateAll(cfg); err != nil {
		return ProviderResult{}, err
	}
	p := NewProvider(cfg)
	c := p.config
	return ProviderResult{
		Provider:  p,
		System:    &c.System,
		Link:      &c.Link,
		Session:   &c.Session,
		Targets:   &c.Targets,
		Probe:     &c.Probe,
		Sampling:  &c.Sampling,
		Stability: &c.Stability,
		Extended:  &c.Extended,
		Archive:   &c.Archive,
		Metrics:   &c.Metrics,

		Introspect: &c.Introspect,
	}, nil
}

// Module 返回配置模块，cfg 为 nil 时使用默认配置
func Module(cfg *config.Config) fx.Option {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return fx.Module("config",
		fx.Supply(cfg),
		fx.Provide(ProvideConfig),
	)
}
