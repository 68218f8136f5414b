package app

import (
	"go.uber.org/fx"
)

// BootstrapOption Bootstrap 配置选项
type BootstrapOption func(*Bootstrap)

// WithFxOptions 追加 fx 选项，例如用 fx.Decorate 替换协作者
func WithFxOptions(opts ...fx.Option) BootstrapOption {
	return func(b *Bootstrap) {
		b.fxOptions = append(b.fxOptions, opts...)
	}
}
