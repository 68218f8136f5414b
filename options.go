package linkdiag

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-linkdiag/config"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 基础配置，为空时按 configFile 加载或使用默认值
	config     *config.Config
	configFile string
	quick      bool

	// 覆盖项
	logFile     string
	logLevel    string
	archiveDir  string
	metricsFile string
	introspect  string
	extended    *bool

	fxOptions []fx.Option
}

func newOptions() *options {
	return &options{}
}

// buildConfig 生成最终配置：基础配置 → 覆盖项 → 校验
func (o *options) buildConfig() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case o.config != nil:
		cfg = o.config.Clone()
	case o.configFile != "":
		loaded, err := config.Load(o.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case o.quick:
		cfg = config.NewQuickConfig()
	default:
		cfg = config.NewConfig()
	}

	if o.quick {
		cfg.Extended.Enabled = false
		cfg.Extended.Trace.Enabled = false
	}
	if o.extended != nil {
		cfg.Extended.Enabled = *o.extended
	}
	if o.logFile != "" {
		cfg.Log.File = o.logFile
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.archiveDir != "" {
		cfg.Archive.Enabled = true
		cfg.Archive.Dir = o.archiveDir
	}
	if o.metricsFile != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.TextFile = o.metricsFile
	}
	if o.introspect != "" {
		cfg.Introspect.Enabled = true
		cfg.Introspect.Addr = o.introspect
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ============================================================================
//                              配置来源
// ============================================================================

// WithConfig 使用给定配置（内部会复制，不修改调用方的值）
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return ErrNilConfig
		}
		o.config = cfg
		return nil
	}
}

// WithConfigFile 从 .json / .yaml 文件加载配置，并叠加 LINKDIAG_* 环境变量
func WithConfigFile(path string) Option {
	return func(o *options) error {
		o.configFile = path
		return nil
	}
}

// WithQuick 快速诊断：关闭扩展探测与路由追踪
func WithQuick() Option {
	return func(o *options) error {
		o.quick = true
		return nil
	}
}

// ============================================================================
//                              覆盖项
// ============================================================================

// WithExtended 开关扩展稳定性探测
func WithExtended(enable bool) Option {
	return func(o *options) error {
		o.extended = &enable
		return nil
	}
}

// WithLogFile 将日志写入滚动文件
func WithLogFile(path string) Option {
	return func(o *options) error {
		o.logFile = path
		return nil
	}
}

// WithLogLevel 设置日志级别（debug / info / warn / error）
func WithLogLevel(level string) Option {
	return func(o *options) error {
		o.logLevel = level
		return nil
	}
}

// WithArchiveDir 启用会话存档并指定目录
func WithArchiveDir(dir string) Option {
	return func(o *options) error {
		o.archiveDir = dir
		return nil
	}
}

// WithMetricsFile 诊断结束时把指标写入 Prometheus textfile
func WithMetricsFile(path string) Option {
	return func(o *options) error {
		o.metricsFile = path
		return nil
	}
}

// WithIntrospect 启用本地自省 HTTP 服务（/metrics、最近报告、pprof）
func WithIntrospect(addr string) Option {
	return func(o *options) error {
		o.introspect = addr
		return nil
	}
}

// WithFxOptions 追加 fx 选项
//
// 主要用于测试：通过 fx.Decorate 替换探测器、链路监视器等协作者。
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}
