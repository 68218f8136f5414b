// Package app 提供 linkdiag 应用编排层
//
// app 包负责：
// - fx 模块组装
// - 依赖注入协调
// - 生命周期管理
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/dep2p/go-linkdiag/config"
	internalconfig "github.com/dep2p/go-linkdiag/internal/config"
	"github.com/dep2p/go-linkdiag/internal/core/doctor"
	"github.com/dep2p/go-linkdiag/internal/debug/introspect"
	"github.com/dep2p/go-linkdiag/internal/util/logger"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

var log = logger.Logger("app")

const (
	startTimeout = 30 * time.Second
	stopTimeout  = 30 * time.Second
)

// Bootstrap 应用引导程序
//
// Bootstrap 负责：
// - 应用日志配置
// - 组装 fx 模块
// - 管理应用生命周期
type Bootstrap struct {
	config    *config.Config
	fxOptions []fx.Option
	fxApp     *fx.App
	logFile   io.Closer

	doctor     *doctor.Doctor
	archive    interfaces.Archive
	metrics    interfaces.MetricsReporter
	introspect *introspect.Server
}

// NewBootstrap 创建引导程序，cfg 为 nil 时使用默认配置
func NewBootstrap(cfg *config.Config, opts ...BootstrapOption) *Bootstrap {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	b := &Bootstrap{config: cfg}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build 组装并启动 fx 应用，返回可 Stop 的运行时
func (b *Bootstrap) Build() (*Runtime, error) {
	// 日志配置必须在所有模块初始化之前
	if err := b.setupLogging(); err != nil {
		return nil, fmt.Errorf("设置日志失败: %w", err)
	}

	modules := append([]fx.Option{
		internalconfig.Module(b.config),
		CoreModules(),
		fx.Populate(&b.doctor, &b.archive, &b.metrics, &b.introspect),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	}, b.fxOptions...)
	b.fxApp = fx.New(modules...)
	if err := b.fxApp.Err(); err != nil {
		return nil, multierr.Append(fmt.Errorf("组装模块失败: %w", err), b.closeLog())
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	if err := b.fxApp.Start(ctx); err != nil {
		return nil, multierr.Append(fmt.Errorf("启动应用失败: %w", err), b.closeLog())
	}
	log.Debug("应用已启动")

	return &Runtime{
		Doctor:     b.doctor,
		Archive:    b.archive,
		Metrics:    b.metrics,
		Introspect: b.introspect,
		stop:       b.Stop,
	}, nil
}

// Stop 停止应用
//
// 触发各模块 OnStop（存档关闭、指标导出），并关闭日志文件；所有错误合并返回。
func (b *Bootstrap) Stop(ctx context.Context) error {
	var err error
	if b.fxApp != nil {
		stopCtx, cancel := context.WithTimeout(ctx, stopTimeout)
		err = b.fxApp.Stop(stopCtx)
		cancel()
		b.fxApp = nil
	}
	return multierr.Append(err, b.closeLog())
}

// setupLogging 应用日志级别，配置了 File 时把输出切换到滚动日志文件
func (b *Bootstrap) setupLogging() error {
	lc := b.config.Log
	if lc.Level != "" {
		if level, ok := logger.ParseLevel(lc.Level); ok {
			logger.SetAllLevels(level)
		}
	}
	if lc.File == "" {
		return nil
	}

	closer, err := logger.OpenFile(logger.FileConfig{
		Path:       lc.File,
		MaxSizeMB:  lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAgeDays: lc.MaxAgeDays,
	})
	if err != nil {
		return fmt.Errorf("打开日志文件失败: %w", err)
	}
	b.logFile = closer
	log.Info("日志文件初始化成功", "path", lc.File)
	return nil
}

func (b *Bootstrap) closeLog() error {
	if b.logFile == nil {
		return nil
	}
	logger.SetOutput(os.Stderr)
	err := b.logFile.Close()
	b.logFile = nil
	return err
}
