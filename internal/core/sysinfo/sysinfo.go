// Package sysinfo 执行主机系统阶段的检查
//
// 通过 gopsutil 读取主机信息、负载与内存，输出若干 SystemFact。
// 系统检查只给出 OK / INFO / WARN，从不阻断后续阶段。
package sysinfo

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/load"
	"github.com/shirou/gopsutil/mem"
	"go.uber.org/fx"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/internal/util/logger"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

var log = logger.Logger("sysinfo")

// 检查名称
const (
	CheckHost   = "System: host"
	CheckLoad   = "System: load"
	CheckMemory = "System: memory"
)

// Source 系统数据来源
type Source struct {
	Host   func(ctx context.Context) (*host.InfoStat, error)
	Load   func(ctx context.Context) (*load.AvgStat, error)
	Memory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	CPUs   func(ctx context.Context) (int, error)
}

// SystemSource 基于 gopsutil 的系统数据来源
func SystemSource() Source {
	return Source{
		Host:   host.InfoWithContext,
		Load:   load.AvgWithContext,
		Memory: mem.VirtualMemoryWithContext,
		CPUs: func(ctx context.Context) (int, error) {
			return cpu.CountsWithContext(ctx, true)
		},
	}
}

// Inspector 系统检查器
type Inspector struct {
	cfg config.SystemConfig
	src Source
}

// New 创建系统检查器
func New(cfg config.SystemConfig, src Source) *Inspector {
	return &Inspector{cfg: cfg, src: src}
}

// Inspect 实现 interfaces.SystemInspector
//
// 单项读取失败记为 INFO，不返回错误。
func (i *Inspector) Inspect(ctx context.Context) ([]interfaces.SystemFact, error) {
	facts := []interfaces.SystemFact{
		i.hostFact(ctx),
		i.loadFact(ctx),
		i.memoryFact(ctx),
	}
	log.Debug("系统检查完成", "facts", len(facts))
	return facts, nil
}

func (i *Inspector) hostFact(ctx context.Context) interfaces.SystemFact {
	info, err := i.src.Host(ctx)
	if err != nil {
		return unavailable(CheckHost, err)
	}
	uptime := (time.Duration(info.Uptime) * time.Second).String()
	return interfaces.SystemFact{
		Name:     CheckHost,
		Severity: types.SeverityOK,
		Detail:   fmt.Sprintf("%s, %s %s, kernel %s, up %s", info.Hostname, info.Platform, info.PlatformVersion, info.KernelVersion, uptime),
	}
}

func (i *Inspector) loadFact(ctx context.Context) interfaces.SystemFact {
	avg, err := i.src.Load(ctx)
	if err != nil {
		return unavailable(CheckLoad, err)
	}
	cpus, err := i.src.CPUs(ctx)
	if err != nil || cpus <= 0 {
		cpus = 1
	}
	perCPU := avg.Load1 / float64(cpus)
	f := interfaces.SystemFact{
		Name:     CheckLoad,
		Severity: types.SeverityOK,
		Detail:   fmt.Sprintf("load %.2f %.2f %.2f on %d CPUs", avg.Load1, avg.Load5, avg.Load15, cpus),
	}
	if perCPU > i.cfg.LoadWarnPerCPU {
		f.Severity = types.SeverityWarn
		f.Detail += "; host is overloaded, probe latency may be inflated"
	}
	return f
}

func (i *Inspector) memoryFact(ctx context.Context) interfaces.SystemFact {
	vm, err := i.src.Memory(ctx)
	if err != nil {
		return unavailable(CheckMemory, err)
	}
	f := interfaces.SystemFact{
		Name:     CheckMemory,
		Severity: types.SeverityOK,
		Detail:   fmt.Sprintf("%.1f%% used of %d MiB", vm.UsedPercent, vm.Total>>20),
	}
	if vm.UsedPercent > i.cfg.MemoryWarnPct {
		f.Severity = types.SeverityWarn
	}
	return f
}

func unavailable(name string, err error) interfaces.SystemFact {
	return interfaces.SystemFact{Name: name, Severity: types.SeverityInfo, Detail: "unavailable: " + err.Error()}
}

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	Config *config.SystemConfig `optional:"true"`
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("sysinfo",
		fx.Provide(func(in ModuleInput) interfaces.SystemInspector {
			cfg := config.DefaultSystemConfig()
			if in.Config != nil {
				cfg = *in.Config
			}
			return New(cfg, SystemSource())
		}),
	)
}
