package link

import (
	"context"
	"errors"

	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

// AutoMonitor 优先使用 sysfs，接口不在 sysfs 中时回退到 IGD
type AutoMonitor struct {
	primary  interfaces.LinkMonitor
	fallback interfaces.LinkMonitor
}

// NewAutoMonitor 创建组合监视器
func NewAutoMonitor(primary, fallback interfaces.LinkMonitor) *AutoMonitor {
	return &AutoMonitor{primary: primary, fallback: fallback}
}

// LinkStatus 实现 interfaces.LinkMonitor
func (m *AutoMonitor) LinkStatus(ctx context.Context, adapter interfaces.AdapterHandle) (interfaces.LinkStatus, error) {
	st, err := m.primary.LinkStatus(ctx, adapter)
	if err == nil || !errors.Is(err, ErrNotInSysfs) || m.fallback == nil {
		return st, err
	}
	log.Debug("sysfs 不可用，回退到 IGD", "iface", adapter.Name)
	return m.fallback.LinkStatus(ctx, adapter)
}
