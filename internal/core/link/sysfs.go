package link

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

// ErrNotInSysfs 接口不在 sysfs 中（非 Linux 或网卡已消失）
var ErrNotInSysfs = errors.New("interface not present in sysfs")

// SysfsMonitor 通过 sysfs 查询链路状态
type SysfsMonitor struct {
	root string
}

// NewSysfsMonitor 创建 sysfs 链路监视器
func NewSysfsMonitor(root string) *SysfsMonitor {
	if root == "" {
		root = "/sys/class/net"
	}
	return &SysfsMonitor{root: root}
}

// LinkStatus 实现 interfaces.LinkMonitor
//
// operstate 为 up，或为 unknown 但 carrier 为 1 时视为链路已建立；
// speed 单位为 Mbps，链路断开时内核给出 -1。
func (m *SysfsMonitor) LinkStatus(_ context.Context, adapter interfaces.AdapterHandle) (interfaces.LinkStatus, error) {
	dir := filepath.Join(m.root, adapter.Name)
	if _, err := os.Stat(dir); err != nil {
		return interfaces.LinkStatus{}, fmt.Errorf("%w: %s", ErrNotInSysfs, adapter.Name)
	}

	st := interfaces.LinkStatus{Source: "sysfs"}
	oper := m.read(dir, "operstate")
	switch oper {
	case "up":
		st.Up = true
	case "unknown", "":
		st.Up = m.read(dir, "carrier") == "1"
	}

	if st.Up {
		if mbps, err := strconv.ParseInt(m.read(dir, "speed"), 10, 64); err == nil && mbps > 0 {
			st.SpeedBps = uint64(mbps) * 1_000_000
		}
	}
	return st, nil
}

// read 读取属性，链路断开时部分属性读取会返回 EINVAL
func (m *SysfsMonitor) read(dir, attr string) string {
	b, err := os.ReadFile(filepath.Join(dir, attr))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
