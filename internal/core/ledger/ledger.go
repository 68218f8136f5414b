// Package ledger 提供会话级的只追加检查台账
//
// 台账由编排层独占，只在一个阶段（及其并发 worker）完全汇合后追加；
// 诊断引擎与报告渲染只读取 Snapshot。
package ledger

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-linkdiag/internal/util/logger"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

var log = logger.Logger("ledger")

// Ledger 只追加的检查台账
type Ledger struct {
	mu      sync.RWMutex
	clock   clock.Clock
	records []types.CheckRecord
	names   map[string]struct{}
}

// New 创建台账，clk 为 nil 时使用系统时钟
func New(clk clock.Clock) *Ledger {
	if clk == nil {
		clk = clock.New()
	}
	return &Ledger{
		clock: clk,
		names: make(map[string]struct{}),
	}
}

// Record 追加一条检查记录
func (l *Ledger) Record(name string, order int, sev types.Severity, cat types.Category, detail string) error {
	return l.Append(types.CheckRecord{
		Name:     name,
		Order:    order,
		Severity: sev,
		Category: cat,
		Detail:   detail,
	})
}

// Append 追加完整记录，Seq 与缺省的 Timestamp 由台账填写
//
// 已存在的记录永远不会被修改或删除；重名返回 ErrDuplicateCheck。
func (l *Ledger) Append(rec types.CheckRecord) error {
	if strings.TrimSpace(rec.Name) == "" {
		return types.ErrEmptyCheckName
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, dup := l.names[rec.Name]; dup {
		return fmt.Errorf("%w: %q", types.ErrDuplicateCheck, rec.Name)
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = l.clock.Now()
	}
	rec.Seq = len(l.records)
	l.records = append(l.records, rec)
	l.names[rec.Name] = struct{}{}

	log.Debug("记录检查", "name", rec.Name, "order", rec.Order, "severity", rec.Severity.String())
	return nil
}

// Has 是否已记录指定名称
func (l *Ledger) Has(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.names[name]
	return ok
}

// Len 记录数
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// OverallStatus 汇总状态：任一 FAIL → FAIL，否则任一 WARN → WARN，否则 OK
func (l *Ledger) OverallStatus() types.Severity {
	return l.Snapshot().OverallStatus()
}

// Records 按展示顺序返回记录副本
func (l *Ledger) Records() []types.CheckRecord {
	return l.Snapshot().Records
}

// Match 按名称或状态文本的子串（忽略大小写）查询记录
func (l *Ledger) Match(substr string) []types.CheckRecord {
	return l.Snapshot().Match(substr)
}

// Snapshot 返回按展示顺序排列的只读快照
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	recs := make([]types.CheckRecord, len(l.records))
	copy(recs, l.records)
	l.mu.RUnlock()

	// Order 分组，同组内按追加顺序
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Order != recs[j].Order {
			return recs[i].Order < recs[j].Order
		}
		return recs[i].Seq < recs[j].Seq
	})
	return Snapshot{Records: recs}
}
