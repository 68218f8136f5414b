package ledger

import (
	"strings"

	"github.com/dep2p/go-linkdiag/pkg/types"
)

// Snapshot 台账的只读视图
type Snapshot struct {
	Records []types.CheckRecord
}

// SnapshotOf 用现成的记录构造快照，常用于测试与存档回放
func SnapshotOf(recs ...types.CheckRecord) Snapshot {
	return Snapshot{Records: recs}
}

// Empty 是否没有任何记录
func (s Snapshot) Empty() bool {
	return len(s.Records) == 0
}

// OverallStatus 汇总状态，严格按 FAIL > WARN > OK 逐级判断
func (s Snapshot) OverallStatus() types.Severity {
	if s.Any(func(r types.CheckRecord) bool { return r.Severity == types.SeverityFail }) {
		return types.SeverityFail
	}
	if s.Any(func(r types.CheckRecord) bool { return r.Severity == types.SeverityWarn }) {
		return types.SeverityWarn
	}
	return types.SeverityOK
}

// Any 是否存在满足条件的记录
func (s Snapshot) Any(pred func(types.CheckRecord) bool) bool {
	for _, r := range s.Records {
		if pred(r) {
			return true
		}
	}
	return false
}

// Filter 返回满足条件的记录
func (s Snapshot) Filter(pred func(types.CheckRecord) bool) []types.CheckRecord {
	var out []types.CheckRecord
	for _, r := range s.Records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// Match 名称或状态文本包含子串的记录（忽略大小写）
func (s Snapshot) Match(substr string) []types.CheckRecord {
	needle := strings.ToLower(substr)
	return s.Filter(func(r types.CheckRecord) bool {
		return strings.Contains(strings.ToLower(r.Name), needle) ||
			strings.Contains(strings.ToLower(r.StatusText()), needle)
	})
}

// Get 按名称精确查找
func (s Snapshot) Get(name string) (types.CheckRecord, bool) {
	for _, r := range s.Records {
		if r.Name == name {
			return r, true
		}
	}
	return types.CheckRecord{}, false
}

// Count 各严重度的记录数
func (s Snapshot) Count() map[types.Severity]int {
	out := make(map[types.Severity]int)
	for _, r := range s.Records {
		out[r.Severity]++
	}
	return out
}
