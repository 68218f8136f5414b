package diagnosis

import (
	"github.com/dep2p/go-linkdiag/internal/core/ledger"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

// Rule 一条诊断规则
type Rule struct {
	// ID 根因标识
	ID types.RootCause

	// Title 一句话结论
	Title string

	// Explanation 根因说明
	Explanation string

	// Actions 处置建议，按执行顺序
	Actions []string

	// Match 规则谓词，只读取快照
	Match func(ledger.Snapshot) bool

	// Narrate 可选，根据台账中的原始统计补充说明
	Narrate func(ledger.Snapshot) string
}

// Predicate 组合子

// failIn 指定类别中存在 FAIL
func failIn(cats ...types.Category) func(ledger.Snapshot) bool {
	return severityIn([]types.Severity{types.SeverityFail}, cats...)
}

// problemIn 指定类别中存在 FAIL 或 WARN
func problemIn(cats ...types.Category) func(ledger.Snapshot) bool {
	return severityIn([]types.Severity{types.SeverityFail, types.SeverityWarn}, cats...)
}

func severityIn(sevs []types.Severity, cats ...types.Category) func(ledger.Snapshot) bool {
	return func(s ledger.Snapshot) bool {
		return s.Any(func(r types.CheckRecord) bool {
			return contains(sevs, r.Severity) && contains(cats, r.Category)
		})
	}
}

func always(ledger.Snapshot) bool { return true }

func contains[T comparable](set []T, v T) bool {
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}
