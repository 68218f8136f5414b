package archive

import (
	"fmt"

	"github.com/dep2p/go-linkdiag/pkg/types"
)

// Recurring 判断当前根因是否在最近 window 次会话（含本次）中连续出现
//
// previous 为按时间从新到旧的历史会话；"全部通过" 与空根因从不视为反复出现。
func Recurring(cause types.RootCause, previous []*types.Report, window int) bool {
	if cause == types.RootCauseNone || cause == types.RootCauseAllPassed || window < 2 {
		return false
	}
	if len(previous) < window-1 {
		return false
	}
	for _, r := range previous[:window-1] {
		if r.Diagnosis.RootCause != cause {
			return false
		}
	}
	return true
}

// RecurringNote 反复出现时附加到处理建议中的说明
func RecurringNote(window int) string {
	return fmt.Sprintf("This root cause was also reported in the previous %d sessions; the fault is persistent, escalate to the provider with this history.", window-1)
}
