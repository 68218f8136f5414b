package diagnosis

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-linkdiag/internal/core/ledger"
	"github.com/dep2p/go-linkdiag/internal/util/logger"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

var log = logger.Logger("diagnosis")

// Engine 诊断引擎
//
// Engine 无状态，同一快照多次诊断得到相同结果。
type Engine struct {
	rules []Rule
}

// NewEngine 创建引擎，未提供规则时使用 DefaultRules
//
// 规则表末尾总是保证存在兜底规则。
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	rs := make([]Rule, len(rules))
	copy(rs, rules)
	if last := rs[len(rs)-1]; last.ID != types.RootCauseAllPassed {
		defaults := DefaultRules()
		rs = append(rs, defaults[len(defaults)-1])
	}
	return &Engine{rules: rs}
}

// Rules 返回规则表副本
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Diagnose 对快照求值
func (e *Engine) Diagnose(snap ledger.Snapshot) types.DiagnosisResult {
	working, problems := Components(snap)
	res := types.DiagnosisResult{
		WorkingComponents: working,
		ProblemAreas:      problems,
	}

	rule := e.first(snap)
	res.RootCause = rule.ID
	res.Title = rule.Title
	res.Explanation = rule.Explanation
	if rule.Narrate != nil {
		if extra := rule.Narrate(snap); extra != "" {
			res.Explanation += " " + extra
		}
	}
	res.Guidance = append([]string(nil), rule.Actions...)

	log.Debug("诊断完成", "rootCause", string(res.RootCause), "problems", len(problems))
	return res
}

func (e *Engine) first(snap ledger.Snapshot) Rule {
	for _, r := range e.rules {
		if r.Match == nil {
			continue
		}
		if r.Match(snap) {
			return r
		}
	}
	// 兜底规则恒为真，不可达
	return e.rules[len(e.rules)-1]
}

// Components 扫描台账，得到正常组件与问题区域
//
// 某类别只要出现 FAIL/WARN 即算问题区域，否则有 OK 记录即算正常；
// INFO 与 N/A 不参与判断。问题区域逐条列出，正常组件按类别去重。
func Components(snap ledger.Snapshot) (working, problems []string) {
	troubled := make(map[types.Category]bool)
	for _, r := range snap.Records {
		if r.Severity.IsProblem() {
			troubled[r.Category] = true
		}
	}

	seen := make(map[types.Category]bool)
	working = []string{}
	problems = []string{}
	for _, r := range snap.Records {
		switch {
		case r.Severity.IsProblem():
			problems = append(problems, r.Name+": "+r.StatusText())
		case r.Severity == types.SeverityOK && !troubled[r.Category] && !seen[r.Category]:
			seen[r.Category] = true
			working = append(working, r.Category.Label())
		}
	}
	return working, problems
}

// Module 返回 fx 模块
func Module() fx.Option {
	return fx.Module("diagnosis",
		fx.Provide(func() *Engine { return NewEngine() }),
	)
}
