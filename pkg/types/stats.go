package types

import "fmt"

// DropEvent 连续失败区间
type DropEvent struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// Stats 采样序列的聚合结果
type Stats struct {
	Total        int `json:"total"`
	SuccessCount int `json:"success"`
	FailCount    int `json:"fail"`

	// SuccessRatePct 保留一位小数，范围 [0,100]
	SuccessRatePct float64 `json:"success_rate_pct"`

	AvgLatencyMs    float64 `json:"avg_latency_ms"`
	MinLatencyMs    float64 `json:"min_latency_ms"`
	MaxLatencyMs    float64 `json:"max_latency_ms"`
	P95LatencyMs    float64 `json:"p95_latency_ms"`
	StdDevLatencyMs float64 `json:"stddev_latency_ms"`

	// JitterMs 成功样本的 max-min 延迟
	JitterMs float64 `json:"jitter_ms"`

	DropEvents             []DropEvent `json:"drop_events,omitempty"`
	MaxConsecutiveFailures int         `json:"max_consecutive_failures"`
}

// LossRatePct 返回丢包率
func (s Stats) LossRatePct() float64 {
	if s.Total == 0 {
		return 0
	}
	return 100 - s.SuccessRatePct
}

// Validate 校验聚合结果的结构不变量
func (s Stats) Validate() error {
	violation := func(format string, args ...any) error {
		return &InvariantViolation{Component: "stats", Message: fmt.Sprintf(format, args...)}
	}

	if s.Total < 0 || s.SuccessCount < 0 || s.FailCount < 0 {
		return violation("negative counts: %+v", s)
	}
	if s.SuccessCount+s.FailCount != s.Total {
		return violation("success(%d)+fail(%d) != total(%d)", s.SuccessCount, s.FailCount, s.Total)
	}
	if s.SuccessRatePct < 0 || s.SuccessRatePct > 100 {
		return violation("success rate %.1f out of range", s.SuccessRatePct)
	}

	sum, longest := 0, 0
	for _, ev := range s.DropEvents {
		if ev.Length <= 0 || ev.Start < 0 || ev.Start+ev.Length > s.Total {
			return violation("bad drop event %+v", ev)
		}
		sum += ev.Length
		longest = max(longest, ev.Length)
	}
	if sum > s.FailCount {
		return violation("drop events cover %d failures, only %d recorded", sum, s.FailCount)
	}
	if longest != s.MaxConsecutiveFailures {
		return violation("max consecutive failures %d, longest drop event %d", s.MaxConsecutiveFailures, longest)
	}
	return nil
}
