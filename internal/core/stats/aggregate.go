package stats

import (
	"math"

	mstats "github.com/montanaflynn/stats"

	"github.com/dep2p/go-linkdiag/pkg/types"
)

// Aggregate 聚合采样序列
//
// nil 或空序列返回全零的 Stats，不会出现除零或 NaN。
func Aggregate(series *types.SampleSeries) types.Stats {
	if series == nil {
		return types.Stats{}
	}
	return FromOutcomes(series.Outcomes)
}

// FromOutcomes 聚合一组有序结果
func FromOutcomes(outcomes []types.ProbeOutcome) types.Stats {
	s := types.Stats{Total: len(outcomes)}

	latencies := make(mstats.Float64Data, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Success {
			s.SuccessCount++
			latencies = append(latencies, o.LatencyMs())
		}
	}
	s.FailCount = s.Total - s.SuccessCount

	if s.Total > 0 {
		s.SuccessRatePct = round1(float64(s.SuccessCount) / float64(s.Total) * 100)
	}

	if len(latencies) > 0 {
		s.AvgLatencyMs = round2(must(latencies.Mean()))
		s.MinLatencyMs = round2(must(latencies.Min()))
		s.MaxLatencyMs = round2(must(latencies.Max()))
		s.P95LatencyMs = round2(must(latencies.PercentileNearestRank(95)))
		s.StdDevLatencyMs = round2(must(latencies.StandardDeviation()))
		s.JitterMs = round2(s.MaxLatencyMs - s.MinLatencyMs)
	}

	s.DropEvents = DropEvents(outcomes)
	for _, ev := range s.DropEvents {
		s.MaxConsecutiveFailures = max(s.MaxConsecutiveFailures, ev.Length)
	}
	return s
}

// DropEvents 扫描连续失败区间
//
// 区间从成功之后的第一次失败开始（序列以失败开头时从 0 开始），
// 到下一次成功之前或序列结束为止。
func DropEvents(outcomes []types.ProbeOutcome) []types.DropEvent {
	var events []types.DropEvent
	start := -1
	for i, o := range outcomes {
		switch {
		case !o.Success && start < 0:
			start = i
		case o.Success && start >= 0:
			events = append(events, types.DropEvent{Start: start, Length: i - start})
			start = -1
		}
	}
	if start >= 0 {
		events = append(events, types.DropEvent{Start: start, Length: len(outcomes) - start})
	}
	return events
}

// MustValidate 校验 Stats 不变量，破坏时 panic
//
// 越过组件边界的 Stats 若不自洽，说明调用方存在编程错误。
func MustValidate(s types.Stats) {
	if err := s.Validate(); err != nil {
		panic(err)
	}
}

// must 丢弃 montanaflynn/stats 在空输入时的错误，调用方已保证非空
func must(v float64, err error) float64 {
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
