package stability

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dep2p/go-linkdiag/internal/core/stats"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

// build 根据模式串构造 Stats，'.' 成功、'x' 失败
func build(pattern string) types.Stats {
	out := make([]types.ProbeOutcome, 0, len(pattern))
	for _, c := range pattern {
		if c == '.' {
			out = append(out, types.Succeeded(time.Time{}, 10*time.Millisecond))
		} else {
			out = append(out, types.Failed(time.Time{}, types.ErrorTimeout, ""))
		}
	}
	return stats.FromOutcomes(out)
}

func TestClassify_AllSuccess(t *testing.T) {
	c := New(DefaultThresholds())
	s := build(strings.Repeat(".", 30))
	assert.Equal(t, 0, s.MaxConsecutiveFailures)
	assert.Equal(t, types.StabilityStable, c.Classify(s))
}

func TestClassify_MostlyStable(t *testing.T) {
	c := New(DefaultThresholds())
	// 1/20 丢包 = 95%
	assert.Equal(t, types.StabilityMostlyStable, c.Classify(build("x"+strings.Repeat(".", 19))))
}

func TestClassify_RunOfSixIsIntermittent(t *testing.T) {
	c := New(DefaultThresholds())
	pattern := strings.Repeat(".", 20) + strings.Repeat("x", 6) + strings.Repeat(".", 24)
	s := build(pattern)

	assert.Equal(t, 50, s.Total)
	assert.Equal(t, 6, s.MaxConsecutiveFailures)
	assert.Equal(t, types.StabilityIntermittentDrops, c.Classify(s))
}

func TestClassify_ScatteredLossIsSevere(t *testing.T) {
	c := New(DefaultThresholds())
	// 20 个样本，7 个互不相邻的失败
	s := build("x.x.x.x.x.x.x.......")

	assert.Equal(t, 65.0, s.SuccessRatePct)
	assert.Equal(t, 1, s.MaxConsecutiveFailures)
	assert.Equal(t, types.StabilitySevereInstability, c.Classify(s))
}

func TestClassify_RunOfFourFallsThroughToUnstable(t *testing.T) {
	c := New(DefaultThresholds())
	// 一段 4 连续失败 + 4 个零散失败，共 8/50
	pattern := "xxxx" + strings.Repeat(".", 10) + "x." + "x." + "x." + "x." + strings.Repeat(".", 28)
	s := build(pattern)

	assert.Equal(t, 50, s.Total)
	assert.Equal(t, 8, s.FailCount)
	assert.Equal(t, 4, s.MaxConsecutiveFailures)
	assert.Equal(t, types.StabilityUnstable, c.Classify(s))
}

func TestClassify_RunCheckedBeforeLossRatio(t *testing.T) {
	c := New(DefaultThresholds())
	// 一段 10 连续失败占 50%，仍然是 INTERMITTENT_DROPS
	s := build(strings.Repeat(".", 5) + strings.Repeat("x", 10) + strings.Repeat(".", 5))
	assert.Equal(t, types.StabilityIntermittentDrops, c.Classify(s))
}

func TestClassify_EmptyIsUnstable(t *testing.T) {
	c := New(Thresholds{})
	// 成功率 0、无失败，前四条规则都不命中
	assert.Equal(t, types.StabilityUnstable, c.Classify(types.Stats{}))

	s := stats.Aggregate(&types.SampleSeries{})
	assert.Zero(t, s.SuccessRatePct)
	assert.Equal(t, types.StabilityUnstable, c.Classify(s))
}

func TestClassify_InvalidStatsPanics(t *testing.T) {
	c := New(DefaultThresholds())
	assert.Panics(t, func() {
		c.Classify(types.Stats{Total: 2, SuccessCount: 1, FailCount: 5})
	})
}

func TestNew_DefaultsZeroThresholds(t *testing.T) {
	c := New(Thresholds{DropRunLength: 3})
	got := c.Thresholds()
	assert.Equal(t, 3, got.DropRunLength)
	assert.Equal(t, 95.0, got.MostlyStablePct)
	assert.Equal(t, 0.3, got.SevereFailRatio)
}
