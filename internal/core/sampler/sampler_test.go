package sampler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-linkdiag/internal/core/stats"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

// scripted 按 pattern 依次返回成功('.')或失败('x')，超出后循环
type scripted struct {
	mu      sync.Mutex
	pattern string
	n       int
	onProbe func(n int)
}

func (p *scripted) Probe(_ context.Context, _ types.Target, _ time.Duration) types.ProbeOutcome {
	p.mu.Lock()
	c := p.pattern[p.n%len(p.pattern)]
	p.n++
	n := p.n
	p.mu.Unlock()

	if p.onProbe != nil {
		p.onProbe(n)
	}
	if c == 'x' {
		return types.Failed(time.Time{}, types.ErrorTimeout, "no reply")
	}
	return types.Succeeded(time.Time{}, 10*time.Millisecond)
}

var target = types.Target{Kind: types.ProbeICMP, Host: "192.0.2.1", Label: "gateway"}

func TestSample_Count(t *testing.T) {
	s := New(&scripted{pattern: "..x."}, clock.NewMock())
	series, err := s.Sample(context.Background(), target, types.SamplingPlan{Count: 8, Timeout: time.Second})
	require.NoError(t, err)

	assert.Equal(t, 8, series.Len())
	st := stats.Aggregate(series)
	assert.Equal(t, 6, st.SuccessCount)
	assert.Equal(t, 2, st.FailCount)
	for _, o := range series.Outcomes {
		assert.False(t, o.Timestamp.IsZero())
	}
}

func TestSample_Duration(t *testing.T) {
	mock := clock.NewMock()
	p := &scripted{pattern: ".", onProbe: func(int) { mock.Add(time.Second) }}
	s := New(p, mock)

	series, err := s.Sample(context.Background(), target, types.SamplingPlan{Duration: 10 * time.Second, Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, 10, series.Len())
	assert.Equal(t, 10*time.Second, series.Finished.Sub(series.Started))
}

func TestSample_InvalidPlan(t *testing.T) {
	s := New(&scripted{pattern: "."}, nil)
	_, err := s.Sample(context.Background(), target, types.SamplingPlan{Count: 3, Duration: time.Second, Timeout: time.Second})
	assert.ErrorIs(t, err, types.ErrInvalidPlan)
}

func TestSample_CancelBetweenSamples(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := &scripted{pattern: ".", onProbe: func(n int) {
		if n == 3 {
			cancel()
		}
	}}

	series, err := New(p, clock.NewMock()).Sample(ctx, target, types.SamplingPlan{Count: 20, Timeout: time.Second})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, series)
	assert.Equal(t, 3, series.Len())
}

func TestSample_HungProbeTimesOut(t *testing.T) {
	hung := interfaces.ProberFunc(func(ctx context.Context, _ types.Target, _ time.Duration) types.ProbeOutcome {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		return types.Succeeded(time.Now(), time.Hour)
	})

	series, err := New(hung, nil).Sample(context.Background(), target, types.SamplingPlan{Count: 2, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())
	for _, o := range series.Outcomes {
		assert.False(t, o.Success)
		assert.Equal(t, types.ErrorTimeout, o.ErrorKind)
	}
}

func TestSample_PanicBecomesFailure(t *testing.T) {
	calls := 0
	p := interfaces.ProberFunc(func(context.Context, types.Target, time.Duration) types.ProbeOutcome {
		calls++
		if calls == 2 {
			panic("socket exploded")
		}
		return types.Succeeded(time.Now(), time.Millisecond)
	})

	series, err := New(p, nil).Sample(context.Background(), target, types.SamplingPlan{Count: 3, Timeout: time.Second})
	require.NoError(t, err)
	require.Equal(t, 3, series.Len())
	assert.False(t, series.Outcomes[1].Success)
	assert.Equal(t, types.ErrorUnknown, series.Outcomes[1].ErrorKind)
	assert.Contains(t, series.Outcomes[1].Detail, "socket exploded")
	assert.True(t, series.Outcomes[2].Success)
}

func TestSample_Progress(t *testing.T) {
	var got []Progress
	s := New(&scripted{pattern: "....x"}, clock.NewMock(), WithProgress(10, func(p Progress) {
		got = append(got, p)
	}))

	_, err := s.Sample(context.Background(), target, types.SamplingPlan{Count: 25, Timeout: time.Second})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 10, got[0].Done)
	assert.Equal(t, 25, got[0].Total)
	assert.InDelta(t, 80.0, got[0].SuccessRatePct, 0.01)
	assert.Equal(t, 20, got[1].Done)
}

type recordingSink struct{ lines []string }

func (r *recordingSink) Log(m string) { r.lines = append(r.lines, m) }

func TestWithSink(t *testing.T) {
	sink := &recordingSink{}
	s := New(&scripted{pattern: "."}, clock.NewMock(), WithSink(5, sink))
	_, err := s.Sample(context.Background(), target, types.SamplingPlan{Count: 5, Timeout: time.Second})
	require.NoError(t, err)

	require.Len(t, sink.lines, 1)
	assert.Equal(t, "gateway (icmp://192.0.2.1): 5/5 probes, 100.0% success", sink.lines[0])
}

type countingMetrics struct {
	mu     sync.Mutex
	probes int
}

func (c *countingMetrics) ObserveProbe(types.Target, types.ProbeOutcome) {
	c.mu.Lock()
	c.probes++
	c.mu.Unlock()
}
func (c *countingMetrics) ObserveCheck(types.CheckRecord) {}

func TestBurst(t *testing.T) {
	m := &countingMetrics{}
	s := New(&scripted{pattern: "..x"}, nil, WithMetrics(m))

	series, err := s.Burst(context.Background(), target, 9, 1000, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 9, series.Len())
	assert.Equal(t, 3, stats.Aggregate(series).FailCount)
	assert.Equal(t, 9, m.probes)
}

func TestBurst_Invalid(t *testing.T) {
	_, err := New(&scripted{pattern: "."}, nil).Burst(context.Background(), target, 0, 10, time.Second)
	assert.ErrorIs(t, err, ErrInvalidBurst)
}

func TestBurst_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	series, err := New(&scripted{pattern: "."}, nil).Burst(ctx, target, 5, 10, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, series.Len())
}
