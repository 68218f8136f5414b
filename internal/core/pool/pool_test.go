package pool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-linkdiag/pkg/types"
)

func targets(n int) []types.Target {
	out := make([]types.Target, n)
	for i := range out {
		out[i] = types.Target{Kind: types.ProbeTCP, Host: "10.0.0.1", Port: 1000 + i}
	}
	return out
}

func TestRun_OrderedResults(t *testing.T) {
	ts := targets(8)
	out := Run(context.Background(), nil, 3, time.Second, ts, func(_ context.Context, tg types.Target) types.ProbeOutcome {
		return types.Succeeded(time.Now(), time.Duration(tg.Port)*time.Microsecond)
	})

	require.Len(t, out, len(ts))
	for i, o := range out {
		assert.True(t, o.Success)
		assert.Equal(t, time.Duration(ts[i].Port)*time.Microsecond, o.Latency)
	}
}

func TestRun_RespectsLimit(t *testing.T) {
	var running, peak int32
	Run(context.Background(), nil, 2, time.Second, targets(10), func(_ context.Context, _ types.Target) types.ProbeOutcome {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return types.Succeeded(time.Now(), time.Millisecond)
	})

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestRun_PanicContained(t *testing.T) {
	out := Run(context.Background(), nil, 0, 0, targets(3), func(_ context.Context, tg types.Target) types.ProbeOutcome {
		if tg.Port == 1001 {
			panic("boom")
		}
		return types.Succeeded(time.Now(), time.Millisecond)
	})

	assert.True(t, out[0].Success)
	assert.False(t, out[1].Success)
	assert.Equal(t, types.ErrorUnknown, out[1].ErrorKind)
	assert.Contains(t, out[1].Detail, "boom")
	assert.True(t, out[2].Success)
}

func TestRun_PhaseTimeoutIsParallel(t *testing.T) {
	start := time.Now()
	out := Run(context.Background(), nil, 1, 30*time.Millisecond, targets(5), func(ctx context.Context, _ types.Target) types.ProbeOutcome {
		select {
		case <-ctx.Done():
			return types.Failed(time.Now(), types.ErrorTimeout, ctx.Err().Error())
		case <-time.After(time.Second):
			return types.Succeeded(time.Now(), time.Second)
		}
	})

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	for _, o := range out {
		assert.False(t, o.Success)
		assert.Equal(t, types.ErrorTimeout, o.ErrorKind)
	}
}

func TestRun_Empty(t *testing.T) {
	assert.Empty(t, Run(context.Background(), nil, 4, time.Second, nil, nil))
}

func TestRun_FailureTimestampsFromClock(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	out := Run(context.Background(), mock, 1, 0, targets(1), func(context.Context, types.Target) types.ProbeOutcome {
		panic("boom")
	})
	require.Len(t, out, 1)
	assert.Equal(t, mock.Now(), out[0].Timestamp)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out = Run(ctx, mock, 2, 0, targets(2), func(context.Context, types.Target) types.ProbeOutcome {
		return types.Succeeded(time.Now(), time.Millisecond)
	})
	for _, o := range out {
		assert.Equal(t, types.ErrorTimeout, o.ErrorKind)
		assert.Equal(t, mock.Now(), o.Timestamp)
	}
}
