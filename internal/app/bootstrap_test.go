package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/internal/core/archive"
	"github.com/dep2p/go-linkdiag/internal/core/metrics"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

func TestBootstrap_Default(t *testing.T) {
	rt, err := NewBootstrap(nil).Build()
	require.NoError(t, err)

	assert.NotNil(t, rt.Doctor)
	assert.IsType(t, archive.Nop{}, rt.Archive)
	_, ok := rt.Metrics.(*metrics.Reporter)
	assert.True(t, ok)
	assert.Nil(t, rt.Introspect)

	require.NoError(t, rt.Stop(context.Background()))
	// 重复停止无副作用
	require.NoError(t, rt.Stop(context.Background()))
}

func TestBootstrap_ArchiveMetricsAndLogFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.NewConfig()
	cfg.Archive.Enabled = true
	cfg.Archive.Dir = filepath.Join(dir, "history")
	cfg.Metrics.TextFile = filepath.Join(dir, "linkdiag.prom")
	cfg.Log.File = filepath.Join(dir, "logs", "linkdiag.log")

	rt, err := NewBootstrap(cfg).Build()
	require.NoError(t, err)
	_, ok := rt.Archive.(*archive.Store)
	assert.True(t, ok)

	require.NoError(t, rt.Stop(context.Background()))

	_, err = os.Stat(cfg.Metrics.TextFile)
	assert.NoError(t, err, "metrics text file written on stop")
	_, err = os.Stat(cfg.Log.File)
	assert.NoError(t, err, "log file created")
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Sampling.Concurrency = 0

	_, err := NewBootstrap(cfg).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sampling.concurrency")
}

func TestBootstrap_FxOptions(t *testing.T) {
	var sink interfaces.LogSink
	rt, err := NewBootstrap(nil, WithFxOptions(fx.Populate(&sink))).Build()
	require.NoError(t, err)
	defer rt.Stop(context.Background())
	assert.NotNil(t, sink)
}

func TestBootstrap_Introspect(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Introspect.Enabled = true
	cfg.Introspect.Addr = "127.0.0.1:0"

	rt, err := NewBootstrap(cfg).Build()
	require.NoError(t, err)
	require.NotNil(t, rt.Introspect)
	assert.NotEqual(t, "127.0.0.1:0", rt.Introspect.Addr())
	require.NoError(t, rt.Stop(context.Background()))
}
