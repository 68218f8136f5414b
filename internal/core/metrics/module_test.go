package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

func TestModule_Default(t *testing.T) {
	var reporter interfaces.MetricsReporter
	app := fxtest.New(t, Module(), fx.Populate(&reporter))
	app.RequireStart().RequireStop()

	_, ok := reporter.(*Reporter)
	assert.True(t, ok)
}

func TestModule_Disabled(t *testing.T) {
	cfg := config.DefaultMetricsConfig()
	cfg.Enabled = false

	var reporter interfaces.MetricsReporter
	app := fxtest.New(t, Module(), fx.Supply(&cfg), fx.Populate(&reporter))
	app.RequireStart().RequireStop()

	assert.IsType(t, Nop{}, reporter)
}

func TestModule_WritesTextFileOnStop(t *testing.T) {
	cfg := config.DefaultMetricsConfig()
	cfg.TextFile = filepath.Join(t.TempDir(), "out.prom")

	var reporter interfaces.MetricsReporter
	app := fxtest.New(t, Module(), fx.Supply(&cfg), fx.Populate(&reporter))
	app.RequireStart()
	reporter.ObserveProbe(gateway, types.Succeeded(time.Now(), time.Millisecond))
	app.RequireStop()

	data, err := os.ReadFile(cfg.TextFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "linkdiag_probes_total")
}
