package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-linkdiag/config"
)

func TestRun_Version(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-version"}, &out, &errOut)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out.String(), "linkdiag dev")
}

func TestRun_BadFlag(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-no-such-flag"}, &out, &errOut)
	assert.Equal(t, exitError, code)
}

func TestRun_PrintConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "linkdiag.yaml")
	require.NoError(t, os.WriteFile(path, []byte("targets:\n  external: [\"192.0.2.1\"]\n"), 0o600))

	var out, errOut bytes.Buffer
	code := run([]string{"-config", path, "-quick", "-print-config"}, &out, &errOut)
	require.Equal(t, exitOK, code, errOut.String())
	assert.Contains(t, out.String(), "192.0.2.1")
}

func TestRun_HistoryNeedsArchive(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-history", "3"}, &out, &errOut)
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut.String(), "archive not enabled")
}

func TestBuildOptions_Overrides(t *testing.T) {
	fl, err := parseFlags([]string{
		"-quick", "-json", "-output", "report.json",
		"-extended=false", "-metrics-file", "m.prom", "-log-level", "debug",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	_, cfg, err := buildOptions(fl)
	require.NoError(t, err)
	assert.Equal(t, config.FormatJSON, cfg.Output.Format)
	assert.Equal(t, "report.json", cfg.Output.Path)
	assert.False(t, cfg.Extended.Enabled)
	assert.False(t, cfg.Extended.Trace.Enabled)
	assert.Equal(t, "m.prom", cfg.Metrics.TextFile)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestBuildOptions_ExtendedOnlyWhenSet(t *testing.T) {
	fl, err := parseFlags(nil, &bytes.Buffer{})
	require.NoError(t, err)

	_, cfg, err := buildOptions(fl)
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig().Extended.Enabled, cfg.Extended.Enabled)
	assert.Equal(t, config.FormatText, cfg.Output.Format)
}
