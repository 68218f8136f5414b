package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewConfig_Valid(t *testing.T) {
	require.NoError(t, NewConfig().Validate())
	require.NoError(t, NewQuickConfig().Validate())
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := NewConfig()
	cfg.Probe.Timeout = 0
	cfg.Link.Source = "snmp"
	cfg.Stability.SevereFailRatio = 1.5
	cfg.Extended.Jitter = PlanConfig{Count: 5, Duration: Duration(time.Second)}

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 4)
	assert.True(t, verrs.Has("probe.timeout"))
	assert.True(t, verrs.Has("link.source"))
	assert.True(t, verrs.Has("stability.severe_fail_ratio"))
	assert.True(t, verrs.Has("extended.jitter"))
}

func TestValidate_SessionOnlyWhenPPP(t *testing.T) {
	cfg := NewConfig()
	cfg.Session.Interface = ""
	assert.NoError(t, cfg.Validate())

	cfg.Session.PPP = true
	var verrs ValidationErrors
	require.ErrorAs(t, cfg.Validate(), &verrs)
	assert.True(t, verrs.Has("session.interface"))
}

func TestValidate_HostPorts(t *testing.T) {
	cfg := NewConfig()
	cfg.Targets.TCP = []string{"1.1.1.1:443", "no-port", "host:99999"}

	var verrs ValidationErrors
	require.ErrorAs(t, cfg.Validate(), &verrs)
	assert.Len(t, verrs, 2)
}

func TestValidate_IPv6Targets(t *testing.T) {
	cfg := NewConfig()
	cfg.Targets.External = []string{"1.1.1.1", "2606:4700::1111"}
	cfg.Targets.Gateway = "fe80::1"
	cfg.Targets.STUN = []string{"[2001:db8::1]:3478"}
	cfg.Targets.Trace = "one.one.one.one"

	var verrs ValidationErrors
	require.ErrorAs(t, cfg.Validate(), &verrs)
	assert.Len(t, verrs, 3)
	assert.True(t, verrs.Has("targets.external"))
	assert.True(t, verrs.Has("targets.gateway"))
	assert.True(t, verrs.Has("targets.stun"))
}

func TestDuration_JSON(t *testing.T) {
	var v struct {
		A Duration `json:"a"`
		B Duration `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"1m30s","b":1000}`), &v))
	assert.Equal(t, 90*time.Second, v.A.Duration())
	assert.Equal(t, time.Microsecond, v.B.Duration())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"1m30s","b":"1µs"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"a":"soon"}`), &v))
}

func TestDuration_YAML(t *testing.T) {
	var v struct {
		A Duration `yaml:"a"`
		B Duration `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: 250ms\nb: 2000\n"), &v))
	assert.Equal(t, 250*time.Millisecond, v.A.Duration())
	assert.Equal(t, 2*time.Microsecond, v.B.Duration())

	assert.Error(t, yaml.Unmarshal([]byte("a: later\n"), &v))
}

func TestLoad_YAMLOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "linkdiag.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
targets:
  gateway: 192.168.1.1
  external: [9.9.9.9]
session:
  ppp: true
  authenticator: igd
  peer_address_required: true
extended:
  stability:
    duration: 10s
    interval: 1s
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.1", cfg.Targets.Gateway)
	assert.Equal(t, []string{"9.9.9.9"}, cfg.Targets.External)
	assert.True(t, cfg.Session.PPP)
	assert.Equal(t, AuthIGD, cfg.Session.Authenticator)
	assert.True(t, cfg.Session.PeerAddressRequired)
	assert.Equal(t, 10*time.Second, cfg.Extended.Stability.Duration.Duration())
	// 未出现的字段保留默认值
	assert.Equal(t, "ppp0", cfg.Session.Interface)
	assert.Equal(t, 20, cfg.Extended.Jitter.Count)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkdiag.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"probe":{"timeout":"500ms"},"output":{"format":"json"}}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.Probe.Timeout.Duration())
	assert.Equal(t, FormatJSON, cfg.Output.Format)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkdiag.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: xml\n"), 0o600))

	_, err := Load(path)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("output.format"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDecode_UnsupportedExt(t *testing.T) {
	assert.Error(t, Decode(NewConfig(), ".toml", nil))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAdapter:         "eth1",
		EnvPPP:             "true",
		EnvSessionUser:     "user@isp",
		EnvSessionPassword: "secret",
		EnvExtended:        "0",
		EnvArchiveDir:      "/var/lib/linkdiag",
	}
	cfg := NewConfig()
	require.NoError(t, ApplyEnv(cfg, func(k string) string { return env[k] }))

	assert.Equal(t, "eth1", cfg.Link.Adapter)
	assert.True(t, cfg.Session.PPP)
	assert.Equal(t, "user@isp", cfg.Session.Username)
	assert.Equal(t, "secret", cfg.Session.Password)
	assert.False(t, cfg.Extended.Enabled)
	assert.True(t, cfg.Archive.Enabled)
	assert.Equal(t, "/var/lib/linkdiag", cfg.Archive.Dir)

	env[EnvPrivileged] = "maybe"
	assert.Error(t, ApplyEnv(NewConfig(), func(k string) string { return env[k] }))
}

func TestPlanConfig_Plan(t *testing.T) {
	p := PlanConfig{Count: 10, Interval: Duration(100 * time.Millisecond)}.Plan(time.Second)
	assert.NoError(t, p.Validate())
	assert.Equal(t, 11*time.Second, p.MaxWallClock())
}

func TestClone(t *testing.T) {
	cfg := NewConfig()
	cp := cfg.Clone()
	cp.Targets.External[0] = "changed"
	assert.Equal(t, "1.1.1.1", cfg.Targets.External[0])
}
