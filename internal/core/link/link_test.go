package link

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

func iface(name string, idx int, flags net.Flags, cidrs ...string) NetInterface {
	ni := NetInterface{Interface: net.Interface{Name: name, Index: idx, Flags: flags}}
	for _, c := range cidrs {
		ip, n, _ := net.ParseCIDR(c)
		n.IP = ip
		ni.Addrs = append(ni.Addrs, n)
	}
	return ni
}

func fixedList(ifs ...NetInterface) ListFunc {
	return func() ([]NetInterface, error) { return ifs, nil }
}

func fixedGateway(ip string) GatewayFunc {
	return func() (net.IP, error) {
		if ip == "" {
			return nil, errors.New("no gateway")
		}
		return net.ParseIP(ip), nil
	}
}

var up = net.FlagUp | net.FlagBroadcast

func TestSelector_PrefersGatewaySubnet(t *testing.T) {
	s := NewSelector("", fixedList(
		iface("lo", 1, net.FlagUp|net.FlagLoopback, "127.0.0.1/8"),
		iface("docker0", 2, up, "172.17.0.1/16"),
		iface("wlan0", 3, up, "10.0.0.5/24"),
		iface("eth0", 4, up, "192.168.1.20/24"),
	), fixedGateway("192.168.1.1"))

	h, err := s.SelectAdapter(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "eth0", h.Name)
	assert.Equal(t, "192.168.1.1", h.Gateway)
	assert.Equal(t, []string{"192.168.1.20/24"}, h.Addrs)
}

func TestSelector_FallbackWithoutGateway(t *testing.T) {
	s := NewSelector("", fixedList(
		iface("docker0", 2, up, "172.17.0.1/16"),
		iface("eth1", 3, 0, "10.0.0.5/24"),
		iface("enp3s0", 4, up, "10.9.0.2/24"),
	), fixedGateway(""))

	h, err := s.SelectAdapter(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "enp3s0", h.Name)
	assert.Empty(t, h.Gateway)
}

func TestSelector_Named(t *testing.T) {
	s := NewSelector("eth1", fixedList(iface("eth1", 3, 0)), fixedGateway(""))
	h, err := s.SelectAdapter(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "eth1", h.Name)

	_, err = NewSelector("eth9", fixedList(iface("eth1", 3, 0)), fixedGateway("")).SelectAdapter(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrNoAdapter)
}

func TestSelector_NoAdapter(t *testing.T) {
	s := NewSelector("", fixedList(iface("lo", 1, net.FlagUp|net.FlagLoopback, "127.0.0.1/8")), fixedGateway("192.168.1.1"))
	_, err := s.SelectAdapter(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrNoAdapter)
}

func writeSysfs(t *testing.T, root, name string, attrs map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for k, v := range attrs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, k), []byte(v+"\n"), 0o644))
	}
}

func TestSysfsMonitor(t *testing.T) {
	root := t.TempDir()
	writeSysfs(t, root, "eth0", map[string]string{"operstate": "up", "carrier": "1", "speed": "1000"})
	writeSysfs(t, root, "eth1", map[string]string{"operstate": "down", "carrier": "0", "speed": "-1"})
	writeSysfs(t, root, "ppp0", map[string]string{"operstate": "unknown", "carrier": "1"})

	m := NewSysfsMonitor(root)
	tests := []struct {
		name  string
		up    bool
		speed uint64
	}{
		{"eth0", true, 1_000_000_000},
		{"eth1", false, 0},
		{"ppp0", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := m.LinkStatus(context.Background(), interfaces.AdapterHandle{Name: tt.name})
			require.NoError(t, err)
			assert.Equal(t, tt.up, st.Up)
			assert.Equal(t, tt.speed, st.SpeedBps)
			assert.Equal(t, "sysfs", st.Source)
		})
	}

	_, err := m.LinkStatus(context.Background(), interfaces.AdapterHandle{Name: "wlan7"})
	assert.ErrorIs(t, err, ErrNotInSysfs)
}

type fakeWAN struct {
	status string
	down   uint32
	err    error
}

func (f fakeWAN) GetCommonLinkPropertiesCtx(context.Context) (string, uint32, uint32, string, error) {
	return "DSL", 40_000_000, f.down, f.status, f.err
}

func wans(ws ...WANLink) DiscoverWANFunc {
	return func(context.Context) ([]WANLink, error) { return ws, nil }
}

func TestUPnPMonitor(t *testing.T) {
	st, err := NewUPnPMonitor(wans(fakeWAN{status: "Up", down: 250_000_000})).LinkStatus(context.Background(), interfaces.AdapterHandle{})
	require.NoError(t, err)
	assert.True(t, st.Up)
	assert.Equal(t, uint64(250_000_000), st.SpeedBps)
	assert.Equal(t, "upnp-igd", st.Source)

	st, err = NewUPnPMonitor(wans(fakeWAN{status: "Down", down: 250_000_000})).LinkStatus(context.Background(), interfaces.AdapterHandle{})
	require.NoError(t, err)
	assert.False(t, st.Up)
	assert.Zero(t, st.SpeedBps)

	_, err = NewUPnPMonitor(wans()).LinkStatus(context.Background(), interfaces.AdapterHandle{})
	assert.ErrorIs(t, err, ErrNoIGD)

	_, err = NewUPnPMonitor(wans(fakeWAN{err: errors.New("soap fault")})).LinkStatus(context.Background(), interfaces.AdapterHandle{})
	assert.ErrorContains(t, err, "soap fault")
}

func TestAutoMonitor_FallsBack(t *testing.T) {
	root := t.TempDir()
	writeSysfs(t, root, "eth0", map[string]string{"operstate": "down"})
	m := NewAutoMonitor(NewSysfsMonitor(root), NewUPnPMonitor(wans(fakeWAN{status: "Up"})))

	st, err := m.LinkStatus(context.Background(), interfaces.AdapterHandle{Name: "eth0"})
	require.NoError(t, err)
	assert.False(t, st.Up)
	assert.Equal(t, "sysfs", st.Source)

	st, err = m.LinkStatus(context.Background(), interfaces.AdapterHandle{Name: "en0"})
	require.NoError(t, err)
	assert.True(t, st.Up)
	assert.Equal(t, "upnp-igd", st.Source)
}

func TestNewMonitor_Source(t *testing.T) {
	cfg := config.DefaultLinkConfig()
	cfg.Source = config.LinkSourceSysfs
	assert.IsType(t, &SysfsMonitor{}, NewMonitor(cfg))
	cfg.Source = config.LinkSourceUPnP
	assert.IsType(t, &UPnPMonitor{}, NewMonitor(cfg))
	cfg.Source = config.LinkSourceAuto
	assert.IsType(t, &AutoMonitor{}, NewMonitor(cfg))
}

func TestModule(t *testing.T) {
	var (
		sel interfaces.AdapterSelector
		mon interfaces.LinkMonitor
	)
	app := fxtest.New(t, Module(), fx.Populate(&sel, &mon))
	app.RequireStart()
	defer app.RequireStop()

	assert.NotNil(t, sel)
	assert.NotNil(t, mon)
}
