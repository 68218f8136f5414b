package doctor

import (
	"github.com/dep2p/go-linkdiag/internal/core/sysinfo"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

// 检查名称
const (
	CheckHost   = sysinfo.CheckHost
	CheckLoad   = sysinfo.CheckLoad
	CheckMemory = sysinfo.CheckMemory

	CheckAdapter   = "Adapter"
	CheckLinkState = "Link state"
	CheckLinkSpeed = "Link speed"
	CheckRemote    = "Remote termination (ONT)"

	CheckCredentials    = "Credentials"
	CheckAuthentication = "Authentication"

	CheckSessionIface = "Session interface"
	CheckSessionAddr  = "Session address"
	CheckNextHop      = "Next-hop address"

	CheckGateway  = "Gateway reachability"
	CheckExternal = "External reachability"
	CheckDNS      = "DNS resolution"
	CheckTCP      = "TCP reachability"

	CheckStability = "Stability"
	CheckJitter    = "Jitter"
	CheckLoss      = "Packet loss"
	CheckBurst     = "Burst / rate limit"
	CheckDNSStable = "DNS stability"
	CheckCapacity  = "Connection capacity"
	CheckMapping   = "Public mapping (STUN)"

	CheckTrace = "Traceroute"
)

// Entry 检查目录中的一项
type Entry struct {
	Name     string
	Order    int
	Category types.Category
}

var catalog = []Entry{
	{CheckHost, 10, types.CategorySystem},
	{CheckLoad, 11, types.CategorySystem},
	{CheckMemory, 12, types.CategorySystem},

	{CheckAdapter, 20, types.CategoryAdapter},
	{CheckLinkState, 21, types.CategoryLink},
	{CheckLinkSpeed, 22, types.CategoryLink},
	{CheckRemote, 23, types.CategoryRemote},

	{CheckCredentials, 30, types.CategoryCredentials},
	{CheckAuthentication, 31, types.CategoryAuth},

	{CheckSessionIface, 40, types.CategorySessionInterface},
	{CheckSessionAddr, 41, types.CategorySessionInterface},
	{CheckNextHop, 42, types.CategorySessionInterface},

	{CheckGateway, 50, types.CategoryConnectivity},
	{CheckExternal, 51, types.CategoryConnectivity},
	{CheckDNS, 52, types.CategoryDNS},
	{CheckTCP, 53, types.CategoryConnectivity},

	{CheckStability, 60, types.CategoryStability},
	{CheckJitter, 61, types.CategoryStability},
	{CheckLoss, 62, types.CategoryStability},
	{CheckBurst, 63, types.CategoryStability},
	{CheckDNSStable, 64, types.CategoryDNS},
	{CheckCapacity, 65, types.CategoryConnectivity},
	{CheckMapping, 66, types.CategoryConnectivity},

	{CheckTrace, 70, types.CategoryRoute},
}

var catalogIndex = func() map[string]Entry {
	m := make(map[string]Entry, len(catalog))
	for _, e := range catalog {
		m[e.Name] = e
	}
	return m
}()

// Catalog 返回检查目录副本（按展示顺序）
func Catalog() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup 按名称查找检查目录项
func Lookup(name string) (Entry, bool) {
	e, ok := catalogIndex[name]
	return e, ok
}
