package config

import (
	"net"
	"strconv"
)

// TargetsConfig 连通性探测目标
type TargetsConfig struct {
	// Gateway 网关地址，为空时使用自动发现的默认网关
	Gateway string `json:"gateway,omitempty" yaml:"gateway,omitempty"`

	// Remote 远端终结点（ONT / 接入集中器）地址，为空时跳过该检查
	Remote string `json:"remote,omitempty" yaml:"remote,omitempty"`

	// External 外部 ICMP 目标，任一可达即视为外部可达
	External []string `json:"external" yaml:"external"`

	// DNSServer DNS 服务器 host:port
	DNSServer string `json:"dns_server" yaml:"dns_server"`

	// DNSQuery 查询的域名
	DNSQuery string `json:"dns_query" yaml:"dns_query"`

	// TCP TCP 建连目标 host:port
	TCP []string `json:"tcp" yaml:"tcp"`

	// STUN STUN 服务器 host:port
	STUN []string `json:"stun" yaml:"stun"`

	// Trace 路由追踪目标
	Trace string `json:"trace" yaml:"trace"`
}

// DefaultTargetsConfig 默认探测目标
func DefaultTargetsConfig() TargetsConfig {
	return TargetsConfig{
		External:  []string{"1.1.1.1", "8.8.8.8"},
		DNSServer: "1.1.1.1:53",
		DNSQuery:  "example.com",
		TCP:       []string{"1.1.1.1:443", "8.8.8.8:443"},
		STUN:      []string{"stun.l.google.com:19302", "stun.cloudflare.com:3478"},
		Trace:     "1.1.1.1",
	}
}

func (c *TargetsConfig) validate(v *Validator) {
	if len(c.External) == 0 {
		v.addError("targets.external", "at least one target required")
	}
	if c.DNSQuery == "" {
		v.addError("targets.dns_query", "required")
	}
	validateHosts(v, "targets.gateway", c.Gateway)
	validateHosts(v, "targets.remote", c.Remote)
	validateHosts(v, "targets.external", c.External...)
	validateHosts(v, "targets.trace", c.Trace)
	validateHostPorts(v, "targets.dns_server", c.DNSServer)
	validateHostPorts(v, "targets.tcp", c.TCP...)
	validateHostPorts(v, "targets.stun", c.STUN...)
}

// validateHosts 探测只走 IPv4，IP 字面量必须是 IPv4
func validateHosts(v *Validator, field string, hosts ...string) {
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil && ip.To4() == nil {
			v.addError(field, "IPv6 address not supported: "+h)
		}
	}
}

func validateHostPorts(v *Validator, field string, addrs ...string) {
	for _, a := range addrs {
		host, _, err := SplitHostPort(a)
		if err != nil {
			v.addError(field, err.Error())
			continue
		}
		validateHosts(v, field, host)
	}
}

// SplitHostPort 解析 host:port，端口必须在 1-65535
func SplitHostPort(addr string) (string, int, error) {
	host, ps, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(ps)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, &net.AddrError{Err: "invalid port", Addr: addr}
	}
	return host, port, nil
}
