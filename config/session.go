package config

import "time"

// 认证器类型
const (
	// AuthIGD 查询路由器 WANPPPConnection 的连接状态与最近错误
	AuthIGD = "igd"
	// AuthInterface 由本机拨号程序建立会话，检查会话接口是否就绪
	AuthInterface = "interface"
)

// SessionConfig 会话（PPP）配置
type SessionConfig struct {
	// PPP 是否为拨号接入；关闭时认证阶段记录 "not configured"，
	// 会话接口检查改为检查适配器本身
	PPP bool `json:"ppp" yaml:"ppp"`

	// Authenticator 认证器：igd / interface
	Authenticator string `json:"authenticator" yaml:"authenticator"`

	// Interface 会话接口名
	Interface string `json:"interface" yaml:"interface"`

	// Username / Password 会话凭据，也可通过环境变量提供
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// Service PPPoE 服务名
	Service string `json:"service,omitempty" yaml:"service,omitempty"`

	// PeerAddressRequired 会话接口缺少对端地址时记为 FAIL（默认记为 WARN）
	PeerAddressRequired bool `json:"peer_address_required" yaml:"peer_address_required"`

	// Timeout 认证阶段超时
	Timeout Duration `json:"timeout" yaml:"timeout"`
}

// DefaultSessionConfig 默认会话配置
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		PPP:           false,
		Authenticator: AuthInterface,
		Interface:     "ppp0",
		Timeout:       Duration(15 * time.Second),
	}
}

func (c *SessionConfig) validate(v *Validator) {
	if !c.PPP {
		return
	}
	switch c.Authenticator {
	case AuthIGD, AuthInterface:
	default:
		v.addError("session.authenticator", "must be one of igd, interface")
	}
	if c.Interface == "" {
		v.addError("session.interface", "required when ppp is enabled")
	}
	if c.Timeout <= 0 {
		v.addError("session.timeout", "must be positive")
	}
}
