package interfaces

import (
	"context"
	"errors"
)

var (
	// ErrCredentialsUnavailable 无法取得会话凭据
	ErrCredentialsUnavailable = errors.New("session credentials unavailable")

	// ErrInterfaceNotFound 会话接口不存在
	ErrInterfaceNotFound = errors.New("session interface not found")
)

// Credentials 会话凭据
type Credentials struct {
	Username string
	Password string
	// Service PPPoE 服务名，可为空
	Service string
	// Remote 凭据保存在路由器上，密码不可读
	Remote bool
}

// Empty 凭据是否缺失
func (c Credentials) Empty() bool {
	return c.Username == "" || (c.Password == "" && !c.Remote)
}

// CredentialSource 凭据来源
type CredentialSource interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// AuthResult 认证结果
//
// ErrorCode 由协作者原样给出（例如 "691" 或 "ERROR_AUTHENTICATION_FAILURE"），
// 映射为可读短语是编排层的职责。
type AuthResult struct {
	Success   bool   `json:"success"`
	ErrorCode string `json:"error_code,omitempty"`
	// Interface 认证成功后的会话接口名，例如 "ppp0"
	Interface string `json:"interface,omitempty"`
}

// Authenticator 建立会话
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (AuthResult, error)
}

// SessionInterface 会话接口的观测结果
type SessionInterface struct {
	Name       string   `json:"name"`
	Up         bool     `json:"up"`
	LocalAddrs []string `json:"local_addrs,omitempty"`
	// PeerAddr 点对点对端（下一跳）地址，未分配时为空
	PeerAddr string `json:"peer_addr,omitempty"`
}

// SessionInspector 检查会话接口
type SessionInspector interface {
	Inspect(ctx context.Context, name string) (SessionInterface, error)
}
