package session

import (
	"context"
	"fmt"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

// ConfigCredentials 从配置（含 LINKDIAG_SESSION_* 环境变量）读取凭据
type ConfigCredentials struct {
	cfg config.SessionConfig
}

// NewConfigCredentials 创建配置凭据源
func NewConfigCredentials(cfg config.SessionConfig) *ConfigCredentials {
	return &ConfigCredentials{cfg: cfg}
}

// Credentials 实现 interfaces.CredentialSource
func (c *ConfigCredentials) Credentials(_ context.Context) (interfaces.Credentials, error) {
	creds := interfaces.Credentials{
		Username: c.cfg.Username,
		Password: c.cfg.Password,
		Service:  c.cfg.Service,
	}
	if creds.Empty() {
		return creds, fmt.Errorf("%w: username or password not configured", interfaces.ErrCredentialsUnavailable)
	}
	return creds, nil
}

// IGDCredentials 读取路由器上保存的拨号用户名
type IGDCredentials struct {
	discover DiscoverPPPFunc
}

// NewIGDCredentials 创建 IGD 凭据源
func NewIGDCredentials(discover DiscoverPPPFunc) *IGDCredentials {
	if discover == nil {
		discover = discoverPPP
	}
	return &IGDCredentials{discover: discover}
}

// Credentials 实现 interfaces.CredentialSource
func (c *IGDCredentials) Credentials(ctx context.Context) (interfaces.Credentials, error) {
	conn, err := firstPPP(ctx, c.discover)
	if err != nil {
		return interfaces.Credentials{}, fmt.Errorf("%w: %v", interfaces.ErrCredentialsUnavailable, err)
	}
	user, err := conn.GetUserNameCtx(ctx)
	if err != nil {
		return interfaces.Credentials{}, fmt.Errorf("%w: %v", interfaces.ErrCredentialsUnavailable, err)
	}
	creds := interfaces.Credentials{Username: user, Remote: true}
	if creds.Empty() {
		return creds, fmt.Errorf("%w: router has no PPP username", interfaces.ErrCredentialsUnavailable)
	}
	return creds, nil
}
