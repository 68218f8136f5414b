package session

import (
	"context"
	"errors"

	"github.com/huin/goupnp/dcps/internetgateway1"

	"github.com/dep2p/go-linkdiag/internal/util/logger"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

var log = logger.Logger("session")

// ErrNoPPPService 路由器没有 WANPPPConnection 服务
var ErrNoPPPService = errors.New("no WANPPPConnection service on the internet gateway")

// 连接状态
const (
	StatusConnected = "Connected"
	// ErrorNone IGD 在无错误时给出的 LastConnectionError
	ErrorNone = "ERROR_NONE"
)

// PPPConn 路由器的 WANPPPConnection 服务
type PPPConn interface {
	GetStatusInfoCtx(ctx context.Context) (
		NewConnectionStatus string,
		NewLastConnectionError string,
		NewUptime uint32,
		err error,
	)
	GetUserNameCtx(ctx context.Context) (NewUserName string, err error)
}

// DiscoverPPPFunc 发现 WANPPPConnection 服务
type DiscoverPPPFunc func(ctx context.Context) ([]PPPConn, error)

func discoverPPP(ctx context.Context) ([]PPPConn, error) {
	clients, _, err := internetgateway1.NewWANPPPConnection1ClientsCtx(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PPPConn, 0, len(clients))
	for _, c := range clients {
		out = append(out, c)
	}
	return out, nil
}

func firstPPP(ctx context.Context, discover DiscoverPPPFunc) (PPPConn, error) {
	conns, err := discover(ctx)
	if err != nil {
		return nil, err
	}
	if len(conns) == 0 {
		return nil, ErrNoPPPService
	}
	return conns[0], nil
}

// IGDAuthenticator 读取路由器拨号会话的状态
//
// 路由器持有会话，认证成功时 AuthResult.Interface 为空，
// 会话接口检查改为检查本机适配器。
type IGDAuthenticator struct {
	discover DiscoverPPPFunc
}

// NewIGDAuthenticator 创建 IGD 认证器
func NewIGDAuthenticator(discover DiscoverPPPFunc) *IGDAuthenticator {
	if discover == nil {
		discover = discoverPPP
	}
	return &IGDAuthenticator{discover: discover}
}

// Authenticate 实现 interfaces.Authenticator
func (a *IGDAuthenticator) Authenticate(ctx context.Context, _ interfaces.Credentials) (interfaces.AuthResult, error) {
	conn, err := firstPPP(ctx, a.discover)
	if err != nil {
		return interfaces.AuthResult{}, err
	}
	status, lastErr, uptime, err := conn.GetStatusInfoCtx(ctx)
	if err != nil {
		return interfaces.AuthResult{}, err
	}
	log.Debug("IGD PPP 状态", "status", status, "lastError", lastErr, "uptime", uptime)

	if status == StatusConnected {
		return interfaces.AuthResult{Success: true}, nil
	}
	code := lastErr
	if code == "" || code == ErrorNone {
		code = "STATUS_" + status
	}
	return interfaces.AuthResult{Success: false, ErrorCode: code}, nil
}
