package probe

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/dep2p/go-linkdiag/pkg/types"
)

// Classify 将探测错误归类
func Classify(err error) types.ErrorKind {
	if err == nil {
		return types.ErrorNone
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return types.ErrorTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return types.ErrorTimeout
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return types.ErrorRefused
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EPIPE), errors.Is(err, syscall.ECONNABORTED):
		return types.ErrorReset
	case errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, syscall.EHOSTDOWN), errors.Is(err, syscall.ENETDOWN):
		return types.ErrorUnreachable
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return types.ErrorTimeout
		}
		return types.ErrorUnreachable
	}

	// 部分平台只给出错误文本
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return types.ErrorTimeout
	case strings.Contains(msg, "refused"):
		return types.ErrorRefused
	case strings.Contains(msg, "reset"):
		return types.ErrorReset
	case strings.Contains(msg, "unreachable"), strings.Contains(msg, "no route"):
		return types.ErrorUnreachable
	}
	return types.ErrorUnknown
}

// fail 由错误构造失败结果
func fail(start time.Time, err error) types.ProbeOutcome {
	return types.Failed(start, Classify(err), err.Error())
}
