package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dep2p/go-linkdiag/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want types.ErrorKind
	}{
		{"nil", nil, types.ErrorNone},
		{"ctx deadline", context.DeadlineExceeded, types.ErrorTimeout},
		{"io deadline", fmt.Errorf("read: %w", os.ErrDeadlineExceeded), types.ErrorTimeout},
		{"refused", &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}, types.ErrorRefused},
		{"reset", fmt.Errorf("read: %w", syscall.ECONNRESET), types.ErrorReset},
		{"host unreachable", fmt.Errorf("sendto: %w", syscall.EHOSTUNREACH), types.ErrorUnreachable},
		{"net unreachable", fmt.Errorf("sendto: %w", syscall.ENETUNREACH), types.ErrorUnreachable},
		{"dns not found", &net.DNSError{Err: "no such host", Name: "x", IsNotFound: true}, types.ErrorUnreachable},
		{"dns timeout", &net.DNSError{Err: "i/o timeout", Name: "x", IsTimeout: true}, types.ErrorTimeout},
		{"text no route", errors.New("No route to host"), types.ErrorUnreachable},
		{"text refused", errors.New("server refused us"), types.ErrorRefused},
		{"other", errors.New("permission denied"), types.ErrorUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
