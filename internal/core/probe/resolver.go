package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrNoAddress 主机名没有可用的 IPv4 地址
var ErrNoAddress = errors.New("no IPv4 address for host")

// LookupFunc 主机名解析函数
type LookupFunc func(ctx context.Context, host string) ([]net.IPAddr, error)

type resolved struct {
	ip      net.IP
	expires time.Time
}

// Resolver 带过期时间的目标地址缓存
type Resolver struct {
	cache  *lru.Cache[string, resolved]
	ttl    time.Duration
	clock  clock.Clock
	lookup LookupFunc
}

// NewResolver 创建解析器
//
// lookup 为 nil 时使用 net.DefaultResolver。
func NewResolver(size int, ttl time.Duration, clk clock.Clock, lookup LookupFunc) (*Resolver, error) {
	cache, err := lru.New[string, resolved](size)
	if err != nil {
		return nil, fmt.Errorf("resolver cache: %w", err)
	}
	if clk == nil {
		clk = clock.New()
	}
	if lookup == nil {
		lookup = net.DefaultResolver.LookupIPAddr
	}
	return &Resolver{cache: cache, ttl: ttl, clock: clk, lookup: lookup}, nil
}

// Resolve 解析主机名为 IPv4 地址
//
// IPv4 字面量直接返回，IPv6 字面量返回 ErrNoAddress。
func (r *Resolver) Resolve(ctx context.Context, host string) (net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			return v4, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrNoAddress, host)
	}

	now := r.clock.Now()
	if e, ok := r.cache.Get(host); ok && now.Before(e.expires) {
		return e.ip, nil
	}

	addrs, err := r.lookup(ctx, host)
	if err != nil {
		return nil, err
	}
	for _, a := range addrs {
		if v4 := a.IP.To4(); v4 != nil {
			r.cache.Add(host, resolved{ip: v4, expires: now.Add(r.ttl)})
			return v4, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoAddress, host)
}

// Len 缓存条目数
func (r *Resolver) Len() int {
	return r.cache.Len()
}

// Purge 清空缓存
func (r *Resolver) Purge() {
	r.cache.Purge()
}
