package introspect

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dep2p/go-linkdiag/internal/util/logger"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

var log = logger.Logger("introspect")

// DefaultAddr 默认监听地址
const DefaultAddr = "127.0.0.1:6060"

// ============================================================================
//                              配置
// ============================================================================

// Config 服务配置
type Config struct {
	// Addr 监听地址，默认 "127.0.0.1:6060"
	Addr string

	// Gatherer 可选的指标来源，为空时 /metrics 返回 404
	Gatherer prometheus.Gatherer
}

// ============================================================================
//                              Server
// ============================================================================

// Server 本地自省 HTTP 服务
type Server struct {
	config Config

	server   *http.Server
	listener net.Listener

	running   bool
	startTime time.Time

	// 最近一次会话
	last     *types.Report
	sessions int

	mu sync.Mutex
}

// New 创建自省服务
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return &Server{config: cfg}
}

// Start 启动服务
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("自省服务异常退出", "error", err)
		}
	}()

	s.running = true
	s.startTime = time.Now()
	log.Info("自省服务已启动", "addr", listener.Addr().String())
	return nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/introspect", s.handleIntrospect)
	mux.HandleFunc("/debug/introspect/report", s.handleReport)
	mux.HandleFunc("/debug/introspect/runtime", s.handleRuntime)
	mux.HandleFunc("/health", s.handleHealth)

	if s.config.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux
}

// Stop 停止服务
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.Error("关闭自省服务失败", "error", err)
		return err
	}

	s.running = false
	log.Info("自省服务已停止")
	return nil
}

// Addr 返回实际监听地址
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Addr
}

// Publish 更新最近一次诊断报告，nil 接收者上调用为空操作
func (s *Server) Publish(r *types.Report) {
	if s == nil || r == nil {
		return
	}
	s.mu.Lock()
	s.last = r
	s.sessions++
	s.mu.Unlock()
}

func (s *Server) snapshot() (*types.Report, int, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.sessions, s.startTime
}

// ============================================================================
//                              响应结构
// ============================================================================

// IntrospectResponse 概览响应
type IntrospectResponse struct {
	Timestamp time.Time     `json:"timestamp"`
	Uptime    string        `json:"uptime"`
	Sessions  int           `json:"sessions"`
	Last      *ReportDigest `json:"last,omitempty"`
	Runtime   *RuntimeInfo  `json:"runtime,omitempty"`
}

// ReportDigest 最近一次报告的摘要
type ReportDigest struct {
	SessionID string             `json:"session_id"`
	Finished  time.Time          `json:"finished"`
	State     types.SessionState `json:"state"`
	Overall   types.Severity     `json:"overall"`
	RootCause types.RootCause    `json:"root_cause"`
	Title     string             `json:"title"`
}

// RuntimeInfo 运行时信息
type RuntimeInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc"`
	MemSys       uint64 `json:"mem_sys"`
	NumGC        uint32 `json:"num_gc"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime,omitempty"`
}

// ============================================================================
//                              HTTP 处理器
// ============================================================================

func (s *Server) handleIntrospect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	last, sessions, started := s.snapshot()
	s.writeJSON(w, IntrospectResponse{
		Timestamp: time.Now(),
		Uptime:    time.Since(started).String(),
		Sessions:  sessions,
		Last:      digest(last),
		Runtime:   collectRuntimeInfo(),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	last, _, _ := s.snapshot()
	if last == nil {
		http.Error(w, "No diagnosis session finished yet", http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, last)
}

func (s *Server) handleRuntime(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, collectRuntimeInfo())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	last, _, started := s.snapshot()
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Uptime:    time.Since(started).String(),
	}
	if last != nil && last.Overall == types.SeverityFail {
		health.Status = "degraded"
	}
	s.writeJSON(w, health)
}

// ============================================================================
//                              辅助方法
// ============================================================================

func digest(r *types.Report) *ReportDigest {
	if r == nil {
		return nil
	}
	return &ReportDigest{
		SessionID: r.SessionID,
		Finished:  r.Finished,
		State:     r.State,
		Overall:   r.Overall,
		RootCause: r.Diagnosis.RootCause,
		Title:     r.Diagnosis.Title,
	}
}

func collectRuntimeInfo() *RuntimeInfo {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return &RuntimeInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		log.Error("JSON 编码失败", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
