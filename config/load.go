package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// 环境变量
const (
	EnvPrefix = "LINKDIAG_"

	EnvAdapter         = EnvPrefix + "ADAPTER"
	EnvGateway         = EnvPrefix + "GATEWAY"
	EnvRemote          = EnvPrefix + "REMOTE"
	EnvDNSServer       = EnvPrefix + "DNS_SERVER"
	EnvPPP             = EnvPrefix + "PPP"
	EnvSessionUser     = EnvPrefix + "SESSION_USERNAME"
	EnvSessionPassword = EnvPrefix + "SESSION_PASSWORD"
	EnvPrivileged      = EnvPrefix + "PRIVILEGED"
	EnvExtended        = EnvPrefix + "EXTENDED"
	EnvArchiveDir      = EnvPrefix + "ARCHIVE_DIR"
	EnvMetricsFile     = EnvPrefix + "METRICS_FILE"
)

// Load 加载配置：默认值 → 文件 → 环境变量，并校验
//
// path 为空时跳过文件。
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := Decode(cfg, filepath.Ext(path), data); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := ApplyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode 按扩展名把 data 解析到 cfg 上，未出现的字段保留原值
func Decode(cfg *Config, ext string, data []byte) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".json", "":
		return json.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

// FromJSON 从 JSON 创建配置
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToYAML 序列化为 YAML
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// ApplyEnv 应用 LINKDIAG_* 环境变量覆盖
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
		return nil
	}

	str(EnvAdapter, &cfg.Link.Adapter)
	str(EnvGateway, &cfg.Targets.Gateway)
	str(EnvRemote, &cfg.Targets.Remote)
	str(EnvDNSServer, &cfg.Targets.DNSServer)
	str(EnvSessionUser, &cfg.Session.Username)
	str(EnvSessionPassword, &cfg.Session.Password)
	str(EnvArchiveDir, &cfg.Archive.Dir)
	str(EnvMetricsFile, &cfg.Metrics.TextFile)

	for key, dst := range map[string]*bool{
		EnvPPP:        &cfg.Session.PPP,
		EnvPrivileged: &cfg.Probe.Privileged,
		EnvExtended:   &cfg.Extended.Enabled,
	} {
		if err := boolean(key, dst); err != nil {
			return err
		}
	}
	if getenv(EnvArchiveDir) != "" {
		cfg.Archive.Enabled = true
	}
	return nil
}
