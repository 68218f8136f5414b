package logger

import (
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig 日志文件配置
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Tee 同时输出到 stderr
	Tee bool
}

// OpenFile 把全局输出切换到滚动日志文件，返回的 Closer 负责关闭文件
func OpenFile(cfg FileConfig) (io.Closer, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    orDefault(cfg.MaxSizeMB, 10),
		MaxBackups: orDefault(cfg.MaxBackups, 3),
		MaxAge:     orDefault(cfg.MaxAgeDays, 14),
	}

	if cfg.Tee {
		SetOutput(io.MultiWriter(os.Stderr, lj))
	} else {
		SetOutput(lj)
	}
	return lj, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
