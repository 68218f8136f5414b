package archive

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/internal/util/logger"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

var log = logger.Logger("archive")

var (
	// ErrClosed 存档已关闭
	ErrClosed = errors.New("archive closed")

	// ErrMissingSessionID 报告缺少会话 ID
	ErrMissingSessionID = errors.New("report has no session id")
)

var sessionPrefix = []byte("session/")

// Store BadgerDB 会话存档
type Store struct {
	db        *badger.DB
	retention time.Duration
	closed    atomic.Bool
}

var _ interfaces.Archive = (*Store)(nil)

// Open 按配置打开存档目录
func Open(cfg config.ArchiveConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("archive: empty directory")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	return OpenWithOptions(buildOptions(cfg.Dir), cfg.Retention.Duration())
}

// OpenWithOptions 使用给定的 Badger 选项打开存档
func OpenWithOptions(opts badger.Options, retention time.Duration) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("archive: open: %w", err)
	}
	log.Debug("存档已打开", "dir", opts.Dir, "retention", retention)
	return &Store{db: db, retention: retention}, nil
}

// buildOptions 诊断存档数据量很小，收紧内存表与值日志
func buildOptions(dir string) badger.Options {
	return badger.DefaultOptions(dir).
		WithSyncWrites(true).
		WithNumVersionsToKeep(1).
		WithMemTableSize(8 << 20).
		WithValueLogFileSize(16 << 20).
		WithBlockCacheSize(8 << 20).
		WithIndexCacheSize(0).
		WithCompactL0OnClose(true).
		WithLogger(badgerLogger{})
}

// Save 实现 interfaces.Archive
func (s *Store) Save(ctx context.Context, report *types.Report) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if report.SessionID == "" {
		return ErrMissingSessionID
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("archive: encode: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(sessionKey(report.Started, report.SessionID), data)
		if s.retention > 0 {
			e = e.WithTTL(s.retention)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("archive: save: %w", err)
	}
	log.Debug("会话已存档", "session", report.SessionID, "root_cause", report.Diagnosis.RootCause)
	return nil
}

// Recent 实现 interfaces.Archive，按时间从新到旧返回至多 n 条
func (s *Store) Recent(ctx context.Context, n int) ([]*types.Report, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if n <= 0 {
		return nil, nil
	}

	var out []*types.Report
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = sessionPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append(append([]byte{}, sessionPrefix...), 0xff)
		for it.Seek(seek); it.Valid() && len(out) < n; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var r types.Report
			if err := it.Item().Value(func(v []byte) error {
				return json.Unmarshal(v, &r)
			}); err != nil {
				log.Warn("跳过无法解码的存档", "key", string(it.Item().Key()), "err", err)
				continue
			}
			out = append(out, &r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("archive: recent: %w", err)
	}
	return out, nil
}

// Close 关闭存档
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.gc()
	return s.db.Close()
}

// gc 回收值日志直到无可回收空间
func (s *Store) gc() {
	for {
		if err := s.db.RunValueLogGC(0.5); err != nil {
			return
		}
	}
}

func sessionKey(started time.Time, id string) []byte {
	key := make([]byte, 0, len(sessionPrefix)+8+1+len(id))
	key = append(key, sessionPrefix...)
	key = binary.BigEndian.AppendUint64(key, uint64(started.UnixNano()))
	key = append(key, '/')
	return append(key, id...)
}

// badgerLogger 将 Badger 日志转发到 slog
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	log.Error(fmt.Sprintf(format, args...))
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	log.Warn(fmt.Sprintf(format, args...))
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	log.Debug(fmt.Sprintf(format, args...))
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	log.Debug(fmt.Sprintf(format, args...))
}
