package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce 文件连续写入时的合并间隔
const DefaultDebounce = 300 * time.Millisecond

// Watcher 监听数据文件变化并重新导入；导入失败时保留原数据集
type Watcher struct {
	coordinator *Coordinator
	path        string
	debounce    time.Duration
	logger      *zap.Logger
	onReload    func(*ImportReport, error)
}

// NewWatcher 创建文件监听器
func NewWatcher(c *Coordinator, path string, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		coordinator: c,
		path:        path,
		debounce:    DefaultDebounce,
		logger:      logger,
	}
}

// OnReload 每次重新导入后的回调
func (w *Watcher) OnReload(fn func(*ImportReport, error)) {
	w.onReload = fn
}

// Run 阻塞监听直到 ctx 取消
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	// 监听目录：编辑器常用“写临时文件再改名”的方式保存
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != abs {
				continue
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-pending:
			pending = nil
			report, err := w.coordinator.Load(ctx, FileSource{Path: abs})
			if err != nil {
				w.logger.Warn("reload failed, keeping previous dataset", zap.String("file", abs), zap.Error(err))
			} else {
				w.logger.Info("reloaded", zap.String("file", abs), zap.Int("projects", report.Projects))
			}
			if w.onReload != nil {
				w.onReload(report, err)
			}
		}
	}
}
