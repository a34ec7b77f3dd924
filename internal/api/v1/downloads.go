package v1

import (
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// exportTTL 导出文件等待下载的时长
const exportTTL = 10 * time.Minute

// pendingExport 已生成、尚未下载的导出文件
type pendingExport struct {
	path      string
	name      string
	expiresAt time.Time
}

// downloadRegistry 一次性下载令牌；过期条目连同临时文件一起清理
type downloadRegistry struct {
	mu    sync.Mutex
	now   func() time.Time
	items map[string]pendingExport
}

func newDownloadRegistry() *downloadRegistry {
	return &downloadRegistry{
		now:   time.Now,
		items: make(map[string]pendingExport),
	}
}

// register 登记导出文件并返回下载令牌
func (r *downloadRegistry) register(path, name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	token := uuid.NewString()
	r.items[token] = pendingExport{path: path, name: name, expiresAt: now.Add(exportTTL)}
	return token
}

// take 取出并作废令牌
func (r *downloadRegistry) take(token string) (pendingExport, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked(r.now())
	item, ok := r.items[token]
	if ok {
		delete(r.items, token)
	}
	return item, ok
}

func (r *downloadRegistry) sweepLocked(now time.Time) {
	for token, item := range r.items {
		if now.After(item.expiresAt) {
			_ = os.Remove(item.path)
			delete(r.items, token)
		}
	}
}
