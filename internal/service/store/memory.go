package store

import (
	"errors"
	"sync"
	"time"

	"projectintel/internal/model"
	"projectintel/internal/parser"
)

var (
	// ErrNoDataset 尚未加载任何数据集
	ErrNoDataset = errors.New("no dataset loaded")
	// ErrProjectNotFound 项目编码不存在
	ErrProjectNotFound = errors.New("project not found")
)

// LoadStatus 最近一次加载的结果
type LoadStatus struct {
	OK        bool      `json:"ok"`
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MemoryStore 当前数据集的内存存储；只有加载成功才整体替换
type MemoryStore struct {
	dataset *model.Dataset
	table   *parser.Table
	status  LoadStatus
	mu      sync.RWMutex
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		status: LoadStatus{Message: "No data loaded"},
	}
}

// Swap 替换当前数据集与原始表格
func (s *MemoryStore) Swap(ds *model.Dataset, table *parser.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dataset = ds
	s.table = table
	s.status = LoadStatus{OK: true, Message: "Loaded " + ds.Info.FileName, UpdatedAt: time.Now()}
}

// Fail 记录加载失败；保留已有数据集
func (s *MemoryStore) Fail(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = LoadStatus{OK: false, Message: message, UpdatedAt: time.Now()}
}

// Status 最近一次加载状态
func (s *MemoryStore) Status() LoadStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Dataset 当前数据集
func (s *MemoryStore) Dataset() (*model.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dataset == nil {
		return nil, ErrNoDataset
	}
	return s.dataset, nil
}

// Table 当前数据集的原始表格
func (s *MemoryStore) Table() (*parser.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.table == nil {
		return nil, ErrNoDataset
	}
	return s.table, nil
}

// GetProject 按编码获取项目
func (s *MemoryStore) GetProject(code string) (*model.Project, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	p, ok := ds.Project(code)
	if !ok {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

// Clear 清空数据集
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dataset = nil
	s.table = nil
	s.status = LoadStatus{Message: "No data loaded", UpdatedAt: time.Now()}
}
