package dashboard

import (
	"sync"

	"projectintel/internal/model"
	memstore "projectintel/internal/service/store"
)

// Session 当前进程内的仪表盘会话：持有状态并串行应用事件
type Session struct {
	store *memstore.MemoryStore

	mu    sync.Mutex
	state State
}

// NewSession 创建会话
func NewSession(store *memstore.MemoryStore) *Session {
	return &Session{store: store, state: NewState()}
}

// State 当前状态
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch 应用事件并返回新状态；选中的项目不存在时保持原选择
func (s *Session) Dispatch(e Event) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Kind == EventSelectProject {
		if _, err := s.store.GetProject(e.Value); err != nil {
			return s.state, err
		}
	}
	s.state = Reduce(s.state, e)
	return s.state, nil
}

// Reset 恢复初始状态
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = NewState()
}

// Landing 以当前筛选条件生成首页
func (s *Session) Landing() Landing {
	f := s.State().Filter
	ds, err := s.store.Dataset()
	if err != nil {
		return BuildLanding(nil, f)
	}
	return BuildLanding(ds, f)
}

// ActiveProject 当前选中的项目
func (s *Session) ActiveProject() (*model.Project, error) {
	code := s.State().ActiveProject
	if code == "" {
		return nil, memstore.ErrProjectNotFound
	}
	return s.store.GetProject(code)
}
