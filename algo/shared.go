package algo

import (
	"sync"
	"sync/atomic"

	"campus-map/model"

	"github.com/google/uuid"
)

// SharedMap 多个请求协程共享的地图
// 所有读操作走 View (读锁)，所有修改走 Update (写锁)。
// Map 的单个修改方法之间不是原子的，因此锁的粒度是整张图。
type SharedMap struct {
	mu       sync.RWMutex
	m        *Map
	paths    *model.SavedPaths
	revision atomic.Uint64
	epoch    string // 创建时生成，区分不同进程 (或重新加载) 的版本号序列
}

// NewSharedMap 包装一张地图和路径集合，nil 会被替换为空对象
func NewSharedMap(m *Map, paths *model.SavedPaths) *SharedMap {
	if m == nil {
		m = NewMap()
	}
	if paths == nil {
		paths = model.NewSavedPaths()
	}
	return &SharedMap{m: m, paths: paths, epoch: uuid.NewString()}
}

// View 在读锁下执行 fn，fn 不得修改地图
func (s *SharedMap) View(fn func(m *Map, paths *model.SavedPaths) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.m, s.paths)
}

// Update 在写锁下执行 fn，成功后版本号加一
func (s *SharedMap) Update(fn func(m *Map, paths *model.SavedPaths) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.m, s.paths); err != nil {
		return err
	}
	s.revision.Add(1)
	return nil
}

// Replace 整体替换地图 (例如重新导入)
func (s *SharedMap) Replace(m *Map, paths *model.SavedPaths) {
	if m == nil {
		m = NewMap()
	}
	if paths == nil {
		paths = model.NewSavedPaths()
	}
	s.mu.Lock()
	s.m, s.paths = m, paths
	s.mu.Unlock()
	s.revision.Add(1)
}

// Revision 版本号，每次成功修改后递增
// 版本号在每个进程里都从 0 开始，跨进程的缓存键要同时带上 Epoch。
func (s *SharedMap) Revision() uint64 {
	return s.revision.Load()
}

// Epoch 本实例的随机标识，生命周期内不变
func (s *SharedMap) Epoch() string { return s.epoch }
