package model

import (
	"fmt"
	"slices"
)

// Path 有序的节点序列，不持有节点本身
type Path struct {
	Name    string `json:"name,omitempty"`
	NodeIDs []ID   `json:"node_ids"`
}

// NewPath 创建路径
func NewPath(name string, nodeIDs ...ID) *Path {
	return &Path{Name: name, NodeIDs: slices.Clone(nodeIDs)}
}

// SetName 设置路径名称
func (p *Path) SetName(name string) { p.Name = name }

// Len 节点数量
func (p *Path) Len() int { return len(p.NodeIDs) }

// Contains 路径是否经过该节点
func (p *Path) Contains(id ID) bool {
	return slices.Contains(p.NodeIDs, id)
}

// Copy 深拷贝 (节点仍是引用)
func (p *Path) Copy() *Path {
	if p == nil {
		return &Path{}
	}
	return &Path{Name: p.Name, NodeIDs: slices.Clone(p.NodeIDs)}
}

// SavedPaths 用户保存的路径集合，持有其中的 Path
type SavedPaths struct {
	paths []*Path
}

// NewSavedPaths 创建空集合
func NewSavedPaths() *SavedPaths {
	return &SavedPaths{}
}

// Add 追加路径，集合接管该路径
func (s *SavedPaths) Add(p *Path) error {
	if p == nil || !ValidText(p.Name) {
		return fmt.Errorf("保存路径失败: %w", ErrInvalidParameter)
	}
	s.paths = append(s.paths, p)
	return nil
}

// Len 路径数量
func (s *SavedPaths) Len() int { return len(s.paths) }

// Get 按下标获取
func (s *SavedPaths) Get(index int) (*Path, error) {
	if index < 0 || index >= len(s.paths) {
		return nil, fmt.Errorf("路径下标 %d: %w", index, ErrOutOfBoundsIndex)
	}
	return s.paths[index], nil
}

// Paths 返回所有路径 (切片是副本，元素是同一对象)
func (s *SavedPaths) Paths() []*Path {
	return slices.Clone(s.paths)
}

// Remove 按下标删除，保持其余顺序
func (s *SavedPaths) Remove(index int) error {
	if index < 0 || index >= len(s.paths) {
		return fmt.Errorf("路径下标 %d: %w", index, ErrOutOfBoundsIndex)
	}
	s.paths = slices.Delete(s.paths, index, index+1)
	return nil
}

// RemoveByName 删除第一个同名路径
func (s *SavedPaths) RemoveByName(name string) error {
	if name == "" {
		return fmt.Errorf("删除路径失败: %w", ErrInvalidParameter)
	}
	i := slices.IndexFunc(s.paths, func(p *Path) bool { return p.Name == name })
	if i < 0 {
		return fmt.Errorf("路径 %q: %w", name, ErrObjectNotFound)
	}
	return s.Remove(i)
}

// Clear 清空
func (s *SavedPaths) Clear() { s.paths = nil }
