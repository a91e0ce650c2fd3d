package model

import "fmt"

// ID 实体的稳定标识，在加入地图时分配，持久化时原样保存
// 0 表示"无"
type ID uint64

// NoID 空引用
const NoID ID = 0

// Building 建筑物
// Names 是有序的名称列表：下标 0 为主名称，其余为别名 (不检查重复)
type Building struct {
	ID          ID       `json:"id"`
	Names       []string `json:"names"`
	BoundingBox Rect     `json:"bounding_box"`
	Floors      int      `json:"floors"`
}

// NewBuilding 创建建筑物，主名称必填
func NewBuilding(primaryName string, boundingBox Rect, floors int) (*Building, error) {
	if primaryName == "" || floors < 0 || !ValidText(primaryName) {
		return nil, fmt.Errorf("创建建筑失败: %w", ErrInvalidParameter)
	}
	return &Building{
		Names:       []string{primaryName},
		BoundingBox: boundingBox,
		Floors:      floors,
	}, nil
}

// AddAlias 追加别名，不会改变主名称 (除非当前一个名称都没有)
func (b *Building) AddAlias(alias string) error {
	if b == nil || alias == "" || !ValidText(alias) {
		return fmt.Errorf("添加别名失败: %w", ErrInvalidParameter)
	}
	b.Names = append(b.Names, alias)
	return nil
}

// indexOf 精确匹配查找名称下标
func (b *Building) indexOf(name string) int {
	for i, n := range b.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// RemoveAlias 删除第一个精确匹配的名称，后面的名称依次前移
// 删除下标 0 时原来的第一个别名自动成为主名称。
// 名称不存在时报告 InvalidParameter (沿用旧接口的行为)，列表为空时报告 ObjectNotFound。
func (b *Building) RemoveAlias(alias string) error {
	if b == nil || alias == "" {
		return fmt.Errorf("删除别名失败: %w", ErrInvalidParameter)
	}
	if len(b.Names) == 0 {
		return fmt.Errorf("删除别名失败: %w", ErrObjectNotFound)
	}
	i := b.indexOf(alias)
	if i < 0 {
		return fmt.Errorf("别名 %q 不存在: %w", alias, ErrInvalidParameter)
	}
	b.Names = append(b.Names[:i], b.Names[i+1:]...)
	return nil
}

// ChangePrimary 把已有的别名设为主名称
// 与下标 0 交换位置，而不是整体稳定重排
func (b *Building) ChangePrimary(name string) error {
	if b == nil || name == "" {
		return fmt.Errorf("修改主名称失败: %w", ErrInvalidParameter)
	}
	if len(b.Names) == 0 {
		return fmt.Errorf("修改主名称失败: %w", ErrObjectNotFound)
	}
	i := b.indexOf(name)
	if i < 0 {
		return fmt.Errorf("名称 %q 不存在: %w", name, ErrObjectNotFound)
	}
	b.Names[0], b.Names[i] = b.Names[i], b.Names[0]
	return nil
}

// PrimaryName 返回主名称；没有任何名称时返回空字符串，这是合法状态而不是错误
func (b *Building) PrimaryName() string {
	if b == nil || len(b.Names) == 0 {
		return ""
	}
	return b.Names[0]
}

// HasName 精确匹配任意名称 (主名称或别名)
func (b *Building) HasName(name string) bool {
	return b != nil && b.indexOf(name) >= 0
}

// Aliases 返回名称列表的副本
func (b *Building) Aliases() []string {
	out := make([]string, len(b.Names))
	copy(out, b.Names)
	return out
}

// SetFloorCount 设置楼层数
func (b *Building) SetFloorCount(floors int) error {
	if b == nil || floors < 0 {
		return fmt.Errorf("设置楼层数失败: %w", ErrInvalidParameter)
	}
	b.Floors = floors
	return nil
}

// SetBoundingBox 设置包围盒
func (b *Building) SetBoundingBox(box Rect) error {
	if b == nil {
		return fmt.Errorf("设置包围盒失败: %w", ErrInvalidParameter)
	}
	b.BoundingBox = box
	return nil
}
