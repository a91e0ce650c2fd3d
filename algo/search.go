package algo

import (
	"cmp"
	"slices"
	"strings"

	"campus-map/model"
)

// Match 模糊搜索的一条结果
type Match[T any] struct {
	Item  T       `json:"item"`
	Score float64 `json:"score"`
}

// rank 计算每个候选的分数，只保留分数大于 0 的，按分数从高到低稳定排序
// limit <= 0 表示不限制数量
func rank[T any](query string, items []T, text func(T) string, limit int) []Match[T] {
	var out []Match[T]
	for _, it := range items {
		s := PhraseSimilarityScore(query, text(it))
		if s > 0 {
			out = append(out, Match[T]{Item: it, Score: s})
		}
	}
	slices.SortStableFunc(out, func(a, b Match[T]) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FilterLocations 按名称模糊搜索有名称的节点
func (m *Map) FilterLocations(query string, limit int) []Match[*model.Node] {
	named := make([]*model.Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		if n.HasName() {
			named = append(named, n)
		}
	}
	return rank(query, named, func(n *model.Node) string { return n.Name }, limit)
}

// FilterBuildings 按主名称和全部别名模糊搜索建筑
func (m *Map) FilterBuildings(query string, limit int) []Match[*model.Building] {
	return rank(query, m.buildings, func(b *model.Building) string {
		return strings.Join(b.Names, " ")
	}, limit)
}

// FilterSavedPaths 按名称模糊搜索已保存的路径
func FilterSavedPaths(s *model.SavedPaths, query string, limit int) []Match[*model.Path] {
	if s == nil {
		return nil
	}
	return rank(query, s.Paths(), func(p *model.Path) string { return p.Name }, limit)
}

// BestMatch 在一组候选短语中找到得分最高的一个，全部为 0 时返回 false
func BestMatch(query string, candidates []string) (string, bool) {
	best := rank(query, candidates, func(s string) string { return s }, 1)
	if len(best) == 0 {
		return "", false
	}
	return best[0].Item, true
}
