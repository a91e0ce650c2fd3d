package algo

import (
	"container/heap"
	"fmt"
	"slices"
	"strings"

	"campus-map/model"
)

// PathSegment 路径段信息
type PathSegment struct {
	FromID   model.ID       `json:"from_id"`
	ToID     model.ID       `json:"to_id"`
	EdgeID   model.ID       `json:"edge_id"`
	Type     model.EdgeType `json:"type"`
	Distance float64        `json:"distance"` // 米
	Cost     float64        `json:"cost"`
}

// PathResult 路径规划结果
type PathResult struct {
	Path     *model.Path   // 节点 ID 序列
	Segments []PathSegment // 路径段详情
	Distance float64       // 总距离 (米)
	Cost     float64       // 总代价
	Found    bool          // 是否找到路径
}

// PriorityQueueItem 优先队列中的元素
type PriorityQueueItem struct {
	NodeID model.ID
	Cost   float64
	Index  int // 在堆中的索引
}

// PriorityQueue 实现 heap.Interface 接口的优先队列
type PriorityQueue []*PriorityQueueItem

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	return pq[i].Cost < pq[j].Cost
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *PriorityQueue) Push(x any) {
	item := x.(*PriorityQueueItem)
	item.Index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *PriorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // 避免内存泄漏
	item.Index = -1 // 标记为已移除
	*pq = old[0 : n-1]
	return item
}

// FindPath 使用 Dijkstra 算法寻找总代价最小的路径
// cost 为 nil 时按边长计算；代价不可用的边 (Inf/NaN/负数) 被跳过。
func FindPath(m *Map, startID, endID model.ID, cost CostFunc) PathResult {
	if _, ok := m.Node(startID); !ok {
		return PathResult{}
	}
	if _, ok := m.Node(endID); !ok {
		return PathResult{}
	}
	if cost == nil {
		cost = DistanceCost
	}
	if startID == endID {
		return PathResult{Path: model.NewPath("", startID), Found: true}
	}

	dist := make(map[model.ID]float64, m.NNodes())
	prev := make(map[model.ID]model.ID)
	prevEdge := make(map[model.ID]*model.Edge)
	visited := make(map[model.ID]bool)
	dist[startID] = 0

	pq := make(PriorityQueue, 0)
	heap.Init(&pq)
	heap.Push(&pq, &PriorityQueueItem{NodeID: startID, Cost: 0})

	for pq.Len() > 0 {
		current := heap.Pop(&pq).(*PriorityQueueItem)
		currentID := current.NodeID

		if visited[currentID] {
			continue
		}
		visited[currentID] = true

		// 到达终点，提前退出
		if currentID == endID {
			break
		}

		for _, nb := range m.GetNeighbors(currentID) {
			if visited[nb.NodeID] {
				continue
			}
			c := cost.Cost(nb.Edge)
			if !passable(c) {
				continue
			}
			newCost := dist[currentID] + c
			if old, seen := dist[nb.NodeID]; !seen || newCost < old {
				dist[nb.NodeID] = newCost
				prev[nb.NodeID] = currentID
				prevEdge[nb.NodeID] = nb.Edge
				heap.Push(&pq, &PriorityQueueItem{NodeID: nb.NodeID, Cost: newCost})
			}
		}
	}

	if !visited[endID] {
		return PathResult{}
	}

	// 回溯路径
	ids := []model.ID{endID}
	for at := endID; at != startID; {
		at = prev[at]
		ids = append(ids, at)
	}
	slices.Reverse(ids)

	result := PathResult{Path: model.NewPath("", ids...), Cost: dist[endID], Found: true}
	for i := 0; i < len(ids)-1; i++ {
		e := prevEdge[ids[i+1]]
		result.Distance += e.Length
		result.Segments = append(result.Segments, PathSegment{
			FromID:   ids[i],
			ToID:     ids[i+1],
			EdgeID:   e.ID,
			Type:     e.Type,
			Distance: e.Length,
			Cost:     cost.Cost(e),
		})
	}
	return result
}

// SetActiveStart 设置起点；id 为 NoID 表示清除
func (m *Map) SetActiveStart(id model.ID) error {
	if id != model.NoID {
		if _, ok := m.nodeByID[id]; !ok {
			return fmt.Errorf("起点 %d: %w", id, model.ErrObjectNotFound)
		}
	}
	m.activeStart = id
	return nil
}

// SetActiveEnd 设置终点；id 为 NoID 表示清除
func (m *Map) SetActiveEnd(id model.ID) error {
	if id != model.NoID {
		if _, ok := m.nodeByID[id]; !ok {
			return fmt.Errorf("终点 %d: %w", id, model.ErrObjectNotFound)
		}
	}
	m.activeEnd = id
	return nil
}

// ActiveStart 当前起点
func (m *Map) ActiveStart() model.ID { return m.activeStart }

// ActiveEnd 当前终点
func (m *Map) ActiveEnd() model.ID { return m.activeEnd }

// ActivePath 最近一次 FindBestPath 的结果，可能为 nil
func (m *Map) ActivePath() *model.Path { return m.activePath }

// SetCostFunc 设置寻路使用的代价函数，nil 表示按距离
func (m *Map) SetCostFunc(cost CostFunc) { m.costFunc = cost }

// CostFunc 当前代价函数
func (m *Map) CostFunc() CostFunc { return m.costFunc }

// FindBestPath 在当前起点、终点之间寻路并保存为 ActivePath
func (m *Map) FindBestPath() (PathResult, error) {
	if m.activeStart == model.NoID || m.activeEnd == model.NoID {
		return PathResult{}, fmt.Errorf("未设置起点或终点: %w", model.ErrInvalidParameter)
	}
	result := FindPath(m, m.activeStart, m.activeEnd, m.costFunc)
	if result.Found {
		m.activePath = result.Path.Copy()
	} else {
		m.activePath = nil
	}
	return result, nil
}

// FormatPath 格式化路径结果为可读字符串
func (m *Map) FormatPath(result PathResult) string {
	if !result.Found {
		return "未找到路径"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "总距离: %.2f 米 (%.2f 公里)\n", result.Distance, result.Distance/1000)
	fmt.Fprintf(&sb, "总代价: %.2f\n", result.Cost)
	sb.WriteString("路径:\n")

	for i, id := range result.Path.NodeIDs {
		name := "(未命名)"
		if n, ok := m.Node(id); ok && n.HasName() {
			name = n.Name
		}
		fmt.Fprintf(&sb, "%d. %s (%d)\n", i+1, name, id)
	}

	return sb.String()
}
