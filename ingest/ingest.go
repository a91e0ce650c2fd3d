// Package ingest 解析地图的文本描述格式
//
//	n:<index>, <lon>, <lat>, "<name>", <NOTABLE_LOCATION|JOIN>   节点
//	e:<indexA>, <indexB>, <EDGE_TYPE>                            边
//	p:<name>, <idx1>, <idx2>, ...                                路径
//
// index 只在文件内有效，导入时映射为地图分配的稳定 ID。
// 空行和 # 开头的注释被忽略，引号外的 # 之后视为行尾注释。
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"campus-map/algo"
	"campus-map/model"
)

// 节点类型：可在地图上点选的地点，或只用于连接边的拐点
const (
	NotableLocation = "NOTABLE_LOCATION"
	Join            = "JOIN"
)

// Result 导入结果
type Result struct {
	Map   *algo.Map
	Paths *model.SavedPaths
	// Index 文件内下标到节点 ID 的映射
	Index map[int]model.ID
}

// ParseFile 读取并解析文件
func ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse 逐行解析，遇到第一个错误即返回 (错误信息带行号)
func Parse(r io.Reader) (*Result, error) {
	res := &Result{
		Map:   algo.NewMap(),
		Paths: model.NewSavedPaths(),
		Index: make(map[int]model.ID),
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		kind, body, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("第 %d 行缺少记录类型: %w", lineNo, model.ErrInvalidParameter)
		}
		fields, err := splitFields(body)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", lineNo, err)
		}
		switch strings.ToLower(strings.TrimSpace(kind)) {
		case "n":
			err = res.node(fields)
		case "e":
			err = res.edge(fields)
		case "p":
			err = res.path(fields)
		default:
			err = fmt.Errorf("未知的记录类型 %q: %w", kind, model.ErrInvalidParameter)
		}
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("读取失败: %w", err)
	}
	return res, nil
}

func (res *Result) node(fields []string) error {
	if len(fields) != 5 {
		return fmt.Errorf("节点需要 5 个字段，实际 %d 个: %w", len(fields), model.ErrInvalidParameter)
	}
	index, err := parseIndex(fields[0])
	if err != nil {
		return err
	}
	if _, dup := res.Index[index]; dup {
		return fmt.Errorf("节点下标 %d 重复: %w", index, model.ErrDuplicateParameter)
	}
	lon, err := parseFloat(fields[1])
	if err != nil {
		return err
	}
	lat, err := parseFloat(fields[2])
	if err != nil {
		return err
	}

	n := model.NewNode(model.NewCoordinate(lon, lat))
	n.SetName(fields[3])
	switch strings.ToUpper(fields[4]) {
	case NotableLocation:
		n.SetSelectable(true)
	case Join:
	default:
		return fmt.Errorf("未知的节点类型 %q: %w", fields[4], model.ErrInvalidParameter)
	}
	if err := res.Map.AddNode(n); err != nil {
		return err
	}
	res.Index[index] = n.ID
	return nil
}

func (res *Result) edge(fields []string) error {
	if len(fields) != 3 {
		return fmt.Errorf("边需要 3 个字段，实际 %d 个: %w", len(fields), model.ErrInvalidParameter)
	}
	a, err := res.lookup(fields[0])
	if err != nil {
		return err
	}
	b, err := res.lookup(fields[1])
	if err != nil {
		return err
	}
	if a == b {
		return fmt.Errorf("边的两端是同一个节点: %w", model.ErrInvalidParameter)
	}
	t, ok := model.ParseEdgeType(fields[2])
	if !ok {
		return fmt.Errorf("未知的边类型 %q: %w", fields[2], model.ErrInvalidParameter)
	}
	res.Map.ConnectByIDs(a, b, t)
	return nil
}

func (res *Result) path(fields []string) error {
	if len(fields) < 1 || fields[0] == "" {
		return fmt.Errorf("路径缺少名称: %w", model.ErrInvalidParameter)
	}
	ids := make([]model.ID, 0, len(fields)-1)
	for _, f := range fields[1:] {
		id, err := res.lookup(f)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	return res.Paths.Add(model.NewPath(fields[0], ids...))
}

func (res *Result) lookup(field string) (model.ID, error) {
	index, err := parseIndex(field)
	if err != nil {
		return model.NoID, err
	}
	id, ok := res.Index[index]
	if !ok {
		return model.NoID, fmt.Errorf("节点下标 %d 未定义: %w", index, model.ErrObjectNotFound)
	}
	return id, nil
}

func parseIndex(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("无效的下标 %q: %w", s, model.ErrInvalidParameter)
	}
	return v, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("无效的坐标 %q: %w", s, model.ErrInvalidParameter)
	}
	return v, nil
}

// splitFields 按逗号切分并去掉两端空白；双引号内的逗号和 # 不切分，引号本身被去掉
func splitFields(s string) ([]string, error) {
	var (
		fields  []string
		cur     strings.Builder
		quoted  bool
		inQuote bool
	)
	flush := func() {
		f := cur.String()
		if !quoted {
			f = strings.TrimSpace(f)
		}
		fields = append(fields, f)
		cur.Reset()
		quoted = false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote && c == '"':
			inQuote = false
		case inQuote:
			cur.WriteByte(c)
		case c == '"':
			if strings.TrimSpace(cur.String()) != "" {
				return nil, fmt.Errorf("引号位置不对: %w", model.ErrInvalidParameter)
			}
			cur.Reset()
			inQuote, quoted = true, true
		case c == ',':
			flush()
		case c == '#':
			flush()
			return fields, nil
		default:
			if quoted {
				if c == ' ' || c == '\t' {
					continue
				}
				return nil, fmt.Errorf("引号后多余的字符: %w", model.ErrInvalidParameter)
			}
			cur.WriteByte(c)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("引号未闭合: %w", model.ErrInvalidParameter)
	}
	flush()
	return fields, nil
}
