package algo

import (
	"fmt"
	"io"
	"strings"

	"campus-map/model"
)

// 调试输出，按 tabs 缩进，不是稳定的格式

func indent(tabs int) string {
	if tabs <= 0 {
		return ""
	}
	return strings.Repeat("\t", tabs)
}

// DumpCoordinate 输出坐标
func DumpCoordinate(w io.Writer, c model.Coordinate, tabs int) {
	fmt.Fprintf(w, "%s(%f, %f)\n", indent(tabs), c.Lon, c.Lat)
}

// DumpEdge 输出边
func DumpEdge(w io.Writer, e *model.Edge, tabs int) {
	p := indent(tabs)
	fmt.Fprintf(w, "%sedge %d {\n", p, e.ID)
	fmt.Fprintf(w, "%s\ttype: %s\n", p, e.Type)
	fmt.Fprintf(w, "%s\tnodes: %d <-> %d\n", p, e.A, e.B)
	fmt.Fprintf(w, "%s\tlength: %.2fm\n", p, e.Length)
	fmt.Fprintf(w, "%s}\n", p)
}

// DumpNode 输出节点
func DumpNode(w io.Writer, n *model.Node, tabs int) {
	p := indent(tabs)
	fmt.Fprintf(w, "%snode %d {\n", p, n.ID)
	if n.HasName() {
		fmt.Fprintf(w, "%s\tname: %s\n", p, n.Name)
	}
	fmt.Fprintf(w, "%s\tcoord: (%f, %f)\n", p, n.Coord.Lon, n.Coord.Lat)
	if n.Picture != "" {
		fmt.Fprintf(w, "%s\tpicture: %s\n", p, n.Picture)
	}
	if n.HasFloor() {
		fmt.Fprintf(w, "%s\tfloor: %d\n", p, n.Floor)
	}
	if n.BuildingID != model.NoID {
		fmt.Fprintf(w, "%s\tbuilding: %d\n", p, n.BuildingID)
	}
	fmt.Fprintf(w, "%s\tselectable: %t\n", p, n.Selectable)
	fmt.Fprintf(w, "%s\tedges: %v\n", p, n.EdgeIDs())
	fmt.Fprintf(w, "%s}\n", p)
}

// DumpBuilding 输出建筑
func DumpBuilding(w io.Writer, b *model.Building, tabs int) {
	p := indent(tabs)
	fmt.Fprintf(w, "%sbuilding %d {\n", p, b.ID)
	fmt.Fprintf(w, "%s\tnames: %s\n", p, strings.Join(b.Names, ", "))
	fmt.Fprintf(w, "%s\tfloors: %d\n", p, b.Floors)
	fmt.Fprintf(w, "%s\tbox: (%f, %f) - (%f, %f)\n", p,
		b.BoundingBox.BottomLeft.Lon, b.BoundingBox.BottomLeft.Lat,
		b.BoundingBox.TopRight.Lon, b.BoundingBox.TopRight.Lat)
	fmt.Fprintf(w, "%s}\n", p)
}

// DumpMPO 输出多边形
func DumpMPO(w io.Writer, mpo *model.MPO, tabs int) {
	p := indent(tabs)
	fmt.Fprintf(w, "%smpo %d {\n", p, mpo.ID)
	fmt.Fprintf(w, "%s\ttype: %s\n", p, mpo.Type)
	if mpo.Name != "" {
		fmt.Fprintf(w, "%s\tname: %s\n", p, mpo.Name)
	}
	fmt.Fprintf(w, "%s\tcoords: %d\n", p, len(mpo.Coords))
	for _, c := range mpo.Coords {
		DumpCoordinate(w, c, tabs+2)
	}
	fmt.Fprintf(w, "%s}\n", p)
}

// DumpPath 输出路径
func DumpPath(w io.Writer, path *model.Path, tabs int) {
	p := indent(tabs)
	name := path.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(w, "%spath %s: %v\n", p, name, path.NodeIDs)
}

// Dump 输出整张地图
func Dump(w io.Writer, m *Map, tabs int) {
	p := indent(tabs)
	fmt.Fprintf(w, "%smap {\n", p)
	fmt.Fprintf(w, "%s\tbuildings: %d\n", p, m.NBuildings())
	for _, b := range m.buildings {
		DumpBuilding(w, b, tabs+2)
	}
	fmt.Fprintf(w, "%s\tnodes: %d\n", p, m.NNodes())
	for _, n := range m.nodes {
		DumpNode(w, n, tabs+2)
	}
	fmt.Fprintf(w, "%s\tedges: %d\n", p, m.NEdges())
	for _, e := range m.edges {
		DumpEdge(w, e, tabs+2)
	}
	fmt.Fprintf(w, "%s\tmpos: %d\n", p, m.NMPOs())
	for _, mpo := range m.mpos {
		DumpMPO(w, mpo, tabs+2)
	}
	if m.activePath != nil {
		fmt.Fprintf(w, "%s\tactive path:\n", p)
		DumpPath(w, m.activePath, tabs+2)
	}
	fmt.Fprintf(w, "%s}\n", p)
}
