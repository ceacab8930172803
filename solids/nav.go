package solids

import (
	"math"
	"slices"

	"github.com/automoto/doomerang-rooms/geometry"
	astar "github.com/beefsack/go-astar"
	dmath "github.com/yohamta/donburi/features/math"
)

// NavGrid represents the walkable cells of a space.
type NavGrid struct {
	Width, Height int
	CellW, CellH  float64
	Origin        dmath.Vec2
	Nodes         [][]*NavNode
}

// NavNode is a single cell of the grid. It implements astar.Pather.
type NavNode struct {
	X, Y     int
	Walkable bool
	Grid     *NavGrid
}

var cardinal = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// PathNeighbors returns the walkable cells sharing an edge with n.
func (n *NavNode) PathNeighbors() []astar.Pather {
	neighbors := make([]astar.Pather, 0, 4)
	for _, d := range cardinal {
		nx, ny := n.X+d[0], n.Y+d[1]
		if nx < 0 || nx >= n.Grid.Width || ny < 0 || ny >= n.Grid.Height {
			continue
		}
		if neighbor := n.Grid.Nodes[ny][nx]; neighbor.Walkable {
			neighbors = append(neighbors, neighbor)
		}
	}
	return neighbors
}

func (n *NavNode) PathNeighborCost(to astar.Pather) float64 {
	return 1
}

// PathEstimatedCost is the Manhattan distance in cells.
func (n *NavNode) PathEstimatedCost(to astar.Pather) float64 {
	toNode := to.(*NavNode)
	return math.Abs(float64(toNode.X-n.X)) + math.Abs(float64(toNode.Y-n.Y))
}

// NavGrid builds a navigation grid with cells of the given size. A cell is
// walkable when a box inset by inset pixels on every side is free.
func (s *Space) NavGrid(cellW, cellH, inset float64) *NavGrid {
	grid := &NavGrid{
		Width:  int(s.bounds.W / cellW),
		Height: int(s.bounds.H / cellH),
		CellW:  cellW,
		CellH:  cellH,
		Origin: dmath.Vec2{X: s.bounds.X, Y: s.bounds.Y},
	}
	grid.Nodes = make([][]*NavNode, grid.Height)
	for y := range grid.Height {
		grid.Nodes[y] = make([]*NavNode, grid.Width)
		for x := range grid.Width {
			cell := geometry.Rect{
				X: grid.Origin.X + float64(x)*cellW + inset,
				Y: grid.Origin.Y + float64(y)*cellH + inset,
				W: cellW - 2*inset,
				H: cellH - 2*inset,
			}
			grid.Nodes[y][x] = &NavNode{X: x, Y: y, Walkable: s.Free(cell), Grid: grid}
		}
	}
	return grid
}

// FindPath returns cell centres leading from start to goal, both included.
// Endpoints inside solid cells are moved to the nearest walkable cell. It
// returns nil when the goal can't be reached.
func (g *NavGrid) FindPath(start, goal dmath.Vec2) []dmath.Vec2 {
	if g.Width == 0 || g.Height == 0 {
		return nil
	}
	startNode := g.nodeAt(start)
	goalNode := g.nodeAt(goal)
	if !startNode.Walkable {
		startNode = g.findNearestWalkable(startNode.X, startNode.Y)
	}
	if !goalNode.Walkable {
		goalNode = g.findNearestWalkable(goalNode.X, goalNode.Y)
	}
	if startNode == nil || goalNode == nil {
		return nil
	}

	path, _, found := astar.Path(startNode, goalNode)
	if !found {
		return nil
	}
	// astar lists the goal first.
	slices.Reverse(path)
	result := make([]dmath.Vec2, len(path))
	for i, p := range path {
		n := p.(*NavNode)
		result[i] = g.CellCenter(n.X, n.Y)
	}
	return result
}

func (g *NavGrid) nodeAt(p dmath.Vec2) *NavNode {
	x := clampInt(int(math.Floor((p.X-g.Origin.X)/g.CellW)), 0, g.Width-1)
	y := clampInt(int(math.Floor((p.Y-g.Origin.Y)/g.CellH)), 0, g.Height-1)
	return g.Nodes[y][x]
}

// Walkable reports whether the cell containing p is walkable.
func (g *NavGrid) Walkable(p dmath.Vec2) bool {
	if g.Width == 0 || g.Height == 0 {
		return false
	}
	return g.nodeAt(p).Walkable
}

// findNearestWalkable searches in expanding squares around (x, y).
func (g *NavGrid) findNearestWalkable(x, y int) *NavNode {
	for radius := 1; radius < 10; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				nx, ny := x+dx, y+dy
				if nx >= 0 && nx < g.Width && ny >= 0 && ny < g.Height && g.Nodes[ny][nx].Walkable {
					return g.Nodes[ny][nx]
				}
			}
		}
	}
	return nil
}

// CellCenter converts grid coordinates to the world position of the cell's
// centre.
func (g *NavGrid) CellCenter(x, y int) dmath.Vec2 {
	return dmath.Vec2{
		X: g.Origin.X + float64(x)*g.CellW + g.CellW/2,
		Y: g.Origin.Y + float64(y)*g.CellH + g.CellH/2,
	}
}

func clampInt(v, minVal, maxVal int) int {
	return max(minVal, min(maxVal, v))
}
