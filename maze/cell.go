package maze

import "fmt"

// CellKind tags what is known about a cell.
type CellKind uint8

const (
	Unknown    CellKind = iota // never seen
	Frontier                   // reachable from a discovered cell, not yet visited
	Goal                       // the target cell; never carries a wall mask
	Discovered                 // visited; Walls is valid
)

func (k CellKind) String() string {
	switch k {
	case Frontier:
		return "frontier"
	case Goal:
		return "goal"
	case Discovered:
		return "discovered"
	default:
		return "unknown"
	}
}

// Cell is a single grid entry. Walls is meaningful only for Discovered cells,
// which keeps "no walls" (mask 0) distinct from "not yet seen".
type Cell struct {
	Kind  CellKind
	Walls WallMask
}

// Position is a cell coordinate. X is the column, Y the row; north is Y-1.
type Position struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// Add returns p offset by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Neighbor returns the adjacent position along r.
func (p Position) Neighbor(r Rotation) Position {
	return p.Add(r.Delta())
}

// Manhattan returns the 4-connected distance between p and q.
func (p Position) Manhattan(q Position) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// IsDiagonalTo reports whether p and q differ on both axes.
func (p Position) IsDiagonalTo(q Position) bool {
	return p.X != q.X && p.Y != q.Y
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
