/*
Package maze holds the agent's incremental picture of a rectangular grid maze.

A Grid starts out with every cell Unknown except the goal. Each observation of
the cell the agent stands on records its wall mask and promotes the wall-free
Unknown neighbors to the frontier. The frontier list keeps discovery order so
the most recently found cell can be taken first, which walks the maze roughly
depth-first.
*/
package maze

import (
	"errors"
	"slices"
	"strings"
)

var (
	ErrInvalidDimensions = errors.New("invalid maze dimensions")
	ErrOutOfBounds       = errors.New("position is out of the maze")
	ErrNoFrontierLeft    = errors.New("no frontier cell left")
)

// Grid is the discovered maze map. Dimensions, start and goal are fixed at
// construction.
type Grid struct {
	rows     int
	columns  int
	start    Position
	goal     Position
	cells    [][]Cell   // indexed [y][x]
	frontier []Position // discovery order
	observed bool
}

// NewGrid allocates an all-Unknown grid with the goal pre-seeded.
func NewGrid(rows, columns int, start, goal Position) (*Grid, error) {
	if rows <= 0 || columns <= 0 {
		return nil, ErrInvalidDimensions
	}

	g := &Grid{
		rows:    rows,
		columns: columns,
		start:   start,
		goal:    goal,
	}
	if !g.InBound(start) || !g.InBound(goal) {
		return nil, ErrInvalidDimensions
	}

	g.cells = make([][]Cell, rows)
	for y := range g.cells {
		g.cells[y] = make([]Cell, columns)
	}
	g.cells[goal.Y][goal.X] = Cell{Kind: Goal}

	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Columns returns the number of columns.
func (g *Grid) Columns() int { return g.columns }

// Start returns the run's start cell.
func (g *Grid) Start() Position { return g.start }

// Goal returns the run's goal cell.
func (g *Grid) Goal() Position { return g.goal }

// InBound reports whether p lies inside the grid.
func (g *Grid) InBound(p Position) bool {
	return p.X >= 0 && p.X < g.columns && p.Y >= 0 && p.Y < g.rows
}

// Cell returns the cell at p. Out-of-bounds positions read as Unknown.
func (g *Grid) Cell(p Position) Cell {
	if !g.InBound(p) {
		return Cell{}
	}
	return g.cells[p.Y][p.X]
}

// Frontier returns a copy of the frontier list in discovery order.
func (g *Grid) Frontier() []Position {
	return slices.Clone(g.frontier)
}

// Observe records the wall mask of the cell the agent occupies, promotes its
// wall-free Unknown neighbors to the frontier and drops the cell itself from
// the frontier. The goal keeps its tag and is never expanded past.
func (g *Grid) Observe(p Position, mask WallMask) error {
	if !g.InBound(p) {
		return ErrOutOfBounds
	}

	g.observed = true
	g.removeFrontier(p)
	if p == g.goal {
		return nil
	}

	mask &= allWalls
	g.cells[p.Y][p.X] = Cell{Kind: Discovered, Walls: mask}

	for _, r := range Cardinals {
		if mask.Blocks(r) {
			continue
		}
		n := p.Neighbor(r)
		if !g.InBound(n) || g.cells[n.Y][n.X].Kind != Unknown {
			continue
		}
		g.cells[n.Y][n.X] = Cell{Kind: Frontier}
		g.frontier = append(g.frontier, n)
	}

	return nil
}

// OpenNeighbors returns the wall-free neighbors of p that are still on the
// frontier, in N, E, S, W order. The goal is never returned.
func (g *Grid) OpenNeighbors(p Position) []Position {
	c := g.Cell(p)
	if c.Kind != Discovered {
		return nil
	}

	var open []Position
	for _, r := range Cardinals {
		if c.Walls.Blocks(r) {
			continue
		}
		n := p.Neighbor(r)
		if n == g.goal || g.Cell(n).Kind != Frontier {
			continue
		}
		open = append(open, n)
	}
	return open
}

// IsFullyExplored reports whether no known-reachable cell is left unvisited.
// Unknown cells that no observation ever reached do not count; they are
// walled off from everything the agent has seen. A grid nothing has been
// observed on is not explored.
func (g *Grid) IsFullyExplored() bool {
	if !g.observed {
		return false
	}
	for _, row := range g.cells {
		for _, c := range row {
			if c.Kind == Frontier {
				return false
			}
		}
	}
	return true
}

// PopMostRecentFrontier removes and returns the last discovered frontier cell.
// The cell keeps its Frontier tag until it is observed.
func (g *Grid) PopMostRecentFrontier() (Position, error) {
	if len(g.frontier) == 0 {
		return Position{}, ErrNoFrontierLeft
	}
	last := g.frontier[len(g.frontier)-1]
	g.frontier = g.frontier[:len(g.frontier)-1]
	return last, nil
}

func (g *Grid) removeFrontier(p Position) {
	g.frontier = slices.DeleteFunc(g.frontier, func(f Position) bool { return f == p })
}

// Render returns a text picture of the grid, one line per row, with the
// player drawn as a heading arrow.
func (g *Grid) Render(player Position, heading Rotation) string {
	var b strings.Builder
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.columns; x++ {
			p := Position{X: x, Y: y}
			c := g.cells[y][x]

			glyph := CellGlyph(c)
			if p == g.start {
				glyph = StartGlyph
			}
			if p == g.goal {
				glyph = GoalGlyph
			}
			if c.Kind == Frontier {
				glyph = FrontierGlyph
			}
			if p == player {
				glyph = heading.Arrow()
			}
			b.WriteRune(glyph)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// String renders the grid without a player marker.
func (g *Grid) String() string {
	return g.Render(Position{X: -1, Y: -1}, North)
}
