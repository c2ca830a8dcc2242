// Package planner finds shortest routes between known cells of a maze.Grid.
//
// FindPath is a plain A* over the 4-connected grid with unit step cost and the
// Manhattan heuristic, which is admissible and consistent here, so returned
// paths are optimal. NewRoute post-processes a path into heading-annotated
// steps that the decision engine can execute one per tick.
//
// Traversal rules:
//
//   - Unknown cells are never entered.
//   - Only Discovered cells expand; their own wall mask decides which sides
//     are open. The neighbor's mask is not consulted, so walls are assumed to
//     be reported consistently by both sides.
//   - Frontier cells have no recorded mask and are dead ends.
//   - The goal is absorbing: a path may end on it but never pass through it.
package planner

import (
	"errors"

	"github.com/beka-birhanu/vinom-maze-agent/maze"
)

var (
	// ErrPathNotFound is returned when the open list empties before the end
	// cell is reached.
	ErrPathNotFound = errors.New("path not found")
	// ErrMalformedPath reports a waypoint sequence that is not a chain of
	// adjacent cells.
	ErrMalformedPath = errors.New("malformed path")
)

// Grid is the read-only view of the map the planner searches.
type Grid interface {
	InBound(p maze.Position) bool
	Cell(p maze.Position) maze.Cell
}

type node struct {
	pos     maze.Position
	g, h, f int
	parent  *node
}

// FindPath returns the waypoints from start to end inclusive. When start and
// end coincide the path is the single cell.
func FindPath(grid Grid, start, end maze.Position) ([]maze.Position, error) {
	if start == end {
		return []maze.Position{start}, nil
	}

	open := []*node{{pos: start, h: start.Manhattan(end), f: start.Manhattan(end)}}
	closed := make(map[maze.Position]bool)

	for len(open) > 0 {
		// Lowest f wins; on ties the earliest entry in the open list is kept.
		idx := 0
		for i, n := range open {
			if n.f < open[idx].f {
				idx = i
			}
		}
		current := open[idx]
		open = append(open[:idx], open[idx+1:]...)
		closed[current.pos] = true

		if current.pos == end {
			return reconstruct(current), nil
		}

		for _, child := range successors(grid, current, end) {
			if closed[child.pos] {
				continue
			}
			if existing := find(open, child.pos); existing != nil && child.g >= existing.g {
				continue
			}
			open = append(open, child)
		}
	}

	return nil, ErrPathNotFound
}

func successors(grid Grid, current *node, end maze.Position) []*node {
	cell := grid.Cell(current.pos)
	if cell.Kind != maze.Discovered {
		return nil
	}

	var children []*node
	for _, r := range maze.Cardinals {
		next := current.pos.Neighbor(r)
		if !grid.InBound(next) {
			continue
		}
		if grid.Cell(next).Kind == maze.Unknown {
			continue
		}
		if cell.Walls.Blocks(r) {
			continue
		}

		g := current.g + 1
		h := next.Manhattan(end)
		children = append(children, &node{pos: next, g: g, h: h, f: g + h, parent: current})
	}
	return children
}

func find(open []*node, p maze.Position) *node {
	for _, n := range open {
		if n.pos == p {
			return n
		}
	}
	return nil
}

func reconstruct(n *node) []maze.Position {
	var path []maze.Position
	for ; n != nil; n = n.parent {
		path = append(path, n.pos)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
