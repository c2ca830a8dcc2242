/*
Package sim plays the game server offline.

A Maze is a fully known wall layout with a start, a goal and an agent on it.
It answers the same ticks the remote game sends and applies the actions an
agent replies with, so the whole decision stack can be exercised without a
network. Mazes come from Wilson's algorithm (Generate) or from YAML fixtures
(LoadFixture).
*/
package sim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beka-birhanu/vinom-maze-agent/engine"
	"github.com/beka-birhanu/vinom-maze-agent/game"
	"github.com/beka-birhanu/vinom-maze-agent/maze"
)

var (
	ErrInvalidMaze   = errors.New("invalid maze")
	ErrBlocked       = errors.New("move blocked by a wall")
	ErrIllegalAction = errors.New("illegal action")
)

// Maze is the simulated environment of one game instance.
type Maze struct {
	width   int
	height  int
	walls   []maze.WallMask
	start   maze.Position
	goal    maze.Position
	initial maze.Rotation

	position maze.Position
	heading  maze.Rotation
	resets   int
}

// NewMaze validates a wall layout, rows first, and places the agent on start
// facing heading. Every wall must be reported by the cells on both sides.
func NewMaze(walls [][]maze.WallMask, start, goal maze.Position, heading maze.Rotation) (*Maze, error) {
	if len(walls) == 0 || len(walls[0]) == 0 {
		return nil, fmt.Errorf("%w: no cells", ErrInvalidMaze)
	}

	m := &Maze{
		width:   len(walls[0]),
		height:  len(walls),
		start:   start,
		goal:    goal,
		initial: heading,
	}
	m.walls = make([]maze.WallMask, 0, m.width*m.height)
	for y, row := range walls {
		if len(row) != m.width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidMaze, y, len(row), m.width)
		}
		for x, mask := range row {
			if mask > 15 {
				return nil, fmt.Errorf("%w: cell (%d,%d) has mask %d", ErrInvalidMaze, x, y, mask)
			}
		}
		m.walls = append(m.walls, row...)
	}

	if !m.inBound(start) || !m.inBound(goal) {
		return nil, fmt.Errorf("%w: start %v or goal %v outside %dx%d", ErrInvalidMaze, start, goal, m.width, m.height)
	}
	if !heading.IsValid() {
		return nil, fmt.Errorf("%w: heading %v", ErrInvalidMaze, heading)
	}
	if err := m.checkSymmetric(); err != nil {
		return nil, err
	}

	m.position, m.heading = start, heading
	return m, nil
}

func (m *Maze) checkSymmetric() error {
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			p := maze.Position{X: x, Y: y}
			for _, r := range []maze.Rotation{maze.East, maze.South} {
				q := p.Neighbor(r)
				if !m.inBound(q) {
					continue
				}
				if m.mask(p).Blocks(r) != m.mask(q).Blocks(opposite(r)) {
					return fmt.Errorf("%w: wall between %v and %v is one-sided", ErrInvalidMaze, p, q)
				}
			}
		}
	}
	return nil
}

func opposite(r maze.Rotation) maze.Rotation {
	return (r + 180) % 360
}

func (m *Maze) inBound(p maze.Position) bool {
	return p.X >= 0 && p.X < m.width && p.Y >= 0 && p.Y < m.height
}

func (m *Maze) mask(p maze.Position) maze.WallMask {
	return m.walls[p.Y*m.width+p.X]
}

// open reports whether a cardinal step from p along r stays inside the maze
// and crosses no wall.
func (m *Maze) open(p maze.Position, r maze.Rotation) bool {
	return m.inBound(p) && m.inBound(p.Neighbor(r)) && !m.mask(p).Blocks(r)
}

// canCut reports whether a diagonal step from p along r is possible through
// either of the two cells it cuts past.
func (m *Maze) canCut(p maze.Position, r maze.Rotation) bool {
	d := r.Delta()
	horizontal, vertical := maze.West, maze.North
	if d.X > 0 {
		horizontal = maze.East
	}
	if d.Y > 0 {
		vertical = maze.South
	}

	if m.open(p, horizontal) && m.open(p.Neighbor(horizontal), vertical) {
		return true
	}
	return m.open(p, vertical) && m.open(p.Neighbor(vertical), horizontal)
}

// Tick reports the agent's surroundings the way the game does.
func (m *Maze) Tick() game.Tick {
	return game.Tick{
		Rows:    m.height,
		Columns: m.width,
		Start:   m.start,
		Target:  m.goal,
		Player:  game.Player{Position: m.position, Rotation: m.heading},
		Square:  int(m.mask(m.position)),
	}
}

// Apply performs one action. A rejected action leaves the maze unchanged.
func (m *Maze) Apply(a engine.Action) error {
	switch a.Kind {
	case engine.ActionRotate:
		if !a.Rotation.IsValid() {
			return fmt.Errorf("%w: rotate to %v", ErrIllegalAction, a.Rotation)
		}
		m.heading = a.Rotation

	case engine.ActionMove:
		allowed := m.open(m.position, m.heading)
		if m.heading.IsDiagonal() {
			allowed = m.canCut(m.position, m.heading)
		}
		if !allowed {
			return fmt.Errorf("%w: %v facing %v", ErrBlocked, m.position, m.heading)
		}
		m.position = m.position.Neighbor(m.heading)

	case engine.ActionReset:
		m.position, m.heading = m.start, m.initial
		m.resets++

	default:
		return fmt.Errorf("%w: %v", ErrIllegalAction, a)
	}
	return nil
}

// Position returns where the agent stands.
func (m *Maze) Position() maze.Position { return m.position }

// Heading returns where the agent faces.
func (m *Maze) Heading() maze.Rotation { return m.heading }

// Resets counts the reset actions applied so far.
func (m *Maze) Resets() int { return m.resets }

// Start returns the start cell.
func (m *Maze) Start() maze.Position { return m.start }

// Goal returns the goal cell.
func (m *Maze) Goal() maze.Position { return m.goal }

// Width is the number of columns.
func (m *Maze) Width() int { return m.width }

// Height is the number of rows.
func (m *Maze) Height() int { return m.height }

// Walls returns the wall mask of a cell.
func (m *Maze) Walls(p maze.Position) maze.WallMask {
	if !m.inBound(p) {
		return 0
	}
	return m.mask(p)
}

// String draws the maze with S, G and the agent's arrow.
func (m *Maze) String() string {
	var b strings.Builder

	// Top boundary
	b.WriteString("+")
	for x := 0; x < m.width; x++ {
		if m.mask(maze.Position{X: x, Y: 0}).Blocks(maze.North) {
			b.WriteString("---+")
		} else {
			b.WriteString("   +")
		}
	}
	b.WriteString("\n")

	for y := 0; y < m.height; y++ {
		if m.mask(maze.Position{X: 0, Y: y}).Blocks(maze.West) {
			b.WriteString("|")
		} else {
			b.WriteString(" ")
		}
		for x := 0; x < m.width; x++ {
			p := maze.Position{X: x, Y: y}
			switch p {
			case m.position:
				b.WriteString(" " + string(m.heading.Arrow()) + " ")
			case m.goal:
				b.WriteString(" G ")
			case m.start:
				b.WriteString(" S ")
			default:
				b.WriteString("   ")
			}
			if m.mask(p).Blocks(maze.East) {
				b.WriteString("|")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n+")
		for x := 0; x < m.width; x++ {
			if m.mask(maze.Position{X: x, Y: y}).Blocks(maze.South) {
				b.WriteString("---+")
			} else {
				b.WriteString("   +")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
