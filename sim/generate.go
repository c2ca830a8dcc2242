package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/beka-birhanu/vinom-maze-agent/maze"
)

const maxMazeDimension = 64

const allWalls = maze.NorthWallBit | maze.EastWallBit | maze.SouthWallBit | maze.WestWallBit

// Generate builds a perfect maze with Wilson's algorithm: every cell is
// reachable and there is exactly one route between any two cells. The agent
// starts in the north-west corner facing north and the goal is the south-east
// corner. A nil rng is seeded from the clock.
func Generate(width, height int, rng *rand.Rand) (*Maze, error) {
	if min(width, height) <= 0 || max(width, height) > maxMazeDimension {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidMaze, width, height)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	g := &wilson{width: width, height: height, rng: rng}
	g.walls = make([][]maze.WallMask, height)
	for y := range g.walls {
		g.walls[y] = make([]maze.WallMask, width)
		for x := range g.walls[y] {
			g.walls[y][x] = allWalls
		}
	}
	g.carve()

	return NewMaze(g.walls, maze.Position{X: 0, Y: 0}, maze.Position{X: width - 1, Y: height - 1}, maze.North)
}

type wilson struct {
	width  int
	height int
	walls  [][]maze.WallMask
	rng    *rand.Rand
}

func (g *wilson) randomCell() maze.Position {
	return maze.Position{X: g.rng.Intn(g.width), Y: g.rng.Intn(g.height)}
}

// randomUnvisitedCell selects a random position that has not been visited.
func (g *wilson) randomUnvisitedCell(visited map[maze.Position]bool) maze.Position {
	for {
		if p := g.randomCell(); !visited[p] {
			return p
		}
	}
}

// neighbors finds all in-bound cardinal moves from p.
func (g *wilson) neighbors(p maze.Position) []maze.Rotation {
	var result []maze.Rotation
	for _, r := range maze.Cardinals {
		q := p.Neighbor(r)
		if q.X >= 0 && q.X < g.width && q.Y >= 0 && q.Y < g.height {
			result = append(result, r)
		}
	}
	return result
}

// openWall removes the wall between p and its neighbor along r on both sides.
func (g *wilson) openWall(p maze.Position, r maze.Rotation) {
	q := p.Neighbor(r)
	g.walls[p.Y][p.X] &^= bit(r)
	g.walls[q.Y][q.X] &^= bit(opposite(r))
}

func bit(r maze.Rotation) maze.WallMask {
	switch r {
	case maze.North:
		return maze.NorthWallBit
	case maze.East:
		return maze.EastWallBit
	case maze.South:
		return maze.SouthWallBit
	default:
		return maze.WestWallBit
	}
}

// randomWalk walks from an unvisited cell until it hits the visited tree and
// returns the last exit taken from every cell it crossed.
func (g *wilson) randomWalk(visited map[maze.Position]bool) (maze.Position, map[maze.Position]maze.Rotation) {
	start := g.randomUnvisitedCell(visited)
	exits := make(map[maze.Position]maze.Rotation)

	for cell := start; !visited[cell]; {
		options := g.neighbors(cell)
		r := options[g.rng.Intn(len(options))]
		exits[cell] = r
		cell = cell.Neighbor(r)
	}
	return start, exits
}

// carve joins every cell to the tree. Following the last exits from the
// walk's start erases the loops the walk made.
func (g *wilson) carve() {
	visited := map[maze.Position]bool{g.randomCell(): true}

	for len(visited) < g.width*g.height {
		start, exits := g.randomWalk(visited)
		for cell := start; !visited[cell]; {
			r := exits[cell]
			g.openWall(cell, r)
			visited[cell] = true
			cell = cell.Neighbor(r)
		}
	}
}
