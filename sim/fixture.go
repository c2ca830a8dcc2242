package sim

import (
	"bytes"
	"fmt"
	"os"

	"github.com/beka-birhanu/vinom-maze-agent/maze"
	"gopkg.in/yaml.v3"
)

// Fixture is the YAML form of a hand-drawn maze. Walls lists one row of
// 4-bit cell values (north 8, east 4, south 2, west 1) per line.
//
//	start: {x: 0, y: 0}
//	goal: {x: 2, y: 0}
//	heading: 90
//	walls:
//	  - [11, 10, 14]
type Fixture struct {
	Start   maze.Position `yaml:"start"`
	Goal    maze.Position `yaml:"goal"`
	Heading maze.Rotation `yaml:"heading"`
	Walls   [][]int       `yaml:"walls"`
}

// ParseFixture decodes and validates a YAML maze. Unknown keys are rejected.
func ParseFixture(data []byte) (*Maze, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMaze, err)
	}

	walls := make([][]maze.WallMask, len(f.Walls))
	for y, row := range f.Walls {
		walls[y] = make([]maze.WallMask, len(row))
		for x, v := range row {
			if v < 0 || v > 15 {
				return nil, fmt.Errorf("%w: cell (%d,%d) has value %d", ErrInvalidMaze, x, y, v)
			}
			walls[y][x] = maze.WallMask(v)
		}
	}
	return NewMaze(walls, f.Start, f.Goal, f.Heading)
}

// LoadFixture reads a YAML maze from disk.
func LoadFixture(path string) (*Maze, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFixture(data)
}
