package maze

import "fmt"

// Rotation is the agent heading in degrees. Multiples of 90 are cardinal and
// can be moved along; odd multiples of 45 are diagonal pre-alignment headings.
type Rotation int

// Headings.
const (
	North     Rotation = 0
	NorthEast Rotation = 45
	East      Rotation = 90
	SouthEast Rotation = 135
	South     Rotation = 180
	SouthWest Rotation = 225
	West      Rotation = 270
	NorthWest Rotation = 315
)

var (
	// Cardinals is the fixed cardinal scan order used everywhere a neighbor
	// walk must be deterministic.
	Cardinals = []Rotation{North, East, South, West}

	// Diagonals lists the pre-alignment headings.
	Diagonals = []Rotation{NorthEast, SouthEast, SouthWest, NorthWest}

	deltas = map[Rotation]Position{
		North:     {X: 0, Y: -1},
		NorthEast: {X: 1, Y: -1},
		East:      {X: 1, Y: 0},
		SouthEast: {X: 1, Y: 1},
		South:     {X: 0, Y: 1},
		SouthWest: {X: -1, Y: 1},
		West:      {X: -1, Y: 0},
		NorthWest: {X: -1, Y: -1},
	}

	arrows = map[Rotation]rune{
		North:     '⇑',
		NorthEast: '⇗',
		East:      '⇒',
		SouthEast: '⇘',
		South:     '⇓',
		SouthWest: '⇙',
		West:      '⇐',
		NorthWest: '⇖',
	}
)

// IsValid reports whether r is one of the eight headings.
func (r Rotation) IsValid() bool {
	_, ok := deltas[r]
	return ok
}

// IsCardinal reports whether r can be moved along on its own.
func (r Rotation) IsCardinal() bool {
	return r.IsValid() && r%90 == 0
}

// IsDiagonal reports whether r is a diagonal pre-alignment heading.
func (r Rotation) IsDiagonal() bool {
	return r.IsValid() && r%90 != 0
}

// Delta returns the coordinate offset of one step along r.
func (r Rotation) Delta() Position {
	return deltas[r]
}

// Arrow returns the display arrow for r, blank when r is not a heading.
func (r Rotation) Arrow() rune {
	if a, ok := arrows[r]; ok {
		return a
	}
	return UnknownGlyph
}

func (r Rotation) String() string {
	return fmt.Sprintf("%d°", int(r))
}

// DirectionTo returns the heading that leads from one cell to an adjacent one
// (including diagonal adjacency). ok is false when the cells are not adjacent.
func DirectionTo(from, to Position) (r Rotation, ok bool) {
	d := Position{X: to.X - from.X, Y: to.Y - from.Y}
	for _, rot := range append(Cardinals, Diagonals...) {
		if deltas[rot] == d {
			return rot, true
		}
	}
	return 0, false
}
