package maze

// Wall bits of a 4-bit cell value as reported by the game.
const (
	NorthWallBit WallMask = 1 << 3
	EastWallBit  WallMask = 1 << 2
	SouthWallBit WallMask = 1 << 1
	WestWallBit  WallMask = 1 << 0

	allWalls WallMask = NorthWallBit | EastWallBit | SouthWallBit | WestWallBit
)

// WallMask is the 4-bit wall configuration of a single cell.
type WallMask uint8

// Walls reports which cardinal sides of a cell are blocked.
type Walls struct {
	North bool
	East  bool
	South bool
	West  bool
}

// DecodeWalls decodes a cell value into its four wall flags. Bits above the
// low nibble are ignored.
func DecodeWalls(value int) Walls {
	return WallMask(value & int(allWalls)).Walls()
}

// Walls decodes the mask.
func (m WallMask) Walls() Walls {
	return Walls{
		North: m&NorthWallBit != 0,
		East:  m&EastWallBit != 0,
		South: m&SouthWallBit != 0,
		West:  m&WestWallBit != 0,
	}
}

// Blocks reports whether the mask has a wall on the given cardinal side.
// Diagonal rotations are never blocked by a single cell's mask.
func (m WallMask) Blocks(r Rotation) bool {
	switch r {
	case North:
		return m&NorthWallBit != 0
	case East:
		return m&EastWallBit != 0
	case South:
		return m&SouthWallBit != 0
	case West:
		return m&WestWallBit != 0
	default:
		return false
	}
}

// Glyph sentinels used by the diagnostic renderer.
const (
	UnknownGlyph  rune = ' '
	FrontierGlyph rune = '*'
	GoalGlyph     rune = '⚑'
	StartGlyph    rune = '⌂'
)

var wallGlyphs = [16]rune{
	0:  '┼', // no walls
	1:  '├', // west
	2:  '┴', // south
	3:  '└',
	4:  '┤', // east
	5:  '│',
	6:  '┘',
	7:  '╵',
	8:  '┬', // north
	9:  '┌',
	10: '─',
	11: '╶',
	12: '┐',
	13: '╷',
	14: '╴',
	15: '·',
}

// Glyph maps a 4-bit wall configuration to its display glyph. Values outside
// 0-15 render blank.
func Glyph(value int) rune {
	if value < 0 || value >= len(wallGlyphs) {
		return UnknownGlyph
	}
	return wallGlyphs[value]
}

// CellGlyph returns the glyph for a cell value, honoring the Unknown,
// Frontier and Goal variants.
func CellGlyph(c Cell) rune {
	switch c.Kind {
	case Frontier:
		return FrontierGlyph
	case Goal:
		return GoalGlyph
	case Discovered:
		return Glyph(int(c.Walls))
	default:
		return UnknownGlyph
	}
}
