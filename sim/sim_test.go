package sim_test

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/beka-birhanu/vinom-maze-agent/engine"
	logger "github.com/beka-birhanu/vinom-maze-agent/infrastruture/log"
	"github.com/beka-birhanu/vinom-maze-agent/maze"
	"github.com/beka-birhanu/vinom-maze-agent/service"
	"github.com/beka-birhanu/vinom-maze-agent/sim"
	. "github.com/smartystreets/goconvey/convey"
)

const corridor = `
start: {x: 0, y: 0}
goal: {x: 2, y: 0}
heading: 90
walls:
  - [11, 10, 14]
`

// A 3x3 ring around a walled-in center cell, goal in the far corner.
const ring = `
start: {x: 0, y: 0}
goal: {x: 2, y: 2}
heading: 0
walls:
  - [9, 10, 12]
  - [5, 15, 5]
  - [3, 10, 6]
`

func newRunner(levelID string) *service.Runner {
	l, err := logger.New("SIM", "", io.Discard)
	So(err, ShouldBeNil)
	r, err := service.NewRunner(l, &service.RunnerOptions{GameID: "sim", LevelID: levelID})
	So(err, ShouldBeNil)
	return r
}

func TestFixtures(t *testing.T) {
	Convey("Given a corridor fixture", t, func() {
		m, err := sim.ParseFixture([]byte(corridor))
		So(err, ShouldBeNil)
		So(m.Width(), ShouldEqual, 3)
		So(m.Height(), ShouldEqual, 1)

		Convey("The first tick reports the start cell", func() {
			tick := m.Tick()
			So(tick.Square, ShouldEqual, 11)
			So(tick.Player.Rotation, ShouldEqual, maze.East)
			So(tick.Target, ShouldResemble, maze.Position{X: 2, Y: 0})
		})

		Convey("Moving into a wall is rejected", func() {
			So(m.Apply(engine.Rotate(maze.North)), ShouldBeNil)
			So(m.Apply(engine.Move()), ShouldWrap, sim.ErrBlocked)
			So(m.Position(), ShouldResemble, maze.Position{X: 0, Y: 0})
		})

		Convey("A reset puts the agent back on start with its first heading", func() {
			So(m.Apply(engine.Move()), ShouldBeNil)
			So(m.Apply(engine.Rotate(maze.South)), ShouldBeNil)
			So(m.Apply(engine.Reset()), ShouldBeNil)
			So(m.Position(), ShouldResemble, m.Start())
			So(m.Heading(), ShouldEqual, maze.East)
			So(m.Resets(), ShouldEqual, 1)
		})

		Convey("The agent explores, resets once and walks to the goal", func() {
			stats, err := sim.Run(context.Background(), m, newRunner("corridor"), 100)
			So(err, ShouldBeNil)
			So(stats.Resets, ShouldEqual, 1)
			So(stats.ReachedGoal, ShouldBeTrue)
			So(stats.Ticks, ShouldBeGreaterThan, stats.ExploreTicks)
		})
	})

	Convey("Given a ring fixture", t, func() {
		m, err := sim.ParseFixture([]byte(ring))
		So(err, ShouldBeNil)

		Convey("A diagonal step needs one open corner", func() {
			So(m.Apply(engine.Rotate(maze.SouthEast)), ShouldBeNil)
			So(m.Apply(engine.Move()), ShouldWrap, sim.ErrBlocked)

			So(m.Apply(engine.Rotate(maze.East)), ShouldBeNil)
			So(m.Apply(engine.Move()), ShouldBeNil)
			So(m.Apply(engine.Move()), ShouldBeNil)
			So(m.Apply(engine.Rotate(maze.SouthWest)), ShouldBeNil)
			So(m.Apply(engine.Move()), ShouldWrap, sim.ErrBlocked)
			So(m.Position(), ShouldResemble, maze.Position{X: 2, Y: 0})
		})

		Convey("The run solves it", func() {
			stats, err := sim.Run(context.Background(), m, newRunner("ring"), 200)
			So(err, ShouldBeNil)
			So(stats.ReachedGoal, ShouldBeTrue)
		})

		Convey("The maze draws itself", func() {
			drawing := m.String()
			So(drawing, ShouldStartWith, "+---+---+---+\n")
			So(drawing, ShouldContainSubstring, " G ")
		})
	})

	Convey("Bad fixtures are rejected", t, func() {
		cases := map[string]string{
			"ragged rows":     "start: {x: 0, y: 0}\ngoal: {x: 1, y: 0}\nwalls: [[9, 12], [3]]\n",
			"one-sided wall":  "start: {x: 0, y: 0}\ngoal: {x: 1, y: 0}\nwalls: [[11, 13]]\n",
			"goal outside":    "start: {x: 0, y: 0}\ngoal: {x: 5, y: 0}\nwalls: [[11, 14]]\n",
			"value too large": "start: {x: 0, y: 0}\ngoal: {x: 1, y: 0}\nwalls: [[11, 16]]\n",
			"unknown key":     "start: {x: 0, y: 0}\ngoal: {x: 1, y: 0}\nwalls: [[11, 14]]\ncolor: red\n",
			"empty":           "start: {x: 0, y: 0}\n",
		}
		for name, doc := range cases {
			Convey(name, func() {
				_, err := sim.ParseFixture([]byte(doc))
				So(err, ShouldWrap, sim.ErrInvalidMaze)
			})
		}
	})

	Convey("Fixtures load from disk", t, func() {
		path := filepath.Join(t.TempDir(), "corridor.yaml")
		So(os.WriteFile(path, []byte(corridor), 0o600), ShouldBeNil)

		m, err := sim.LoadFixture(path)
		So(err, ShouldBeNil)
		So(m.Goal(), ShouldResemble, maze.Position{X: 2, Y: 0})

		_, err = sim.LoadFixture(filepath.Join(t.TempDir(), "missing.yaml"))
		So(err, ShouldNotBeNil)
	})
}

func TestGeneratedMazes(t *testing.T) {
	Convey("Given mazes from Wilson's algorithm", t, func() {
		sizes := [][2]int{{1, 2}, {4, 4}, {7, 3}, {12, 12}, {20, 9}}

		for seed, size := range sizes {
			m, err := sim.Generate(size[0], size[1], rand.New(rand.NewSource(int64(seed))))
			So(err, ShouldBeNil)

			Convey(fmt.Sprintf("Every wall of the %dx%d maze is shared by both cells", size[0], size[1]), func() {
				for y := 0; y < m.Height(); y++ {
					for x := 0; x < m.Width(); x++ {
						p := maze.Position{X: x, Y: y}
						east := p.Neighbor(maze.East)
						if east.X < m.Width() {
							So(m.Walls(p).Blocks(maze.East), ShouldEqual, m.Walls(east).Blocks(maze.West))
						}
					}
				}
			})

			Convey(fmt.Sprintf("The agent solves the %dx%d maze", size[0], size[1]), func() {
				stats, err := sim.Run(context.Background(), m, newRunner("generated"), 20*size[0]*size[1]+50)
				So(err, ShouldBeNil)
				So(stats.Resets, ShouldEqual, 1)
				So(stats.ReachedGoal, ShouldBeTrue)
			})
		}

		Convey("The same seed carves the same maze", func() {
			a, err := sim.Generate(9, 7, rand.New(rand.NewSource(42)))
			So(err, ShouldBeNil)
			b, err := sim.Generate(9, 7, rand.New(rand.NewSource(42)))
			So(err, ShouldBeNil)
			So(a.String(), ShouldEqual, b.String())
			So(a.Start(), ShouldResemble, b.Start())
			So(a.Goal(), ShouldResemble, b.Goal())
		})

		Convey("Out of range dimensions fail", func() {
			_, err := sim.Generate(0, 4, nil)
			So(err, ShouldWrap, sim.ErrInvalidMaze)
			_, err = sim.Generate(65, 4, nil)
			So(err, ShouldWrap, sim.ErrInvalidMaze)
		})
	})

	Convey("A cancelled context stops the run", t, func() {
		m, err := sim.Generate(5, 5, rand.New(rand.NewSource(7)))
		So(err, ShouldBeNil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = sim.Run(ctx, m, newRunner("cancelled"), 0)
		So(err, ShouldEqual, context.Canceled)
	})

	Convey("A tick budget stops the run", t, func() {
		m, err := sim.Generate(10, 10, rand.New(rand.NewSource(3)))
		So(err, ShouldBeNil)

		stats, err := sim.Run(context.Background(), m, newRunner("budget"), 3)
		So(err, ShouldWrap, sim.ErrTickBudget)
		So(stats.Ticks, ShouldEqual, 3)
	})
}
