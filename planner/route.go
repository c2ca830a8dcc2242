package planner

import (
	"fmt"

	"github.com/beka-birhanu/vinom-maze-agent/maze"
)

// Step is one move: face Heading, then a single move lands on To. Diagonal
// headings cut a corner and cover two waypoints of the underlying path.
type Step struct {
	Heading maze.Rotation
	To      maze.Position
}

// Route is a path prepared for execution. Origin is the cell the agent must
// be standing on before the first step is taken.
type Route struct {
	Origin maze.Position
	Steps  []Step
}

// NewRoute annotates a waypoint path with headings. Whenever the waypoint two
// ahead differs from the current one on both axes the two cardinal moves are
// merged into one diagonal step.
func NewRoute(path []maze.Position) (Route, error) {
	if len(path) == 0 {
		return Route{}, fmt.Errorf("%w: empty path", ErrMalformedPath)
	}

	route := Route{Origin: path[0]}
	for i := 0; i < len(path)-1; {
		from := path[i]
		if _, ok := maze.DirectionTo(from, path[i+1]); !ok || from.IsDiagonalTo(path[i+1]) {
			return Route{}, fmt.Errorf("%w: %v and %v are not neighbors", ErrMalformedPath, from, path[i+1])
		}

		if i+2 < len(path) && from.IsDiagonalTo(path[i+2]) {
			heading, ok := maze.DirectionTo(from, path[i+2])
			if !ok {
				return Route{}, fmt.Errorf("%w: %v and %v are not neighbors", ErrMalformedPath, path[i+1], path[i+2])
			}
			route.Steps = append(route.Steps, Step{Heading: heading, To: path[i+2]})
			i += 2
			continue
		}

		heading, _ := maze.DirectionTo(from, path[i+1])
		route.Steps = append(route.Steps, Step{Heading: heading, To: path[i+1]})
		i++
	}

	return route, nil
}

// Done reports whether no steps are left.
func (r *Route) Done() bool {
	return len(r.Steps) == 0
}

// Next returns the step to execute next.
func (r *Route) Next() (Step, bool) {
	if r.Done() {
		return Step{}, false
	}
	return r.Steps[0], true
}

// Advance consumes the next step and moves the origin onto its target.
func (r *Route) Advance() {
	if r.Done() {
		return
	}
	r.Origin = r.Steps[0].To
	r.Steps = r.Steps[1:]
}

// Waypoints expands the route back into the cells it visits, origin first.
// Diagonal steps contribute only their landing cell.
func (r *Route) Waypoints() []maze.Position {
	points := []maze.Position{r.Origin}
	for _, s := range r.Steps {
		points = append(points, s.To)
	}
	return points
}
