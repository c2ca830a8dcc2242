package i

import dmn "github.com/beka-birhanu/vinom-maze-agent/domain"

// RunMonitor exposes the run in progress.
type RunMonitor interface {
	Snapshot() dmn.RunSnapshot
}
