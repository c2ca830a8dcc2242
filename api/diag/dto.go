// Package diagapi exposes the run in progress and past runs over HTTP.
package diagapi

import (
	dmn "github.com/beka-birhanu/vinom-maze-agent/domain"
)

// HealthResponse is returned by the unauthenticated health probe.
type HealthResponse struct {
	Status string `json:"status"`
	Phase  string `json:"phase,omitempty"`
}

// LeaderboardQuery selects a level's board and how many entries to return.
type LeaderboardQuery struct {
	Level string `form:"level"`
	Limit int64  `form:"limit" binding:"omitempty,min=1,max=100"`
}

// LeaderboardResponse represents the best runs of a level.
type LeaderboardResponse struct {
	Level   string                 `json:"level"`
	Total   int64                  `json:"total"`
	Entries []dmn.LeaderboardEntry `json:"entries"`
}
