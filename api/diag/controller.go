package diagapi

import (
	"errors"
	"net/http"

	dmn "github.com/beka-birhanu/vinom-maze-agent/domain"
	"github.com/beka-birhanu/vinom-maze-agent/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultLeaderboardLimit = 10

// Controller serves run diagnostics. Journal and leaderboard are optional;
// their routes answer 503 when the backing store is not configured.
type Controller struct {
	monitor     i.RunMonitor
	journal     i.RunJournal
	leaderboard i.Leaderboard
	levelID     string
}

// Config holds the dependencies of the diagnostics controller.
type Config struct {
	Monitor     i.RunMonitor
	Journal     i.RunJournal
	Leaderboard i.Leaderboard
	LevelID     string // default board for leaderboard queries
}

// NewController initializes a Controller.
func NewController(c *Config) (*Controller, error) {
	if c == nil || c.Monitor == nil {
		return nil, errors.New("diagnostics need a run monitor")
	}
	return &Controller{
		monitor:     c.Monitor,
		journal:     c.Journal,
		leaderboard: c.Leaderboard,
		levelID:     c.LevelID,
	}, nil
}

// RegisterPublic registers public routes.
func (dc *Controller) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/health", dc.health)
}

// RegisterProtected registers protected routes.
func (dc *Controller) RegisterProtected(route *gin.RouterGroup) {
	runs := route.Group("/runs")
	{
		runs.GET("/current", dc.current)
		runs.GET("/leaderboard", dc.top)
		runs.GET("/:id", dc.run)
	}
}

func (dc *Controller) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Phase:  dc.monitor.Snapshot().Phase,
	})
}

func (dc *Controller) current(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dc.monitor.Snapshot())
}

func (dc *Controller) top(ctx *gin.Context) {
	if dc.leaderboard == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboard is not configured"})
		return
	}

	var query LeaderboardQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if query.Level == "" {
		query.Level = dc.levelID
	}
	if query.Limit == 0 {
		query.Limit = defaultLeaderboardLimit
	}

	entries, err := dc.leaderboard.Top(ctx.Request.Context(), query.Level, query.Limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	total, err := dc.leaderboard.Count(ctx.Request.Context(), query.Level)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []dmn.LeaderboardEntry{}
	}

	ctx.JSON(http.StatusOK, LeaderboardResponse{
		Level:   query.Level,
		Total:   total,
		Entries: entries,
	})
}

func (dc *Controller) run(ctx *gin.Context) {
	if dc.journal == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "run journal is not configured"})
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	run, err := dc.journal.ByID(ctx.Request.Context(), id)
	if errors.Is(err, dmn.ErrRunNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, run)
}
