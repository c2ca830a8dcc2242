package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-maze-agent/api"
	diagapi "github.com/beka-birhanu/vinom-maze-agent/api/diag"
	api_i "github.com/beka-birhanu/vinom-maze-agent/api/i"
	"github.com/beka-birhanu/vinom-maze-agent/api/identity"
	"github.com/beka-birhanu/vinom-maze-agent/config"
	"github.com/beka-birhanu/vinom-maze-agent/infrastruture/goldrush"
	"github.com/beka-birhanu/vinom-maze-agent/infrastruture/lock"
	logger "github.com/beka-birhanu/vinom-maze-agent/infrastruture/log"
	"github.com/beka-birhanu/vinom-maze-agent/infrastruture/repo"
	"github.com/beka-birhanu/vinom-maze-agent/infrastruture/sortedstorage"
	"github.com/beka-birhanu/vinom-maze-agent/infrastruture/token"
	"github.com/beka-birhanu/vinom-maze-agent/service"
	"github.com/beka-birhanu/vinom-maze-agent/service/i"
	"github.com/beka-birhanu/vinom-maze-agent/sim"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	appLogger      *logger.Logger
	tuning         config.Tuning
	redisClient    *redis.Client
	mongoClient    *mongo.Client
	runJournal     i.RunJournal
	leaderboard    i.Leaderboard
	runLocker      i.Locker
	goldrushClient *goldrush.Client
	runner         *service.Runner
	jwtTokenizer   i.Tokenizer
	diagController api_i.Controller
	router         *api.Router
)

var (
	simulateFlag   = flag.String("simulate", "", "play a generated `W,H` maze offline and exit")
	fixtureFlag    = flag.String("fixture", "", "play a YAML maze `file` offline and exit")
	seedFlag       = flag.Int64("seed", 0, "seed for -simulate; 0 picks one from the clock")
	tuningFlag     = flag.String("tuning", "", "YAML tuning `file`, overrides AGENT_TUNING")
	issueTokenFlag = flag.Duration("issue-token", 0, "print a diagnostics token valid for the given duration and exit")
)

func newLogger(prefix, color string) *logger.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating %s logger: %v", strings.ToLower(prefix), err))
		os.Exit(1)
	}
	return l
}

func initTuning(path string) {
	var err error
	tuning, err = config.LoadTuning(path)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Loading tuning: %v", err))
		os.Exit(1)
	}
	if path != "" {
		appLogger.Info(fmt.Sprintf("Tuning loaded from %s", path))
	}
}

func initRedis(ctx context.Context) {
	if config.Envs.RedisAddr == "" {
		appLogger.Warning("REDIS_ADDR is empty, running without run lock and leaderboard")
		return
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to Redis")

	var err error
	runLocker, err = lock.NewRedisLocker(redisClient, tuning.LockTTL)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating run locker: %v", err))
		os.Exit(1)
	}
	leaderboard, err = sortedstorage.NewRedisLeaderboard(redisClient, 0)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating leaderboard: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Run lock and leaderboard initialized")
}

func initMongo(ctx context.Context) {
	if config.Envs.DBHost == "" {
		appLogger.Warning("DB_HOST is empty, running without run journal")
		return
	}

	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)
	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")

	runJournal = repo.NewRunRepo(mongoClient, config.Envs.DBName, "runs")
	appLogger.Info("Run journal initialized")
}

func initGoldrushClient() {
	var err error
	goldrushClient, err = goldrush.NewClient(&goldrush.Config{
		BackendURL:   "https://" + config.Envs.BackendHost,
		FrontendURL:  "https://" + config.Envs.FrontendHost,
		Token:        config.Envs.PlayerToken,
		CommandDelay: tuning.CommandDelay,
		PingPeriod:   tuning.PingPeriod,
		Logger:       newLogger("GOLDRUSH", config.ColorCyan),
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating goldrush client: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Goldrush client initialized")
}

func initRunner(gameID, levelID string) {
	var err error
	runner, err = service.NewRunner(newLogger("AGENT", config.ColorPurple), &service.RunnerOptions{
		GameID:          gameID,
		LevelID:         levelID,
		Journal:         runJournal,
		Leaderboard:     leaderboard,
		MaxTicks:        tuning.MaxTicks,
		RenderEveryTick: tuning.RenderEveryTick,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating runner: %v", err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Run %s initialized", runner.RunID()))
}

func initJWTTokenizer() {
	if err := token.ValidateSecret(config.Envs.JWTSecret); err != nil {
		appLogger.Error(fmt.Sprintf("DIAG_JWT_SECRET: %v", err))
		os.Exit(1)
	}
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initDiagController() {
	var err error
	diagController, err = diagapi.NewController(&diagapi.Config{
		Monitor:     runner,
		Journal:     runJournal,
		Leaderboard: leaderboard,
		LevelID:     config.Envs.LevelID,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating diagnostics controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Diagnostics controller initialized")
}

func initRouter(t i.Tokenizer) {
	gin.SetMode(config.Envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.DiagHost, config.Envs.DiagPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{diagController},
		AuthorizationMiddleware: identity.Authorize(t),
	})
	appLogger.Info("Router initialized")
}

// simulate plays one maze offline with the same runner a live game uses.
func simulate(ctx context.Context) {
	var (
		m       *sim.Maze
		levelID string
		err     error
	)

	if *fixtureFlag != "" {
		m, err = sim.LoadFixture(*fixtureFlag)
		levelID = "fixture-" + *fixtureFlag
	} else {
		var width, height int
		width, height, err = parseDimensions(*simulateFlag)
		if err == nil {
			seed := *seedFlag
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			appLogger.Info(fmt.Sprintf("Generating %dx%d maze with seed %d", width, height, seed))
			m, err = sim.Generate(width, height, rand.New(rand.NewSource(seed)))
			levelID = fmt.Sprintf("sim-%dx%d", width, height)
		}
	}
	if err != nil {
		appLogger.Error(fmt.Sprintf("Preparing simulated maze: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Simulated maze:\n" + m.String())

	initRunner("simulation", levelID)
	stats, err := sim.Run(ctx, m, runner, 0)
	if err != nil {
		runner.Abort(context.Background(), err)
		appLogger.Error(fmt.Sprintf("Simulation failed after %d ticks: %v\n%s", stats.Ticks, err, m.String()))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Simulation finished: %s\n%s", stats, m.String()))
}

func parseDimensions(s string) (int, int, error) {
	w, h, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("dimensions %q are not W,H", s)
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return 0, 0, fmt.Errorf("width: %w", err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return 0, 0, fmt.Errorf("height: %w", err)
	}
	return width, height, nil
}

// play creates a game, drives it to the end and records how it went.
func play(ctx context.Context) error {
	instance, err := goldrushClient.CreateGame(ctx, config.Envs.LevelID)
	if err != nil {
		return err
	}
	appLogger.Info(fmt.Sprintf("Game created, watch it at %s", goldrushClient.GameURL(instance.EntityID)))

	initRunner(instance.EntityID, config.Envs.LevelID)
	if jwtTokenizer != nil {
		initDiagController()
		initRouter(jwtTokenizer)
		go func() {
			if err := router.Run(); err != nil {
				appLogger.Error(fmt.Sprintf("Diagnostics server stopped: %v", err))
			}
		}()
	}

	select {
	case <-time.After(tuning.ConnectDelay):
	case <-ctx.Done():
		runner.Abort(context.Background(), ctx.Err())
		return ctx.Err()
	}

	if runLocker != nil {
		release, err := runLocker.Acquire(ctx, instance.EntityID)
		if err != nil {
			runner.Abort(context.Background(), err)
			return err
		}
		defer func() {
			if err := release(); err != nil {
				appLogger.Warning(fmt.Sprintf("Releasing game lock: %v", err))
			}
		}()
	}

	session, err := goldrushClient.Dial(ctx, instance.EntityID)
	if err != nil {
		runner.Abort(context.Background(), err)
		return err
	}

	err = session.Run(ctx, runner)
	if err == nil && !runner.Finished() {
		err = errors.New("game socket closed before the run finished")
	}
	if err != nil {
		// The context may already be cancelled; the record still needs writing.
		runner.Abort(context.Background(), err)
		return err
	}
	return nil
}

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)

	if *simulateFlag != "" || *fixtureFlag != "" {
		initTuning(*tuningFlag)
		simulate(ctx)
		return
	}

	config.Load()
	tuningPath := config.Envs.TuningFile
	if *tuningFlag != "" {
		tuningPath = *tuningFlag
	}
	initTuning(tuningPath)

	if config.Envs.JWTSecret != "" {
		initJWTTokenizer()
	}
	if *issueTokenFlag > 0 {
		if jwtTokenizer == nil {
			appLogger.Error("DIAG_JWT_SECRET is empty, cannot issue a token")
			os.Exit(1)
		}
		t, err := jwtTokenizer.Generate(map[string]interface{}{"sub": "operator"}, *issueTokenFlag)
		if err != nil {
			appLogger.Error(fmt.Sprintf("Issuing token: %v", err))
			os.Exit(1)
		}
		fmt.Println(t)
		return
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	initRedis(connectCtx)
	initMongo(connectCtx)
	cancel()

	initGoldrushClient()

	err := play(ctx)
	if runner != nil {
		snap := runner.Snapshot()
		appLogger.Info(fmt.Sprintf("Run %s ended as %q after %d ticks", snap.RunID, snap.Outcome, snap.Ticks))
	}
	closeStores()

	if err != nil {
		appLogger.Error(fmt.Sprintf("Run failed: %v", err))
		os.Exit(1)
	}
}

func closeStores() {
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if mongoClient != nil {
		_ = mongoClient.Disconnect(context.Background())
	}
}
