package config

import (
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	PlayerToken   string // Goldrush player token, also the websocket path
	LevelID       string // Level to create a game for
	BackendHost   string // Goldrush backend host and base path
	FrontendHost  string // Goldrush frontend host, used for the spectator link
	RedisAddr     string // Redis address; empty disables the run lock and leaderboard
	RedisPassword string // Password for Redis
	DBHost        string // MongoDB host; empty disables the run journal
	DBPort        int    // Port number for the database
	DBUser        string // Username for the database
	DBPassword    string // Password for the database
	DBName        string // Name of the database
	DiagHost      string // Host IP for the diagnostics API
	DiagPort      int    // Port for the diagnostics API
	JWTSecret     string // Secret key for diagnostics JWT signing; empty disables the API
	JWTIssuer     string // Issuer claim for JWTs
	GinMode       string // Mode for the Gin framework (e.g., release, debug, test)
	TuningFile    string // Optional YAML file with agent tuning
}

// Envs holds the configuration once Load has run.
var Envs Config

var loadOnce sync.Once

// Load reads the environment once, from a .env file when available, and
// returns the result. Missing required variables are fatal.
func Load() Config {
	loadOnce.Do(func() {
		Envs = initConfig()
	})
	return Envs
}

// initConfig initializes and returns the application configuration.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		PlayerToken:   mustGetEnv("PLAYER_TOKEN"),
		LevelID:       mustGetEnv("LEVEL_ID"),
		BackendHost:   getEnvWithDefault("BACKEND_HOST", "goldrush.monad.fi/backend"),
		FrontendHost:  getEnvWithDefault("FRONTEND_HOST", "goldrush.monad.fi"),
		RedisAddr:     getEnvWithDefault("REDIS_ADDR", ""),
		RedisPassword: getEnvWithDefault("REDIS_PASSWORD", ""),
		DBHost:        getEnvWithDefault("DB_HOST", ""),
		DBPort:        getEnvAsIntWithDefault("DB_PORT", 27017),
		DBUser:        getEnvWithDefault("DB_USER", ""),
		DBPassword:    getEnvWithDefault("DB_PASS", ""),
		DBName:        getEnvWithDefault("DB_NAME", "maze_agent"),
		DiagHost:      getEnvWithDefault("DIAG_HOST", "127.0.0.1"),
		DiagPort:      getEnvAsIntWithDefault("DIAG_PORT", 8080),
		JWTSecret:     getEnvWithDefault("DIAG_JWT_SECRET", ""),
		JWTIssuer:     getEnvWithDefault("DIAG_JWT_ISSUER", "vinom-maze-agent"),
		GinMode:       getEnvWithDefault("GIN_MODE", "release"),
		TuningFile:    getEnvWithDefault("AGENT_TUNING", ""),
	}
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("[APP] [FATAL] Environment variable %s is not set", key)
	}
	return value
}

// getEnvAsIntWithDefault retrieves an integer environment variable, falling back when unset.
// A value that cannot be parsed is fatal.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
