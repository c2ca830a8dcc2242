package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Tuning holds the agent's pacing knobs. Durations are written the way
// time.ParseDuration reads them, e.g. "100ms".
type Tuning struct {
	// CommandDelay is the pause between a tick arriving and the reply.
	CommandDelay time.Duration `mapstructure:"commandDelay"`
	// ConnectDelay is the pause between creating a game and dialing it.
	ConnectDelay time.Duration `mapstructure:"connectDelay"`
	// PingPeriod is how often the websocket is pinged.
	PingPeriod time.Duration `mapstructure:"pingPeriod"`
	// RenderEveryTick logs the map after every decision.
	RenderEveryTick bool `mapstructure:"renderEveryTick"`
	// LockTTL bounds how long a crashed agent keeps a game locked.
	LockTTL time.Duration `mapstructure:"lockTTL"`
	// MaxTicks aborts a run that takes longer; 0 means no limit.
	MaxTicks int `mapstructure:"maxTicks"`
}

// DefaultTuning returns the values used when no tuning file is given.
func DefaultTuning() Tuning {
	return Tuning{
		CommandDelay:    100 * time.Millisecond,
		ConnectDelay:    2 * time.Second,
		PingPeriod:      30 * time.Second,
		RenderEveryTick: false,
		LockTTL:         10 * time.Minute,
		MaxTicks:        0,
	}
}

// LoadTuning reads a YAML tuning file on top of DefaultTuning. An empty path
// returns the defaults.
func LoadTuning(path string) (Tuning, error) {
	def := DefaultTuning()
	if path == "" {
		return def, nil
	}

	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.SetDefault("commandDelay", def.CommandDelay)
	vp.SetDefault("connectDelay", def.ConnectDelay)
	vp.SetDefault("pingPeriod", def.PingPeriod)
	vp.SetDefault("renderEveryTick", def.RenderEveryTick)
	vp.SetDefault("lockTTL", def.LockTTL)
	vp.SetDefault("maxTicks", def.MaxTicks)

	if err := vp.ReadInConfig(); err != nil {
		return Tuning{}, fmt.Errorf("reading tuning file %s: %w", path, err)
	}

	var t Tuning
	if err := vp.Unmarshal(&t); err != nil {
		return Tuning{}, fmt.Errorf("decoding tuning file %s: %w", path, err)
	}
	if t.CommandDelay < 0 || t.ConnectDelay < 0 || t.PingPeriod <= 0 || t.LockTTL <= 0 || t.MaxTicks < 0 {
		return Tuning{}, fmt.Errorf("tuning file %s: durations must be positive and maxTicks non-negative", path)
	}
	return t, nil
}
