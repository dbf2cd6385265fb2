package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// LeaderboardPolicy decides when a round's score is checked against the leaderboard
type LeaderboardPolicy string

const (
	// PolicyPerCompletion submits after every chain completion and again at round end
	PolicyPerCompletion LeaderboardPolicy = "per_completion"

	// PolicyRoundEnd submits once, when the countdown expires
	PolicyRoundEnd LeaderboardPolicy = "round_end"
)

// Settings holds process configuration read from the environment
type Settings struct {
	ConfigDir  string `env:"EVOLVE_CONFIG_DIR"`
	Store      string `env:"EVOLVE_STORE" envDefault:"file"`
	DataDir    string `env:"EVOLVE_DATA_DIR" envDefault:"data"`
	SQLitePath string `env:"EVOLVE_SQLITE_PATH" envDefault:"data/evolve.db"`
	RedisURL   string `env:"EVOLVE_REDIS_URL" envDefault:"redis://localhost:6379/0"`

	AutosaveInterval time.Duration `env:"EVOLVE_AUTOSAVE_INTERVAL" envDefault:"3s"`
	TickInterval     time.Duration `env:"EVOLVE_TICK_INTERVAL" envDefault:"1s"`
	RejectDelay      time.Duration `env:"EVOLVE_REJECT_DELAY" envDefault:"500ms"`
	AdvanceDelay     time.Duration `env:"EVOLVE_ADVANCE_DELAY" envDefault:"800ms"`
	DismissDelay     time.Duration `env:"EVOLVE_DISMISS_DELAY" envDefault:"800ms"`
	NotificationTTL  time.Duration `env:"EVOLVE_NOTIFICATION_TTL" envDefault:"3s"`

	AllowPlaceWhileLocked bool              `env:"EVOLVE_ALLOW_PLACE_WHILE_LOCKED" envDefault:"true"`
	LeaderboardPolicy     LeaderboardPolicy `env:"EVOLVE_LEADERBOARD_POLICY" envDefault:"per_completion"`
}

// LoadSettings parses Settings from the environment and validates them
func LoadSettings() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// ParseEnv loads configuration from environment variables
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects settings the game cannot run with
func (s Settings) Validate() error {
	durations := map[string]time.Duration{
		"EVOLVE_AUTOSAVE_INTERVAL": s.AutosaveInterval,
		"EVOLVE_TICK_INTERVAL":     s.TickInterval,
	}
	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	for name, d := range map[string]time.Duration{
		"EVOLVE_REJECT_DELAY":     s.RejectDelay,
		"EVOLVE_ADVANCE_DELAY":    s.AdvanceDelay,
		"EVOLVE_DISMISS_DELAY":    s.DismissDelay,
		"EVOLVE_NOTIFICATION_TTL": s.NotificationTTL,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, d)
		}
	}
	switch s.LeaderboardPolicy {
	case PolicyPerCompletion, PolicyRoundEnd:
	default:
		return fmt.Errorf("EVOLVE_LEADERBOARD_POLICY must be %s or %s, got %q",
			PolicyPerCompletion, PolicyRoundEnd, s.LeaderboardPolicy)
	}
	return nil
}
