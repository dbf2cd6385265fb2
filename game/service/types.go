package service

import (
	"time"

	"github.com/wricardo/evolution-merge-game/game/engine"
	"github.com/wricardo/evolution-merge-game/game/leaderboard"
)

// RoundInfo is the presentation view of the active round
type RoundInfo struct {
	ID               string              `json:"id"`
	PlayerName       string              `json:"player_name"`
	Difficulty       engine.Difficulty   `json:"difficulty"`
	Level            *LevelInfo          `json:"level"`
	Board            [][]*engine.Item    `json:"board"`
	PlayerScore      int                 `json:"player_score"`
	ChainScores      []ChainScore        `json:"chain_scores"`
	RemainingSeconds int                 `json:"remaining_seconds"`
	State            string              `json:"state"`
	Locked           bool                `json:"locked"`
	Selected         *engine.Position    `json:"selected,omitempty"`
	Resolving        []engine.Position   `json:"resolving,omitempty"`
	Notifications    []Notification      `json:"notifications,omitempty"`
	TopScores        []leaderboard.Entry `json:"top_scores"`
	StartedAt        time.Time           `json:"started_at"`
	Ended            bool                `json:"ended"`
	Result           *RoundEnded         `json:"result,omitempty"`
}

// ChainScore is one row of the per-chain score panel
type ChainScore struct {
	Chain      string            `json:"chain"`
	Difficulty engine.Difficulty `json:"difficulty"`
	Points     int               `json:"points"`
	Score      int               `json:"score"`
}

// ClickResult contains the result of a cell click
type ClickResult struct {
	Outcome  engine.Outcome  `json:"outcome"`
	Position engine.Position `json:"position"`
	Item     *engine.Item    `json:"item,omitempty"`
	Message  string          `json:"message,omitempty"`
	Round    *RoundInfo      `json:"round"`
}

// DrawResult contains the result of a draw
type DrawResult struct {
	Placed   bool             `json:"placed"`
	Position *engine.Position `json:"position,omitempty"`
	Item     *engine.Item     `json:"item,omitempty"`
	Message  string           `json:"message,omitempty"`
	Round    *RoundInfo       `json:"round"`
}

// CellInfo is the tooltip data of one cell
type CellInfo struct {
	Row          int               `json:"row"`
	Col          int               `json:"col"`
	Empty        bool              `json:"empty"`
	Name         string            `json:"name,omitempty"`
	Chain        string            `json:"chain,omitempty"`
	Difficulty   engine.Difficulty `json:"difficulty,omitempty"`
	Step         int               `json:"step,omitempty"`
	StepCount    int               `json:"step_count,omitempty"`
	Description  string            `json:"description,omitempty"`
	Image        string            `json:"image,omitempty"`
	TooltipImage string            `json:"tooltip_image,omitempty"`
	NextStep     string            `json:"next_step,omitempty"`
}

// SavedGameInfo describes a resumable round
type SavedGameInfo struct {
	PlayerName string            `json:"player_name"`
	Difficulty engine.Difficulty `json:"difficulty"`
	Message    string            `json:"message"`
}

// LeaderboardInfo is one difficulty's ranking
type LeaderboardInfo struct {
	Difficulty engine.Difficulty   `json:"difficulty"`
	Entries    []leaderboard.Entry `json:"entries"`
}

// LevelInfo describes a configured level
type LevelInfo struct {
	Name         string            `json:"name"`
	Difficulty   engine.Difficulty `json:"difficulty"`
	Rows         int               `json:"rows"`
	Cols         int               `json:"cols"`
	TimeMinutes  int               `json:"time_minutes"`
	InitialItems int               `json:"initial_items"`
	Chains       []string          `json:"chains"`
}

// Notification is a short-lived user-facing message
type Notification struct {
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RoundEnded is the outcome of a round whose countdown expired
type RoundEnded struct {
	RoundID     string              `json:"round_id"`
	PlayerName  string              `json:"player_name"`
	Difficulty  engine.Difficulty   `json:"difficulty"`
	FinalScore  int                 `json:"final_score"`
	HighScore   bool                `json:"high_score"`
	Rank        int                 `json:"rank,omitempty"`
	Message     string              `json:"message"`
	Leaderboard []leaderboard.Entry `json:"leaderboard"`
	EndedAt     time.Time           `json:"ended_at"`
}

// EventType names what an Event carries
type EventType string

const (
	EventNotification EventType = "notification"
	EventState        EventType = "state"
	EventTick         EventType = "tick"
	EventRoundEnded   EventType = "round_ended"
)

// Event is pushed to subscribers as the round changes
type Event struct {
	Type             EventType     `json:"type"`
	RoundID          string        `json:"round_id"`
	Timestamp        time.Time     `json:"timestamp"`
	RemainingSeconds int           `json:"remaining_seconds,omitempty"`
	Notification     *Notification `json:"notification,omitempty"`
	Round            *RoundInfo    `json:"round,omitempty"`
	Ended            *RoundEnded   `json:"ended,omitempty"`
}

// Timings are the delays of the round's deferred transitions
type Timings struct {
	Tick            time.Duration
	RejectDelay     time.Duration
	AdvanceDelay    time.Duration
	DismissDelay    time.Duration
	NotificationTTL time.Duration
}

// DefaultTimings returns the standard pacing
func DefaultTimings() Timings {
	return Timings{
		Tick:            time.Second,
		RejectDelay:     500 * time.Millisecond,
		AdvanceDelay:    800 * time.Millisecond,
		DismissDelay:    800 * time.Millisecond,
		NotificationTTL: 3 * time.Second,
	}
}
