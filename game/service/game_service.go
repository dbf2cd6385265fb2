package service

import (
	"context"
	"errors"

	"github.com/wricardo/evolution-merge-game/game/engine"
	"github.com/wricardo/evolution-merge-game/game/leaderboard"
	"github.com/wricardo/evolution-merge-game/game/session"
)

var (
	// ErrNoActiveRound is returned by round operations before a round is started
	ErrNoActiveRound = errors.New("no active round")

	// ErrNoSavedGame is returned when there is no valid saved round to resume
	ErrNoSavedGame = errors.New("no saved game")

	// ErrInvalidPlayerName is returned for blank player names
	ErrInvalidPlayerName = errors.New("player name cannot be empty")

	// ErrRoundOver is returned for moves after the countdown expired
	ErrRoundOver = errors.New("round is over")

	// ErrCellOutOfBounds is returned when describing a cell outside the board
	ErrCellOutOfBounds = errors.New("cell out of bounds")
)

// GameService defines all game-related operations
type GameService interface {
	// Round Lifecycle
	StartRound(ctx context.Context, playerName, difficulty string) (*RoundInfo, error)
	ResumeRound(ctx context.Context) (*RoundInfo, error)
	RestartRound(ctx context.Context) (*RoundInfo, error)
	AbandonRound(ctx context.Context) error
	SavedGame(ctx context.Context) (*SavedGameInfo, error)

	// Moves
	Click(ctx context.Context, row, col int) (*ClickResult, error)
	Draw(ctx context.Context) (*DrawResult, error)

	// Round State
	GetRound(ctx context.Context) (*RoundInfo, error)
	DescribeCell(ctx context.Context, row, col int) (*CellInfo, error)

	// Leaderboard
	GetLeaderboard(ctx context.Context, difficulty string) (*LeaderboardInfo, error)
	GetLeaderboards(ctx context.Context) ([]*LeaderboardInfo, error)
	ResetLeaderboard(ctx context.Context) error

	// Configuration
	ListLevels(ctx context.Context) ([]*LevelInfo, error)

	// Events
	Subscribe(fn func(Event)) (cancel func())

	// Close saves the active round and stops its timers
	Close(ctx context.Context) error
}

// CatalogProvider supplies levels and chains
type CatalogProvider interface {
	Catalog() *engine.Catalog
	Level(d engine.Difficulty) (engine.Level, error)
	ListLevels() []engine.Level
}

// PersistenceManager saves and restores the active round
type PersistenceManager interface {
	Save(ctx context.Context, snapshot *session.Snapshot) error
	Restore(ctx context.Context) (*session.Snapshot, bool)
	Clear(ctx context.Context) error
	SavedGame(ctx context.Context) (session.SavedGame, bool)
	StartAutosave(fn func())
	StopAutosave()
}

// LeaderboardManager ranks finished scores per difficulty
type LeaderboardManager interface {
	Load(ctx context.Context) (leaderboard.Board, error)
	Entries(ctx context.Context, d engine.Difficulty) ([]leaderboard.Entry, error)
	Submit(ctx context.Context, d engine.Difficulty, playerName string, score int) (leaderboard.Result, error)
	Reset(ctx context.Context) error
}
