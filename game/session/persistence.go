package session

import (
	"context"
	"fmt"

	"github.com/wricardo/evolution-merge-game/game/engine"
)

// Key is the store key the saved round lives under
const Key = "gameSave"

// Persistence stores the single saved round
type Persistence interface {
	// Save overwrites the saved round
	Save(ctx context.Context, snapshot *Snapshot) error

	// Restore returns the saved round. Absent or malformed data reports false.
	Restore(ctx context.Context) (*Snapshot, bool)

	// Clear removes the saved round
	Clear(ctx context.Context) error

	// Peek reads the saved player's name and difficulty without decoding the board
	Peek(ctx context.Context) (SavedGame, bool)
}

// Snapshot is the persisted copy of a round
type Snapshot struct {
	PlayerName       string            `json:"playerName"`
	Difficulty       engine.Difficulty `json:"difficulty"`
	Board            [][]*engine.Item  `json:"board"`
	PlayerScore      int               `json:"playerScore"`
	ChainScores      map[string]int    `json:"chainScores"`
	RemainingSeconds int               `json:"remainingSeconds"`
}

// SavedGame identifies a resumable round
type SavedGame struct {
	PlayerName string            `json:"playerName"`
	Difficulty engine.Difficulty `json:"difficulty"`
}

// FromRound captures a round and its remaining time
func FromRound(round *engine.Round, remainingSeconds int) *Snapshot {
	score := round.Score()
	return &Snapshot{
		PlayerName:       round.Player(),
		Difficulty:       round.Level().Difficulty,
		Board:            round.Board().Cells(),
		PlayerScore:      score.PlayerScore,
		ChainScores:      score.ChainScores,
		RemainingSeconds: remainingSeconds,
	}
}

// Validate checks the snapshot against the catalog it will be restored into
func (s *Snapshot) Validate(catalog *engine.Catalog) error {
	if s.PlayerName == "" {
		return fmt.Errorf("player name is missing")
	}
	level, ok := catalog.Level(s.Difficulty)
	if !ok {
		return fmt.Errorf("%w: %q", engine.ErrUnknownDifficulty, s.Difficulty)
	}
	if len(s.Board) != level.Rows {
		return fmt.Errorf("board has %d rows, level expects %d", len(s.Board), level.Rows)
	}
	for r, row := range s.Board {
		if len(row) != level.Cols {
			return fmt.Errorf("board row %d has %d cells, level expects %d", r, len(row), level.Cols)
		}
		for c, item := range row {
			if item == nil {
				continue
			}
			chain, ok := catalog.Chain(item.ChainName)
			if !ok {
				return fmt.Errorf("cell (%d,%d) references unknown chain %q", r, c, item.ChainName)
			}
			if item.Step < 1 || item.Step > chain.StepCount() {
				return fmt.Errorf("cell (%d,%d) has step %d outside chain %q", r, c, item.Step, chain.Name)
			}
		}
	}
	if s.PlayerScore < 0 {
		return fmt.Errorf("player score is negative")
	}
	for name, points := range s.ChainScores {
		if points < 0 {
			return fmt.Errorf("chain score %q is negative", name)
		}
	}
	if s.RemainingSeconds < 0 {
		return fmt.Errorf("remaining time is negative")
	}
	return nil
}

// Round rebuilds the engine round the snapshot was taken from
func (s *Snapshot) Round(evo *engine.Evolution, opts ...engine.RoundOption) (*engine.Round, error) {
	catalog := evo.Catalog()
	if err := s.Validate(catalog); err != nil {
		return nil, err
	}
	level, _ := catalog.Level(s.Difficulty)
	board, err := engine.BoardFromCells(s.Board)
	if err != nil {
		return nil, err
	}
	score := engine.ScoreState{PlayerScore: s.PlayerScore, ChainScores: s.ChainScores}
	return engine.RestoreRound(s.PlayerName, level, evo, board, score, opts...)
}
