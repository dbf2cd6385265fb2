package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/evolution-merge-game/game/engine"
	"github.com/wricardo/evolution-merge-game/storage"
)

const (
	// Key is the store key the leaderboard document lives under
	Key = "leaderboard"

	// MaxEntries is the length cap of each difficulty's list
	MaxEntries = 5
)

// Entry is one ranked score. Entries never change after insertion.
type Entry struct {
	PlayerName string    `json:"playerName"`
	Score      int       `json:"score"`
	Date       time.Time `json:"date"`
}

// Board maps each difficulty to its ranked entries
type Board map[engine.Difficulty][]Entry

// NewBoard returns a board with an empty list for every difficulty
func NewBoard() Board {
	b := make(Board, len(engine.Difficulties))
	for _, d := range engine.Difficulties {
		b[d] = []Entry{}
	}
	return b
}

// Clone deep-copies the board
func (b Board) Clone() Board {
	out := make(Board, len(b))
	for d, entries := range b {
		out[d] = slices.Clone(entries)
		if out[d] == nil {
			out[d] = []Entry{}
		}
	}
	return out
}

// Qualifies reports whether score earns a place in entries
func Qualifies(entries []Entry, score int) bool {
	if len(entries) < MaxEntries {
		return true
	}
	return score > entries[len(entries)-1].Score
}

// Insert adds entry to a sorted list and returns the new list and the
// entry's 1-based rank. The input slice is not modified.
func Insert(entries []Entry, entry Entry) ([]Entry, int) {
	rank := 1
	for _, e := range entries {
		if e.Score >= entry.Score {
			rank++
		}
	}

	out := append(slices.Clone(entries), entry)
	slices.SortStableFunc(out, func(a, b Entry) int {
		return b.Score - a.Score
	})
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out, rank
}

// Result describes a submission
type Result struct {
	Inserted bool
	Rank     int
	Entries  []Entry
}

// Option configures a Manager
type Option func(*Manager)

// WithClock overrides the entry timestamp source
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger sets the manager's logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Manager reads and writes the leaderboard document
type Manager struct {
	mu     sync.Mutex
	store  storage.Store
	now    func() time.Time
	logger *zap.Logger
}

// NewManager creates a leaderboard manager over store
func NewManager(store storage.Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load returns the whole leaderboard, creating it with empty lists on first access
func (m *Manager) Load(ctx context.Context) (Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	board, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	return board.Clone(), nil
}

// Entries returns the ranked list of one difficulty
func (m *Manager) Entries(ctx context.Context, d engine.Difficulty) ([]Entry, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %q", engine.ErrUnknownDifficulty, d)
	}
	board, err := m.Load(ctx)
	if err != nil {
		return nil, err
	}
	return board[d], nil
}

// Submit checks score against d's list and inserts it when it qualifies.
// The check and the insert happen under one lock.
func (m *Manager) Submit(ctx context.Context, d engine.Difficulty, playerName string, score int) (Result, error) {
	if !d.Valid() {
		return Result{}, fmt.Errorf("%w: %q", engine.ErrUnknownDifficulty, d)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	board, err := m.load(ctx)
	if err != nil {
		return Result{}, err
	}

	current := board[d]
	if !Qualifies(current, score) {
		return Result{Entries: slices.Clone(current)}, nil
	}

	updated, rank := Insert(current, Entry{
		PlayerName: playerName,
		Score:      score,
		Date:       m.now().UTC(),
	})
	board[d] = updated

	if err := m.save(ctx, board); err != nil {
		return Result{}, err
	}

	m.logger.Info("Leaderboard entry added",
		zap.String("difficulty", string(d)),
		zap.String("player", playerName),
		zap.Int("score", score),
		zap.Int("rank", rank))

	return Result{Inserted: true, Rank: rank, Entries: slices.Clone(updated)}, nil
}

// Reset empties every difficulty's list
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.save(ctx, NewBoard()); err != nil {
		return err
	}
	m.logger.Info("Leaderboard reset")
	return nil
}

func (m *Manager) load(ctx context.Context) (Board, error) {
	data, err := m.store.Get(ctx, Key)
	if errors.Is(err, storage.ErrNotFound) {
		board := NewBoard()
		if err := m.save(ctx, board); err != nil {
			return nil, err
		}
		return board, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	var stored Board
	if err := json.Unmarshal(data, &stored); err != nil {
		m.logger.Warn("Discarding unreadable leaderboard", zap.Error(err))
		stored = nil
	}

	board := NewBoard()
	for _, d := range engine.Difficulties {
		if entries := stored[d]; entries != nil {
			board[d] = entries
		}
	}
	return board, nil
}

func (m *Manager) save(ctx context.Context, board Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard: %w", err)
	}
	if err := m.store.Put(ctx, Key, data); err != nil {
		return fmt.Errorf("failed to write leaderboard: %w", err)
	}
	return nil
}
