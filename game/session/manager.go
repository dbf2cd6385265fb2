package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/evolution-merge-game/game/clock"
)

// DefaultAutosaveInterval is the autosave cadence when none is configured
const DefaultAutosaveInterval = 3 * time.Second

// Manager drives persistence for the active round: immediate saves after
// each action plus a recurring autosave backstop
type Manager struct {
	persistence Persistence
	scheduler   clock.Scheduler
	interval    time.Duration
	logger      *zap.Logger

	mu       sync.Mutex
	autosave clock.Timer
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithScheduler sets the scheduler autosave ticks run on
func WithScheduler(s clock.Scheduler) ManagerOption {
	return func(m *Manager) {
		m.scheduler = s
	}
}

// WithAutosaveInterval sets the autosave cadence
func WithAutosaveInterval(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithLogger sets the manager's logger
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a persistence manager
func NewManager(persistence Persistence, opts ...ManagerOption) *Manager {
	m := &Manager{
		persistence: persistence,
		scheduler:   clock.NewRealScheduler(),
		interval:    DefaultAutosaveInterval,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Save writes the snapshot. Failures are logged and returned; callers
// treat them as non-fatal.
func (m *Manager) Save(ctx context.Context, snapshot *Snapshot) error {
	if err := m.persistence.Save(ctx, snapshot); err != nil {
		fields := []zap.Field{zap.Error(err)}
		if snapshot != nil {
			fields = append(fields, zap.String("player", snapshot.PlayerName))
		}
		m.logger.Warn("Failed to persist game", fields...)
		return err
	}
	return nil
}

// Restore returns the saved round, if a valid one exists
func (m *Manager) Restore(ctx context.Context) (*Snapshot, bool) {
	return m.persistence.Restore(ctx)
}

// Clear removes the saved round
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.persistence.Clear(ctx); err != nil {
		m.logger.Warn("Failed to clear saved game", zap.Error(err))
		return err
	}
	return nil
}

// SavedGame reports who the saved round belongs to
func (m *Manager) SavedGame(ctx context.Context) (SavedGame, bool) {
	return m.persistence.Peek(ctx)
}

// StartAutosave runs fn every autosave interval, replacing any previous
// autosave. fn is responsible for its own locking.
func (m *Manager) StartAutosave(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.autosave != nil {
		m.autosave.Stop()
	}
	m.autosave = m.scheduler.Every(m.interval, fn)
	m.logger.Debug("Autosave started", zap.Duration("interval", m.interval))
}

// StopAutosave cancels the recurring autosave
func (m *Manager) StopAutosave() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.autosave != nil {
		m.autosave.Stop()
		m.autosave = nil
		m.logger.Debug("Autosave stopped")
	}
}

// AutosaveRunning reports whether an autosave is scheduled
func (m *Manager) AutosaveRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.autosave != nil
}
