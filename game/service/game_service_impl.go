package service

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wricardo/evolution-merge-game/game/clock"
	"github.com/wricardo/evolution-merge-game/game/config"
	"github.com/wricardo/evolution-merge-game/game/engine"
	"github.com/wricardo/evolution-merge-game/game/leaderboard"
	"github.com/wricardo/evolution-merge-game/game/session"
)

const topScoresShown = 3

// Option configures the game service
type Option func(*gameServiceImpl)

// WithScheduler sets the scheduler countdown ticks and delayed transitions run on
func WithScheduler(s clock.Scheduler) Option {
	return func(g *gameServiceImpl) {
		g.scheduler = s
	}
}

// WithRandom sets the source item draws use
func WithRandom(rng engine.IntNSource) Option {
	return func(g *gameServiceImpl) {
		g.rng = rng
	}
}

// WithClock sets the wall clock used for notification and round timestamps
func WithClock(now func() time.Time) Option {
	return func(g *gameServiceImpl) {
		g.now = now
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) Option {
	return func(g *gameServiceImpl) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithTimings sets the countdown tick and transition delays
func WithTimings(t Timings) Option {
	return func(g *gameServiceImpl) {
		g.timings = t
	}
}

// WithLeaderboardPolicy sets when scores are submitted
func WithLeaderboardPolicy(p config.LeaderboardPolicy) Option {
	return func(g *gameServiceImpl) {
		g.policy = p
	}
}

// WithPlacementWhileLocked controls whether empty cells accept clicks while
// a match resolves
func WithPlacementWhileLocked(allow bool) Option {
	return func(g *gameServiceImpl) {
		g.allowPlaceWhileLocked = allow
	}
}

// activeRound is the one round the service drives
type activeRound struct {
	id        string
	gen       uint64
	round     *engine.Round
	countdown *clock.Countdown
	ticker    clock.Timer
	timers    map[uint64]clock.Timer
	startedAt time.Time

	notifications []Notification
	topScores     []leaderboard.Entry

	ended  bool
	result *RoundEnded
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	catalog     CatalogProvider
	persistence PersistenceManager
	leaderboard LeaderboardManager

	scheduler             clock.Scheduler
	rng                   engine.IntNSource
	now                   func() time.Time
	logger                *zap.Logger
	timings               Timings
	policy                config.LeaderboardPolicy
	allowPlaceWhileLocked bool

	mu        sync.Mutex
	active    *activeRound
	gen       uint64
	nextTimer uint64
	outbox    []Event

	listenersMu  sync.RWMutex
	listeners    map[uint64]func(Event)
	nextListener uint64
}

// NewGameService creates a new game service instance
func NewGameService(catalog CatalogProvider, persistence PersistenceManager, lb LeaderboardManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		catalog:               catalog,
		persistence:           persistence,
		leaderboard:           lb,
		scheduler:             clock.NewRealScheduler(),
		now:                   time.Now,
		logger:                zap.NewNop(),
		timings:               DefaultTimings(),
		policy:                config.PolicyPerCompletion,
		allowPlaceWhileLocked: true,
		listeners:             make(map[uint64]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = engine.NewRandomSource()
	}
	return s
}

// StartRound begins a fresh round for a player, replacing any active round
func (s *gameServiceImpl) StartRound(ctx context.Context, playerName, difficulty string) (*RoundInfo, error) {
	name := strings.TrimSpace(playerName)
	if name == "" {
		return nil, ErrInvalidPlayerName
	}
	d, err := engine.ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	level, err := s.catalog.Level(d)
	if err != nil {
		return nil, fmt.Errorf("failed to load level %s: %w", d, err)
	}

	s.mu.Lock()
	defer s.unlockAndFlush()

	s.stopActiveLocked()
	return s.beginLocked(ctx, name, level), nil
}

// ResumeRound restores the saved round and continues its countdown
func (s *gameServiceImpl) ResumeRound(ctx context.Context) (*RoundInfo, error) {
	s.mu.Lock()
	defer s.unlockAndFlush()

	snapshot, ok := s.persistence.Restore(ctx)
	if !ok {
		return nil, ErrNoSavedGame
	}
	round, err := snapshot.Round(s.newEvolution(), s.roundOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to restore round: %w", err)
	}

	s.stopActiveLocked()
	level := round.Level()
	a := s.activateLocked(ctx, round, clock.InitialSeconds(level.TimeMinutes, snapshot.RemainingSeconds))
	s.logger.Info("Round resumed",
		zap.String("round_id", a.id),
		zap.String("player", round.Player()),
		zap.String("difficulty", string(level.Difficulty)),
		zap.Int("remaining_seconds", a.countdown.Remaining()))
	s.emitStateLocked()
	return s.roundInfoLocked(a), nil
}

// RestartRound starts over with the active round's player and difficulty
func (s *gameServiceImpl) RestartRound(ctx context.Context) (*RoundInfo, error) {
	s.mu.Lock()
	defer s.unlockAndFlush()

	a := s.active
	if a == nil {
		return nil, ErrNoActiveRound
	}
	player, level := a.round.Player(), a.round.Level()
	s.stopActiveLocked()
	s.persistence.Clear(ctx)
	return s.beginLocked(ctx, player, level), nil
}

// AbandonRound stops the active round and forgets the saved one
func (s *gameServiceImpl) AbandonRound(ctx context.Context) error {
	s.mu.Lock()
	defer s.unlockAndFlush()

	if s.active != nil {
		s.logger.Info("Round abandoned", zap.String("round_id", s.active.id))
	}
	s.stopActiveLocked()
	s.emitStateLocked()
	if err := s.persistence.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear saved game: %w", err)
	}
	return nil
}

// SavedGame describes the resumable round without restoring it
func (s *gameServiceImpl) SavedGame(ctx context.Context) (*SavedGameInfo, error) {
	saved, ok := s.persistence.SavedGame(ctx)
	if !ok {
		return nil, ErrNoSavedGame
	}
	return &SavedGameInfo{
		PlayerName: saved.PlayerName,
		Difficulty: saved.Difficulty,
		Message:    fmt.Sprintf("Continue %s's Game", saved.PlayerName),
	}, nil
}

// Click applies a click on one cell
func (s *gameServiceImpl) Click(ctx context.Context, row, col int) (*ClickResult, error) {
	s.mu.Lock()
	defer s.unlockAndFlush()

	a, err := s.playableLocked()
	if err != nil {
		return nil, err
	}

	result := a.round.Click(engine.Position{Row: row, Col: col})
	out := &ClickResult{
		Outcome:  result.Outcome,
		Position: result.Position,
		Item:     result.Item,
	}

	switch result.Outcome {
	case engine.OutcomePlaced:
		s.saveLocked(ctx, a)
	case engine.OutcomeMatchResolving:
		res := result.Resolution
		s.scheduleLocked(a, s.timings.AdvanceDelay, func(ctx context.Context, a *activeRound) {
			s.applyUpdateLocked(ctx, a, a.round.Advance(res))
		})
		s.scheduleLocked(a, s.timings.DismissDelay, func(ctx context.Context, a *activeRound) {
			s.applyUpdateLocked(ctx, a, a.round.Dismiss(res))
		})
	case engine.OutcomeNoMatch:
		rej := result.Rejection
		s.scheduleLocked(a, s.timings.RejectDelay, func(ctx context.Context, a *activeRound) {
			if a.round.Reject(rej) {
				s.emitStateLocked()
			}
		})
	case engine.OutcomeIgnored:
		if a.round.Locked() {
			out.Message = "Wait for the current match to finish"
		}
	}

	s.logger.Debug("Click",
		zap.String("round_id", a.id),
		zap.Int("row", row),
		zap.Int("col", col),
		zap.String("outcome", string(result.Outcome)))

	if result.Outcome != engine.OutcomeIgnored {
		s.emitStateLocked()
	}
	out.Round = s.roundInfoLocked(a)
	return out, nil
}

// Draw places a random first-step item on a random empty cell
func (s *gameServiceImpl) Draw(ctx context.Context) (*DrawResult, error) {
	s.mu.Lock()
	defer s.unlockAndFlush()

	a, err := s.playableLocked()
	if err != nil {
		return nil, err
	}

	out := &DrawResult{}
	if !a.round.HasEmptyCell() {
		out.Message = "No empty cells available on the board."
		s.notifyLocked(a, out.Message)
		out.Round = s.roundInfoLocked(a)
		return out, nil
	}

	result := a.round.DrawRandom()
	if result.Outcome == engine.OutcomePlaced {
		pos := result.Position
		out.Placed = true
		out.Position = &pos
		out.Item = result.Item
		s.saveLocked(ctx, a)
		s.emitStateLocked()
	} else {
		out.Message = "Wait for the current match to finish"
	}
	out.Round = s.roundInfoLocked(a)
	return out, nil
}

// GetRound returns the active round, including one whose countdown expired
func (s *gameServiceImpl) GetRound(ctx context.Context) (*RoundInfo, error) {
	s.mu.Lock()
	defer s.unlockAndFlush()

	if s.active == nil {
		return nil, ErrNoActiveRound
	}
	return s.roundInfoLocked(s.active), nil
}

// DescribeCell returns the tooltip data of one cell
func (s *gameServiceImpl) DescribeCell(ctx context.Context, row, col int) (*CellInfo, error) {
	s.mu.Lock()
	defer s.unlockAndFlush()

	if s.active == nil {
		return nil, ErrNoActiveRound
	}
	round := s.active.round
	pos := engine.Position{Row: row, Col: col}
	if !round.Board().InBounds(pos) {
		return nil, fmt.Errorf("%w: %s", ErrCellOutOfBounds, pos)
	}

	info := &CellInfo{Row: row, Col: col}
	item, ok := round.Board().At(pos)
	if !ok {
		info.Empty = true
		return info, nil
	}

	info.Name = item.Name
	info.Chain = item.ChainName
	info.Difficulty = item.Difficulty
	info.Step = item.Step
	info.Description = item.Description
	info.Image = item.Image
	info.TooltipImage = item.TooltipImage
	if chain, ok := s.catalog.Catalog().Chain(item.ChainName); ok {
		info.StepCount = chain.StepCount()
	}
	if next, ok := engine.NewEvolution(s.catalog.Catalog(), s.rng).NextStep(item); ok {
		info.NextStep = next.Name
	}
	return info, nil
}

// GetLeaderboard returns one difficulty's ranking
func (s *gameServiceImpl) GetLeaderboard(ctx context.Context, difficulty string) (*LeaderboardInfo, error) {
	d, err := engine.ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	entries, err := s.leaderboard.Entries(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return &LeaderboardInfo{Difficulty: d, Entries: entries}, nil
}

// GetLeaderboards returns every difficulty's ranking, easiest first
func (s *gameServiceImpl) GetLeaderboards(ctx context.Context) ([]*LeaderboardInfo, error) {
	board, err := s.leaderboard.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	infos := make([]*LeaderboardInfo, 0, len(engine.Difficulties))
	for _, d := range engine.Difficulties {
		entries := board[d]
		if entries == nil {
			entries = []leaderboard.Entry{}
		}
		infos = append(infos, &LeaderboardInfo{Difficulty: d, Entries: entries})
	}
	return infos, nil
}

// ResetLeaderboard empties every ranking
func (s *gameServiceImpl) ResetLeaderboard(ctx context.Context) error {
	if err := s.leaderboard.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset leaderboard: %w", err)
	}

	s.mu.Lock()
	defer s.unlockAndFlush()
	if s.active != nil {
		s.active.topScores = nil
		s.emitStateLocked()
	}
	return nil
}

// ListLevels returns the configured levels with their eligible chains
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	evo := engine.NewEvolution(s.catalog.Catalog(), s.rng)
	levels := s.catalog.ListLevels()
	infos := make([]*LevelInfo, 0, len(levels))
	for _, level := range levels {
		infos = append(infos, levelInfo(level, evo.EligibleChains(level.Difficulty)))
	}
	return infos, nil
}

// Subscribe registers fn for every event until cancel is called. fn runs
// outside the service lock and may call back into the service.
func (s *gameServiceImpl) Subscribe(fn func(Event)) func() {
	s.listenersMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, id)
			s.listenersMu.Unlock()
		})
	}
}

// Close saves the active round and stops its timers
func (s *gameServiceImpl) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.unlockAndFlush()

	a := s.active
	if a == nil {
		return nil
	}
	var err error
	if !a.ended {
		err = s.persistence.Save(ctx, session.FromRound(a.round, a.countdown.Remaining()))
	}
	s.stopActiveLocked()
	return err
}

// beginLocked creates, populates and activates a fresh round
func (s *gameServiceImpl) beginLocked(ctx context.Context, player string, level engine.Level) *RoundInfo {
	round := engine.NewRound(player, level, s.newEvolution(), s.roundOptions()...)
	round.Populate(level.InitialItems)

	a := s.activateLocked(ctx, round, level.Seconds())
	s.logger.Info("Round started",
		zap.String("round_id", a.id),
		zap.String("player", player),
		zap.String("difficulty", string(level.Difficulty)))

	s.saveLocked(ctx, a)
	s.emitStateLocked()
	return s.roundInfoLocked(a)
}

// activateLocked makes round the active round and starts its countdown and autosave
func (s *gameServiceImpl) activateLocked(ctx context.Context, round *engine.Round, seconds int) *activeRound {
	s.gen++
	a := &activeRound{
		id:        uuid.NewString(),
		gen:       s.gen,
		round:     round,
		countdown: clock.NewCountdown(seconds),
		timers:    make(map[uint64]clock.Timer),
		startedAt: s.now(),
	}
	s.active = a
	s.refreshTopScoresLocked(ctx, a)

	gen := a.gen
	a.ticker = s.scheduler.Every(s.timings.Tick, func() {
		s.withRound(gen, s.tickLocked)
	})
	s.persistence.StartAutosave(func() {
		s.withRound(gen, s.saveLocked)
	})
	return a
}

// withRound runs fn under the lock if the round of generation gen is still live
func (s *gameServiceImpl) withRound(gen uint64, fn func(context.Context, *activeRound)) {
	s.mu.Lock()
	defer s.unlockAndFlush()

	a := s.active
	if a == nil || a.gen != gen || a.ended {
		return
	}
	fn(context.Background(), a)
}

func (s *gameServiceImpl) tickLocked(ctx context.Context, a *activeRound) {
	if a.countdown.Tick() {
		s.endRoundLocked(ctx, a)
		return
	}
	s.pruneNotificationsLocked(a)
	s.outbox = append(s.outbox, Event{
		Type:             EventTick,
		RoundID:          a.id,
		Timestamp:        s.now(),
		RemainingSeconds: a.countdown.Remaining(),
	})
}

// endRoundLocked finishes a round whose countdown reached zero
func (s *gameServiceImpl) endRoundLocked(ctx context.Context, a *activeRound) {
	a.ended = true
	s.stopTimersLocked(a)
	s.persistence.Clear(ctx)

	round := a.round
	level := round.Level()
	score := round.Score().PlayerScore
	result := &RoundEnded{
		RoundID:    a.id,
		PlayerName: round.Player(),
		Difficulty: level.Difficulty,
		FinalScore: score,
		Message:    fmt.Sprintf("Time's up! Final score: %d", score),
		EndedAt:    s.now(),
	}

	if score > 0 {
		res, err := s.leaderboard.Submit(ctx, level.Difficulty, round.Player(), score)
		if err != nil {
			s.logger.Warn("Failed to record final score",
				zap.String("round_id", a.id),
				zap.String("player", round.Player()),
				zap.Error(err))
		} else if res.Inserted {
			result.HighScore = true
			result.Rank = res.Rank
			result.Message = fmt.Sprintf("New High Score! Rank: #%d", res.Rank)
			s.notifyLocked(a, result.Message)
		}
	}

	entries, err := s.leaderboard.Entries(ctx, level.Difficulty)
	if err != nil {
		s.logger.Warn("Failed to load leaderboard", zap.Error(err))
		entries = []leaderboard.Entry{}
	}
	result.Leaderboard = entries
	a.topScores = topScores(entries)
	a.result = result

	s.logger.Info("Round ended",
		zap.String("round_id", a.id),
		zap.String("player", round.Player()),
		zap.String("difficulty", string(level.Difficulty)),
		zap.Int("score", score),
		zap.Int("rank", result.Rank))

	s.outbox = append(s.outbox, Event{
		Type:      EventRoundEnded,
		RoundID:   a.id,
		Timestamp: s.now(),
		Ended:     result,
		Round:     s.roundInfoLocked(a),
	})
}

// applyUpdateLocked reacts to one half of a match resolution
func (s *gameServiceImpl) applyUpdateLocked(ctx context.Context, a *activeRound, update engine.ResolutionUpdate) {
	if !update.Advanced && update.Backfilled == nil && !update.Settled {
		return
	}
	if update.Completed != nil {
		s.awardLocked(ctx, a, *update.Completed, update.Points)
	}
	s.saveLocked(ctx, a)
	s.emitStateLocked()
}

func (s *gameServiceImpl) awardLocked(ctx context.Context, a *activeRound, chain engine.EvolutionChain, points int) {
	s.notifyLocked(a, fmt.Sprintf("Chain Complete! +%d points for %s!", points, chain.Name))
	s.logger.Info("Chain completed",
		zap.String("round_id", a.id),
		zap.String("chain", chain.Name),
		zap.Int("points", points))

	if s.policy != config.PolicyPerCompletion {
		return
	}
	round := a.round
	difficulty := round.Level().Difficulty
	res, err := s.leaderboard.Submit(ctx, difficulty, round.Player(), round.Score().PlayerScore)
	if err != nil {
		s.logger.Warn("Failed to record score",
			zap.String("round_id", a.id),
			zap.String("player", round.Player()),
			zap.Error(err))
		return
	}
	a.topScores = topScores(res.Entries)
}

func (s *gameServiceImpl) saveLocked(ctx context.Context, a *activeRound) {
	if a.ended {
		return
	}
	// Failures are logged by the persistence manager and never stop play
	s.persistence.Save(ctx, session.FromRound(a.round, a.countdown.Remaining()))
}

func (s *gameServiceImpl) notifyLocked(a *activeRound, message string) {
	now := s.now()
	n := Notification{
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(s.timings.NotificationTTL),
	}
	a.notifications = append(a.notifications, n)
	s.outbox = append(s.outbox, Event{
		Type:         EventNotification,
		RoundID:      a.id,
		Timestamp:    now,
		Notification: &n,
	})
}

func (s *gameServiceImpl) pruneNotificationsLocked(a *activeRound) {
	now := s.now()
	a.notifications = slices.DeleteFunc(a.notifications, func(n Notification) bool {
		return !now.Before(n.ExpiresAt)
	})
}

// scheduleLocked runs fn after d unless the round is replaced or ends first
func (s *gameServiceImpl) scheduleLocked(a *activeRound, d time.Duration, fn func(context.Context, *activeRound)) {
	id := s.nextTimer
	s.nextTimer++
	gen := a.gen
	a.timers[id] = s.scheduler.After(d, func() {
		s.withRound(gen, func(ctx context.Context, a *activeRound) {
			delete(a.timers, id)
			fn(ctx, a)
		})
	})
}

func (s *gameServiceImpl) stopTimersLocked(a *activeRound) {
	if a.ticker != nil {
		a.ticker.Stop()
		a.ticker = nil
	}
	for id, t := range a.timers {
		t.Stop()
		delete(a.timers, id)
	}
	s.persistence.StopAutosave()
}

func (s *gameServiceImpl) stopActiveLocked() {
	if s.active == nil {
		return
	}
	s.stopTimersLocked(s.active)
	s.active = nil
}

func (s *gameServiceImpl) playableLocked() (*activeRound, error) {
	a := s.active
	if a == nil {
		return nil, ErrNoActiveRound
	}
	if a.ended {
		return nil, ErrRoundOver
	}
	return a, nil
}

func (s *gameServiceImpl) refreshTopScoresLocked(ctx context.Context, a *activeRound) {
	entries, err := s.leaderboard.Entries(ctx, a.round.Level().Difficulty)
	if err != nil {
		s.logger.Warn("Failed to load leaderboard", zap.Error(err))
		return
	}
	a.topScores = topScores(entries)
}

func (s *gameServiceImpl) emitStateLocked() {
	e := Event{Type: EventState, Timestamp: s.now()}
	if s.active != nil {
		e.RoundID = s.active.id
		e.Round = s.roundInfoLocked(s.active)
	}
	s.outbox = append(s.outbox, e)
}

// unlockAndFlush releases the lock and then delivers queued events
func (s *gameServiceImpl) unlockAndFlush() {
	events := s.outbox
	s.outbox = nil
	s.mu.Unlock()

	if len(events) == 0 {
		return
	}
	s.listenersMu.RLock()
	listeners := slices.Collect(maps.Values(s.listeners))
	s.listenersMu.RUnlock()

	for _, e := range events {
		for _, fn := range listeners {
			fn(e)
		}
	}
}

func (s *gameServiceImpl) newEvolution() *engine.Evolution {
	return engine.NewEvolution(s.catalog.Catalog(), s.rng)
}

func (s *gameServiceImpl) roundOptions() []engine.RoundOption {
	return []engine.RoundOption{engine.WithPlacementWhileLocked(s.allowPlaceWhileLocked)}
}

func (s *gameServiceImpl) roundInfoLocked(a *activeRound) *RoundInfo {
	round := a.round
	level := round.Level()
	score := round.Score()

	info := &RoundInfo{
		ID:               a.id,
		PlayerName:       round.Player(),
		Difficulty:       level.Difficulty,
		Level:            levelInfo(level, round.Eligible()),
		Board:            round.Board().Cells(),
		PlayerScore:      score.PlayerScore,
		RemainingSeconds: a.countdown.Remaining(),
		State:            round.State().String(),
		Locked:           round.Locked(),
		TopScores:        slices.Clone(a.topScores),
		StartedAt:        a.startedAt,
		Ended:            a.ended,
		Result:           a.result,
	}
	if info.TopScores == nil {
		info.TopScores = []leaderboard.Entry{}
	}

	for _, chain := range s.catalog.Catalog().Chains {
		info.ChainScores = append(info.ChainScores, ChainScore{
			Chain:      chain.Name,
			Difficulty: chain.Difficulty,
			Points:     chain.Points,
			Score:      score.ChainScores[chain.Name],
		})
	}

	if pos, ok := round.Selected(); ok {
		info.Selected = &pos
	}
	if res := round.Pending(); res != nil {
		info.Resolving = []engine.Position{res.First, res.Second}
	} else if rej := round.Rejecting(); rej != nil {
		info.Resolving = []engine.Position{rej.First, rej.Second}
	}

	now := s.now()
	for _, n := range a.notifications {
		if now.Before(n.ExpiresAt) {
			info.Notifications = append(info.Notifications, n)
		}
	}
	return info
}

func levelInfo(level engine.Level, eligible []engine.EvolutionChain) *LevelInfo {
	chains := make([]string, 0, len(eligible))
	for _, chain := range eligible {
		chains = append(chains, chain.Name)
	}
	return &LevelInfo{
		Name:         level.Name,
		Difficulty:   level.Difficulty,
		Rows:         level.Rows,
		Cols:         level.Cols,
		TimeMinutes:  level.TimeMinutes,
		InitialItems: level.InitialItems,
		Chains:       chains,
	}
}

func topScores(entries []leaderboard.Entry) []leaderboard.Entry {
	if len(entries) > topScoresShown {
		entries = entries[:topScoresShown]
	}
	return slices.Clone(entries)
}
