package bot

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/evolution-merge-game/game/service"
)

const (
	DefaultMoveDelay   = 300 * time.Millisecond
	DefaultSettleDelay = 100 * time.Millisecond
)

// Bot plays the active round of a GameService until it ends
type Bot struct {
	service  service.GameService
	strategy *Strategy
	logger   *zap.Logger

	moveDelay   time.Duration
	settleDelay time.Duration
	maxActions  int
	pause       func(ctx context.Context, d time.Duration) error
}

// Option configures a Bot
type Option func(*Bot)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(b *Bot) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithDelays sets the pause after each move and while the board is locked
func WithDelays(move, settle time.Duration) Option {
	return func(b *Bot) {
		b.moveDelay = move
		b.settleDelay = settle
	}
}

// WithMaxActions stops the bot after n actions. Zero means no limit.
func WithMaxActions(n int) Option {
	return func(b *Bot) {
		b.maxActions = n
	}
}

// WithPause replaces the function used to wait between actions
func WithPause(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(b *Bot) {
		b.pause = fn
	}
}

// New creates a bot that drives gameService with strategy
func New(gameService service.GameService, strategy *Strategy, opts ...Option) *Bot {
	b := &Bot{
		service:     gameService,
		strategy:    strategy,
		logger:      zap.NewNop(),
		moveDelay:   DefaultMoveDelay,
		settleDelay: DefaultSettleDelay,
		pause:       sleep,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Play acts on the active round until it ends, the action limit is reached
// or ctx is cancelled. It returns the last observed round.
func (b *Bot) Play(ctx context.Context) (*service.RoundInfo, error) {
	var round *service.RoundInfo
	for actions := 0; b.maxActions == 0 || actions < b.maxActions; actions++ {
		var err error
		round, err = b.service.GetRound(ctx)
		if err != nil {
			return round, err
		}

		action := b.strategy.Next(round)
		b.logger.Debug("Bot action",
			zap.String("kind", string(action.Kind)),
			zap.String("reason", action.Reason))

		delay := b.moveDelay
		switch action.Kind {
		case ActionStop:
			return round, nil
		case ActionWait:
			delay = b.settleDelay
		case ActionDraw:
			if _, err := b.service.Draw(ctx); err != nil {
				return b.finish(ctx, round, err)
			}
		case ActionClick:
			for _, pos := range action.Clicks {
				if _, err := b.service.Click(ctx, pos.Row, pos.Col); err != nil {
					return b.finish(ctx, round, err)
				}
			}
		}

		if err := b.pause(ctx, delay); err != nil {
			return round, err
		}
	}
	return round, nil
}

// finish treats a round that ended between planning and acting as done
func (b *Bot) finish(ctx context.Context, round *service.RoundInfo, err error) (*service.RoundInfo, error) {
	if errors.Is(err, service.ErrRoundOver) {
		return b.service.GetRound(ctx)
	}
	return round, err
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
