package engine

import (
	"fmt"
	"slices"
)

// SelectionState is the match state machine's position
type SelectionState int

const (
	StateIdle SelectionState = iota
	StateOneSelected
	StateResolving
)

func (s SelectionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOneSelected:
		return "oneSelected"
	case StateResolving:
		return "resolving"
	default:
		return "unknown"
	}
}

// Outcome tells the presentation layer what a click did
type Outcome string

const (
	OutcomePlaced         Outcome = "placed"
	OutcomeSelected       Outcome = "selected"
	OutcomeDeselected     Outcome = "deselected"
	OutcomeMatchResolving Outcome = "matchResolving"
	OutcomeNoMatch        Outcome = "noMatch"
	// OutcomeIgnored covers out-of-bounds clicks and clicks refused by the lock
	OutcomeIgnored Outcome = "ignored"
)

// ClickResult describes a single click transition
type ClickResult struct {
	Outcome    Outcome
	Position   Position
	Item       *Item
	Resolution *Resolution
	Rejection  *Rejection
}

// Resolution is a pending match. The first cell advances to Next and the
// second cell is dismissed then backfilled.
type Resolution struct {
	First  Position
	Second Position
	Next   Item
	Final  bool

	advanced  bool
	dismissed bool
}

// Rejection is a pending no-match; both cells are released by Reject
type Rejection struct {
	First  Position
	Second Position
}

// ResolutionUpdate reports what Advance or Dismiss changed
type ResolutionUpdate struct {
	Advanced   bool
	Completed  *EvolutionChain
	Points     int
	Backfilled *Item
	Settled    bool
}

// RoundOption configures a Round
type RoundOption func(*Round)

// WithPlacementWhileLocked controls whether empty-cell clicks are accepted
// while a match or rejection is pending
func WithPlacementWhileLocked(allow bool) RoundOption {
	return func(r *Round) {
		r.allowPlaceWhileLocked = allow
	}
}

// Round is the explicit state of one playthrough: board, scores and the
// selection machine. It is not safe for concurrent use.
type Round struct {
	player   string
	level    Level
	board    *Board
	score    ScoreState
	evo      *Evolution
	eligible []EvolutionChain

	state     SelectionState
	selected  Position
	locked    bool
	pending   *Resolution
	rejection *Rejection

	allowPlaceWhileLocked bool
}

// NewRound creates a fresh round with an empty board and zeroed scores
func NewRound(player string, level Level, evo *Evolution, opts ...RoundOption) *Round {
	r := &Round{
		player:                player,
		level:                 level,
		board:                 NewBoard(level.Rows, level.Cols),
		score:                 NewScoreState(evo.Catalog().Chains),
		evo:                   evo,
		eligible:              evo.EligibleChains(level.Difficulty),
		allowPlaceWhileLocked: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RestoreRound rebuilds a round from a persisted board and score. The board
// must match the level's shape.
func RestoreRound(player string, level Level, evo *Evolution, board *Board, score ScoreState, opts ...RoundOption) (*Round, error) {
	if board == nil {
		return nil, fmt.Errorf("board is required")
	}
	if board.Rows() != level.Rows || board.Cols() != level.Cols {
		return nil, fmt.Errorf("board is %dx%d, level %q expects %dx%d",
			board.Rows(), board.Cols(), level.Name, level.Rows, level.Cols)
	}
	r := NewRound(player, level, evo, opts...)
	r.board = board
	r.score.PlayerScore = score.PlayerScore
	for name, points := range score.ChainScores {
		r.score.ChainScores[name] = points
	}
	return r, nil
}

// Player returns the player's name
func (r *Round) Player() string { return r.player }

// Level returns the round's level
func (r *Round) Level() Level { return r.level }

// Board returns the live board. Callers must not mutate it.
func (r *Round) Board() *Board { return r.board }

// Score returns a copy of the score state
func (r *Round) Score() ScoreState { return r.score.Clone() }

// State returns the selection state
func (r *Round) State() SelectionState { return r.state }

// Locked reports whether a match or rejection is pending
func (r *Round) Locked() bool { return r.locked }

// Selected returns the selected cell while in StateOneSelected
func (r *Round) Selected() (Position, bool) {
	if r.state != StateOneSelected {
		return Position{}, false
	}
	return r.selected, true
}

// Pending returns the in-flight match, if any
func (r *Round) Pending() *Resolution { return r.pending }

// Rejecting returns the in-flight no-match, if any
func (r *Round) Rejecting() *Rejection { return r.rejection }

// Eligible returns the chains items are drawn from this round
func (r *Round) Eligible() []EvolutionChain { return r.eligible }

// HasEmptyCell reports whether any cell is unoccupied
func (r *Round) HasEmptyCell() bool {
	for range r.board.EmptyCells() {
		return true
	}
	return false
}

// Populate places up to n random step-1 items on distinct random empty
// cells and returns how many were placed
func (r *Round) Populate(n int) int {
	empty := slices.Collect(r.board.EmptyCells())
	placed := 0
	for placed < n && len(empty) > 0 {
		i := r.evo.intn(len(empty))
		pos := empty[i]
		empty = slices.Delete(empty, i, i+1)
		if _, ok := r.placeRandom(pos); ok {
			placed++
		}
	}
	return placed
}

// DrawRandom places a random step-1 item on a uniformly random empty cell
func (r *Round) DrawRandom() ClickResult {
	empty := slices.Collect(r.board.EmptyCells())
	if len(empty) == 0 {
		return ClickResult{Outcome: OutcomeIgnored}
	}
	return r.placeAt(empty[r.evo.intn(len(empty))])
}

// Click drives the selection machine with a click on pos
func (r *Round) Click(pos Position) ClickResult {
	if !r.board.InBounds(pos) {
		return ClickResult{Outcome: OutcomeIgnored, Position: pos}
	}

	if r.board.IsEmpty(pos) {
		return r.placeAt(pos)
	}

	if r.locked {
		return ClickResult{Outcome: OutcomeIgnored, Position: pos}
	}

	clicked, _ := r.board.At(pos)

	if r.state == StateIdle {
		r.state = StateOneSelected
		r.selected = pos
		return ClickResult{Outcome: OutcomeSelected, Position: pos, Item: &clicked}
	}

	// StateOneSelected
	if pos == r.selected {
		r.resetSelection()
		return ClickResult{Outcome: OutcomeDeselected, Position: pos, Item: &clicked}
	}

	first, ok := r.board.At(r.selected)
	if !ok {
		// Guard: the selected cell was emptied outside the match machine
		// (Board is exported), so the new cell becomes the selection.
		r.selected = pos
		return ClickResult{Outcome: OutcomeSelected, Position: pos, Item: &clicked}
	}

	if first.Name != clicked.Name {
		rej := &Rejection{First: r.selected, Second: pos}
		r.state = StateResolving
		r.locked = true
		r.rejection = rej
		return ClickResult{Outcome: OutcomeNoMatch, Position: pos, Item: &clicked, Rejection: rej}
	}

	next, ok := r.evo.NextStep(first)
	if !ok {
		// Two terminal items have no next step; abort without touching the board
		r.resetSelection()
		return ClickResult{Outcome: OutcomeDeselected, Position: pos, Item: &clicked}
	}

	res := &Resolution{
		First:  r.selected,
		Second: pos,
		Next:   next,
		Final:  r.evo.IsFinalStep(next.ChainName, next.Step),
	}
	r.state = StateResolving
	r.locked = true
	r.pending = res
	return ClickResult{Outcome: OutcomeMatchResolving, Position: pos, Item: &clicked, Resolution: res}
}

// Advance applies the first half of a match: the first cell becomes the next
// step and, when that step is terminal, the chain's points are awarded. It
// is a no-op for a stale or already advanced resolution.
func (r *Round) Advance(res *Resolution) ResolutionUpdate {
	if res == nil || res != r.pending || res.advanced {
		return ResolutionUpdate{}
	}

	update := ResolutionUpdate{Advanced: true}
	r.board.Replace(res.First, res.Next)
	res.advanced = true

	if res.Final {
		if chain, ok := r.evo.Chain(res.Next.ChainName); ok {
			update.Points = r.score.Award(chain)
			update.Completed = &chain
		}
	}

	update.Settled = r.settle()
	return update
}

// Dismiss clears the second cell and backfills it with a new step-1 item.
// A resolution that has not advanced yet is advanced first so any award
// lands before the backfill.
func (r *Round) Dismiss(res *Resolution) ResolutionUpdate {
	if res == nil || res != r.pending || res.dismissed {
		return ResolutionUpdate{}
	}

	var update ResolutionUpdate
	if !res.advanced {
		update = r.Advance(res)
	}

	r.board.Clear(res.Second)
	if item, ok := r.placeRandom(res.Second); ok {
		update.Backfilled = &item
	}
	res.dismissed = true

	update.Settled = r.settle()
	return update
}

// Reject releases both cells of a no-match and returns to idle
func (r *Round) Reject(rej *Rejection) bool {
	if rej == nil || rej != r.rejection {
		return false
	}
	r.rejection = nil
	r.resetSelection()
	return true
}

func (r *Round) settle() bool {
	res := r.pending
	if res == nil || !res.advanced || !res.dismissed {
		return false
	}
	r.pending = nil
	r.resetSelection()
	return true
}

func (r *Round) resetSelection() {
	r.state = StateIdle
	r.selected = Position{}
	r.locked = false
}

func (r *Round) placeAt(pos Position) ClickResult {
	if r.locked && !r.allowPlaceWhileLocked {
		return ClickResult{Outcome: OutcomeIgnored, Position: pos}
	}
	item, ok := r.placeRandom(pos)
	if !ok {
		return ClickResult{Outcome: OutcomeIgnored, Position: pos}
	}
	return ClickResult{Outcome: OutcomePlaced, Position: pos, Item: &item}
}

func (r *Round) placeRandom(pos Position) (Item, bool) {
	item, ok := r.evo.FirstStepItemFor(r.eligible)
	if !ok {
		return Item{}, false
	}
	if !r.board.Place(pos, item) {
		return Item{}, false
	}
	return item, true
}
