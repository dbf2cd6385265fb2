package bot

import (
	"fmt"
	"sort"

	"github.com/wricardo/evolution-merge-game/game/engine"
	"github.com/wricardo/evolution-merge-game/game/service"
)

// ActionKind is what the bot does next
type ActionKind string

const (
	ActionClick ActionKind = "click"
	ActionDraw  ActionKind = "draw"
	ActionWait  ActionKind = "wait"
	ActionStop  ActionKind = "stop"
)

// Action is one planned step. Clicks are applied in order.
type Action struct {
	Kind   ActionKind
	Clicks []engine.Position
	Reason string
}

// Strategy picks merges greedily: pairs that complete a chain first, then
// pairs further along their chain, then pairs from higher scoring chains.
// With no pair on the board it draws a new item into an empty cell.
type Strategy struct {
	catalog *engine.Catalog
}

// NewStrategy creates a strategy for rounds built from catalog
func NewStrategy(catalog *engine.Catalog) *Strategy {
	return &Strategy{catalog: catalog}
}

type candidate struct {
	first, second engine.Position
	completes     bool
	step          int
	points        int
}

// Next plans the next action for a round
func (s *Strategy) Next(round *service.RoundInfo) Action {
	if round == nil || round.Ended {
		return Action{Kind: ActionStop, Reason: "round is over"}
	}
	if round.Locked {
		return Action{Kind: ActionWait, Reason: "waiting for the board to settle"}
	}

	if round.Selected != nil {
		selected := itemAt(round, *round.Selected)
		if selected != nil && s.mergeable(selected) {
			if partner, ok := s.partnerFor(round, *round.Selected, selected); ok {
				return Action{
					Kind:   ActionClick,
					Clicks: []engine.Position{partner},
					Reason: fmt.Sprintf("merge selected %s with %s", selected.Name, partner),
				}
			}
		}
		return Action{
			Kind:   ActionClick,
			Clicks: []engine.Position{*round.Selected},
			Reason: "release selection without a partner",
		}
	}

	if pairs := s.candidates(round); len(pairs) > 0 {
		best := pairs[0]
		item := itemAt(round, best.first)
		return Action{
			Kind:   ActionClick,
			Clicks: []engine.Position{best.first, best.second},
			Reason: fmt.Sprintf("merge %s at %s and %s", item.Name, best.first, best.second),
		}
	}

	if hasEmptyCell(round) {
		return Action{Kind: ActionDraw, Reason: "no pairs, drawing a new item"}
	}

	return Action{Kind: ActionWait, Reason: "board is full with no pairs"}
}

// candidates returns every mergeable pair, best first. Each item name
// contributes its first two cells in reading order.
func (s *Strategy) candidates(round *service.RoundInfo) []candidate {
	firstSeen := make(map[string]engine.Position)
	var pairs []candidate

	for row, items := range round.Board {
		for col, item := range items {
			if item == nil || !s.mergeable(item) {
				continue
			}
			pos := engine.Position{Row: row, Col: col}
			first, ok := firstSeen[item.Name]
			if !ok {
				firstSeen[item.Name] = pos
				continue
			}
			if first.Row < 0 {
				continue
			}
			chain, _ := s.catalog.Chain(item.ChainName)
			pairs = append(pairs, candidate{
				first:     first,
				second:    pos,
				completes: item.Step+1 == chain.StepCount(),
				step:      item.Step,
				points:    chain.Points,
			})
			// One pair per name
			firstSeen[item.Name] = engine.Position{Row: -1, Col: -1}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		a, b := pairs[i], pairs[j]
		if a.completes != b.completes {
			return a.completes
		}
		if a.step != b.step {
			return a.step > b.step
		}
		return a.points > b.points
	})
	return pairs
}

func (s *Strategy) partnerFor(round *service.RoundInfo, selected engine.Position, item *engine.Item) (engine.Position, bool) {
	for row, items := range round.Board {
		for col, other := range items {
			pos := engine.Position{Row: row, Col: col}
			if pos != selected && other != nil && other.Name == item.Name {
				return pos, true
			}
		}
	}
	return engine.Position{}, false
}

// mergeable reports whether an item can still advance. Final-step items
// only abort when matched.
func (s *Strategy) mergeable(item *engine.Item) bool {
	chain, ok := s.catalog.Chain(item.ChainName)
	if !ok {
		return false
	}
	return item.Step < chain.StepCount()
}

func itemAt(round *service.RoundInfo, pos engine.Position) *engine.Item {
	if pos.Row < 0 || pos.Row >= len(round.Board) || pos.Col < 0 || pos.Col >= len(round.Board[pos.Row]) {
		return nil
	}
	return round.Board[pos.Row][pos.Col]
}

func hasEmptyCell(round *service.RoundInfo) bool {
	for _, items := range round.Board {
		for _, item := range items {
			if item == nil {
				return true
			}
		}
	}
	return false
}
