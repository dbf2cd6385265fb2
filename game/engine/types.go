package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Difficulty tags both levels and evolution chains
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"

	// Validation constants
	MinBoardSide = 2
	MaxBoardSide = 12
	MinTime      = 1
	MaxTime      = 60
)

// ErrUnknownDifficulty is returned when a difficulty tag is not one of easy, medium or hard
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Difficulties lists every difficulty in ascending order
var Difficulties = []Difficulty{Easy, Medium, Hard}

// Rank orders difficulties: easy < medium < hard. Unknown tags rank 0.
func (d Difficulty) Rank() int {
	switch d {
	case Easy:
		return 1
	case Medium:
		return 2
	case Hard:
		return 3
	default:
		return 0
	}
}

// Valid reports whether d is a known difficulty
func (d Difficulty) Valid() bool {
	return d.Rank() > 0
}

// Includes reports whether a chain tagged other is eligible in a round of difficulty d
func (d Difficulty) Includes(other Difficulty) bool {
	return other.Valid() && other.Rank() <= d.Rank()
}

// ParseDifficulty normalizes a user supplied difficulty tag
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}

// Level determines board shape, initial population and countdown for a difficulty
type Level struct {
	Name         string     `json:"name"`
	Difficulty   Difficulty `json:"difficulty"`
	Rows         int        `json:"rows"`
	Cols         int        `json:"cols"`
	TimeMinutes  int        `json:"time"`
	InitialItems int        `json:"initial_items"`
}

// Seconds returns the full countdown budget of the level
func (l Level) Seconds() int {
	return l.TimeMinutes * 60
}

// Step is one stage within an evolution chain, numbered from 1
type Step struct {
	Number      int    `json:"step"`
	Name        string `json:"name"`
	Image       string `json:"img"`
	Description string `json:"description,omitempty"`
}

// EvolutionChain is an ordered progression that matched items advance through
type EvolutionChain struct {
	Name       string     `json:"name"`
	Difficulty Difficulty `json:"difficulty"`
	Points     int        `json:"points"`
	Tooltip    string     `json:"tooltip"`
	Steps      []Step     `json:"steps"`
}

// StepCount returns the number of steps in the chain
func (c EvolutionChain) StepCount() int {
	return len(c.Steps)
}

// Item is the runtime value placed on a cell. It is always derived from one
// step of one chain.
type Item struct {
	Name         string     `json:"name"`
	Image        string     `json:"img"`
	ChainName    string     `json:"evolutionName"`
	Difficulty   Difficulty `json:"difficulty"`
	Description  string     `json:"description"`
	TooltipImage string     `json:"tooltipImg"`
	Step         int        `json:"step"`
}

// Position identifies a cell by row and column
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Catalog is the immutable configuration every round is built from
type Catalog struct {
	Levels []Level          `json:"levels"`
	Chains []EvolutionChain `json:"chains"`
}

// Level returns the level configured for a difficulty
func (c *Catalog) Level(d Difficulty) (Level, bool) {
	for _, l := range c.Levels {
		if l.Difficulty == d {
			return l, true
		}
	}
	return Level{}, false
}

// Chain looks up a chain by name
func (c *Catalog) Chain(name string) (EvolutionChain, bool) {
	for _, ch := range c.Chains {
		if ch.Name == name {
			return ch, true
		}
	}
	return EvolutionChain{}, false
}
