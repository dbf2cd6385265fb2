package engine

import (
	"fmt"
	"math/rand/v2"
)

// IntNSource is the randomness the engine draws from. *rand.Rand satisfies it.
type IntNSource interface {
	IntN(n int) int
}

// NewSeededSource returns a deterministic source for reproducible rounds
func NewSeededSource(seed uint64) IntNSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomSource returns a source seeded from the runtime's entropy
func NewRandomSource() IntNSource {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Evolution computes first-step draws and next-step advances over a catalog.
// It does not touch the board.
type Evolution struct {
	catalog *Catalog
	rng     IntNSource
}

// NewEvolution creates an evolution engine. A nil rng uses NewRandomSource.
func NewEvolution(catalog *Catalog, rng IntNSource) *Evolution {
	if rng == nil {
		rng = NewRandomSource()
	}
	return &Evolution{catalog: catalog, rng: rng}
}

// Catalog returns the catalog the engine was built from
func (e *Evolution) Catalog() *Catalog {
	return e.catalog
}

// EligibleChains returns every chain whose difficulty is at or below d
func (e *Evolution) EligibleChains(d Difficulty) []EvolutionChain {
	var eligible []EvolutionChain
	for _, chain := range e.catalog.Chains {
		if d.Includes(chain.Difficulty) {
			eligible = append(eligible, chain)
		}
	}
	return eligible
}

// FirstStepItemFor picks one chain uniformly from eligible and returns its
// step-1 item. It reports false when eligible is empty.
func (e *Evolution) FirstStepItemFor(eligible []EvolutionChain) (Item, bool) {
	if len(eligible) == 0 {
		return Item{}, false
	}
	chain := eligible[e.rng.IntN(len(eligible))]
	if len(chain.Steps) == 0 {
		return Item{}, false
	}
	return ItemFor(chain, chain.Steps[0]), true
}

// NextStep returns the item one step further along item's chain. It reports
// false when the item is already terminal or its chain is unknown.
func (e *Evolution) NextStep(item Item) (Item, bool) {
	chain, ok := e.catalog.Chain(item.ChainName)
	if !ok {
		return Item{}, false
	}
	for i, step := range chain.Steps {
		if step.Number != item.Step {
			continue
		}
		if i+1 >= len(chain.Steps) {
			return Item{}, false
		}
		return ItemFor(chain, chain.Steps[i+1]), true
	}
	return Item{}, false
}

// IsFinalStep reports whether step is the last step of the named chain
func (e *Evolution) IsFinalStep(chainName string, step int) bool {
	chain, ok := e.catalog.Chain(chainName)
	if !ok {
		return false
	}
	return step == chain.StepCount()
}

// Chain looks up a chain by name
func (e *Evolution) Chain(name string) (EvolutionChain, bool) {
	return e.catalog.Chain(name)
}

func (e *Evolution) intn(n int) int {
	return e.rng.IntN(n)
}

// ItemFor builds the runtime item for one step of a chain
func ItemFor(chain EvolutionChain, step Step) Item {
	description := step.Description
	if description == "" {
		description = fmt.Sprintf("%s - Step %d of %s", step.Name, step.Number, chain.Name)
	}
	return Item{
		Name:         step.Name,
		Image:        step.Image,
		ChainName:    chain.Name,
		Difficulty:   chain.Difficulty,
		Description:  description,
		TooltipImage: chain.Tooltip,
		Step:         step.Number,
	}
}
