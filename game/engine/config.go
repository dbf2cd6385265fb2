package engine

import (
	"fmt"
)

// ValidateCatalog validates a catalog for correctness and playability
func ValidateCatalog(catalog *Catalog) error {
	if catalog == nil {
		return fmt.Errorf("catalog validation: catalog is required")
	}
	if len(catalog.Levels) == 0 {
		return fmt.Errorf("catalog validation: at least one level is required")
	}
	if len(catalog.Chains) == 0 {
		return fmt.Errorf("catalog validation: at least one chain is required")
	}

	seenLevels := make(map[Difficulty]bool)
	for i, level := range catalog.Levels {
		if err := ValidateLevel(level); err != nil {
			return fmt.Errorf("catalog validation: level %d: %w", i+1, err)
		}
		if seenLevels[level.Difficulty] {
			return fmt.Errorf("catalog validation: duplicate level for difficulty %q", level.Difficulty)
		}
		seenLevels[level.Difficulty] = true
	}

	seenChains := make(map[string]bool)
	for _, chain := range catalog.Chains {
		if err := ValidateChain(chain); err != nil {
			return fmt.Errorf("catalog validation: %w", err)
		}
		if seenChains[chain.Name] {
			return fmt.Errorf("catalog validation: duplicate chain %q", chain.Name)
		}
		seenChains[chain.Name] = true
	}

	// Every configured level needs at least one eligible chain to draw from
	for _, level := range catalog.Levels {
		eligible := 0
		for _, chain := range catalog.Chains {
			if level.Difficulty.Includes(chain.Difficulty) {
				eligible++
			}
		}
		if eligible == 0 {
			return fmt.Errorf("catalog validation: level %q has no eligible chains", level.Name)
		}
	}

	return nil
}

// ValidateLevel checks a single level definition
func ValidateLevel(level Level) error {
	if level.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !level.Difficulty.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDifficulty, level.Difficulty)
	}
	if level.Rows < MinBoardSide || level.Rows > MaxBoardSide {
		return fmt.Errorf("rows must be between %d and %d, got %d", MinBoardSide, MaxBoardSide, level.Rows)
	}
	if level.Cols < MinBoardSide || level.Cols > MaxBoardSide {
		return fmt.Errorf("cols must be between %d and %d, got %d", MinBoardSide, MaxBoardSide, level.Cols)
	}
	if level.TimeMinutes < MinTime || level.TimeMinutes > MaxTime {
		return fmt.Errorf("time must be between %d and %d minutes, got %d", MinTime, MaxTime, level.TimeMinutes)
	}
	if level.InitialItems < 0 || level.InitialItems > level.Rows*level.Cols {
		return fmt.Errorf("initial_items must be between 0 and %d, got %d", level.Rows*level.Cols, level.InitialItems)
	}
	return nil
}

// ValidateChain checks step ordering: steps start at 1 and increase by one with no gaps
func ValidateChain(chain EvolutionChain) error {
	if chain.Name == "" {
		return fmt.Errorf("chain name is required")
	}
	if !chain.Difficulty.Valid() {
		return fmt.Errorf("chain %q: %w: %q", chain.Name, ErrUnknownDifficulty, chain.Difficulty)
	}
	if chain.Points <= 0 {
		return fmt.Errorf("chain %q: points must be positive, got %d", chain.Name, chain.Points)
	}
	if len(chain.Steps) < 2 {
		return fmt.Errorf("chain %q: at least 2 steps are required, got %d", chain.Name, len(chain.Steps))
	}

	names := make(map[string]bool)
	for i, step := range chain.Steps {
		if step.Number != i+1 {
			return fmt.Errorf("chain %q: step %d must be numbered %d, got %d", chain.Name, i+1, i+1, step.Number)
		}
		if step.Name == "" {
			return fmt.Errorf("chain %q: step %d name is required", chain.Name, step.Number)
		}
		// Matching compares names, so a repeated name would let two different steps fuse
		if names[step.Name] {
			return fmt.Errorf("chain %q: duplicate step name %q", chain.Name, step.Name)
		}
		names[step.Name] = true
	}
	return nil
}
