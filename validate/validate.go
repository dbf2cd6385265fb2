// Package validate checks a catalog directory (levels.json and chains.json)
// before it is served. It reports:
//   - JSON structure and required fields
//   - Board size, time limit and initial population of every level
//   - Step numbering and unique step names within each chain
//   - Step names shared between chains (they would merge into each other)
//   - One level per difficulty
//   - Coverage: every level has eligible chains and every chain is eligible in some level
package validate

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/evolution-merge-game/game/config"
	"github.com/wricardo/evolution-merge-game/game/engine"
)

// Result captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type Result struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *Result) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) info(format string, args ...any) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// Dir validates levels.json and chains.json in dir, then their coverage
func Dir(dir string) []Result {
	levels, levelsResult := Levels(filepath.Join(dir, config.LevelsFile))
	chains, chainsResult := Chains(filepath.Join(dir, config.ChainsFile))
	results := []Result{levelsResult, chainsResult}

	if levelsResult.Valid && chainsResult.Valid {
		results = append(results, Coverage(&engine.Catalog{Levels: levels, Chains: chains}))
	}
	return results
}

// Levels loads and validates a levels file
func Levels(path string) ([]engine.Level, Result) {
	result := Result{File: filepath.Base(path), Valid: true, Errors: []string{}}

	var levels []engine.Level
	if !readJSON(path, &levels, &result) {
		return nil, result
	}

	if len(levels) == 0 {
		result.fail("At least one level is required")
	}

	seen := make(map[engine.Difficulty]string)
	for i, level := range levels {
		if err := engine.ValidateLevel(level); err != nil {
			result.fail("Level %d (%s): %v", i+1, level.Name, err)
			continue
		}
		if other, ok := seen[level.Difficulty]; ok {
			result.fail("Levels %q and %q share difficulty %s", other, level.Name, level.Difficulty)
			continue
		}
		seen[level.Difficulty] = level.Name
	}

	for _, d := range engine.Difficulties {
		if _, ok := seen[d]; !ok {
			result.fail("Missing level for difficulty %s", d)
		}
	}

	if result.Valid {
		for _, level := range levels {
			result.info("%s (%s): %dx%d, %d min, %d initial items",
				level.Name, level.Difficulty, level.Rows, level.Cols, level.TimeMinutes, level.InitialItems)
		}
	}
	return levels, result
}

// Chains loads and validates a chains file
func Chains(path string) ([]engine.EvolutionChain, Result) {
	result := Result{File: filepath.Base(path), Valid: true, Errors: []string{}}

	var chains []engine.EvolutionChain
	if !readJSON(path, &chains, &result) {
		return nil, result
	}

	if len(chains) == 0 {
		result.fail("At least one chain is required")
	}

	chainNames := make(map[string]bool)
	stepOwner := make(map[string]string)
	for _, chain := range chains {
		if err := engine.ValidateChain(chain); err != nil {
			result.fail("%v", err)
			continue
		}
		if chainNames[chain.Name] {
			result.fail("Duplicate chain %q", chain.Name)
			continue
		}
		chainNames[chain.Name] = true

		for _, step := range chain.Steps {
			if owner, ok := stepOwner[step.Name]; ok {
				result.fail("Step %q appears in chains %q and %q", step.Name, owner, chain.Name)
				continue
			}
			stepOwner[step.Name] = chain.Name
			if step.Image == "" {
				result.Errors = append(result.Errors, fmt.Sprintf("Warning: step %q of %q has no image", step.Name, chain.Name))
			}
		}
	}

	if result.Valid {
		for _, chain := range chains {
			result.info("%s (%s, %d pts): %d steps", chain.Name, chain.Difficulty, chain.Points, chain.StepCount())
		}
	}
	return chains, result
}

// Coverage ensures every level can draw items and every chain can appear in
// at least one level. Chains are eligible in levels of their difficulty or harder.
func Coverage(catalog *engine.Catalog) Result {
	result := Result{File: "coverage", Valid: true, Errors: []string{}}

	for _, level := range catalog.Levels {
		var eligible []string
		for _, chain := range catalog.Chains {
			if level.Difficulty.Includes(chain.Difficulty) {
				eligible = append(eligible, chain.Name)
			}
		}
		if len(eligible) == 0 {
			result.fail("Level %q has no eligible chains", level.Name)
			continue
		}
		result.info("%s draws from %d chains: %s", level.Name, len(eligible), strings.Join(eligible, ", "))
	}

	unreachable := []string{}
	for _, chain := range catalog.Chains {
		reachable := false
		for _, level := range catalog.Levels {
			if level.Difficulty.Includes(chain.Difficulty) {
				reachable = true
				break
			}
		}
		if !reachable {
			unreachable = append(unreachable, fmt.Sprintf("%s (%s)", chain.Name, chain.Difficulty))
		}
	}

	if len(unreachable) > 0 {
		result.fail("Coverage failure: %d/%d chains are not eligible in any level", len(unreachable), len(catalog.Chains))
		for _, chain := range unreachable {
			result.fail("Unreachable: %s", chain)
		}
	}

	return result
}

// Report prints a concise report and returns true when every result is valid
func Report(w io.Writer, results []Result) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Fprintln(w, "  ❌ "+err)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ Catalog is valid!")
	} else {
		fmt.Fprintln(w, "❌ Catalog has errors")
	}
	return allValid
}

func readJSON(path string, target any, result *Result) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		result.fail("Invalid JSON: %v", err)
		return false
	}
	return true
}
