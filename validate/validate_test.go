package validate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/evolution-merge-game/game/config"
	"github.com/wricardo/evolution-merge-game/game/engine"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func hasError(result Result, substr string) bool {
	for _, e := range result.Errors {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestDir_DefaultCatalog(t *testing.T) {
	catalog, err := config.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog failed: %v", err)
	}
	dir := t.TempDir()
	if err := config.SaveCatalog(dir, catalog); err != nil {
		t.Fatalf("SaveCatalog failed: %v", err)
	}

	results := Dir(dir)
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	for _, result := range results {
		if !result.Valid {
			t.Errorf("%s should be valid, got errors: %v", result.File, result.Errors)
		}
	}

	var out bytes.Buffer
	if !Report(&out, results) {
		t.Error("Report should succeed for the default catalog")
	}
	if !strings.Contains(out.String(), "Catalog is valid") {
		t.Errorf("Unexpected report:\n%s", out.String())
	}
}

func TestLevels_InvalidJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "levels.json", `[{"name": "Easy",`)

	_, result := Levels(path)
	if result.Valid {
		t.Error("Expected invalid result")
	}
	if !hasError(result, "Invalid JSON") {
		t.Errorf("Expected JSON error, got %v", result.Errors)
	}
}

func TestLevels_MissingFile(t *testing.T) {
	_, result := Levels(filepath.Join(t.TempDir(), "levels.json"))
	if result.Valid || !hasError(result, "Failed to read file") {
		t.Errorf("Expected read error, got %v", result.Errors)
	}
}

func TestLevels_Errors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "levels.json", `[
		{"name": "Easy", "difficulty": "easy", "rows": 4, "cols": 4, "time": 3, "initial_items": 4},
		{"name": "Also Easy", "difficulty": "easy", "rows": 4, "cols": 4, "time": 3, "initial_items": 4},
		{"name": "Huge", "difficulty": "hard", "rows": 40, "cols": 4, "time": 3, "initial_items": 4}
	]`)

	_, result := Levels(path)
	if result.Valid {
		t.Fatal("Expected invalid result")
	}
	for _, want := range []string{"share difficulty easy", "rows must be between", "Missing level for difficulty medium"} {
		if !hasError(result, want) {
			t.Errorf("Expected %q in %v", want, result.Errors)
		}
	}
}

func TestChains_SharedStepName(t *testing.T) {
	path := writeFile(t, t.TempDir(), "chains.json", `[
		{"name": "Tide", "difficulty": "easy", "points": 10, "steps": [
			{"step": 1, "name": "Drop", "img": "drop.png"}, {"step": 2, "name": "Wave", "img": "wave.png"}]},
		{"name": "Rain", "difficulty": "medium", "points": 20, "steps": [
			{"step": 1, "name": "Drop", "img": "drop.png"}, {"step": 2, "name": "Storm"}]}
	]`)

	_, result := Chains(path)
	if result.Valid {
		t.Fatal("Expected invalid result")
	}
	if !hasError(result, `Step "Drop" appears in chains "Tide" and "Rain"`) {
		t.Errorf("Expected shared step error, got %v", result.Errors)
	}
	if !hasError(result, `Warning: step "Storm"`) {
		t.Errorf("Expected missing image warning, got %v", result.Errors)
	}
}

func TestChains_BadNumbering(t *testing.T) {
	path := writeFile(t, t.TempDir(), "chains.json", `[
		{"name": "Fire", "difficulty": "easy", "points": 10, "steps": [
			{"step": 1, "name": "Spark"}, {"step": 3, "name": "Blaze"}]}
	]`)

	_, result := Chains(path)
	if result.Valid || !hasError(result, "must be numbered 2") {
		t.Errorf("Expected numbering error, got %v", result.Errors)
	}
}

func TestCoverage(t *testing.T) {
	steps := []engine.Step{{Number: 1, Name: "A"}, {Number: 2, Name: "B"}}

	t.Run("unreachable chain", func(t *testing.T) {
		result := Coverage(&engine.Catalog{
			Levels: []engine.Level{{Name: "Easy", Difficulty: engine.Easy}},
			Chains: []engine.EvolutionChain{
				{Name: "Tide", Difficulty: engine.Easy, Steps: steps},
				{Name: "Storm", Difficulty: engine.Hard, Steps: steps},
			},
		})
		if result.Valid {
			t.Fatal("Expected invalid result")
		}
		if !hasError(result, "Unreachable: Storm (hard)") {
			t.Errorf("Expected unreachable chain, got %v", result.Errors)
		}
	})

	t.Run("level without chains", func(t *testing.T) {
		result := Coverage(&engine.Catalog{
			Levels: []engine.Level{{Name: "Easy", Difficulty: engine.Easy}, {Name: "Hard", Difficulty: engine.Hard}},
			Chains: []engine.EvolutionChain{{Name: "Storm", Difficulty: engine.Hard, Steps: steps}},
		})
		if result.Valid || !hasError(result, `Level "Easy" has no eligible chains`) {
			t.Errorf("Expected empty level error, got %v", result.Errors)
		}
	})

	t.Run("hard level includes easier chains", func(t *testing.T) {
		result := Coverage(&engine.Catalog{
			Levels: []engine.Level{{Name: "Hard", Difficulty: engine.Hard}},
			Chains: []engine.EvolutionChain{{Name: "Tide", Difficulty: engine.Easy, Steps: steps}},
		})
		if !result.Valid {
			t.Errorf("Expected valid result, got %v", result.Errors)
		}
	})
}

func TestReport_Invalid(t *testing.T) {
	var out bytes.Buffer
	ok := Report(&out, []Result{{File: "levels.json", Valid: false, Errors: []string{"Missing level for difficulty hard"}}})
	if ok {
		t.Error("Report should fail")
	}
	if !strings.Contains(out.String(), "❌ Missing level for difficulty hard") {
		t.Errorf("Unexpected report:\n%s", out.String())
	}
}
