package engine

import "testing"

func TestEligibleChains(t *testing.T) {
	evo := NewEvolution(createTestCatalog(), zeroSource())

	tests := []struct {
		difficulty Difficulty
		want       []string
	}{
		{Easy, []string{"Fire", "Stone"}},
		{Medium, []string{"Fire", "Stone", "Plant"}},
		{Hard, []string{"Fire", "Stone", "Plant", "Water"}},
		{Difficulty("legendary"), nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.difficulty), func(t *testing.T) {
			got := evo.EligibleChains(tt.difficulty)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d chains, got %d", len(tt.want), len(got))
			}
			for i, chain := range got {
				if chain.Name != tt.want[i] {
					t.Errorf("chain %d = %s, want %s", i, chain.Name, tt.want[i])
				}
			}
		})
	}
}

func TestFirstStepItemFor(t *testing.T) {
	catalog := createTestCatalog()

	t.Run("empty eligible set", func(t *testing.T) {
		evo := NewEvolution(catalog, zeroSource())
		if _, ok := evo.FirstStepItemFor(nil); ok {
			t.Error("expected none for empty eligible set")
		}
	})

	t.Run("picks from the eligible set", func(t *testing.T) {
		evo := NewEvolution(catalog, &seqSource{vals: []int{1}})
		item, ok := evo.FirstStepItemFor(evo.EligibleChains(Easy))
		if !ok {
			t.Fatal("expected an item")
		}
		if item.ChainName != "Stone" || item.Step != 1 || item.Name != "Pebble" {
			t.Errorf("unexpected item %+v", item)
		}
		if item.TooltipImage != "stone.png" || item.Difficulty != Easy {
			t.Errorf("item did not inherit chain data: %+v", item)
		}
	})

	t.Run("seeded draws stay within eligibility", func(t *testing.T) {
		evo := NewEvolution(catalog, NewSeededSource(7))
		eligible := evo.EligibleChains(Medium)
		for i := 0; i < 200; i++ {
			item, ok := evo.FirstStepItemFor(eligible)
			if !ok {
				t.Fatal("expected an item")
			}
			if item.Step != 1 || !Medium.Includes(item.Difficulty) {
				t.Fatalf("draw %d produced %+v", i, item)
			}
		}
	})
}

func TestNextStepWalksEveryChain(t *testing.T) {
	catalog := createTestCatalog()
	evo := NewEvolution(catalog, zeroSource())

	for _, chain := range catalog.Chains {
		t.Run(chain.Name, func(t *testing.T) {
			item := ItemFor(chain, chain.Steps[0])
			for i := 0; i < chain.StepCount()-1; i++ {
				next, ok := evo.NextStep(item)
				if !ok {
					t.Fatalf("advance %d returned none", i+1)
				}
				if next.Step != item.Step+1 || next.ChainName != chain.Name {
					t.Fatalf("advance %d produced %+v", i+1, next)
				}
				item = next
			}

			if !evo.IsFinalStep(chain.Name, item.Step) {
				t.Errorf("step %d should be final", item.Step)
			}
			if _, ok := evo.NextStep(item); ok {
				t.Error("expected none past the terminal step")
			}
		})
	}
}

func TestNextStepUnknownChain(t *testing.T) {
	evo := NewEvolution(createTestCatalog(), zeroSource())
	if _, ok := evo.NextStep(Item{Name: "Ghost", ChainName: "Spirit", Step: 1}); ok {
		t.Error("expected none for an unknown chain")
	}
	if evo.IsFinalStep("Spirit", 1) {
		t.Error("unknown chain has no final step")
	}
}

func TestItemDescriptionFallback(t *testing.T) {
	catalog := createTestCatalog()
	fire, _ := catalog.Chain("Fire")

	if got := ItemFor(fire, fire.Steps[0]).Description; got != "Spark - Step 1 of Fire" {
		t.Errorf("unexpected synthesized description %q", got)
	}
	if got := ItemFor(fire, fire.Steps[1]).Description; got != "A steady flame" {
		t.Errorf("configured description not kept: %q", got)
	}
}

func TestScoreState(t *testing.T) {
	catalog := createTestCatalog()
	score := NewScoreState(catalog.Chains)

	if len(score.ChainScores) != len(catalog.Chains) {
		t.Fatalf("expected %d chain scores, got %d", len(catalog.Chains), len(score.ChainScores))
	}
	for name, points := range score.ChainScores {
		if points != 0 {
			t.Errorf("chain %s starts at %d", name, points)
		}
	}

	plant, _ := catalog.Chain("Plant")
	if got := score.Award(plant); got != 25 {
		t.Errorf("Award returned %d", got)
	}
	clone := score.Clone()
	score.Award(plant)

	if score.PlayerScore != 50 || score.ChainScores["Plant"] != 50 {
		t.Errorf("unexpected score %+v", score)
	}
	if clone.PlayerScore != 25 || clone.ChainScores["Plant"] != 25 {
		t.Errorf("clone shares state: %+v", clone)
	}
}
