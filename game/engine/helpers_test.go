package engine

// seqSource replays a fixed sequence of picks, each reduced modulo n
type seqSource struct {
	vals []int
	i    int
}

func (s *seqSource) IntN(n int) int {
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func zeroSource() *seqSource {
	return &seqSource{vals: []int{0}}
}

func createTestCatalog() *Catalog {
	return &Catalog{
		Levels: []Level{
			{Name: "Easy", Difficulty: Easy, Rows: 4, Cols: 4, TimeMinutes: 3, InitialItems: 4},
			{Name: "Medium", Difficulty: Medium, Rows: 5, Cols: 5, TimeMinutes: 4, InitialItems: 6},
			{Name: "Hard", Difficulty: Hard, Rows: 6, Cols: 6, TimeMinutes: 5, InitialItems: 8},
		},
		Chains: []EvolutionChain{
			{
				Name: "Fire", Difficulty: Easy, Points: 10, Tooltip: "fire.png",
				Steps: []Step{
					{Number: 1, Name: "Spark", Image: "spark.png"},
					{Number: 2, Name: "Flame", Image: "flame.png", Description: "A steady flame"},
					{Number: 3, Name: "Blaze", Image: "blaze.png"},
				},
			},
			{
				Name: "Stone", Difficulty: Easy, Points: 10, Tooltip: "stone.png",
				Steps: []Step{
					{Number: 1, Name: "Pebble", Image: "pebble.png"},
					{Number: 2, Name: "Boulder", Image: "boulder.png"},
				},
			},
			{
				Name: "Plant", Difficulty: Medium, Points: 25, Tooltip: "plant.png",
				Steps: []Step{
					{Number: 1, Name: "Seed", Image: "seed.png"},
					{Number: 2, Name: "Sprout", Image: "sprout.png"},
					{Number: 3, Name: "Tree", Image: "tree.png"},
				},
			},
			{
				Name: "Water", Difficulty: Hard, Points: 50, Tooltip: "water.png",
				Steps: []Step{
					{Number: 1, Name: "Drop", Image: "drop.png"},
					{Number: 2, Name: "Puddle", Image: "puddle.png"},
					{Number: 3, Name: "Lake", Image: "lake.png"},
					{Number: 4, Name: "Ocean", Image: "ocean.png"},
				},
			},
		},
	}
}

func firstStep(t interface{ Fatalf(string, ...any) }, catalog *Catalog, chainName string) Item {
	chain, ok := catalog.Chain(chainName)
	if !ok {
		t.Fatalf("chain %q not in test catalog", chainName)
	}
	return ItemFor(chain, chain.Steps[0])
}
