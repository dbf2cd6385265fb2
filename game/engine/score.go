package engine

import "maps"

// ScoreState accumulates the player's points and the per-chain totals of one round
type ScoreState struct {
	PlayerScore int            `json:"playerScore"`
	ChainScores map[string]int `json:"chainScores"`
}

// NewScoreState starts every chain in the catalog at zero
func NewScoreState(chains []EvolutionChain) ScoreState {
	scores := make(map[string]int, len(chains))
	for _, chain := range chains {
		scores[chain.Name] = 0
	}
	return ScoreState{ChainScores: scores}
}

// Award adds the chain's completion points to both totals and returns the points added
func (s *ScoreState) Award(chain EvolutionChain) int {
	if s.ChainScores == nil {
		s.ChainScores = make(map[string]int)
	}
	s.PlayerScore += chain.Points
	s.ChainScores[chain.Name] += chain.Points
	return chain.Points
}

// Clone returns a copy that shares no state with s
func (s ScoreState) Clone() ScoreState {
	return ScoreState{
		PlayerScore: s.PlayerScore,
		ChainScores: maps.Clone(s.ChainScores),
	}
}
