// Package runtime consumes a trained Blueprint to pick actions at the
// table, mapping the fixed abstract action alphabet onto whatever actions
// the host engine actually permits this turn.
package runtime

import (
	"errors"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/mreid/holdemtoss/internal/abstractgame"
	"github.com/mreid/holdemtoss/sdk/solver"
)

// Policy exposes read-only access to a solver blueprint for sampling actions
// during live play.
type Policy struct {
	blueprint *solver.Blueprint
	logger    *log.Logger
}

// Load constructs a runtime policy from a stored blueprint file.
func Load(path string) (*Policy, error) {
	bp, err := solver.LoadBlueprint(path)
	if err != nil {
		return nil, err
	}
	return &Policy{blueprint: bp, logger: log.Default()}, nil
}

// Blueprint returns the underlying blueprint metadata (read-only).
func (p *Policy) Blueprint() *solver.Blueprint {
	if p == nil {
		return nil
	}
	return p.blueprint
}

// ActionWeights returns the stored probability distribution for the provided
// info-set key and action count. When the key is missing, a uniform policy is
// returned to guarantee a valid distribution.
func (p *Policy) ActionWeights(key solver.InfosetKey, actionCount int) ([]float64, error) {
	if p == nil || p.blueprint == nil {
		return nil, errors.New("nil policy")
	}
	if actionCount <= 0 {
		return nil, errors.New("action count must be positive")
	}

	if strat, ok := p.blueprint.Strategy(key); ok {
		out := make([]float64, actionCount)
		copy(out, strat)
		if len(strat) >= actionCount {
			return out, nil
		}
		// Pad missing entries uniformly for remaining actions.
		uniform := 1.0 / float64(actionCount)
		for i := len(strat); i < actionCount; i++ {
			out[i] = uniform
		}
		return out, nil
	}

	if p.logger != nil {
		p.logger.Warn("infoset not found in blueprint, falling back to uniform strategy", "key", string(key))
	}

	out := make([]float64, actionCount)
	v := 1.0 / float64(actionCount)
	for i := range out {
		out[i] = v
	}
	return out, nil
}

// Decision is the concrete outcome of sampling a Policy at a game state:
// the abstract action chosen, and (for sized bets) the engine-facing chip
// total that realizes it.
type Decision struct {
	Action abstractgame.Action
	Amount int
}

// SelectAction builds the current infoset key, fetches its blueprint
// strategy, and samples a legal abstract action for the player to act in
// state. It never returns an error for a missing infoset — it renormalizes
// over whatever the engine permits and always returns a legal action, per
// the at-play-time contract that the Policy must not abort.
func (p *Policy) SelectAction(state *abstractgame.GameState, rng *rand.Rand) (Decision, error) {
	if p == nil || p.blueprint == nil {
		return Decision{}, errors.New("nil policy")
	}

	legal := abstractgame.LegalActions(state)
	if len(legal) == 0 {
		return Decision{}, errors.New("no legal actions at terminal state")
	}

	key := solver.BuildInfosetKey(state, state.ToAct)
	weights, err := p.ActionWeights(key, len(legal))
	if err != nil {
		return Decision{}, err
	}

	idx := sampleWeighted(weights, rng)
	action := legal[idx]

	amount := 0
	if action.IsRaise() {
		amount = abstractgame.BetAmount(state, action)
	}
	return Decision{Action: action, Amount: amount}, nil
}

func sampleWeighted(weights []float64, rng *rand.Rand) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}
	r := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if r <= acc {
			return i
		}
	}
	return len(weights) - 1
}
