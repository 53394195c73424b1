package solver

import (
	rand "math/rand/v2"

	"github.com/mreid/holdemtoss/internal/abstractgame"
)

// traverse runs one external-sampling MCCFR pass rooted at state, returning
// the traverser's counterfactual utility. target is the player whose regrets
// are being updated this call; the opponent's actions are sampled according
// to their current strategy rather than expanded in full (external sampling),
// unless the trainer is configured for full traversal. No reach-probability
// weighting is applied to the regret or strategy-sum updates: the sampling
// scheme itself already accounts for reach, so reweighting here would
// double-count it.
func (t *Trainer) traverse(ctx *iterationContext, state *abstractgame.GameState, target int, depth int) (float64, error) {
	if ctx.stats != nil {
		ctx.stats.NodesVisited++
		if depth > ctx.stats.MaxDepth {
			ctx.stats.MaxDepth = depth
		}
	}

	if state.IsTerminal() {
		if ctx.stats != nil {
			ctx.stats.TerminalNodes++
		}
		return state.Utility(target), nil
	}

	current := state.ToAct
	key := BuildInfosetKey(state, current)
	expand := t.shouldExpandRaises(key)
	actions := t.legalActions(state, expand)
	if len(actions) == 0 {
		if ctx.stats != nil {
			ctx.stats.TerminalNodes++
		}
		return state.Utility(target), nil
	}

	entry := t.regrets.Get(key, len(actions))
	strategy := entry.Strategy()

	if current == target {
		util := make([]float64, len(actions))
		nodeUtil := 0.0
		for i, act := range actions {
			next := abstractgame.ApplyAction(state.Clone(), act)
			u, err := t.traverse(ctx, next, target, depth+1)
			if err != nil {
				return 0, err
			}
			util[i] = u
			nodeUtil += strategy[i] * u
		}

		regrets := make([]float64, len(actions))
		for i := range actions {
			regrets[i] = util[i] - nodeUtil
		}
		entry.Update(regrets, strategy, 1.0, t.trainCfg.UseCFRPlus)
		t.recordVisit(key)
		return nodeUtil, nil
	}

	if t.trainCfg.Sampling == SamplingModeFullTraversal {
		nodeUtil := 0.0
		total := 0.0
		for i, act := range actions {
			prob := strategy[i]
			if prob <= 0 {
				continue
			}
			next := abstractgame.ApplyAction(state.Clone(), act)
			u, err := t.traverse(ctx, next, target, depth+1)
			if err != nil {
				return 0, err
			}
			nodeUtil += prob * u
			total += prob
		}
		if total <= 0 && len(actions) > 0 {
			fallback := 1.0 / float64(len(actions))
			for _, act := range actions {
				next := abstractgame.ApplyAction(state.Clone(), act)
				u, err := t.traverse(ctx, next, target, depth+1)
				if err != nil {
					return 0, err
				}
				nodeUtil += fallback * u
			}
		}
		return nodeUtil, nil
	}

	idx, prob := sampleStrategyIndex(strategy, ctx.sampler)
	if prob <= 0 {
		prob = 1.0 / float64(len(actions))
	}
	next := abstractgame.ApplyAction(state.Clone(), actions[idx])
	return t.traverse(ctx, next, target, depth+1)
}

func (t *Trainer) legalActions(state *abstractgame.GameState, expand bool) []abstractgame.Action {
	raw := abstractgame.LegalActions(state)
	if !t.raisesEnabled() {
		filtered := make([]abstractgame.Action, 0, len(raw))
		for _, a := range raw {
			if !a.IsRaise() {
				filtered = append(filtered, a)
			}
		}
		raw = filtered
	}
	return t.filterRaises(raw, expand)
}

// filterRaises prunes the raise actions (bet_33/bet_66/bet_pot/all_in) at a
// not-yet-expanded infoset down to MaxRaisesPerBucket representative sizes,
// preferring the smallest and largest to keep early iterations cheap while
// still exposing both ends of the sizing ladder.
func (t *Trainer) filterRaises(actions []abstractgame.Action, expand bool) []abstractgame.Action {
	limit := t.absCfg.MaxRaisesPerBucket
	if expand || limit <= 0 {
		return actions
	}

	var nonRaise, raises []abstractgame.Action
	for _, a := range actions {
		if a.IsRaise() {
			raises = append(raises, a)
		} else {
			nonRaise = append(nonRaise, a)
		}
	}
	if len(raises) <= limit {
		return actions
	}

	selected := make([]abstractgame.Action, 0, limit)
	selected = append(selected, raises[0])
	if limit > 1 {
		selected = append(selected, raises[len(raises)-1])
	}
	for i := 1; len(selected) < limit && i < len(raises)-1; i++ {
		selected = append(selected, raises[i])
	}
	return append(nonRaise, selected...)
}

func sampleStrategyIndex(strategy []float64, rng *rand.Rand) (int, float64) {
	if len(strategy) == 0 {
		return 0, 0
	}
	total := 0.0
	for _, v := range strategy {
		if v > 0 {
			total += v
		}
	}
	if total <= 0 {
		idx := rng.IntN(len(strategy))
		return idx, 1.0 / float64(len(strategy))
	}
	r := rng.Float64() * total
	acc := 0.0
	for i, v := range strategy {
		if v <= 0 {
			continue
		}
		acc += v
		if r <= acc {
			return i, v / total
		}
	}
	return len(strategy) - 1, strategy[len(strategy)-1] / total
}
