package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/mreid/holdemtoss/internal/abstractgame"
	"github.com/mreid/holdemtoss/sdk/solver/runtime"
)

// evaluationOptions configures a head-to-head evaluation run: the trained
// blueprint plays heads-up against a fixed calling-station baseline
// (always check/call, always discards its lowest card), alternating which
// seat it occupies each hand to cancel positional variance.
type evaluationOptions struct {
	BlueprintPath string
	Hands         int
	Seed          int64
}

type evalResult struct {
	HandsCompleted uint64
	Duration       time.Duration
	Players        []evalPlayer
}

type evalPlayer struct {
	Name      string
	NetChips  int
	BBPerHand float64
	BBPer100  float64
	Hands     int
}

func runEvaluation(ctx context.Context, logger zerolog.Logger, opts evaluationOptions) (*evalResult, error) {
	policy, err := runtime.Load(opts.BlueprintPath)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = 1
	}

	start := time.Now()
	heroNet := 0
	var heroSeat int

	for h := 0; h < opts.Hands; h++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		heroSeat = h % 2
		rng := rand.New(rand.NewSource(seed + int64(h)))

		state := abstractgame.New(rng.Int63())
		for !state.IsTerminal() {
			var action abstractgame.Action
			var amount int
			if state.ToAct == heroSeat {
				decision, err := policy.SelectAction(state, rng)
				if err != nil {
					return nil, fmt.Errorf("select action: %w", err)
				}
				action, amount = decision.Action, decision.Amount
			} else {
				action, amount = baselineAction(state)
			}
			_ = amount // concrete chip sizing is only meaningful against a live engine
			state = abstractgame.ApplyAction(state, action)
		}

		heroNet += int(state.Utility(heroSeat))

		if h%1000 == 0 && h > 0 {
			logger.Debug().Int("hand", h).Int("hero_net", heroNet).Msg("evaluation progress")
		}
	}

	bigBlind := float64(abstractgame.BigBlindAmount)
	bbPerHand := 0.0
	bbPer100 := 0.0
	if opts.Hands > 0 {
		bbPerHand = float64(heroNet) / bigBlind / float64(opts.Hands)
		bbPer100 = bbPerHand * 100
	}

	return &evalResult{
		HandsCompleted: uint64(opts.Hands),
		Duration:       time.Since(start),
		Players: []evalPlayer{
			{Name: "blueprint", NetChips: heroNet, BBPerHand: bbPerHand, BBPer100: bbPer100, Hands: opts.Hands},
			{Name: "calling-station", NetChips: -heroNet, BBPerHand: -bbPerHand, BBPer100: -bbPer100, Hands: opts.Hands},
		},
	}, nil
}

// baselineAction implements a calling-station opponent: it never raises or
// folds and always discards its lowest-ranked hole card, giving the trained
// blueprint a fixed, non-adaptive foil to measure exploitation margin against.
func baselineAction(state *abstractgame.GameState) (abstractgame.Action, int) {
	legal := abstractgame.LegalActions(state)

	if state.Street == abstractgame.Discard {
		for _, a := range []abstractgame.Action{abstractgame.Discard2, abstractgame.Discard1, abstractgame.Discard0} {
			for _, l := range legal {
				if l == a {
					return a, 0
				}
			}
		}
	}

	for _, a := range legal {
		if a == abstractgame.CheckCall {
			return a, abstractgame.BetAmount(state, a)
		}
	}
	// Facing a situation with no check/call (should not happen per the
	// game definition), fall back to the first legal action.
	return legal[0], 0
}
