package solver

import (
	"errors"
	"time"
)

// SamplingMode controls how opponent actions are handled during traversal.
type SamplingMode uint8

const (
	SamplingModeExternal SamplingMode = iota
	SamplingModeFullTraversal
)

func (m SamplingMode) String() string {
	switch m {
	case SamplingModeExternal:
		return "external"
	case SamplingModeFullTraversal:
		return "full"
	default:
		return "unknown"
	}
}

// AbstractionConfig captures the knobs that narrow the fixed abstract action
// set (fold/check-call/bet_33/bet_66/bet_pot/all_in/discard_0..2) down to a
// cheaper one for early training. The action alphabet itself is fixed by the
// game definition, not tunable here.
type AbstractionConfig struct {
	// EnableRaises toggles whether bet/raise actions are exposed at all; when
	// false only fold/check-call (and discards) are legal.
	EnableRaises bool

	// MaxRaisesPerBucket caps how many of the raise actions
	// (bet_33/bet_66/bet_pot/all_in) are exposed at a freshly-created
	// infoset, before AdaptiveRaiseVisits promotes it to the full set.
	// Zero disables pruning (always expose all legal raise actions).
	MaxRaisesPerBucket int
}

// Validate ensures the abstraction is well-formed before training begins.
func (c AbstractionConfig) Validate() error {
	if c.MaxRaisesPerBucket < 0 {
		return errors.New("max raises per bucket cannot be negative")
	}
	return nil
}

// TrainingConfig aggregates parameters that control MCCFR execution. Stakes
// (blinds, starting stack) are canonical constants of the game definition
// itself (internal/abstractgame) rather than knobs here.
//
// CheckpointEvery and UseDCFR are validated, stored and checkpointed, but
// the trainer does not read them: checkpoints are scheduled by iteration
// count only, and strategy sums always accumulate with weight 1.
type TrainingConfig struct {
	Iterations          int
	Seed                int64
	ParallelTables      int
	CheckpointEvery     time.Duration
	ProgressEvery       int
	EnableRaises        bool
	MaxRaisesPerBucket  int
	AdaptiveRaiseVisits int
	UseCFRPlus          bool
	Sampling            SamplingMode
	UseDCFR             bool
}

// Validate ensures the training parameters are safe to use.
func (c TrainingConfig) Validate() error {
	if c.Iterations <= 0 {
		return errors.New("iterations must be > 0")
	}
	if c.ParallelTables <= 0 {
		return errors.New("parallel tables must be > 0")
	}
	if c.CheckpointEvery < 0 {
		return errors.New("checkpoint interval cannot be negative")
	}
	if c.ProgressEvery < 0 {
		return errors.New("progress interval cannot be negative")
	}
	if c.MaxRaisesPerBucket < 0 {
		return errors.New("max raises per bucket cannot be negative")
	}
	if c.AdaptiveRaiseVisits < 0 {
		return errors.New("adaptive raise visits cannot be negative")
	}
	if c.Sampling > SamplingModeFullTraversal {
		return errors.New("invalid sampling mode")
	}
	return nil
}

// DefaultAbstraction returns a conservative abstraction suitable for smoke tests.
func DefaultAbstraction() AbstractionConfig {
	return AbstractionConfig{
		EnableRaises:       true,
		MaxRaisesPerBucket: 2,
	}
}

// DefaultTrainingConfig returns a minimal configuration for local
// experimentation. Stakes follow the canonical heads-up constants (1/2
// blinds over a 400-chip stack) baked into internal/abstractgame.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Iterations:          1000,
		Seed:                1,
		ParallelTables:      1,
		CheckpointEvery:     5 * time.Minute,
		ProgressEvery:       0,
		EnableRaises:        true,
		MaxRaisesPerBucket:  2,
		AdaptiveRaiseVisits: 500,
		UseCFRPlus:          false,
		Sampling:            SamplingModeExternal,
		UseDCFR:             true,
	}
}
