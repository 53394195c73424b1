package solver

import (
	"context"
	"fmt"
	"math/rand"
	rand2 "math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mreid/holdemtoss/internal/abstractgame"
)

// TraversalStats captures instrumentation metrics for a single MCCFR iteration.
type TraversalStats struct {
	NodesVisited  int64
	TerminalNodes int64
	MaxDepth      int
	IterationTime time.Duration
}

// Progress contains metadata emitted during long-running solver operations.
type Progress struct {
	Iteration       int
	RegretTableSize int
	Stats           TraversalStats
}

// iterationContext carries the per-table state one traverse() call tree needs:
// its own opponent-action sampler and instrumentation, isolated from sibling
// tables running in the same iteration.
type iterationContext struct {
	stats   *TraversalStats
	sampler *rand2.Rand
}

// Trainer orchestrates Monte Carlo CFR iterations over the abstract heads-up
// Hold'em Toss game tree.
type Trainer struct {
	absCfg          AbstractionConfig
	trainCfg        TrainingConfig
	regrets         *RegretTable
	iteration       atomic.Int64
	rng             *rand.Rand
	statsMu         sync.Mutex
	stats           TraversalStats
	rngSeed         int64
	rngDraws        int64
	checkpointPath  string
	checkpointEvery int
	adaptiveMu      sync.Mutex
	adaptiveState   map[InfosetKey]*adaptiveInfo
}

type adaptiveInfo struct {
	visits   int64
	expanded bool
}

// NewTrainer constructs a solver trainer given abstraction and training configs.
func NewTrainer(absCfg AbstractionConfig, trainCfg TrainingConfig) (*Trainer, error) {
	if err := absCfg.Validate(); err != nil {
		return nil, err
	}
	if err := trainCfg.Validate(); err != nil {
		return nil, err
	}

	seed := trainCfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	trainer := &Trainer{
		absCfg:   absCfg,
		trainCfg: trainCfg,
		regrets:  NewRegretTable(),
		rng:      rand.New(rand.NewSource(seed)),
		rngSeed:  seed,
	}
	if trainCfg.AdaptiveRaiseVisits > 0 {
		trainer.adaptiveState = make(map[InfosetKey]*adaptiveInfo)
	}
	return trainer, nil
}

// Run executes the requested number of CFR iterations, checkpointing and
// reporting progress as configured, until Iterations is reached or ctx is
// cancelled at an iteration boundary.
func (t *Trainer) Run(ctx context.Context, progress func(Progress)) error {
	pLog := t.trainCfg.Iterations / 100
	if pLog == 0 {
		pLog = 1
	}
	batch := pLog
	if cfg := t.trainCfg.ProgressEvery; cfg > 0 {
		batch = cfg
	}

	for i := int(t.iteration.Load()); i < t.trainCfg.Iterations; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		startIter := time.Now()
		stats, err := t.singleIteration(ctx)
		if err != nil {
			return err
		}
		stats.IterationTime = time.Since(startIter)
		t.setStats(stats)
		iter := int(t.iteration.Add(1))

		if t.checkpointPath != "" && t.checkpointEvery > 0 && iter%t.checkpointEvery == 0 {
			if err := t.SaveCheckpoint(t.checkpointPath); err != nil {
				return err
			}
		}

		if progress != nil && iter%batch == 0 {
			progress(Progress{Iteration: iter, RegretTableSize: t.regrets.Size(), Stats: stats})
		}
	}

	if progress != nil {
		iter := int(t.iteration.Load())
		progress(Progress{Iteration: iter, RegretTableSize: t.regrets.Size(), Stats: t.Stats()})
	}

	if t.checkpointPath != "" && t.checkpointEvery > 0 {
		if err := t.SaveCheckpoint(t.checkpointPath); err != nil {
			return err
		}
	}
	return nil
}

// Blueprint materializes the averaged strategy produced so far.
func (t *Trainer) Blueprint() *Blueprint {
	entries := t.regrets.Entries()
	strategies := make(map[string][]float64, len(entries))
	for key, entry := range entries {
		strategies[string(key)] = entry.AverageStrategy()
	}
	return &Blueprint{
		Version:     blueprintFileVersion,
		GeneratedAt: time.Now().UTC(),
		Iterations:  int(t.iteration.Load()),
		Abstraction: t.absCfg,
		Strategies:  strategies,
	}
}

// singleIteration runs ParallelTables independent heads-up hands, each deal
// freshly sampled from the trainer's RNG, fanning them out with an errgroup
// and folding their node-visit statistics together.
func (t *Trainer) singleIteration(ctx context.Context) (TraversalStats, error) {
	parallel := t.trainCfg.ParallelTables
	if parallel <= 0 {
		parallel = 1
	}

	type tableSeed struct {
		deck   int64
		sample int64
	}
	seeds := make([]tableSeed, parallel)
	for i := 0; i < parallel; i++ {
		seeds[i].deck = t.rng.Int63()
		seeds[i].sample = t.rng.Int63()
		t.rngDraws += 2
	}

	statsSlice := make([]TraversalStats, parallel)

	group, gctx := errgroup.WithContext(ctx)
	for i := 0; i < parallel; i++ {
		idx := i
		group.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			tctx := &iterationContext{
				stats:   &statsSlice[idx],
				sampler: rand2.New(rand2.NewPCG(uint64(seeds[idx].sample), uint64(seeds[idx].sample)>>1|1)),
			}

			for player := 0; player < 2; player++ {
				root := abstractgame.NewWithRand(NewFastRandV2(seeds[idx].deck))
				if _, err := t.traverse(tctx, root, player, 0); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return TraversalStats{}, err
	}

	aggregated := TraversalStats{}
	for i := 0; i < parallel; i++ {
		aggregated.NodesVisited += statsSlice[i].NodesVisited
		aggregated.TerminalNodes += statsSlice[i].TerminalNodes
		if statsSlice[i].MaxDepth > aggregated.MaxDepth {
			aggregated.MaxDepth = statsSlice[i].MaxDepth
		}
	}
	return aggregated, nil
}

func (t *Trainer) setStats(stats TraversalStats) {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()
	t.stats = stats
}

// Stats returns the most recent traversal statistics recorded by the trainer.
func (t *Trainer) Stats() TraversalStats {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()
	return t.stats
}

func (t *Trainer) AdaptiveStats() (int, int) {
	if t.adaptiveState == nil {
		return 0, 0
	}
	t.adaptiveMu.Lock()
	defer t.adaptiveMu.Unlock()
	expanded := 0
	tracked := 0
	for _, info := range t.adaptiveState {
		tracked++
		if info.expanded {
			expanded++
		}
	}
	return expanded, tracked
}

func (t *Trainer) TrainingConfig() TrainingConfig {
	return t.trainCfg
}

func (t *Trainer) Iteration() int64 {
	return t.iteration.Load()
}

func (t *Trainer) SetTotalIterations(n int) error {
	current := int(t.iteration.Load())
	if n < current {
		return fmt.Errorf("total iterations %d less than completed %d", n, current)
	}
	t.trainCfg.Iterations = n
	return nil
}

func (t *Trainer) raisesEnabled() bool {
	return t.trainCfg.EnableRaises && t.absCfg.EnableRaises
}

func (t *Trainer) SetRaisesEnabled(enabled bool) {
	t.trainCfg.EnableRaises = enabled
}

func (t *Trainer) SetProgressEvery(n int) {
	if n < 0 {
		n = 0
	}
	t.trainCfg.ProgressEvery = n
}

func (t *Trainer) shouldExpandRaises(key InfosetKey) bool {
	if t.trainCfg.AdaptiveRaiseVisits <= 0 || t.adaptiveState == nil {
		return false
	}
	t.adaptiveMu.Lock()
	info, ok := t.adaptiveState[key]
	t.adaptiveMu.Unlock()
	return ok && info.expanded
}

func (t *Trainer) recordVisit(key InfosetKey) {
	if t.trainCfg.AdaptiveRaiseVisits <= 0 {
		return
	}
	t.adaptiveMu.Lock()
	defer t.adaptiveMu.Unlock()
	if t.adaptiveState == nil {
		t.adaptiveState = make(map[InfosetKey]*adaptiveInfo)
	}
	info := t.adaptiveState[key]
	if info == nil {
		info = &adaptiveInfo{}
		t.adaptiveState[key] = info
	}
	info.visits++
	if !info.expanded && info.visits >= int64(t.trainCfg.AdaptiveRaiseVisits) {
		info.expanded = true
	}
}
