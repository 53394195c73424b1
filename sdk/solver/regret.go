package solver

import (
	"sync"
)

// RegretEntry accumulates regrets and strategy sums for one information set.
// Values are kept in slices to avoid map churn during CFR traversals.
type RegretEntry struct {
	RegretSum   []float64
	StrategySum []float64
	mutex       sync.Mutex
}

// ensureSize grows the regret entry to accommodate n actions.
func (e *RegretEntry) ensureSize(n int) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if len(e.RegretSum) >= n {
		return
	}
	missing := n - len(e.RegretSum)
	e.RegretSum = append(e.RegretSum, make([]float64, missing)...)
	e.StrategySum = append(e.StrategySum, make([]float64, missing)...)
}

// Strategy returns the current regret-matching distribution: each action's
// share of its positive regret, or uniform if every regret is non-positive.
func (e *RegretEntry) Strategy() []float64 {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.strategyLocked()
}

func (e *RegretEntry) strategyLocked() []float64 {
	total := 0.0
	strat := make([]float64, len(e.RegretSum))
	for i, r := range e.RegretSum {
		if r > 0 {
			strat[i] = r
			total += r
		}
	}
	if total <= 0 {
		v := 1.0 / float64(len(strat))
		for i := range strat {
			strat[i] = v
		}
		return strat
	}
	for i := range strat {
		strat[i] /= total
	}
	return strat
}

// Update adds the per-action regret and strategy observations from one CFR
// visit. clampNegative implements CFR+ (regrets floored at zero between
// iterations); strategyWeight multiplies the strategy-sum contribution,
// implementing discounted averaging (DCFR) when the caller scales it by
// iteration.
func (e *RegretEntry) Update(regret []float64, sigma []float64, strategyWeight float64, clampNegative bool) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	for i := range regret {
		e.RegretSum[i] += regret[i]
		if clampNegative && e.RegretSum[i] < 0 {
			e.RegretSum[i] = 0
		}
		e.StrategySum[i] += strategyWeight * sigma[i]
	}
}

// AverageStrategy returns the normalized average strategy, the quantity
// that converges toward Nash play, falling back to uniform when the
// infoset has never accumulated any strategy mass.
func (e *RegretEntry) AverageStrategy() []float64 {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	strat := make([]float64, len(e.StrategySum))
	total := 0.0
	for _, v := range e.StrategySum {
		total += v
	}
	if total <= 0 {
		v := 1.0 / float64(len(strat))
		for i := range strat {
			strat[i] = v
		}
		return strat
	}
	for i := range strat {
		strat[i] = e.StrategySum[i] / total
	}
	return strat
}

// regretSnapshot is the JSON-serializable form of a RegretEntry, used by
// checkpointing; RegretEntry itself carries an unexported mutex that should
// never be part of the persisted shape.
type regretSnapshot struct {
	RegretSum   []float64 `json:"regret_sum"`
	StrategySum []float64 `json:"strategy_sum"`
}

func (e *RegretEntry) snapshot() regretSnapshot {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return regretSnapshot{
		RegretSum:   append([]float64(nil), e.RegretSum...),
		StrategySum: append([]float64(nil), e.StrategySum...),
	}
}

func newRegretEntryFromSnapshot(snap regretSnapshot) *RegretEntry {
	return &RegretEntry{
		RegretSum:   append([]float64(nil), snap.RegretSum...),
		StrategySum: append([]float64(nil), snap.StrategySum...),
	}
}

const regretTableShardCount = 64
const regretTableShardMask = regretTableShardCount - 1

type regretShard struct {
	mu      sync.RWMutex
	entries map[InfosetKey]*RegretEntry
}

// RegretTable is a sharded, concurrency-safe map from InfosetKey to
// RegretEntry, sharded by an FNV-1a hash of the key so that independent
// parallel traversers rarely contend on the same lock.
type RegretTable struct {
	shards [regretTableShardCount]regretShard
}

// NewRegretTable returns an empty regret table ready for use.
func NewRegretTable() *RegretTable {
	table := &RegretTable{}
	for i := range table.shards {
		table.shards[i].entries = make(map[InfosetKey]*RegretEntry)
	}
	return table
}

// Get returns the entry for key, creating it (sized for actionCount
// actions) if it does not already exist.
func (t *RegretTable) Get(key InfosetKey, actionCount int) *RegretEntry {
	shard := t.shardFor(key)

	shard.mu.RLock()
	entry, ok := shard.entries[key]
	shard.mu.RUnlock()
	if ok {
		entry.ensureSize(actionCount)
		return entry
	}

	shard.mu.Lock()
	defer shard.mu.Unlock()
	if entry, ok = shard.entries[key]; ok {
		entry.ensureSize(actionCount)
		return entry
	}
	entry = &RegretEntry{}
	entry.ensureSize(actionCount)
	shard.entries[key] = entry
	return entry
}

// Put installs entry directly under key, overwriting whatever was there.
// Used when restoring a table from a checkpoint.
func (t *RegretTable) Put(key InfosetKey, entry *RegretEntry) {
	shard := t.shardFor(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	shard.entries[key] = entry
}

// Entries returns a snapshot of every tracked info set, for persistence.
func (t *RegretTable) Entries() map[InfosetKey]*RegretEntry {
	out := make(map[InfosetKey]*RegretEntry)
	for i := range t.shards {
		shard := &t.shards[i]
		shard.mu.RLock()
		for k, v := range shard.entries {
			out[k] = v
		}
		shard.mu.RUnlock()
	}
	return out
}

// Size returns the number of info sets tracked.
func (t *RegretTable) Size() int {
	total := 0
	for i := range t.shards {
		shard := &t.shards[i]
		shard.mu.RLock()
		total += len(shard.entries)
		shard.mu.RUnlock()
	}
	return total
}

// Merge additively folds other's entries into t (§5: both tables are
// additive monoids). The trainer does not call it: its parallel tables
// all update one shared table.
func (t *RegretTable) Merge(other *RegretTable) {
	for k, src := range other.Entries() {
		dst := t.Get(k, len(src.RegretSum))
		dst.mutex.Lock()
		src.mutex.Lock()
		for i := range src.RegretSum {
			dst.RegretSum[i] += src.RegretSum[i]
			dst.StrategySum[i] += src.StrategySum[i]
		}
		src.mutex.Unlock()
		dst.mutex.Unlock()
	}
}

func (t *RegretTable) shardFor(key InfosetKey) *regretShard {
	return &t.shards[hashKey(string(key))&regretTableShardMask]
}

func hashKey(key string) uint32 {
	const offset32 = 2166136261
	const prime32 = 16777619
	var hash uint32 = offset32
	for i := 0; i < len(key); i++ {
		hash ^= uint32(key[i])
		hash *= prime32
	}
	return hash
}
