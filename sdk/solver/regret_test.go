package solver

import "testing"

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestRegretEntryStrategyNormalizesPositiveRegrets(t *testing.T) {
	var entry RegretEntry
	entry.ensureSize(3)
	entry.RegretSum[0] = 1
	entry.RegretSum[1] = 2
	entry.RegretSum[2] = -5

	strat := entry.Strategy()

	if got, want := strat[0], 1.0/3.0; abs(got-want) > 1e-9 {
		t.Fatalf("expected first action %v, got %v", want, got)
	}
	if got, want := strat[1], 2.0/3.0; abs(got-want) > 1e-9 {
		t.Fatalf("expected second action %v, got %v", want, got)
	}
	if strat[2] != 0 {
		t.Fatalf("expected negative regret action to drop to 0, got %v", strat[2])
	}
}

func TestRegretEntryStrategyUniformFallback(t *testing.T) {
	var entry RegretEntry
	entry.ensureSize(4)

	strat := entry.Strategy()
	for i, s := range strat {
		if abs(s-0.25) > 1e-9 {
			t.Fatalf("expected uniform fallback 0.25 at index %d, got %v", i, s)
		}
	}
}

func TestRegretEntryUpdateAndAverage(t *testing.T) {
	var entry RegretEntry
	entry.ensureSize(2)

	regrets := []float64{1, -1}
	strategy := []float64{0.6, 0.4}
	entry.Update(regrets, strategy, 2.0, false)

	if entry.RegretSum[0] != 1 || entry.RegretSum[1] != -1 {
		t.Fatalf("unexpected regret sums: %+v", entry.RegretSum)
	}
	if entry.StrategySum[0] != 1.2 || entry.StrategySum[1] != 0.8 {
		t.Fatalf("unexpected strategy sums: %+v", entry.StrategySum)
	}

	avg := entry.AverageStrategy()
	if abs(avg[0]-0.6) > 1e-9 || abs(avg[1]-0.4) > 1e-9 {
		t.Fatalf("expected average strategy [0.6,0.4], got %v", avg)
	}
}

func TestRegretEntryUpdateCFRPlusClampsNegativeRegret(t *testing.T) {
	var entry RegretEntry
	entry.ensureSize(2)

	entry.Update([]float64{-3, 1}, []float64{0.5, 0.5}, 1.0, true)
	if entry.RegretSum[0] != 0 {
		t.Fatalf("expected CFR+ to clamp negative regret to 0, got %v", entry.RegretSum[0])
	}
	if entry.RegretSum[1] != 1 {
		t.Fatalf("expected positive regret to accumulate normally, got %v", entry.RegretSum[1])
	}
}

func TestRegretTableGetCachesEntries(t *testing.T) {
	table := NewRegretTable()
	key := InfosetKey("s0_sb_high_high_mono_")

	entryA := table.Get(key, 2)
	if entryA == nil {
		t.Fatalf("expected entry, got nil")
	}

	entryB := table.Get(key, 3)
	if entryA != entryB {
		t.Fatalf("expected cached entry to be reused")
	}
	if len(entryB.RegretSum) != 3 {
		t.Fatalf("expected ensureSize to grow regret slice to 3, got %d", len(entryB.RegretSum))
	}
}

func TestRegretTableMergeIsAdditive(t *testing.T) {
	a := NewRegretTable()
	b := NewRegretTable()
	key := InfosetKey("s4_btn_cat3_dry_cb")

	a.Get(key, 2).Update([]float64{1, 2}, []float64{0.5, 0.5}, 1.0, false)
	b.Get(key, 2).Update([]float64{3, 4}, []float64{0.5, 0.5}, 1.0, false)

	a.Merge(b)

	entry := a.Get(key, 2)
	if entry.RegretSum[0] != 4 || entry.RegretSum[1] != 6 {
		t.Fatalf("expected merged regret sums [4,6], got %+v", entry.RegretSum)
	}
}

func TestRegretTableSizeReflectsDistinctKeys(t *testing.T) {
	table := NewRegretTable()
	table.Get(InfosetKey("a"), 2)
	table.Get(InfosetKey("b"), 2)
	table.Get(InfosetKey("a"), 3)

	if got := table.Size(); got != 2 {
		t.Fatalf("expected 2 distinct info sets, got %d", got)
	}
}
