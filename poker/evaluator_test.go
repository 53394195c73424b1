package poker

import "testing"

func mustParse(t *testing.T, s string) Card {
	t.Helper()
	c, err := ParseCard(s)
	if err != nil {
		t.Fatalf("ParseCard(%q): %v", s, err)
	}
	return c
}

func parseHand(t *testing.T, cards ...string) Hand {
	t.Helper()
	h := Hand(0)
	for _, s := range cards {
		h.AddCard(mustParse(t, s))
	}
	return h
}

// TestEvaluateRoyalFlushBeatsQuads is E2E scenario 1: a straight flush
// outranks four of a kind even when both hands are topped by an ace.
func TestEvaluateRoyalFlushBeatsQuads(t *testing.T) {
	royal := parseHand(t, "As", "Ks", "Qs", "Js", "Ts", "2h", "3d")
	quads := parseHand(t, "As", "Ah", "Ad", "Ac", "Ks", "Qd", "Jc")

	royalScore := Evaluate(royal)
	quadsScore := Evaluate(quads)

	if royalScore.Type() != StraightFlush {
		t.Fatalf("royal hand type = %v, want StraightFlush", royalScore.Type())
	}
	if quadsScore.Type() != FourOfAKind {
		t.Fatalf("quads hand type = %v, want FourOfAKind", quadsScore.Type())
	}
	if royalScore <= quadsScore {
		t.Fatalf("Evaluate(royal)=%d should exceed Evaluate(quads)=%d", royalScore, quadsScore)
	}
}

// TestEvaluateWheelStraight is E2E scenario 2: the wheel (A-2-3-4-5) is
// recognized as a straight, ranked below any 6-high-or-better straight.
func TestEvaluateWheelStraight(t *testing.T) {
	wheel := parseHand(t, "As", "2h", "3d", "4c", "5s", "9h", "Jc")
	sixHigh := parseHand(t, "2s", "3h", "4d", "5c", "6s", "9h", "Jc")

	wheelScore := Evaluate(wheel)
	if wheelScore.Type() != Straight {
		t.Fatalf("wheel hand type = %v, want Straight", wheelScore.Type())
	}

	sixHighScore := Evaluate(sixHigh)
	if sixHighScore.Type() != Straight {
		t.Fatalf("6-high hand type = %v, want Straight", sixHighScore.Type())
	}
	if wheelScore >= sixHighScore {
		t.Fatalf("Evaluate(wheel)=%d should rank below Evaluate(6-high straight)=%d", wheelScore, sixHighScore)
	}
}

// TestEvaluateEightCardFlushVsFullHouse is a regression for a short-circuit
// bug: at 8 cards a 5-card flush can coexist with a full house that reuses
// two of the flush cards (As, Ks), and the full house must win since FullHouse
// outranks Flush.
func TestEvaluateEightCardFlushVsFullHouse(t *testing.T) {
	hand := parseHand(t, "2s", "3s", "4s", "As", "Ks", "Ah", "Ad", "Kh")
	if got := hand.CountCards(); got != 8 {
		t.Fatalf("test hand has %d cards, want 8", got)
	}

	score := Evaluate(hand)
	if score.Type() != FullHouse {
		t.Fatalf("Evaluate() type = %v, want FullHouse (aces full of kings beats the 5-card spade flush)", score.Type())
	}
}

// TestEvaluateTotality checks that eval is a total order: for any two
// hands, one score compares less-than-or-equal to the other.
func TestEvaluateTotality(t *testing.T) {
	hands := []Hand{
		parseHand(t, "2c", "3d", "4h", "7s", "9c", "Jh", "Kd"),
		parseHand(t, "As", "Ks", "Qs", "Js", "Ts", "2h", "3d"),
		parseHand(t, "9c", "9d", "9h", "2s", "3c", "4d", "5h"),
		parseHand(t, "7c", "7d", "2h", "2s", "3c", "4d", "5h"),
	}

	for i := range hands {
		for j := range hands {
			a, b := Evaluate(hands[i]), Evaluate(hands[j])
			if !(a <= b || b <= a) {
				t.Fatalf("totality violated for hands %d and %d: %d, %d", i, j, a, b)
			}
		}
	}
}

// TestEvaluateCategoryMonotonicity checks that every higher category beats
// every hand drawn from a strictly lower category, regardless of kickers.
func TestEvaluateCategoryMonotonicity(t *testing.T) {
	ordered := []struct {
		name string
		hand Hand
	}{
		{"high card", parseHand(t, "2c", "5d", "7h", "9s", "Jc", "3d", "4h")},
		{"pair", parseHand(t, "2c", "2d", "7h", "9s", "Jc", "3d", "4h")},
		{"two pair", parseHand(t, "2c", "2d", "7h", "7s", "Jc", "3d", "4h")},
		{"trips", parseHand(t, "2c", "2d", "2h", "7s", "Jc", "3d", "4h")},
		{"straight", parseHand(t, "3c", "4d", "5h", "6s", "7c", "2d", "Kh")},
		{"flush", parseHand(t, "2c", "5c", "7c", "9c", "Jc", "3d", "4h")},
		{"full house", parseHand(t, "2c", "2d", "2h", "7s", "7c", "3d", "4h")},
		{"quads", parseHand(t, "2c", "2d", "2h", "2s", "7c", "3d", "4h")},
		{"straight flush", parseHand(t, "3c", "4c", "5c", "6c", "7c", "2d", "Kh")},
	}

	for i := 1; i < len(ordered); i++ {
		lower := Evaluate(ordered[i-1].hand)
		higher := Evaluate(ordered[i].hand)
		if higher <= lower {
			t.Fatalf("%s (%d) should outrank %s (%d)", ordered[i].name, higher, ordered[i-1].name, lower)
		}
	}
}

// TestEvaluateSubsetOptimality checks that the 7-card score equals the best
// achievable 5-card subset score, by comparing against a brute-force
// C(7,5) enumeration.
func TestEvaluateSubsetOptimality(t *testing.T) {
	hand := parseHand(t, "As", "Kd", "Qh", "Jc", "Ts", "2d", "7h")
	cards := hand.Cards()
	if len(cards) != 7 {
		t.Fatalf("test hand has %d cards, want 7", len(cards))
	}

	best := HandRank(0)
	var combo func(start int, chosen []Card)
	combo = func(start int, chosen []Card) {
		if len(chosen) == 5 {
			sub := NewHand(chosen...)
			if score := Evaluate(sub); score > best {
				best = score
			}
			return
		}
		for i := start; i < len(cards); i++ {
			combo(i+1, append(chosen, cards[i]))
		}
	}
	combo(0, nil)

	if got := Evaluate(hand); got != best {
		t.Fatalf("Evaluate(7 cards) = %d, want max 5-card subset score %d", got, best)
	}
}

// TestEvaluateOutOfRangeCardCounts checks the documented failure semantics:
// fewer than 5 or more than 8 cards yields the zero HandRank.
func TestEvaluateOutOfRangeCardCounts(t *testing.T) {
	tooFew := parseHand(t, "As", "Ks", "Qs", "Js")
	if got := Evaluate(tooFew); got != 0 {
		t.Fatalf("Evaluate(4 cards) = %d, want 0", got)
	}

	nineCards := parseHand(t, "2c", "3c", "4c", "5c", "6c", "7c", "8c", "9c", "Tc")
	if got := Evaluate(nineCards); got != 0 {
		t.Fatalf("Evaluate(9 cards) = %d, want 0", got)
	}
}

func TestCompareHands(t *testing.T) {
	low := Evaluate(parseHand(t, "2c", "3d", "4h", "7s", "9c", "Jh", "Kd"))
	high := Evaluate(parseHand(t, "As", "Ks", "Qs", "Js", "Ts", "2h", "3d"))

	if CompareHands(high, low) != 1 {
		t.Fatalf("CompareHands(high, low) != 1")
	}
	if CompareHands(low, high) != -1 {
		t.Fatalf("CompareHands(low, high) != -1")
	}
	if CompareHands(low, low) != 0 {
		t.Fatalf("CompareHands(low, low) != 0")
	}
}
