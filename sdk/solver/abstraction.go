package solver

import (
	"fmt"
	"sort"

	"github.com/mreid/holdemtoss/internal/abstractgame"
	"github.com/mreid/holdemtoss/poker"
	"github.com/mreid/holdemtoss/sdk/classification"
)

// InfosetKey is the canonical string key the Trainer and Policy both use to
// index regret/strategy tables: s{street}_{pos}_{bucket_id}_{betting_history}.
type InfosetKey string

func rankTier(rank uint8) string {
	switch {
	case rank >= poker.Ten:
		return "high"
	case rank >= poker.Seven:
		return "mid"
	default:
		return "low"
	}
}

// PreflopBucket classifies 3 hole cards by rank multiplicity and suit
// pattern into a deterministic string tag, collapsing the 22,100 distinct
// 3-card combinations into a small number of strategically similar groups.
func PreflopBucket(hole [3]poker.Card) string {
	ranks := [3]uint8{hole[0].Rank(), hole[1].Rank(), hole[2].Rank()}
	sort.Slice(ranks[:], func(i, j int) bool { return ranks[i] > ranks[j] })

	switch {
	case ranks[0] == ranks[1] && ranks[1] == ranks[2]:
		return fmt.Sprintf("trips_%s", rankTier(ranks[0]))

	case ranks[0] == ranks[1] || ranks[1] == ranks[2]:
		pairRank, kicker := ranks[1], ranks[0]
		if ranks[0] == ranks[1] {
			pairRank, kicker = ranks[0], ranks[2]
		}
		return fmt.Sprintf("pair_%s_%s", rankTier(pairRank), rankTier(kicker))

	default:
		suits := map[uint8]int{}
		for _, c := range hole {
			suits[c.Suit()]++
		}
		var suitTag string
		switch len(suits) {
		case 1:
			suitTag = "mono"
		case 2:
			suitTag = "two_suit"
		default:
			suitTag = "rainbow"
		}
		return fmt.Sprintf("high_%s_%s", rankTier(ranks[0]), suitTag)
	}
}

// PostflopBucket combines the evaluator's hand category over hole ∪ board
// with the board's structural texture tag. Weak made hands (high card, one
// pair) are further split by draw strength, since a backdoor-nothing and a
// combo draw play very differently despite sharing a hand category.
func PostflopBucket(hole [3]poker.Card, board []poker.Card) string {
	holeHand := poker.NewHand(hole[0], hole[1], hole[2])
	boardHand := poker.NewHand(board...)
	category := handCategory(holeHand | boardHand)
	texture := classification.AnalyzeBoardTexture(boardHand)

	if category > 1 {
		return fmt.Sprintf("cat%d_%s", category, texture)
	}

	draws := classification.DetectDraws(holeHand, boardHand)
	return fmt.Sprintf("cat%d_%s_%s", category, texture, drawTier(draws))
}

func drawTier(d classification.DrawInfo) string {
	switch {
	case d.HasStrongDraw():
		return "strongdraw"
	case d.HasWeakDraw():
		return "weakdraw"
	default:
		return "nodraw"
	}
}

// handCategory returns the evaluator's 0..8 hand category (high card
// through straight flush) for a pool of 5 to 8 cards.
func handCategory(pool poker.Hand) int {
	return int(poker.Evaluate(pool).Type() >> 28)
}

// DiscardBucket computes, for each of the 3 candidate discards, the hand
// category obtained by keeping the other two hole cards plus the known
// board, and reports which discard preserves the most equity.
func DiscardBucket(hole [3]poker.Card, board []poker.Card) string {
	boardHand := poker.NewHand(board...)
	var categories [3]int
	best := 0
	for i := 0; i < 3; i++ {
		remaining := poker.Hand(0)
		for j := 0; j < 3; j++ {
			if j != i {
				remaining.AddCard(hole[j])
			}
		}
		// Category over the 2 kept hole cards plus board; the evaluator
		// needs at least 5 cards, so while the board is still short (the
		// 2-card flop) we fall back to whether the two kept cards pair.
		pool := remaining | boardHand
		if pool.CountCards() < 5 {
			categories[i] = pairPotential(remaining)
		} else {
			categories[i] = handCategory(pool)
		}
		if categories[i] > categories[best] {
			best = i
		}
	}
	return fmt.Sprintf("%d_%d_%d_%d", categories[0], categories[1], categories[2], best)
}

// pairPotential gives a coarse 0/1 strength signal for a 2-card hole when
// there are not yet enough cards on the board to run the full evaluator.
func pairPotential(hole poker.Hand) int {
	if hole.CountCards() != 2 {
		return 0
	}
	cards := hole.Cards()
	if cards[0].Rank() == cards[1].Rank() {
		return 1
	}
	return 0
}

// BuildInfosetKey assembles the canonical InfosetKey for the acting player:
// street, positional tag, the appropriate bucket for the current street,
// and that street's betting history token string. It never reads the
// opponent's hole cards or any undealt card.
func BuildInfosetKey(s *abstractgame.GameState, player int) InfosetKey {
	pos := abstractgame.Position(player, s.Street)
	bucket := bucketForStreet(s, player)
	history := s.History[s.Street]
	return InfosetKey(fmt.Sprintf("s%d_%s_%s_%s", int(s.Street), pos, bucket, history))
}

func bucketForStreet(s *abstractgame.GameState, player int) string {
	hole := s.SortedHole(player)
	switch s.Street {
	case abstractgame.Preflop:
		return PreflopBucket(hole)
	case abstractgame.Discard:
		return DiscardBucket(hole, s.Board)
	default:
		return PostflopBucket(hole, s.Board)
	}
}
