package abstractgame

import (
	"math/rand"
	"sort"

	"github.com/mreid/holdemtoss/poker"
)

// GameState is the full state of one hand being traversed. It is
// constructed once per training iteration via New, mutated by
// ApplyAction, and discarded once Terminal is set.
type GameState struct {
	Hole [2][HoleCardCount]poker.Card
	Board []poker.Card

	deck *poker.Deck

	Street Street
	Pot    int
	Stack  [2]int
	// Contribution is each player's total chips put into the pot this
	// hand; Contribution[0]+Contribution[1] always equals Pot.
	Contribution [2]int
	// streetContribution resets to zero at the start of every street and
	// drives facing-bet / call-amount computation.
	streetContribution [2]int
	raisesThisStreet   int
	actedThisStreet    [2]bool

	ToAct int

	// History holds the per-street betting token string, alphabet
	// {c,b,r,f}; Discard carries no betting history.
	History map[Street]string

	Discarded [2]*poker.Card

	Terminal *Terminal
}

// New deals a fresh hand: 3 cards to each player, blinds posted, street
// set to PREFLOP, action on the small blind.
func New(seed int64) *GameState {
	return NewWithRand(rand.New(rand.NewSource(seed)))
}

// NewWithRand deals a fresh hand using the caller-supplied shuffle source,
// letting the trainer reuse its own fast RNG rather than constructing a new
// math/rand.Rand per table.
func NewWithRand(rng *rand.Rand) *GameState {
	deck := poker.NewDeck(rng)

	s := &GameState{
		deck:   deck,
		Street: Preflop,
		ToAct:  0,
		Stack:  [2]int{StartingStack - SmallBlindAmount, StartingStack - BigBlindAmount},
		History: map[Street]string{},
	}

	for p := 0; p < 2; p++ {
		cards := deck.Deal(HoleCardCount)
		copy(s.Hole[p][:], cards)
	}

	s.Contribution[0] = SmallBlindAmount
	s.Contribution[1] = BigBlindAmount
	s.streetContribution[0] = SmallBlindAmount
	s.streetContribution[1] = BigBlindAmount
	s.Pot = SmallBlindAmount + BigBlindAmount

	return s
}

// SortedHole returns player p's hole cards sorted by rank descending,
// the canonical order DISCARD_i indexes into.
func (s *GameState) SortedHole(p int) [HoleCardCount]poker.Card {
	cards := s.Hole[p]
	sort.Slice(cards[:], func(i, j int) bool {
		return cards[i].Rank() > cards[j].Rank()
	})
	return cards
}

// BoardHand returns the current board as a Hand bitmask.
func (s *GameState) BoardHand() poker.Hand {
	return poker.NewHand(s.Board...)
}

// HoleHand returns player p's hole cards as a Hand bitmask.
func (s *GameState) HoleHand(p int) poker.Hand {
	return poker.NewHand(s.Hole[p][0], s.Hole[p][1], s.Hole[p][2])
}

// IsTerminal reports whether the hand is over.
func (s *GameState) IsTerminal() bool {
	return s.Terminal != nil
}

// Utility returns player's signed chip result relative to the hand's
// starting stake: positive if they ended up ahead, negative if behind,
// zero-sum across both players.
func (s *GameState) Utility(player int) float64 {
	if s.Terminal == nil {
		return 0
	}
	net := s.Stack[player] + s.contributionWon(player) - StartingStack
	return float64(net)
}

// Clone returns an independent copy of s: applying an action to the clone
// never affects s or any sibling clone branched from the same parent. The
// underlying deck is copied at its current deal position, so every branch
// continues dealing the exact same upcoming cards, matching the rule that
// chance outcomes do not depend on which action a player chooses.
func (s *GameState) Clone() *GameState {
	c := *s
	c.Board = append([]poker.Card(nil), s.Board...)
	c.deck = s.deck.Clone()
	c.History = make(map[Street]string, len(s.History))
	for k, v := range s.History {
		c.History[k] = v
	}
	if s.Discarded[0] != nil {
		card := *s.Discarded[0]
		c.Discarded[0] = &card
	}
	if s.Discarded[1] != nil {
		card := *s.Discarded[1]
		c.Discarded[1] = &card
	}
	if s.Terminal != nil {
		term := *s.Terminal
		c.Terminal = &term
	}
	return &c
}

// contributionWon returns the chips awarded to player from the pot, which
// combined with their remaining stack gives their final chip count.
func (s *GameState) contributionWon(player int) int {
	switch s.Terminal.Reason {
	case TerminalFold:
		if s.Terminal.Winner == player {
			return s.Pot
		}
		return 0
	case TerminalShowdown:
		if s.Terminal.Winner == -1 {
			// split pot: each player takes half of the pot, any odd
			// chip favors player 0 by convention.
			half := s.Pot / 2
			if player == 0 {
				return half + s.Pot%2
			}
			return half
		}
		if s.Terminal.Winner == player {
			return s.Pot
		}
		return 0
	default:
		return 0
	}
}
