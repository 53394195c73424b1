package abstractgame

import "github.com/mreid/holdemtoss/poker"

func nextStreet(s Street) Street {
	switch s {
	case Preflop:
		return Flop
	case Flop:
		return Discard
	case Discard:
		return Turn
	case Turn:
		return River
	case River:
		return Showdown
	default:
		return Showdown
	}
}

// advanceStreet closes out the current betting round (or discard turn)
// and moves the hand forward, dealing community cards and skipping any
// betting street once either player is all-in, since no further betting
// is possible. It settles the hand once play reaches SHOWDOWN.
func (s *GameState) advanceStreet() {
	for {
		s.Street = nextStreet(s.Street)
		s.streetContribution = [2]int{}
		s.raisesThisStreet = 0
		s.actedThisStreet = [2]bool{}
		s.ToAct = 0

		switch s.Street {
		case Flop:
			s.Board = append(s.Board, s.deck.Deal(FlopCardCount)...)
		case Turn, River:
			s.Board = append(s.Board, s.deck.DealOne())
		case Discard:
			// no community card dealt; discard actions append board cards.
		case Showdown:
			s.settle()
			return
		}

		if s.Street == Discard {
			return
		}
		if s.Stack[0] == 0 || s.Stack[1] == 0 {
			// neither player can bet further; skip this betting street.
			continue
		}
		return
	}
}

func applyDiscard(s *GameState, action Action) *GameState {
	p := s.ToAct
	idx := action.DiscardIndex()
	card := s.SortedHole(p)[idx]
	s.Discarded[p] = &card
	s.Board = append(s.Board, card)

	if s.Discarded[1-p] == nil {
		s.ToAct = 1 - p
		return s
	}

	s.advanceStreet()
	return s
}

// settle evaluates both hands' best 5-card score from their original 3
// hole cards plus every board card (discards included by construction,
// since Hand is a bit-set: a player's own discarded card already sits in
// their hole mask, so the union never double counts it) and records the
// showdown winner.
func (s *GameState) settle() {
	pool0 := poker.Evaluate(s.HoleHand(0) | s.BoardHand())
	pool1 := poker.Evaluate(s.HoleHand(1) | s.BoardHand())

	switch {
	case pool0 > pool1:
		s.Terminal = &Terminal{Reason: TerminalShowdown, Winner: 0}
	case pool1 > pool0:
		s.Terminal = &Terminal{Reason: TerminalShowdown, Winner: 1}
	default:
		s.Terminal = &Terminal{Reason: TerminalShowdown, Winner: -1}
	}
}
