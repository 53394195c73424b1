package abstractgame

// LegalActions returns the subset of the abstract alphabet valid right now.
func LegalActions(s *GameState) []Action {
	if s.IsTerminal() {
		return nil
	}
	if s.Street == Discard {
		return discardLegalActions(s)
	}
	return bettingLegalActions(s)
}

// toCallFor returns the chips player p must add to match the pot. The
// blinds that open PREFLOP are forced contributions, not a bet to call:
// until the first BET_*/ALL_IN of the street, nobody is "facing a bet"
// even though the small blind posted less than the big blind.
func toCallFor(s *GameState, p int) int {
	if s.raisesThisStreet == 0 {
		return 0
	}
	toCall := s.streetContribution[1-p] - s.streetContribution[p]
	if toCall < 0 {
		return 0
	}
	return toCall
}

func bettingLegalActions(s *GameState) []Action {
	p := s.ToAct
	toCall := toCallFor(s, p)
	facingBet := toCall > 0

	actions := make([]Action, 0, 6)
	if facingBet {
		actions = append(actions, Fold)
	}
	actions = append(actions, CheckCall)

	if s.Stack[p] > 0 && s.raisesThisStreet < MaxRaisesPerStreet {
		actions = append(actions, Bet33, Bet66, BetPot, AllIn)
	}
	return actions
}

func discardLegalActions(s *GameState) []Action {
	p := s.ToAct
	if s.Discarded[p] != nil {
		return nil
	}
	return []Action{Discard0, Discard1, Discard2}
}

// ceilDiv computes ceil(n/d) for positive n, d, matching the spec's
// round-up-on-bet-sizing tie-break.
func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

// BetAmount computes the total chips the player to act would commit for
// action, including any call portion, clamped to their remaining stack.
// Exported so a runtime Policy can translate a sized abstract action into
// the concrete raise total an engine expects.
func BetAmount(s *GameState, action Action) int {
	return betAmount(s, action)
}

// betAmount computes the total chips player p commits this action,
// including any call portion, clamped to their remaining stack.
func betAmount(s *GameState, action Action) int {
	p := s.ToAct
	toCall := toCallFor(s, p)

	if action == AllIn {
		return s.Stack[p]
	}

	postCallPot := s.Pot + toCall
	var raise int
	switch action {
	case Bet33:
		raise = ceilDiv(postCallPot, 3)
	case Bet66:
		raise = ceilDiv(2*postCallPot, 3)
	case BetPot:
		raise = postCallPot
	}

	total := toCall + raise
	if total > s.Stack[p] {
		total = s.Stack[p]
	}
	return total
}

// ApplyAction mutates s according to action, legal for the player
// currently to act, and returns s (terminal if the hand is now over).
func ApplyAction(s *GameState, action Action) *GameState {
	if s.Street == Discard {
		return applyDiscard(s, action)
	}
	return applyBetting(s, action)
}

func applyBetting(s *GameState, action Action) *GameState {
	p := s.ToAct
	toCall := toCallFor(s, p)

	switch {
	case action == Fold:
		s.Terminal = &Terminal{Reason: TerminalFold, Winner: 1 - p}
		s.appendHistory("f")
		return s

	case action == CheckCall:
		amount := toCall
		short := false
		if amount > s.Stack[p] {
			amount = s.Stack[p]
			short = true
		}
		s.commit(p, amount)
		if short {
			// p could not fully match the bet; the opponent's uncalled
			// excess never entered contention and is returned at once.
			refund := toCall - amount
			s.Stack[1-p] += refund
			s.Contribution[1-p] -= refund
			s.streetContribution[1-p] -= refund
			s.Pot -= refund
		}
		s.actedThisStreet[p] = true

		if toCall == 0 {
			s.appendHistory("c")
			if s.actedThisStreet[1-p] {
				s.advanceStreet()
			} else {
				s.ToAct = 1 - p
			}
		} else {
			s.appendHistory("c")
			s.advanceStreet()
		}
		return s

	default: // sized raise/bet
		amount := betAmount(s, action)
		s.commit(p, amount)
		if s.History[s.Street] == "" {
			s.appendHistory("b")
		} else {
			s.appendHistory("r")
		}
		s.raisesThisStreet++
		s.actedThisStreet[p] = true
		s.actedThisStreet[1-p] = false
		s.ToAct = 1 - p
		return s
	}
}

func (s *GameState) commit(p, amount int) {
	s.Stack[p] -= amount
	s.Contribution[p] += amount
	s.streetContribution[p] += amount
	s.Pot += amount
}

func (s *GameState) appendHistory(tok string) {
	s.History[s.Street] += tok
}
