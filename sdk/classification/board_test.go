package classification

import (
	"testing"

	"github.com/mreid/holdemtoss/poker"
)

func parseBoard(cardStrs []string) poker.Hand {
	var hand poker.Hand
	for _, cardStr := range cardStrs {
		card, err := poker.ParseCard(cardStr)
		if err != nil {
			panic(err)
		}
		hand.AddCard(card)
	}
	return hand
}

func TestBoardTexture(t *testing.T) {
	tests := []struct {
		name     string
		board    []string
		expected BoardTexture
	}{
		{
			name:     "dry rainbow board",
			board:    []string{"As", "7h", "2c"},
			expected: Rainbow,
		},
		{
			name:     "two suited",
			board:    []string{"Kh", "Qh", "7c"},
			expected: TwoTone,
		},
		{
			name:     "monotone flop",
			board:    []string{"9h", "8h", "7h"},
			expected: FlushDrawTexture,
		},
		{
			name:     "connected rainbow",
			board:    []string{"9h", "8s", "7c"},
			expected: Connected,
		},
		{
			name:     "paired board",
			board:    []string{"As", "Ah", "7c"},
			expected: Paired,
		},
		{
			name:     "trips board",
			board:    []string{"As", "Ah", "Ac"},
			expected: Trips,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := parseBoard(tt.board)
			result := AnalyzeBoardTexture(board)
			if result != tt.expected {
				t.Errorf("AnalyzeBoardTexture(%v) = %v, want %v", tt.board, result, tt.expected)
			}
		})
	}
}

func TestBoardTextureString(t *testing.T) {
	tests := []struct {
		texture  BoardTexture
		expected string
	}{
		{Dry, "dry"},
		{Connected, "connected"},
		{Rainbow, "rainbow"},
		{TwoTone, "two_tone"},
		{FlushDrawTexture, "flush_draw"},
		{Paired, "paired"},
		{Trips, "trips"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := tt.texture.String()
			if result != tt.expected {
				t.Errorf("BoardTexture.String() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestAnalyzeFlushPotential(t *testing.T) {
	spades := poker.Spades
	tests := []struct {
		name     string
		board    []string
		expected FlushInfo
	}{
		{
			name:  "no flush draw",
			board: []string{"As", "7h", "2c"},
			expected: FlushInfo{
				MaxSuitCount: 1,
				DominantSuit: &spades,
				IsMonotone:   false,
				IsRainbow:    true,
			},
		},
		{
			name:  "two suited",
			board: []string{"As", "7s", "2c"},
			expected: FlushInfo{
				MaxSuitCount: 2,
				DominantSuit: &spades,
				IsMonotone:   false,
				IsRainbow:    false,
			},
		},
		{
			name:  "monotone flop",
			board: []string{"As", "7s", "2s"},
			expected: FlushInfo{
				MaxSuitCount: 3,
				DominantSuit: &spades,
				IsMonotone:   true,
				IsRainbow:    false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := parseBoard(tt.board)
			result := AnalyzeFlushPotential(board)

			if result.MaxSuitCount != tt.expected.MaxSuitCount {
				t.Errorf("MaxSuitCount = %v, want %v", result.MaxSuitCount, tt.expected.MaxSuitCount)
			}
			if result.IsMonotone != tt.expected.IsMonotone {
				t.Errorf("IsMonotone = %v, want %v", result.IsMonotone, tt.expected.IsMonotone)
			}
			if result.IsRainbow != tt.expected.IsRainbow {
				t.Errorf("IsRainbow = %v, want %v", result.IsRainbow, tt.expected.IsRainbow)
			}
			if tt.expected.DominantSuit != nil && result.DominantSuit != nil {
				if *result.DominantSuit != *tt.expected.DominantSuit {
					t.Errorf("DominantSuit = %v, want %v", *result.DominantSuit, *tt.expected.DominantSuit)
				}
			}
		})
	}
}

func TestAnalyzeStraightPotential(t *testing.T) {
	tests := []struct {
		name     string
		board    []string
		expected StraightInfo
	}{
		{
			name:  "disconnected",
			board: []string{"As", "7h", "2c"},
			expected: StraightInfo{
				ConnectedCards: 1,
				Gaps:           10,
				HasAce:         true,
				BroadwayCards:  1,
			},
		},
		{
			name:  "connected straight draw",
			board: []string{"9h", "8s", "7c"},
			expected: StraightInfo{
				ConnectedCards: 3,
				Gaps:           0,
				HasAce:         false,
				BroadwayCards:  0,
			},
		},
		{
			name:  "broadway draw",
			board: []string{"Kh", "Qs", "Jc"},
			expected: StraightInfo{
				ConnectedCards: 3,
				Gaps:           0,
				HasAce:         false,
				BroadwayCards:  3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := parseBoard(tt.board)
			result := AnalyzeStraightPotential(board)

			if result.ConnectedCards != tt.expected.ConnectedCards {
				t.Errorf("ConnectedCards = %v, want %v", result.ConnectedCards, tt.expected.ConnectedCards)
			}
			if result.HasAce != tt.expected.HasAce {
				t.Errorf("HasAce = %v, want %v", result.HasAce, tt.expected.HasAce)
			}
			if result.BroadwayCards != tt.expected.BroadwayCards {
				t.Errorf("BroadwayCards = %v, want %v", result.BroadwayCards, tt.expected.BroadwayCards)
			}
		})
	}
}

func TestCardAccessors(t *testing.T) {
	t.Run("suit", func(t *testing.T) {
		tests := []struct {
			card     string
			expected uint8
		}{
			{"As", poker.Spades},
			{"Kh", poker.Hearts},
			{"Qd", poker.Diamonds},
			{"Jc", poker.Clubs},
		}
		for _, tt := range tests {
			card, err := poker.ParseCard(tt.card)
			if err != nil {
				t.Fatalf("poker.ParseCard(%v) error: %v", tt.card, err)
			}
			if got := card.Suit(); got != tt.expected {
				t.Errorf("Suit(%v) = %v, want %v", tt.card, got, tt.expected)
			}
		}
	})

	t.Run("rank", func(t *testing.T) {
		tests := []struct {
			card     string
			expected uint8
		}{
			{"2s", poker.Two},
			{"9h", poker.Nine},
			{"Td", poker.Ten},
			{"Jc", poker.Jack},
			{"Qh", poker.Queen},
			{"Ks", poker.King},
			{"As", poker.Ace},
		}
		for _, tt := range tests {
			card, err := poker.ParseCard(tt.card)
			if err != nil {
				t.Fatalf("poker.ParseCard(%v) error: %v", tt.card, err)
			}
			if got := card.Rank(); got != tt.expected {
				t.Errorf("Rank(%v) = %v, want %v", tt.card, got, tt.expected)
			}
		}
	})
}
