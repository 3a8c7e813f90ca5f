/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package bingo evaluates shared-prompt bingo cards: pattern detection,
// card generation and prize eligibility.
package bingo

const (
	// FreeSpace is the sentinel occupying the center cell of every card.
	FreeSpace = "FREE SPACE"

	CardSize  = 25
	FreeIndex = 12
)

// Pattern names a winning shape, and doubles as the prize slot it contests.
type Pattern string

const (
	NoWin      Pattern = ""
	RowColDiag Pattern = "rowColDiag"
	XPattern   Pattern = "xPattern"
)

// Slots lists the contested prize slots in evaluation order.
var Slots = []Pattern{XPattern, RowColDiag}

func (p Pattern) Valid() bool {
	return p == RowColDiag || p == XPattern
}

var (
	mainDiagonal = [5]int{0, 6, 12, 18, 24}
	antiDiagonal = [5]int{4, 8, 12, 16, 20}
)

// lines holds every row, column and single diagonal.
var lines = func() [][5]int {
	out := make([][5]int, 0, 12)
	for r := 0; r < 5; r++ {
		out = append(out, [5]int{r * 5, r*5 + 1, r*5 + 2, r*5 + 3, r*5 + 4})
	}
	for c := 0; c < 5; c++ {
		out = append(out, [5]int{c, c + 5, c + 10, c + 15, c + 20})
	}
	return append(out, mainDiagonal, antiDiagonal)
}()

// Called is the set of items drawn so far in a round.
type Called map[string]struct{}

func NewCalled(items []string) Called {
	c := make(Called, len(items))
	for _, item := range items {
		c[item] = struct{}{}
	}
	return c
}

func (c Called) Has(item string) bool {
	_, ok := c[item]
	return ok
}

func matched(card []string, called Called, idx int) bool {
	return card[idx] == FreeSpace || called.Has(card[idx])
}

func complete(card []string, called Called, line [5]int) bool {
	for _, idx := range line {
		if !matched(card, called, idx) {
			return false
		}
	}
	return true
}

// CheckWin reports the most valuable pattern completed on card. The X is
// checked first so that a simultaneous row never masks it. Cards that are
// not exactly CardSize cells never win.
func CheckWin(card []string, called Called) Pattern {
	if len(card) != CardSize {
		return NoWin
	}

	if complete(card, called, mainDiagonal) && complete(card, called, antiDiagonal) {
		return XPattern
	}

	for _, line := range lines {
		if complete(card, called, line) {
			return RowColDiag
		}
	}

	return NoWin
}

// Qualifies reports whether card's current classification is exactly slot.
// A card showing an X is classified as XPattern and cannot claim RowColDiag.
func Qualifies(card []string, called Called, slot Pattern) bool {
	return slot.Valid() && CheckWin(card, called) == slot
}
