/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package bingo

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// KeepThreshold is the number of non-free cells that must still be in the
// item pool for a saved card to survive a pool edit.
const KeepThreshold = 20

var (
	ErrInvalidCard  = errors.New("invalid bingo card")
	ErrPoolTooSmall = errors.New("not enough bingo items to fill a card")
)

// ValidateCard checks the shape of a card: CardSize non-empty, distinct
// cells with the free space at FreeIndex and nowhere else.
func ValidateCard(card []string) error {
	if len(card) != CardSize {
		return fmt.Errorf("%w: %d cells", ErrInvalidCard, len(card))
	}

	seen := make(map[string]struct{}, CardSize)
	for i, cell := range card {
		switch {
		case i == FreeIndex && cell != FreeSpace:
			return fmt.Errorf("%w: cell %d must be %q", ErrInvalidCard, i, FreeSpace)
		case i == FreeIndex:
			continue
		case cell == "" || cell == FreeSpace:
			return fmt.Errorf("%w: cell %d is %q", ErrInvalidCard, i, cell)
		}
		if _, dup := seen[cell]; dup {
			return fmt.Errorf("%w: %q appears twice", ErrInvalidCard, cell)
		}
		seen[cell] = struct{}{}
	}

	return nil
}

// PoolOverlap counts the non-free cells of card that are present in pool.
func PoolOverlap(card []string, pool []string) int {
	inPool := make(map[string]struct{}, len(pool))
	for _, item := range pool {
		inPool[item] = struct{}{}
	}

	n := 0
	for _, cell := range card {
		if cell == FreeSpace {
			continue
		}
		if _, ok := inPool[cell]; ok {
			n++
		}
	}
	return n
}

// StillValid reports whether a stored card may be kept against the current pool.
func StillValid(card []string, pool []string) bool {
	return ValidateCard(card) == nil && PoolOverlap(card, pool) >= KeepThreshold
}

// NewCard deals CardSize-1 distinct items from pool around the free space.
// A nil rng uses the shared math/rand source.
func NewCard(pool []string, rng *rand.Rand) ([]string, error) {
	candidates := make([]string, 0, len(pool))
	seen := make(map[string]struct{}, len(pool))
	for _, item := range pool {
		if item == "" || item == FreeSpace {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		candidates = append(candidates, item)
	}

	if len(candidates) < CardSize-1 {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrPoolTooSmall, len(candidates), CardSize-1)
	}

	swap := func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] }
	if rng != nil {
		rng.Shuffle(len(candidates), swap)
	} else {
		rand.Shuffle(len(candidates), swap)
	}

	card := make([]string, 0, CardSize)
	card = append(card, candidates[:FreeIndex]...)
	card = append(card, FreeSpace)
	card = append(card, candidates[FreeIndex:CardSize-1]...)

	return card, nil
}
