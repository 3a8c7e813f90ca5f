/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package state

import (
	"errors"
	"slices"
	"sort"

	"github.com/Rediminds/holiday-game/internal/bingo"
)

var (
	ErrSlotTaken   = errors.New("prize already claimed")
	ErrNoCard      = errors.New("no bingo card registered")
	ErrNotEligible = errors.New("card does not satisfy the prize pattern")
	ErrUnknownSlot = errors.New("unknown prize slot")
)

type Card struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

type PrizeClaim struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Prize string        `json:"prize"`
	Slot  bingo.Pattern `json:"type"`
}

// Prizes holds the two contested slots. Each is written at most once per round.
type Prizes struct {
	RowColDiag *PrizeClaim `json:"rowColDiag"`
	XPattern   *PrizeClaim `json:"xPattern"`
}

func (p *Prizes) slot(pattern bingo.Pattern) **PrizeClaim {
	switch pattern {
	case bingo.RowColDiag:
		return &p.RowColDiag
	case bingo.XPattern:
		return &p.XPattern
	}
	return nil
}

// Holder returns the claim recorded for pattern, if any.
func (p *Prizes) Holder(pattern bingo.Pattern) *PrizeClaim {
	if s := p.slot(pattern); s != nil {
		return *s
	}
	return nil
}

type Bingo struct {
	Items       []string                 `json:"items"`
	CalledItems []string                 `json:"calledItems"`
	Selections  map[string][]Participant `json:"selections"`
	UserCards   map[string]*Card         `json:"userCards"`
	Winners     []PrizeClaim             `json:"winners"`
	Prizes      Prizes                   `json:"prizes"`
}

func (b *Bingo) AddItem(item string) bool {
	if item == "" || item == bingo.FreeSpace || slices.Contains(b.Items, item) {
		return false
	}
	b.Items = append(b.Items, item)
	return true
}

// RemoveItem drops item from the pool and from the called list.
func (b *Bingo) RemoveItem(item string) bool {
	before := len(b.Items) + len(b.CalledItems)
	b.Items = slices.DeleteFunc(b.Items, func(i string) bool { return i == item })
	b.CalledItems = slices.DeleteFunc(b.CalledItems, func(i string) bool { return i == item })
	return len(b.Items)+len(b.CalledItems) != before
}

// Call draws item from the pool. Items outside the pool and repeats are refused.
func (b *Bingo) Call(item string) bool {
	if !slices.Contains(b.Items, item) || slices.Contains(b.CalledItems, item) {
		return false
	}
	b.CalledItems = append(b.CalledItems, item)
	return true
}

func (b *Bingo) Called() bingo.Called {
	return bingo.NewCalled(b.CalledItems)
}

// Mark records that p marked item on their card. The item need not have
// been called yet.
func (b *Bingo) Mark(item string, p Participant) bool {
	if item == "" {
		return false
	}
	for _, m := range b.Selections[item] {
		if m.ID == p.ID {
			return false
		}
	}
	b.Selections[item] = append(b.Selections[item], p)
	return true
}

func (b *Bingo) RegisterCard(p Participant, cells []string) {
	b.UserCards[p.ID] = &Card{
		ID:    p.ID,
		Name:  p.Name,
		Items: slices.Clone(cells),
	}
}

// Candidates lists every registered card ordered by participant id.
func (b *Bingo) Candidates() []bingo.Candidate {
	out := make([]bingo.Candidate, 0, len(b.UserCards))
	for _, card := range b.UserCards {
		out = append(out, bingo.Candidate{
			ParticipantID: card.ID,
			Name:          card.Name,
			Cells:         card.Items,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ParticipantID < out[j].ParticipantID })
	return out
}

// OpenSlots returns the prize slots nobody has claimed yet.
func (b *Bingo) OpenSlots() []bingo.Pattern {
	var open []bingo.Pattern
	for _, slot := range bingo.Slots {
		if b.Prizes.Holder(slot) == nil {
			open = append(open, slot)
		}
	}
	return open
}

// ClaimPrize re-checks p's card against the called items and fills the slot
// if it is still empty.
func (b *Bingo) ClaimPrize(slot bingo.Pattern, p Participant, label string) (*PrizeClaim, error) {
	target := b.Prizes.slot(slot)
	if target == nil {
		return nil, ErrUnknownSlot
	}
	if *target != nil {
		return nil, ErrSlotTaken
	}

	card, ok := b.UserCards[p.ID]
	if !ok {
		return nil, ErrNoCard
	}
	if !bingo.Qualifies(card.Items, b.Called(), slot) {
		return nil, ErrNotEligible
	}

	claim := &PrizeClaim{ID: p.ID, Name: p.Name, Prize: label, Slot: slot}
	*target = claim
	b.Winners = append(b.Winners, *claim)

	return claim, nil
}
