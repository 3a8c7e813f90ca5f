/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package state holds the single game state tree shared by every
// connected client, and the store that persists it.
package state

import (
	"slices"
)

type Stage string

const (
	StageLobby      Stage = "LOBBY"
	StageIntroEmoji Stage = "INTRO_EMOJI"
	StageBingo      Stage = "BINGO"
	StageGiftGame   Stage = "GIFT_GAME"
	StageSpiritWear Stage = "SPIRIT_WEAR"
	StageClosing    Stage = "CLOSING"
)

var Stages = []Stage{
	StageLobby,
	StageIntroEmoji,
	StageBingo,
	StageGiftGame,
	StageSpiritWear,
	StageClosing,
}

func (s Stage) Valid() bool {
	return slices.Contains(Stages, s)
}

// Participant is the identity attached to sessions, marks and contestants.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GameState is the root of the tree. The JSON layout is also the on-disk format.
type GameState struct {
	Stage          Stage                  `json:"currentStage"`
	ActiveSessions map[string]Participant `json:"activeSessions"`
	Bingo          Bingo                  `json:"bingo"`
	Gifts          Gifts                  `json:"gifts"`
	SpiritWear     SpiritWear             `json:"spiritWear"`
}

// DefaultRegions seed an empty inventory.
var DefaultRegions = []string{"US", "India"}

func New() *GameState {
	s := &GameState{Stage: StageLobby}
	s.backfill()
	for _, region := range DefaultRegions {
		s.Gifts.Inventory[region] = []*Gift{}
	}
	return s
}

// backfill replaces absent sub-trees with empty defaults and drops any
// persisted sessions, which never survive a restart.
func (s *GameState) backfill() {
	if !s.Stage.Valid() {
		s.Stage = StageLobby
	}

	s.ActiveSessions = make(map[string]Participant)

	b := &s.Bingo
	if b.Items == nil {
		b.Items = []string{}
	}
	if b.CalledItems == nil {
		b.CalledItems = []string{}
	}
	if b.Selections == nil {
		b.Selections = make(map[string][]Participant)
	}
	if b.UserCards == nil {
		b.UserCards = make(map[string]*Card)
	}
	for id, card := range b.UserCards {
		if card == nil {
			delete(b.UserCards, id)
		}
	}
	if b.Winners == nil {
		b.Winners = []PrizeClaim{}
	}

	g := &s.Gifts
	if g.Inventory == nil {
		g.Inventory = make(map[string][]*Gift)
	}
	for region, gifts := range g.Inventory {
		g.Inventory[region] = slices.DeleteFunc(gifts, func(gift *Gift) bool { return gift == nil })
	}
	if g.BoxCount == nil {
		g.BoxCount = make(map[string]int)
	}
	if g.Claims == nil {
		g.Claims = make(map[string]*GiftClaim)
	}
	if g.OpenedBoxes == nil {
		g.OpenedBoxes = make(map[string][]int)
	}

	sw := &s.SpiritWear
	if sw.Contestants == nil {
		sw.Contestants = []Participant{}
	}
	if sw.Votes == nil {
		sw.Votes = make(map[string]int)
	}
}

// ResetRound clears everything scoped to a round. The item pool, the gift
// inventory and the stage survive.
func (s *GameState) ResetRound() {
	s.Bingo.CalledItems = []string{}
	s.Bingo.Winners = []PrizeClaim{}
	s.Bingo.Selections = make(map[string][]Participant)
	s.Bingo.UserCards = make(map[string]*Card)
	s.Bingo.Prizes = Prizes{}

	s.Gifts.Claims = make(map[string]*GiftClaim)
	s.Gifts.OpenedBoxes = make(map[string][]int)
	for _, gifts := range s.Gifts.Inventory {
		for _, gift := range gifts {
			gift.Claimed = false
			gift.ClaimedBy = nil
		}
	}

	s.SpiritWear.Contestants = []Participant{}
	s.SpiritWear.Votes = make(map[string]int)
}
