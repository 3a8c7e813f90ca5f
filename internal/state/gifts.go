/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package state

import (
	"errors"
	"slices"
	"time"
)

// DefaultBoxCount is shown for regions without an explicit box count.
const DefaultBoxCount = 25

var (
	ErrAlreadyClaimed  = errors.New("participant already claimed a gift")
	ErrGiftUnavailable = errors.New("gift no longer available")
)

type ClaimedBy struct {
	ParticipantID string    `json:"userId"`
	Name          string    `json:"userName"`
	ClaimedAt     time.Time `json:"claimedAt"`
}

type Gift struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	ExternalLink string     `json:"externalLink"`
	ImageURL     string     `json:"imageUrl"`
	Claimed      bool       `json:"claimed"`
	ClaimedBy    *ClaimedBy `json:"claimedBy"`
}

// GiftClaim is the single grant a participant may hold for the event.
type GiftClaim struct {
	GiftID       string    `json:"giftId"`
	GiftName     string    `json:"giftName"`
	ExternalLink string    `json:"externalLink"`
	Region       string    `json:"region"`
	ClaimedAt    time.Time `json:"claimedAt"`
}

type Gifts struct {
	Inventory   map[string][]*Gift    `json:"inventory"`
	BoxCount    map[string]int        `json:"boxCount"`
	Claims      map[string]*GiftClaim `json:"claims"`
	OpenedBoxes map[string][]int      `json:"openedBoxes"`
}

func (g *Gifts) Boxes(region string) int {
	if n, ok := g.BoxCount[region]; ok && n > 0 {
		return n
	}
	return DefaultBoxCount
}

func (g *Gifts) Find(region, id string) *Gift {
	for _, gift := range g.Inventory[region] {
		if gift.ID == id {
			return gift
		}
	}
	return nil
}

// HasID reports whether any region already holds a gift with this id.
func (g *Gifts) HasID(id string) bool {
	for region := range g.Inventory {
		if g.Find(region, id) != nil {
			return true
		}
	}
	return false
}

func (g *Gifts) AddGift(region string, gift *Gift) {
	g.Inventory[region] = append(g.Inventory[region], gift)
}

func (g *Gifts) RemoveGift(region, id string) bool {
	gifts, ok := g.Inventory[region]
	if !ok {
		return false
	}
	kept := slices.DeleteFunc(gifts, func(gift *Gift) bool { return gift.ID == id })
	g.Inventory[region] = kept
	return len(kept) != len(gifts)
}

type BoxOutcome string

const (
	BoxGift  BoxOutcome = "gift"
	BoxTaken BoxOutcome = "taken"
	BoxEmpty BoxOutcome = "empty"
)

type BoxResult struct {
	Type     BoxOutcome `json:"type"`
	Region   string     `json:"region"`
	BoxIndex int        `json:"boxIndex"`
	Gift     *Gift      `json:"gift,omitempty"`
}

// Reveal maps box index i in region to the i-th gift of its inventory. The
// mapping is static, so every participant sees the same gift behind a box;
// only its claimed status can change.
func (g *Gifts) Reveal(region string, index int) BoxResult {
	result := BoxResult{Type: BoxEmpty, Region: region, BoxIndex: index}

	gifts := g.Inventory[region]
	if index < 0 || index >= len(gifts) {
		return result
	}

	gift := *gifts[index]
	result.Gift = &gift
	if gift.Claimed {
		result.Type = BoxTaken
	} else {
		result.Type = BoxGift
	}

	return result
}

// OpenBox records that participantID opened a box and reports whether it
// was opened for the first time.
func (g *Gifts) OpenBox(participantID string, index int) bool {
	if slices.Contains(g.OpenedBoxes[participantID], index) {
		return false
	}
	g.OpenedBoxes[participantID] = append(g.OpenedBoxes[participantID], index)
	return true
}

// Claim grants the gift to p. Both sides are checked: a participant holds
// at most one claim and a gift is claimed at most once.
func (g *Gifts) Claim(p Participant, region, giftID string, now time.Time) (*GiftClaim, error) {
	if existing, ok := g.Claims[p.ID]; ok {
		return existing, ErrAlreadyClaimed
	}

	gift := g.Find(region, giftID)
	if gift == nil || gift.Claimed {
		return nil, ErrGiftUnavailable
	}

	gift.Claimed = true
	gift.ClaimedBy = &ClaimedBy{ParticipantID: p.ID, Name: p.Name, ClaimedAt: now}

	claim := &GiftClaim{
		GiftID:       gift.ID,
		GiftName:     gift.Name,
		ExternalLink: gift.ExternalLink,
		Region:       region,
		ClaimedAt:    now,
	}
	g.Claims[p.ID] = claim

	return claim, nil
}
