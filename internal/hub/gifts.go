/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hub

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Rediminds/holiday-game/internal/session"
	"github.com/Rediminds/holiday-game/internal/state"
)

// MaxBoxCount bounds the number of mystery boxes per region.
const MaxBoxCount = 200

// giftID derives a unique id from the region and the creation time.
func (h *Hub) giftID(region string) string {
	gifts := &h.state().Gifts

	base := fmt.Sprintf("gift_%s_%d", strings.ToLower(strings.ReplaceAll(region, " ", "_")), h.clock.Now().UnixMilli())
	id := base
	for n := 2; gifts.HasID(id); n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	return id
}

func (h *Hub) addGift(c *Client, who session.Identity, raw json.RawMessage) bool {
	p, ok := decode[addGiftPayload](h, c, raw)
	if !ok {
		return false
	}

	region := strings.TrimSpace(p.Region)
	name := strings.TrimSpace(p.Gift.Name)
	if region == "" || name == "" {
		return false
	}

	gift := &state.Gift{
		ID:           h.giftID(region),
		Name:         name,
		ExternalLink: p.Gift.ExternalLink,
		ImageURL:     p.Gift.ImageURL,
	}

	gifts := &h.state().Gifts
	gifts.AddGift(region, gift)

	h.log.Info().Str("region", region).Str("gift", gift.ID).Str("participant", who.ID).Msg("gift added")
	h.emitAll(EventGifts, gifts)

	return true
}

func (h *Hub) removeGift(c *Client, _ session.Identity, raw json.RawMessage) bool {
	p, ok := decode[giftRefPayload](h, c, raw)
	if !ok {
		return false
	}

	gifts := &h.state().Gifts
	if !gifts.RemoveGift(p.Region, p.GiftID) {
		return false
	}

	h.emitAll(EventGifts, gifts)
	return true
}

func (h *Hub) setBoxCount(c *Client, _ session.Identity, raw json.RawMessage) bool {
	p, ok := decode[boxCountPayload](h, c, raw)
	if !ok {
		return false
	}

	region := strings.TrimSpace(p.Region)
	if region == "" || p.Count < 1 || p.Count > MaxBoxCount {
		return false
	}

	gifts := &h.state().Gifts
	if n, set := gifts.BoxCount[region]; set && n == p.Count {
		return false
	}
	gifts.BoxCount[region] = p.Count

	h.emitAll(EventGifts, gifts)
	return true
}

// openBox reveals what sits behind a box for the caller only. Repeat opens
// of the same box by the same participant produce nothing.
func (h *Hub) openBox(c *Client, who session.Identity, raw json.RawMessage) bool {
	p, ok := decode[openBoxPayload](h, c, raw)
	if !ok || p.Region == "" || p.BoxIndex == nil {
		return false
	}

	gifts := &h.state().Gifts
	index := *p.BoxIndex
	if index < 0 || index >= gifts.Boxes(p.Region) {
		return false
	}

	if existing, claimed := gifts.Claims[who.ID]; claimed {
		h.emitTo([]string{c.id}, EventGiftAlready, existing)
		return false
	}

	if !gifts.OpenBox(who.ID, index) {
		return false
	}

	result := gifts.Reveal(p.Region, index)
	h.log.Debug().Str("participant", who.ID).Str("region", p.Region).Int("box", index).Str("result", string(result.Type)).Msg("box opened")

	h.emitTo([]string{c.id}, EventBoxResult, result)
	h.emitAll(EventGifts, gifts)

	return true
}

// claimGift re-validates both sides at claim time; whatever the client
// believes it discovered is not trusted.
func (h *Hub) claimGift(c *Client, who session.Identity, raw json.RawMessage) bool {
	p, ok := decode[giftRefPayload](h, c, raw)
	if !ok {
		return false
	}

	gifts := &h.state().Gifts
	claim, err := gifts.Claim(who.Participant(), p.Region, p.GiftID, h.clock.Now())
	switch {
	case errors.Is(err, state.ErrAlreadyClaimed):
		h.emitTo([]string{c.id}, EventGiftAlready, claim)
		return false
	case err != nil:
		h.log.Info().Err(err).Str("participant", who.ID).Str("gift", p.GiftID).Msg("gift claim failed")
		h.emitTo([]string{c.id}, EventGiftClaimFailed, Reason{Reason: "Gift no longer available"})
		return false
	}

	h.log.Info().Str("participant", who.ID).Str("gift", claim.GiftID).Msg("gift claimed")

	h.emitAll(EventGifts, gifts)
	h.emitToParticipant(who.ID, EventGiftClaimSuccess, claim)

	return true
}
