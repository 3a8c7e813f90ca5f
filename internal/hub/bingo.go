/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hub

import (
	"encoding/json"
	"strings"

	"github.com/Rediminds/holiday-game/internal/bingo"
	"github.com/Rediminds/holiday-game/internal/session"
)

// registerCard stores the participant's card. A supplied card is kept if it
// is well formed and still overlaps the pool; otherwise the stored card is
// reused or a fresh one is dealt. The result always goes back to the caller.
func (h *Hub) registerCard(c *Client, who session.Identity, raw json.RawMessage) bool {
	var p registerCardPayload
	if len(raw) > 0 && string(raw) != "null" {
		var ok bool
		if p, ok = decode[registerCardPayload](h, c, raw); !ok {
			return false
		}
	}

	b := &h.state().Bingo

	var cells []string
	if len(p.Items) > 0 {
		if err := bingo.ValidateCard(p.Items); err != nil {
			h.log.Debug().Err(err).Str("participant", who.ID).Msg("rejected supplied card")
			return false
		}
		if bingo.PoolOverlap(p.Items, b.Items) >= bingo.KeepThreshold {
			cells = p.Items
		}
	} else if card, ok := b.UserCards[who.ID]; ok && bingo.StillValid(card.Items, b.Items) {
		cells = card.Items
	}

	if cells == nil {
		fresh, err := bingo.NewCard(b.Items, h.rng)
		if err != nil {
			h.emitTo([]string{c.id}, EventCardUnavailable, Reason{Reason: err.Error()})
			return false
		}
		cells = fresh
	}

	b.RegisterCard(who.Participant(), cells)
	h.log.Debug().Str("participant", who.ID).Msg("registered bingo card")

	h.emitToParticipant(who.ID, EventCard, CardMessage{Items: cells})
	h.notifyEligible()

	return true
}

func (h *Hub) addBingoItem(c *Client, _ session.Identity, raw json.RawMessage) bool {
	item, ok := decode[string](h, c, raw)
	if !ok {
		return false
	}

	b := &h.state().Bingo
	if !b.AddItem(strings.TrimSpace(item)) {
		return false
	}

	h.emitAll(EventBingo, b)
	return true
}

// removeBingoItem shrinks the pool and re-deals any card that no longer
// overlaps it enough.
func (h *Hub) removeBingoItem(c *Client, _ session.Identity, raw json.RawMessage) bool {
	item, ok := decode[string](h, c, raw)
	if !ok {
		return false
	}

	b := &h.state().Bingo
	if !b.RemoveItem(item) {
		return false
	}

	for _, cand := range b.Candidates() {
		if bingo.StillValid(cand.Cells, b.Items) {
			continue
		}

		owner := session.Identity{ID: cand.ParticipantID, Name: cand.Name}
		fresh, err := bingo.NewCard(b.Items, h.rng)
		if err != nil {
			delete(b.UserCards, cand.ParticipantID)
			h.emitToParticipant(owner.ID, EventCardUnavailable, Reason{Reason: err.Error()})
			continue
		}

		b.RegisterCard(owner.Participant(), fresh)
		h.emitToParticipant(owner.ID, EventCard, CardMessage{Items: fresh})
	}

	h.emitAll(EventBingo, b)
	return true
}

func (h *Hub) callItem(c *Client, who session.Identity, raw json.RawMessage) bool {
	item, ok := decode[string](h, c, raw)
	if !ok {
		return false
	}

	b := &h.state().Bingo
	if !b.Call(item) {
		return false
	}

	h.log.Info().Str("item", item).Int("called", len(b.CalledItems)).Str("participant", who.ID).Msg("bingo item called")

	h.emitAll(EventBingo, b)
	h.notifyEligible()

	return true
}

// claimPrize is the contested step: the card is re-checked against the
// current called items and the slot is filled only if still empty.
func (h *Hub) claimPrize(c *Client, who session.Identity, raw json.RawMessage) bool {
	p, ok := decode[claimPrizePayload](h, c, raw)
	if !ok {
		return false
	}

	b := &h.state().Bingo
	claim, err := b.ClaimPrize(p.PrizeType, who.Participant(), h.prizes[p.PrizeType])
	if err != nil {
		h.log.Info().Err(err).Str("participant", who.ID).Str("slot", string(p.PrizeType)).Msg("prize claim rejected")
		h.emitTo([]string{c.id}, EventClaimRejected, ClaimRejected{Type: p.PrizeType, Reason: err.Error()})
		return false
	}

	h.log.Info().Str("participant", who.ID).Str("slot", string(claim.Slot)).Str("prize", claim.Prize).Msg("prize claimed")

	h.emitAll(EventWinner, PrizeNotice{
		Type:   claim.Slot,
		UserID: claim.ID,
		Name:   claim.Name,
		Prize:  claim.Prize,
	})
	h.emitAll(EventBingo, b)

	return true
}

func (h *Hub) markItem(c *Client, who session.Identity, raw json.RawMessage) bool {
	p, ok := decode[markItemPayload](h, c, raw)
	if !ok {
		return false
	}

	b := &h.state().Bingo
	if !b.Mark(p.Item, who.Participant()) {
		return false
	}

	h.emitAll(EventBingo, b)
	return true
}

func (h *Hub) resetNotified() {
	h.notified = make(map[bingo.Pattern]map[string]bool, len(bingo.Slots))
	for _, slot := range bingo.Slots {
		h.notified[slot] = make(map[string]bool)
	}
}

// notifyEligible tells each participant whose card newly qualifies for an
// open slot. Nothing is granted until they claim.
func (h *Hub) notifyEligible() {
	b := &h.state().Bingo

	for _, e := range bingo.Resolve(b.Candidates(), b.Called(), b.OpenSlots()) {
		if h.notified[e.Slot][e.ParticipantID] {
			continue
		}
		h.notified[e.Slot][e.ParticipantID] = true

		h.log.Info().Str("participant", e.ParticipantID).Str("slot", string(e.Slot)).Msg("eligible to claim")
		h.emitToParticipant(e.ParticipantID, EventEligible, PrizeNotice{
			Type:   e.Slot,
			UserID: e.ParticipantID,
			Name:   e.Name,
			Prize:  h.prizes[e.Slot],
		})
	}
}

// renotify repeats any standing eligibility to a participant who just joined.
func (h *Hub) renotify(participantID string) {
	b := &h.state().Bingo

	for _, e := range bingo.Resolve(b.Candidates(), b.Called(), b.OpenSlots()) {
		if e.ParticipantID != participantID {
			continue
		}
		h.notified[e.Slot][e.ParticipantID] = true
		h.emitToParticipant(e.ParticipantID, EventEligible, PrizeNotice{
			Type:   e.Slot,
			UserID: e.ParticipantID,
			Name:   e.Name,
			Prize:  h.prizes[e.Slot],
		})
	}
}
