/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hub

import (
	"encoding/json"

	"github.com/Rediminds/holiday-game/internal/session"
)

func (h *Hub) enterContest(_ *Client, who session.Identity, _ json.RawMessage) bool {
	sw := &h.state().SpiritWear
	if !sw.Enter(who.Participant()) {
		return false
	}

	h.emitAll(EventSpirit, sw)
	return true
}

// castVote counts every vote it receives. Whether one participant may vote
// more than once is left to the client.
func (h *Hub) castVote(c *Client, who session.Identity, raw json.RawMessage) bool {
	candidate, ok := decode[string](h, c, raw)
	if !ok {
		return false
	}

	sw := &h.state().SpiritWear
	if !sw.Vote(candidate) {
		return false
	}

	h.log.Debug().Str("participant", who.ID).Str("candidate", candidate).Msg("vote cast")
	h.emitAll(EventSpirit, sw)

	return true
}
