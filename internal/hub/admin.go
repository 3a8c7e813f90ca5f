/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hub

import (
	"encoding/json"

	"github.com/Rediminds/holiday-game/internal/session"
	"github.com/Rediminds/holiday-game/internal/state"
)

func (h *Hub) setStage(c *Client, who session.Identity, raw json.RawMessage) bool {
	stage, ok := decode[state.Stage](h, c, raw)
	if !ok || !stage.Valid() {
		return false
	}

	st := h.state()
	if st.Stage == stage {
		return false
	}
	st.Stage = stage

	h.log.Info().Str("stage", string(stage)).Str("participant", who.ID).Msg("stage changed")
	h.emitAll(EventState, st)

	return true
}

// resetData starts a new round. Items, inventory and stage are kept.
func (h *Hub) resetData(c *Client, who session.Identity, _ json.RawMessage) bool {
	st := h.state()
	st.ResetRound()
	h.resetNotified()

	h.log.Info().Str("participant", who.ID).Msg("round reset")
	h.emitAll(EventState, st)
	h.emitAll(EventBingoReset, nil)

	return true
}
