/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hub

import (
	"encoding/json"

	"github.com/Rediminds/holiday-game/internal/session"
)

// handler applies one intent for a joined participant and reports whether
// the state tree changed.
type handler func(h *Hub, c *Client, who session.Identity, raw json.RawMessage) bool

type route struct {
	admin  bool
	handle handler
}

var routes = map[string]route{
	IntentRegisterCard: {handle: (*Hub).registerCard},
	IntentSetStage:     {admin: true, handle: (*Hub).setStage},
	IntentAddBingoItem: {admin: true, handle: (*Hub).addBingoItem},
	IntentRemoveItem:   {admin: true, handle: (*Hub).removeBingoItem},
	IntentCallItem:     {admin: true, handle: (*Hub).callItem},
	IntentClaimPrize:   {handle: (*Hub).claimPrize},
	IntentMarkItem:     {handle: (*Hub).markItem},
	IntentAddGift:      {admin: true, handle: (*Hub).addGift},
	IntentRemoveGift:   {admin: true, handle: (*Hub).removeGift},
	IntentSetBoxCount:  {admin: true, handle: (*Hub).setBoxCount},
	IntentOpenBox:      {handle: (*Hub).openBox},
	IntentClaimGift:    {handle: (*Hub).claimGift},
	IntentEnterContest: {handle: (*Hub).enterContest},
	IntentCastVote:     {handle: (*Hub).castVote},
	IntentResetData:    {admin: true, handle: (*Hub).resetData},
}

// dispatch runs a single intent to completion: validate, mutate, persist,
// then deliver whatever the handler queued.
func (h *Hub) dispatch(c *Client, env Envelope) {
	defer h.flush()

	log := h.log.With().Str("intent", env.Type).Str("conn", c.id).Logger()

	if env.Type == IntentJoin {
		if h.join(c, env.Payload) {
			h.persist()
		}
		return
	}

	r, ok := routes[env.Type]
	if !ok {
		log.Debug().Msg("ignoring unknown intent")
		return
	}

	who, ok := h.sessions.Lookup(c.id)
	if !ok {
		log.Debug().Msg("ignoring intent from connection that has not joined")
		return
	}

	if r.admin && !who.IsAdmin() {
		log.Warn().Str("participant", who.ID).Msg("rejected admin intent from non-admin")
		h.emitTo([]string{c.id}, EventNotAuthorized, NotAuthorized{Intent: env.Type})
		return
	}

	if !r.handle(h, c, who, env.Payload) {
		log.Debug().Str("participant", who.ID).Msg("intent made no change")
		return
	}

	log.Debug().Str("participant", who.ID).Msg("intent applied")
	h.persist()
}

// decode unmarshals an untrusted payload. Anything that does not fit the
// expected shape is dropped without a reply.
func decode[T any](h *Hub, c *Client, raw json.RawMessage) (T, bool) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		h.log.Debug().Err(err).Str("conn", c.id).Msg("malformed payload")
		return v, false
	}
	return v, true
}

func (h *Hub) join(c *Client, raw json.RawMessage) bool {
	p, ok := decode[joinPayload](h, c, raw)
	if !ok {
		return false
	}

	u, err := h.directory.Authenticate(p.ID, p.Password)
	if err != nil {
		h.log.Warn().Err(err).Str("conn", c.id).Str("participant", p.ID).Msg("join refused")
		h.emitTo([]string{c.id}, EventJoinFailed, Reason{Reason: err.Error()})
		return false
	}

	who := session.Identity{ID: u.ID, Name: u.Name, Role: u.Role}
	h.sessions.Join(c.id, who)
	h.syncSessions()

	h.log.Info().Str("conn", c.id).Str("participant", u.ID).Str("role", string(u.Role)).Msg("participant joined")

	h.emitTo([]string{c.id}, EventSessionInfo, SessionInfo{
		ID:       u.ID,
		Name:     u.Name,
		Role:     u.Role,
		Location: u.Location,
		Stage:    h.state().Stage,
	})
	h.emitAll(EventActiveUsers, h.sessions.Present())
	h.emitAll(EventState, h.state())
	h.renotify(u.ID)

	return true
}
