/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hub

import (
	"encoding/json"

	"github.com/Rediminds/holiday-game/internal/bingo"
	"github.com/Rediminds/holiday-game/internal/roster"
	"github.com/Rediminds/holiday-game/internal/state"
)

// Envelope frames every message in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Client intents
const (
	IntentJoin         = "join_session"
	IntentRegisterCard = "bingo_register_card"
	IntentSetStage     = "admin_set_stage"
	IntentAddBingoItem = "admin_add_bingo_item"
	IntentRemoveItem   = "admin_remove_bingo_item"
	IntentCallItem     = "bingo_call_item"
	IntentClaimPrize   = "bingo_claim_prize"
	IntentMarkItem     = "bingo_mark_item"
	IntentAddGift      = "admin_add_gift"
	IntentRemoveGift   = "admin_remove_gift"
	IntentSetBoxCount  = "admin_set_box_count"
	IntentOpenBox      = "gift_open_box"
	IntentClaimGift    = "gift_claim"
	IntentEnterContest = "spirit_enter_contest"
	IntentCastVote     = "spirit_cast_vote"
	IntentResetData    = "admin_reset_data"
)

// Server events
const (
	EventState            = "state_update"
	EventActiveUsers      = "active_users_update"
	EventBingo            = "bingo_update"
	EventGifts            = "gift_update"
	EventSpirit           = "spirit_update"
	EventWinner           = "bingo_winner_announcement"
	EventEligible         = "bingo_eligible_to_claim"
	EventClaimRejected    = "bingo_claim_rejected"
	EventCard             = "bingo_card"
	EventCardUnavailable  = "bingo_card_unavailable"
	EventBingoReset       = "bingo_reset"
	EventBoxResult        = "gift_box_result"
	EventGiftClaimSuccess = "gift_claim_success"
	EventGiftClaimFailed  = "gift_claim_failed"
	EventGiftAlready      = "gift_already_claimed"
	EventSessionInfo      = "session_info"
	EventJoinFailed       = "join_failed"
	EventNotAuthorized    = "not_authorized"
	EventStorageDegraded  = "storage_degraded"
)

type joinPayload struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type registerCardPayload struct {
	Items []string `json:"items"`
}

type claimPrizePayload struct {
	PrizeType bingo.Pattern `json:"prizeType"`
}

type markItemPayload struct {
	Item string `json:"item"`
}

type newGift struct {
	Name         string `json:"name"`
	ExternalLink string `json:"externalLink"`
	ImageURL     string `json:"imageUrl"`
}

type addGiftPayload struct {
	Region string  `json:"region"`
	Gift   newGift `json:"gift"`
}

type giftRefPayload struct {
	Region string `json:"region"`
	GiftID string `json:"giftId"`
}

type boxCountPayload struct {
	Region string `json:"region"`
	Count  int    `json:"count"`
}

type openBoxPayload struct {
	Region   string `json:"region"`
	BoxIndex *int   `json:"boxIndex"`
}

// SessionInfo is sent to a connection once its join succeeds.
type SessionInfo struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Role     roster.Role `json:"role"`
	Location string      `json:"location,omitempty"`
	Stage    state.Stage `json:"stage"`
}

type Reason struct {
	Reason string `json:"reason"`
}

type NotAuthorized struct {
	Intent string `json:"intent"`
}

type CardMessage struct {
	Items []string `json:"items"`
}

type PrizeNotice struct {
	Type   bingo.Pattern `json:"type"`
	UserID string        `json:"userId"`
	Name   string        `json:"name,omitempty"`
	Prize  string        `json:"prize"`
}

type ClaimRejected struct {
	Type   bingo.Pattern `json:"type"`
	Reason string        `json:"reason"`
}
