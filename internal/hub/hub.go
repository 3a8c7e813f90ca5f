/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package hub is the single entry point for client intents. One goroutine
// validates, applies, persists and broadcasts each intent before taking
// the next, so claims can check-then-assign without further locking.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/Rediminds/holiday-game/internal/bingo"
	"github.com/Rediminds/holiday-game/internal/roster"
	"github.com/Rediminds/holiday-game/internal/session"
	"github.com/Rediminds/holiday-game/internal/state"
)

var ErrStopped = errors.New("hub stopped")

const (
	defaultMaxMessageSize int64 = 4096
	defaultSendBuffer           = 64
)

// Options tune a Hub. Zero values pick sensible defaults.
type Options struct {
	// Prizes labels each slot, e.g. "Backpack".
	Prizes         map[bingo.Pattern]string
	MaxMessageSize int64
	SendBuffer     int
	CheckOrigin    func(r *http.Request) bool
	Clock          clockwork.Clock
	Rand           *rand.Rand
}

type intent struct {
	client *Client
	env    Envelope
}

type snapshotResult struct {
	data []byte
	err  error
}

type delivery struct {
	to   []string // nil means every client
	data []byte
}

type Hub struct {
	store     *state.Store
	directory *roster.Directory
	sessions  *session.Registry
	log       zerolog.Logger
	clock     clockwork.Clock
	rng       *rand.Rand
	prizes    map[bingo.Pattern]string

	upgrader       websocket.Upgrader
	maxMessageSize int64
	sendBuffer     int

	// Owned by the Run goroutine.
	clients  map[string]*Client
	pending  []delivery
	notified map[bingo.Pattern]map[string]bool

	register  chan *Client
	unreg     chan *Client
	intents   chan intent
	snapshots chan chan snapshotResult
	done      chan struct{}

	degraded atomic.Bool
}

func New(store *state.Store, directory *roster.Directory, log zerolog.Logger, opts Options) *Hub {
	prizes := map[bingo.Pattern]string{
		bingo.RowColDiag: "Backpack",
		bingo.XPattern:   "Headphone",
	}
	for slot, label := range opts.Prizes {
		if slot.Valid() && label != "" {
			prizes[slot] = label
		}
	}

	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = defaultMaxMessageSize
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaultSendBuffer
	}
	if opts.CheckOrigin == nil {
		opts.CheckOrigin = func(r *http.Request) bool { return true }
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	h := &Hub{
		store:     store,
		directory: directory,
		sessions:  session.NewRegistry(),
		log:       log,
		clock:     opts.Clock,
		rng:       opts.Rand,
		prizes:    prizes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     opts.CheckOrigin,
		},
		maxMessageSize: opts.MaxMessageSize,
		sendBuffer:     opts.SendBuffer,
		clients:        make(map[string]*Client),
		register:       make(chan *Client),
		unreg:          make(chan *Client),
		intents:        make(chan intent),
		snapshots:      make(chan chan snapshotResult),
		done:           make(chan struct{}),
	}
	h.resetNotified()

	return h
}

func (h *Hub) state() *state.GameState {
	return h.store.State()
}

// Degraded reports whether the most recent save failed.
func (h *Hub) Degraded() bool {
	return h.degraded.Load()
}

// Run processes registrations, disconnects and intents one at a time until
// ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	h.log.Info().Str("state_file", h.store.Path()).Msg("dispatcher started")

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.log.Info().Msg("dispatcher stopped")
			return nil

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unreg:
			h.unregisterClient(c)

		case in := <-h.intents:
			h.dispatch(in.client, in.env)

		case reply := <-h.snapshots:
			data, err := h.store.Snapshot()
			reply <- snapshotResult{data: data, err: err}
		}
	}
}

// Snapshot returns the serialized state as of the moment the dispatcher
// gets to the request.
func (h *Hub) Snapshot(ctx context.Context) ([]byte, error) {
	reply := make(chan snapshotResult, 1)

	select {
	case h.snapshots <- reply:
	case <-h.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.data, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Submit queues an intent from c. It blocks until the dispatcher accepts
// it, and returns false once the hub has stopped.
func (h *Hub) Submit(c *Client, env Envelope) bool {
	select {
	case h.intents <- intent{client: c, env: env}:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) registerClient(c *Client) {
	h.clients[c.id] = c
	h.log.Debug().Str("conn", c.id).Int("clients", len(h.clients)).Msg("client connected")

	h.emitTo([]string{c.id}, EventState, h.state())
	h.flush()
}

func (h *Hub) unregisterClient(c *Client) {
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}

	if !h.sessions.Leave(c.id) {
		return
	}

	h.log.Debug().Str("conn", c.id).Msg("session closed")

	h.syncSessions()
	h.emitAll(EventActiveUsers, h.sessions.Present())
	h.persist()
	h.flush()
}

func (h *Hub) closeAll() {
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
}

func (h *Hub) syncSessions() {
	h.state().ActiveSessions = h.sessions.Sessions()
}

// persist flushes the tree to disk. A failure leaves the in-memory state
// authoritative and flags the hub as degraded until a later save succeeds.
func (h *Hub) persist() {
	err := h.store.Save()
	if err == nil {
		if h.degraded.Swap(false) {
			h.log.Info().Msg("state file writable again")
		}
		return
	}

	h.log.Error().Err(err).Str("state_file", h.store.Path()).Msg("failed to persist state")
	h.degraded.Store(true)
	h.emitTo(h.sessions.Admins(), EventStorageDegraded, Reason{Reason: err.Error()})
}

func (h *Hub) encode(kind string, payload any) ([]byte, bool) {
	data, err := json.Marshal(outbound{Type: kind, Payload: payload})
	if err != nil {
		h.log.Error().Err(err).Str("event", kind).Msg("failed to encode event")
		return nil, false
	}
	return data, true
}

// emitAll queues an event for every connection. Events are encoded
// immediately and delivered by flush once the intent has been persisted.
func (h *Hub) emitAll(kind string, payload any) {
	if data, ok := h.encode(kind, payload); ok {
		h.pending = append(h.pending, delivery{data: data})
	}
}

func (h *Hub) emitTo(conns []string, kind string, payload any) {
	if len(conns) == 0 {
		return
	}
	if data, ok := h.encode(kind, payload); ok {
		h.pending = append(h.pending, delivery{to: conns, data: data})
	}
}

// emitToParticipant reaches every tab the participant has open.
func (h *Hub) emitToParticipant(participantID, kind string, payload any) {
	h.emitTo(h.sessions.Connections(participantID), kind, payload)
}

func (h *Hub) flush() {
	for _, d := range h.pending {
		if d.to == nil {
			for _, c := range h.clients {
				h.deliver(c, d.data)
			}
			continue
		}
		for _, id := range d.to {
			if c, ok := h.clients[id]; ok {
				h.deliver(c, d.data)
			}
		}
	}
	h.pending = h.pending[:0]
}

// deliver never blocks the dispatcher; a client that cannot keep up is dropped.
func (h *Hub) deliver(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.log.Warn().Str("conn", c.id).Msg("send buffer full, dropping client")
		delete(h.clients, c.id)
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}
