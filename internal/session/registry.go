/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package session maps live connections to the participants behind them.
package session

import (
	"sort"

	"github.com/Rediminds/holiday-game/internal/roster"
	"github.com/Rediminds/holiday-game/internal/state"
)

// Identity is what a connection is bound to after a successful join.
type Identity struct {
	ID   string
	Name string
	Role roster.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == roster.RoleAdmin
}

func (i Identity) Participant() state.Participant {
	return state.Participant{ID: i.ID, Name: i.Name}
}

// Registry is owned by the dispatcher goroutine and is not locked.
type Registry struct {
	byConn        map[string]Identity
	byParticipant map[string]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		byConn:        make(map[string]Identity),
		byParticipant: make(map[string]map[string]struct{}),
	}
}

// Join binds connID to id, replacing any earlier binding of that connection.
func (r *Registry) Join(connID string, id Identity) {
	r.Leave(connID)

	r.byConn[connID] = id
	conns, ok := r.byParticipant[id.ID]
	if !ok {
		conns = make(map[string]struct{})
		r.byParticipant[id.ID] = conns
	}
	conns[connID] = struct{}{}
}

// Leave forgets connID and reports whether it was bound.
func (r *Registry) Leave(connID string) bool {
	id, ok := r.byConn[connID]
	if !ok {
		return false
	}

	delete(r.byConn, connID)
	if conns := r.byParticipant[id.ID]; conns != nil {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.byParticipant, id.ID)
		}
	}
	return true
}

func (r *Registry) Lookup(connID string) (Identity, bool) {
	id, ok := r.byConn[connID]
	return id, ok
}

// Connections returns every connection held by participantID, sorted.
func (r *Registry) Connections(participantID string) []string {
	conns := r.byParticipant[participantID]
	out := make([]string, 0, len(conns))
	for c := range conns {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Admins returns the connections of every admin.
func (r *Registry) Admins() []string {
	var out []string
	for conn, id := range r.byConn {
		if id.IsAdmin() {
			out = append(out, conn)
		}
	}
	sort.Strings(out)
	return out
}

// Present lists each connected participant once, however many tabs they hold.
func (r *Registry) Present() []state.Participant {
	out := make([]state.Participant, 0, len(r.byParticipant))
	for _, conns := range r.byParticipant {
		for conn := range conns {
			out = append(out, r.byConn[conn].Participant())
			break
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Sessions copies the connection table in the shape kept in the state tree.
func (r *Registry) Sessions() map[string]state.Participant {
	out := make(map[string]state.Participant, len(r.byConn))
	for conn, id := range r.byConn {
		out[conn] = id.Participant()
	}
	return out
}
