/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"github.com/Rediminds/holiday-game/internal/hub"
	"github.com/Rediminds/holiday-game/internal/roster"
)

// publicUser is a roster entry without contact details.
type publicUser struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Role     roster.Role `json:"role"`
	Location string      `json:"location,omitempty"`
}

func serveState(cfg *Config, log zerolog.Logger, h *hub.Hub, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		data, err := h.Snapshot(r.Context())
		switch {
		case errors.Is(err, hub.ErrStopped):
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
			return
		case err != nil:
			log.Error().Err(err).Msg("failed to snapshot state")
			http.Error(w, "snapshot failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		written, err := w.Write(data)
		if err != nil {
			reportErr(errs, err)

			return
		}

		logServed(log, r, "state", written, startTime)
	}
}

func serveUsers(cfg *Config, log zerolog.Logger, directory *roster.Directory, errs chan<- error) httprouter.Handle {
	users := make([]publicUser, 0, directory.Len())
	for _, u := range directory.Users() {
		users = append(users, publicUser{ID: u.ID, Name: u.Name, Role: u.Role, Location: u.Location})
	}

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		data, err := json.Marshal(users)
		if err != nil {
			http.Error(w, "encoding failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		securityHeaders(cfg, w)

		written, err := w.Write(data)
		if err != nil {
			reportErr(errs, err)

			return
		}

		logServed(log, r, "users", written, startTime)
	}
}
