/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"github.com/Rediminds/holiday-game/internal/hub"
)

func cspHome(w http.ResponseWriter) {
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self'")
}

func serveHomePage(cfg *Config, log zerolog.Logger, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		body := fmt.Sprintf(`<p>Scan to join the party games.</p><img src="%s/qr" alt="Join code" width="320" height="320">`,
			html.EscapeString(cfg.prefix))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		cspHome(w)

		written, err := w.Write([]byte(newPage("Holiday Party", body)))
		if err != nil {
			reportErr(errs, err)

			return
		}

		logServed(log, r, "home", written, startTime)
	}
}

func serveHealthCheck(cfg *Config, h *hub.Hub, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		status, body := http.StatusOK, "Ok\n"
		if h.Degraded() {
			status, body = http.StatusServiceUnavailable, "Degraded: state file not writable\n"
		}
		w.WriteHeader(status)

		_, err := w.Write([]byte(body))
		if err != nil {
			reportErr(errs, err)

			return
		}
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := `User-agent: *
Disallow: /`

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(data))
		if err != nil {
			reportErr(errs, err)

			return
		}
	}
}
