package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/Rediminds/holiday-game/internal/hub"
	"github.com/Rediminds/holiday-game/internal/roster"
	"github.com/Rediminds/holiday-game/internal/state"
)

func newTestServer(t *testing.T, fsys afero.Fs) *httptest.Server {
	t.Helper()

	cfg := &Config{port: 8080, stateFile: "gameState.json", maxMessageSize: 4096, corsOrigins: []string{"*"}}

	store, err := state.Open(fsys, cfg.stateFile)
	if err != nil {
		t.Fatal(err)
	}
	directory := roster.New("holidayparty",
		roster.User{ID: "admin_1", Name: "Party Host", Email: "host@example.com", Role: roster.RoleAdmin},
		roster.User{ID: "us_1", Name: "Alice Smith", Email: "alice@example.com", Location: "US"},
	)
	h := hub.New(store, directory, zerolog.Nop(), hub.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- h.Run(ctx) }()

	errs := make(chan error, 64)
	srv := httptest.NewServer(newCORS(cfg).Handler(newRouter(cfg, zerolog.Nop(), h, directory, errs)))
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-stopped
	})

	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, afero.NewMemMapFs())

	resp, body := get(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || string(body) != "Ok\n" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestStateEndpoint(t *testing.T) {
	srv := newTestServer(t, afero.NewMemMapFs())

	resp, body := get(t, srv.URL+"/api/state")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var st state.GameState
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Stage != state.StageLobby {
		t.Errorf("stage = %q", st.Stage)
	}
	if got := st.Gifts.Boxes("US"); got != state.DefaultBoxCount {
		t.Errorf("boxes = %d", got)
	}
}

func TestUsersEndpointHidesEmail(t *testing.T) {
	srv := newTestServer(t, afero.NewMemMapFs())

	resp, body := get(t, srv.URL+"/api/users")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if strings.Contains(string(body), "example.com") {
		t.Errorf("email leaked: %s", body)
	}

	var users []publicUser
	if err := json.Unmarshal(body, &users); err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 || users[0].ID != "admin_1" || users[0].Role != roster.RoleAdmin {
		t.Errorf("users = %+v", users)
	}
}

func TestQRCode(t *testing.T) {
	srv := newTestServer(t, afero.NewMemMapFs())

	resp, body := get(t, srv.URL+"/qr")
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.HasPrefix(string(body), "\x89PNG") {
		t.Error("body is not a png")
	}
}

func TestVersionAndRobots(t *testing.T) {
	srv := newTestServer(t, afero.NewMemMapFs())

	if _, body := get(t, srv.URL+"/version"); string(body) != "holidaybox v"+releaseVersion+"\n" {
		t.Errorf("version = %q", body)
	}
	if resp, _ := get(t, srv.URL+"/robots.txt"); resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestJoinURL(t *testing.T) {
	cfg := &Config{prefix: "/party"}
	r := httptest.NewRequest(http.MethodGet, "http://games.local/party/qr", nil)
	r.Header.Set("X-Forwarded-Proto", "https")

	if got := joinURL(cfg, r); got != "https://games.local/party/" {
		t.Errorf("joinURL = %q", got)
	}
}

func TestHumanReadableSize(t *testing.T) {
	tests := map[int64]string{
		0:       "0 B",
		999:     "999 B",
		1000:    "1.0 kB",
		1536000: "1.5 MB",
	}
	for in, want := range tests {
		if got := humanReadableSize(in); got != want {
			t.Errorf("humanReadableSize(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestReportErrDoesNotBlock(t *testing.T) {
	errs := make(chan error, 1)
	errs <- io.ErrUnexpectedEOF

	done := make(chan struct{})
	go func() {
		reportErr(errs, io.ErrClosedPipe)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reportErr blocked on a full channel")
	}

	if got := <-errs; got != io.ErrUnexpectedEOF {
		t.Errorf("buffered error = %v", got)
	}
}
