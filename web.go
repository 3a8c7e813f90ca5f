package main

import (
	"context"
	"errors"
	"io/fs"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/Rediminds/holiday-game/internal/bingo"
	"github.com/Rediminds/holiday-game/internal/hub"
	"github.com/Rediminds/holiday-game/internal/roster"
	"github.com/Rediminds/holiday-game/internal/state"
)

const (
	timeout time.Duration = 10 * time.Second
)

func securityHeaders(cfg *Config, w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
	w.Header().Set("Permissions-Policy", "geolocation=(), midi=(), sync-xhr=(), microphone=(), camera=(), magnetometer=(), gyroscope=(), fullscreen=(), payment=()")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'")

	if cfg.scheme() == "https" {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	}
}

// reportErr hands a response write failure to the logger without blocking
// the handler; errors are dropped once the buffer is full or nobody reads.
func reportErr(errs chan<- error, err error) {
	select {
	case errs <- err:
	default:
	}
}

func realIP(r *http.Request) string {
	host, port, _ := net.SplitHostPort(r.RemoteAddr)
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	} else if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	}
	if net.ParseIP(host) != nil && strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		return host + ":" + port
	}
	return host
}

func serveVersion(cfg *Config, log zerolog.Logger, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusOK)

		written, err := w.Write([]byte("holidaybox v" + releaseVersion + "\n"))
		if err != nil {
			reportErr(errs, err)

			return
		}

		logServed(log, r, "version", written, startTime)
	}
}

func newCORS(cfg *Config) *cors.Cors {
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
		},
		AllowedOrigins: cfg.corsOrigins,
		AllowedHeaders: []string{"*"},
	})
}

// checkOrigin applies the CORS origin list to websocket upgrades. Requests
// without an Origin header come from non-browser clients.
func checkOrigin(c *cors.Cors) func(*http.Request) bool {
	return func(r *http.Request) bool {
		if r.Header.Get("Origin") == "" {
			return true
		}
		return c.OriginAllowed(r)
	}
}

func newRouter(cfg *Config, log zerolog.Logger, h *hub.Hub, directory *roster.Directory, errs chan<- error) *httprouter.Router {
	mux := httprouter.New()

	mux.PanicHandler = servePanic(cfg, log)

	mux.GET(cfg.prefix+"/", serveHomePage(cfg, log, errs))

	mux.GET(cfg.prefix+"/ws", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		h.ServeWS(w, r)
	})

	mux.GET(cfg.prefix+"/api/state", serveState(cfg, log, h, errs))

	mux.GET(cfg.prefix+"/api/users", serveUsers(cfg, log, directory, errs))

	mux.GET(cfg.prefix+"/healthz", serveHealthCheck(cfg, h, errs))

	mux.GET(cfg.prefix+"/qr", serveQR(cfg, log, errs))

	mux.GET(cfg.prefix+"/robots.txt", serveRobots(cfg, errs))

	mux.GET(cfg.prefix+"/version", serveVersion(cfg, log, errs))

	if cfg.profile {
		registerProfileHandlers(cfg, log, mux)
	}

	return mux
}

func loadRoster(cfg *Config, log zerolog.Logger, fsys afero.Fs) (*roster.Directory, error) {
	directory, err := roster.Load(fsys, cfg.usersFile, cfg.adminPassword)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("users_file", cfg.usersFile).Msg("roster not found, nobody will be able to join")
		return roster.New(cfg.adminPassword), nil
	}
	if err != nil {
		return nil, err
	}

	log.Info().Str("users_file", cfg.usersFile).Int("users", directory.Len()).Msg("roster loaded")

	return directory, nil
}

func ServePage(ctx context.Context, cfg *Config, args []string) error {
	var err error

	timeZone := os.Getenv("TZ")
	if timeZone != "" {
		time.Local, err = time.LoadLocation(timeZone)
		if err != nil {
			return err
		}
	}

	log := newLogger(cfg)

	log.Info().Str("version", releaseVersion).Msg("starting holidaybox")

	fsys := afero.NewOsFs()

	store, err := state.Open(fsys, cfg.stateFile)
	if err != nil {
		return err
	}
	if moved := store.Recovered(); moved != "" {
		log.Warn().Str("state_file", cfg.stateFile).Str("moved_to", moved).Msg("state file was corrupt, starting from defaults")
	}

	directory, err := loadRoster(cfg, log, fsys)
	if err != nil {
		return err
	}

	cfg.prefix = strings.TrimSuffix(cfg.prefix, "/")

	c := newCORS(cfg)

	h := hub.New(store, directory, log.With().Str("component", "hub").Logger(), hub.Options{
		Prizes: map[bingo.Pattern]string{
			bingo.RowColDiag: cfg.rowPrize,
			bingo.XPattern:   cfg.xPrize,
		},
		MaxMessageSize: cfg.maxMessageSize,
		CheckOrigin:    checkOrigin(c),
		Rand:           rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	})

	errs := make(chan error, 64)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           c.Handler(newRouter(cfg, log, h, directory, errs)),
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return h.Run(gctx)
	})

	g.Go(func() error {
		log.Info().Msgf("listening on %s://%s%s/", cfg.scheme(), srv.Addr, cfg.prefix)

		var err error
		if cfg.tlsKey != "" && cfg.tlsCert != "" {
			err = srv.ListenAndServeTLS(cfg.tlsCert, cfg.tlsKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		for {
			select {
			case err := <-errs:
				log.Debug().Err(err).Msg("failed to write response")
			case <-gctx.Done():
				return nil
			}
		}
	})

	return g.Wait()
}
