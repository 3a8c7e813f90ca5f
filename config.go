package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	adminPassword  string
	bind           string
	corsOrigins    []string
	maxMessageSize int64
	port           int
	prefix         string
	profile        bool
	rowPrize       string
	stateFile      string
	tlsCert        string
	tlsKey         string
	usersFile      string
	verbose        bool
	version        bool
	xPrize         string
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if strings.TrimSpace(c.stateFile) == "" {
		return errors.New("--state-file must not be empty")
	}
	if c.maxMessageSize < 1 {
		return fmt.Errorf("invalid max message size (must be positive): %d", c.maxMessageSize)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("HOLIDAYBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "holidaybox",
		Short:         "Real-time coordinator for the holiday party games: bingo, gift exchange and spirit wear.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVar(&cfg.adminPassword, "admin-password", "holidayparty", "password admins join with (env: HOLIDAYBOX_ADMIN_PASSWORD)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: HOLIDAYBOX_BIND)")
	fs.StringSliceVar(&cfg.corsOrigins, "cors-origin", []string{"*"}, "origins allowed to call the api and open websockets (env: HOLIDAYBOX_CORS_ORIGIN)")
	fs.Int64Var(&cfg.maxMessageSize, "max-message-size", 4096, "largest websocket message accepted, in bytes (env: HOLIDAYBOX_MAX_MESSAGE_SIZE)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: HOLIDAYBOX_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: HOLIDAYBOX_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: HOLIDAYBOX_PROFILE)")
	fs.StringVar(&cfg.rowPrize, "row-prize", "Backpack", "prize for the first row, column or diagonal (env: HOLIDAYBOX_ROW_PRIZE)")
	fs.StringVar(&cfg.stateFile, "state-file", "gameState.json", "path to the persisted game state (env: HOLIDAYBOX_STATE_FILE)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: HOLIDAYBOX_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: HOLIDAYBOX_TLS_KEY)")
	fs.StringVar(&cfg.usersFile, "users-file", "users.json", "path to the roster, json or yaml (env: HOLIDAYBOX_USERS_FILE)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: HOLIDAYBOX_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: HOLIDAYBOX_VERSION)")
	fs.StringVar(&cfg.xPrize, "x-prize", "Headphone", "prize for the first X pattern (env: HOLIDAYBOX_X_PRIZE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("holidaybox v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
