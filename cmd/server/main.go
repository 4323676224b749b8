package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/bluffbox/liars-dice-backend/internal/config"
	"github.com/bluffbox/liars-dice-backend/internal/httpapi"
	"github.com/bluffbox/liars-dice-backend/internal/hub"
	"github.com/bluffbox/liars-dice-backend/internal/lobby"
)

const releaseVersion = "0.1.0"

func main() {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	cfg := &config.Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

func newCmd(cfg *config.Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("LIARSDICE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "liars-dice-server",
		Short:         "Real-time lobby server for a 2-4 player bluffing dice game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&cfg.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: LIARSDICE_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", 2004, "port to listen on (env: LIARSDICE_PORT)")
	fs.DurationVar(&cfg.RevealDelay, "reveal-delay", lobby.DefaultRevealDelay, "pause between a bluff reveal and the next turn notice (env: LIARSDICE_REVEAL_DELAY)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log at debug level (env: LIARSDICE_VERBOSE)")

	// Flags win over env; env fills in anything left at its default.
	cmd.PreRunE = func(*cobra.Command, []string) error {
		var err error
		fs.VisitAll(func(f *pflag.Flag) {
			if err != nil || f.Changed || !v.IsSet(f.Name) {
				return
			}
			err = fs.Set(f.Name, v.GetString(f.Name))
		})
		return err
	}

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	h := hub.NewHub(ctx, hub.Config{RevealDelay: cfg.RevealDelay, Logger: logger})
	handler := httpapi.SetupRoutes(h, logger)

	logger.Info("server started", zap.String("addr", cfg.Addr()))
	return http.ListenAndServe(cfg.Addr(), handler)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
