package cmd

import (
	"context"
	"os"
	"os/signal"

	"gdtranslate/pkg/config"
	"gdtranslate/pkg/errors"
	"gdtranslate/pkg/logger"
	"gdtranslate/pkg/session"
	"gdtranslate/pkg/translator"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const (
	unknownValue = "unknown"
)

var (
	Version   string
	BuildTime string
	GitCommit string
)

var logLevel string

// cfg is loaded once per invocation by the root pre-run hook.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "gdtranslate",
	Short: "Look up the selected text in GoldenDict",
	Long: `Reads the text currently selected with the mouse (the primary selection)
through xclip on X11 or wl-paste on Wayland and opens it in GoldenDict.
Meant to be bound to a desktop hotkey.

Settings are read from ~/.config/gdtranslate/config.yaml and GDTRANSLATE_*
environment variables.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		// Set log level: explicit flag takes precedence over env var and config
		level := cfg.LogLevel
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		logger.SetLevel(level)
		logger.WithRun(uuid.New().String())
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newTranslator(cmd)
		if err != nil {
			return err
		}
		return t.Run(cmd.Context())
	},
}

func newTranslator(cmd *cobra.Command) (*translator.Translator, error) {
	env, err := session.LoadEnv()
	if err != nil {
		return nil, errors.NewWithError(errors.ExitCodeGeneral, "failed to read environment", err)
	}
	logger.Debug().
		Str("wayland_display", env.WaylandDisplay).
		Str("display", env.Display).
		Str("session_type", env.SessionType).
		Str("desktop", env.CurrentDesktop).
		Msg("session environment")

	return translator.New(translator.Options{
		Env:         env,
		Config:      cfg,
		Stdout:      cmd.OutOrStdout(),
		Interactive: isatty.IsTerminal(os.Stdout.Fd()),
	}), nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		exitCode := errors.HandleReturn(err)
		os.Exit(int(exitCode))
	}
}

func init() {
	RegisterCommands(rootCmd)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error, off)")
}
