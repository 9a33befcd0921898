package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/helmcode/gbp-pulse/pkg/apperr"
	"github.com/helmcode/gbp-pulse/pkg/config"
	"github.com/helmcode/gbp-pulse/pkg/formatter"
	"github.com/helmcode/gbp-pulse/pkg/gateway"
	"github.com/helmcode/gbp-pulse/pkg/llm"
	"github.com/helmcode/gbp-pulse/pkg/logging"
	"github.com/helmcode/gbp-pulse/pkg/session"
	"github.com/helmcode/gbp-pulse/pkg/store"
)

var (
	configFile   string
	outputFormat string
	llmProvider  string
	llmModel     string
	verbose      bool
)

// AddGlobalFlags registers the flags shared by every command.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ./gbp-pulse.yaml or ~/.gbp-pulse/gbp-pulse.yaml)")
	root.PersistentFlags().StringVarP(&outputFormat, "output", "o", "human", "Output format (human, json, yaml)")
	root.PersistentFlags().StringVar(&llmProvider, "provider", "", "LLM provider (gemini, claude, openai)")
	root.PersistentFlags().StringVar(&llmModel, "model", "", "LLM model override")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
}

// app is the wiring shared by the commands: configuration, logger, store and
// the session state loaded from it.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *store.ContextStore
	state    *session.State
	degraded bool
}

func bootstrap(ctx context.Context) (*app, error) {
	if !formatter.ValidFormat(outputFormat) {
		return nil, fmt.Errorf("unsupported output format %q (supported: human, json, yaml)", outputFormat)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
		if key := config.ProviderKey(llmProvider); key != "" {
			cfg.LLM.APIKey = key
		}
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	backend, degraded := store.Open(cfg.Store, logger)
	cs := store.NewContextStore(backend, logger)
	state := session.New(cs, logger)
	state.Init(ctx)

	if degraded {
		printWarning("Progress will not be saved: the state database could not be opened.")
	}
	return &app{cfg: cfg, logger: logger, store: cs, state: state, degraded: degraded}, nil
}

func (a *app) gateway(ctx context.Context) (gateway.Gateway, error) {
	l, err := llm.New(ctx, a.cfg.LLM)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("LLM provider ready", zap.String("provider", a.cfg.LLM.Provider), zap.String("model", l.Model()))
	return gateway.New(l, a.logger), nil
}

// requestContext bounds a gateway call by the configured timeout.
func (a *app) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.cfg.LLM.Timeout)
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func printer() *formatter.Printer {
	return formatter.New(os.Stdout, outputFormat)
}

func human() bool {
	return outputFormat == formatter.FormatHuman || outputFormat == ""
}

// startSpinner shows progress on stderr in human mode only.
func startSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	if human() {
		s.Start()
	}
	return s
}

func printHeader(title string, details ...string) {
	if !human() {
		return
	}
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Printf("📍 %s\n", title)
	for _, d := range details {
		fmt.Printf("   %s\n", d)
	}
	fmt.Println()
}

func printSuccess(msg string) {
	if !human() {
		return
	}
	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", msg)
}

func printWarning(msg string) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(os.Stderr, "! %s\n", msg)
}

func printError(msg string) {
	red := color.New(color.FgRed)
	red.Fprintf(os.Stderr, "✗ %s\n", msg)
}

// userError turns a core error into the message shown to the user.
func userError(err error) error {
	return errors.New(apperr.UserMessage(err))
}
