package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/randalmurphal/mergetrain/config"
	"github.com/randalmurphal/mergetrain/integrate"
	"github.com/randalmurphal/mergetrain/notify"
	"github.com/randalmurphal/mergetrain/pr"
	"github.com/randalmurphal/mergetrain/state"
	"github.com/randalmurphal/mergetrain/template"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	continueRun bool
	statePath   string
	remote      string
	verbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mergetrain",
		Short: "Merge a train of pull requests into a release branch",
		Long: `mergetrain merges a configured list of sub pull requests, in order,
into a fresh release branch using ordinary merge commits, then opens an
integration pull request whose description aggregates the sub-PRs by author.

Progress is saved after every merge, so a run interrupted by a conflict can
be finished with --continue once the conflict is resolved and committed.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVar(&configPath, "config", "config.json", "Path to the integration config file")
	rootCmd.Flags().BoolVar(&continueRun, "continue", false, "Resume the paused integration run")
	rootCmd.Flags().StringVar(&statePath, "state", state.DefaultPath, "Path to the run state file")
	rootCmd.Flags().StringVar(&remote, "remote", "origin", "Name of the git remote")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if continueRun && cmd.Flags().Changed("config") {
		return fmt.Errorf("--continue resumes the persisted run and takes no config; use one of --config or --continue")
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	store := state.NewFileStore(statePath)

	cfg, err := loadConfig(store)
	if err != nil {
		return err
	}

	gitCtx, err := integrate.OpenRepository(cfg.RepoDirectory)
	if err != nil {
		return err
	}

	remoteURL, err := gitCtx.GetRemoteURL(remote)
	if err != nil {
		return fmt.Errorf("resolve remote %q: %w", remote, err)
	}
	provider, err := pr.ProviderFromEnv(remoteURL)
	if err != nil {
		return err
	}

	opts := []integrate.Option{
		integrate.WithLogger(logger),
		integrate.WithRemote(remote),
		integrate.WithNotifier(buildNotifier(logger, cfg)),
	}
	if cfg.PullRequestTemplate != "" {
		tmpl, err := template.Load(cfg.PullRequestTemplate)
		if err != nil {
			return err
		}
		opts = append(opts, integrate.WithTemplate(tmpl))
	}

	orchestrator := integrate.New(gitCtx, provider, store, opts...)

	ctx := context.Background()
	if continueRun {
		return orchestrator.Resume(ctx)
	}
	return orchestrator.Run(ctx, cfg)
}

// loadConfig reads the config file for a fresh run, or the config embedded
// in the persisted state for --continue, so a resumed run never depends on
// the config file still being present or unchanged.
func loadConfig(store state.Store) (*config.Integration, error) {
	if continueRun {
		persisted, err := store.Load()
		if err != nil {
			return nil, fmt.Errorf("no integration run to continue: %w", err)
		}
		cfg := persisted.Config
		cfg.ApplyDefaults()
		return &cfg, nil
	}
	return config.Load(configPath)
}

func buildNotifier(logger *slog.Logger, cfg *config.Integration) notify.Notifier {
	if cfg.NotifyWebhook == "" {
		return notify.NewLogNotifier(logger)
	}
	return notify.NewMultiNotifier(
		notify.NewLogNotifier(logger),
		notify.NewWebhookNotifier(cfg.NotifyWebhook, nil),
	)
}
