// ABOUTME: Root command wiring config, logging, storage and the repository.
// ABOUTME: Every subcommand shares the repository opened here.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harper/pinboard/internal/config"
	"github.com/harper/pinboard/internal/events"
	"github.com/harper/pinboard/internal/repo"
	"github.com/harper/pinboard/internal/store"
	"github.com/harper/pinboard/internal/ui"
	"github.com/spf13/cobra"
)

// skipStore marks commands that run without opening the notes store.
const skipStore = "skip-store"

var (
	cfg       *config.Config
	logger    *log.Logger
	noteStore store.Store
	publisher *events.Publisher
	board     *repo.Repository
)

var rootCmd = &cobra.Command{
	Use:           "pinboard",
	Short:         "Sticky notes for the terminal",
	Long:          `A board of colored sticky notes. Pinned notes stay on top, everything else is ordered by last edit.`,
	Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cmd)
		if err != nil {
			return err
		}
		logger = newLogger(cmd, cfg)

		if cmd.Annotations[skipStore] == "true" {
			return nil
		}
		return openBoard(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeBoard(cmd.Context())
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
		_ = closeBoard(context.Background())
	}
	return err
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.Path()
	}
	c, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		c.Store.Backend = backend
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		if c.Store.Backend == "blob" {
			c.Store.URL = db
		} else {
			c.Store.Path = db
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

func newLogger(cmd *cobra.Command, c *config.Config) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{Prefix: "pinboard"})
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = log.DebugLevel
	}
	l.SetLevel(level)
	return l
}

func openBoard(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	noteStore, err = store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	opts := []repo.Option{repo.WithLogger(logger)}
	publisher, err = events.OpenPublisher(ctx, cfg.Events.Topic)
	if err != nil {
		logger.Warn("change events disabled", "topic", cfg.Events.Topic, "err", err)
	} else {
		opts = append(opts, repo.WithNotifier(publisher))
	}

	board = repo.New(noteStore, opts...)
	if board.LoadErr() != nil {
		fmt.Fprintln(os.Stderr, ui.Warning("could not read saved notes, starting with an empty board"))
	}
	return nil
}

func closeBoard(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	if publisher != nil {
		errs = append(errs, publisher.Shutdown(ctx))
		publisher = nil
	}
	if noteStore != nil {
		errs = append(errs, noteStore.Close())
		noteStore = nil
	}
	board = nil
	return errors.Join(errs...)
}

// persisted turns a mutation error into the command's result, warning when
// the change only exists in memory.
func persisted(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrPersistence) {
		fmt.Fprintln(os.Stderr, ui.Warning("change may not survive a restart"))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "store path (bucket URL for the blob backend)")
	rootCmd.PersistentFlags().String("backend", "", "store backend: file, blob, sqlite, badger or bolt")
	rootCmd.PersistentFlags().String("config", "", "config file (default $XDG_CONFIG_HOME/pinboard/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
}
