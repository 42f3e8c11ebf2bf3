package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/abelbrown/pokedex/internal/coord"
	"github.com/abelbrown/pokedex/internal/logging"
	"github.com/abelbrown/pokedex/internal/otel"
	"github.com/abelbrown/pokedex/internal/ui"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var (
	configPath string
	dbPath     string
	logLevel   string
	jsonOutput bool
	showDebug  bool
)

var rootCmd = &cobra.Command{
	Use:           "pokedex",
	Short:         "Pokedex - browse, search and star Pokemon from your terminal",
	Long:          "Runs the Pokedex TUI. Subcommands expose the same catalog headlessly.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default ~/.pokedex/config.yaml, or POKEDEX_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "",
		"SQLite database path (overrides config and POKEDEX_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Console log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output in JSON format")
	rootCmd.Flags().BoolVar(&showDebug, "debug", false,
		"Open the debug overlay on start")

	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(typeCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(storageCmd)
	rootCmd.AddCommand(configCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	// console output would corrupt the alternate screen
	e, err := setup(io.Discard)
	if err != nil {
		return err
	}
	defer e.Close()

	e.events.Info(otel.KindStartup, "main", Version)

	coordinator := coord.New(e.cfg.UI.PageSize)
	refresher := coord.NewRefresher(e.cache, e.cfg.Catalog.RefreshInterval.Std(), e.events)

	app := ui.NewAppWithConfig(ui.AppConfig{
		Ctx:         ctx,
		Coordinator: coordinator,
		Cache:       e.cache,
		Catalog:     e.client,
		Favorites:   e.favs,
		OnActive:    refresher.SetActive,
		ShowDebug:   showDebug || e.cfg.UI.ShowDebug,
		Obs:         ui.ObsConfig{Ring: e.ring, Log: e.events},
	})

	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	refresher.Start(ctx, func(u coord.Update) {
		program.Send(ui.RefreshUpdate(u))
	})

	_, runErr := program.Run()

	cancel()
	refresher.Wait()

	killed := errors.Is(runErr, tea.ErrProgramKilled)
	if runErr != nil && !killed {
		e.events.Error(otel.KindError, "main", runErr)
		e.log.Error("program error", logging.Err(runErr))
	}
	e.events.Info(otel.KindShutdown, "main", "")
	if killed {
		return nil
	}
	return runErr
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("error:", err)
		os.Exit(1)
	}
}
