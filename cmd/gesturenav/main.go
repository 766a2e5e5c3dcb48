package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/v0xg/gesturenav/internal/ai"
	"github.com/v0xg/gesturenav/internal/browser"
	"github.com/v0xg/gesturenav/internal/config"
	"github.com/v0xg/gesturenav/internal/edgescroll"
	"github.com/v0xg/gesturenav/internal/gesture"
	"github.com/v0xg/gesturenav/internal/input"
	"github.com/v0xg/gesturenav/internal/navigate"
	"github.com/v0xg/gesturenav/internal/render"
)

var (
	configPath string
	verbose    bool
	width      int
	height     int
	profile    string
	output     string
	fps        int
	noTrail    bool
)

// indicatorTint colors the edge-scroll indicator bars.
var indicatorTint = color.RGBA{66, 133, 244, 90}

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "gesturenav",
		Short: "Mouse gestures and edge scrolling for a Chromium page",
		Long: `gesturenav recognizes right-button drag gestures and edge-of-viewport
hovering in a browser page and turns them into navigation: new tab, next and
previous tab, next and previous page, reload, back, forward and close tab.

Example:
  gesturenav browse https://news.ycombinator.com --config gestures.yaml
  gesturenav replay https://example.com path.yaml -o demo.gif`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Gesture configuration file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")

	browseCmd := &cobra.Command{
		Use:   "browse <url>",
		Short: "Open a browser window with gestures enabled",
		Args:  cobra.ExactArgs(1),
		RunE:  runBrowse,
	}
	browseCmd.Flags().IntVar(&width, "width", 1280, "Viewport width")
	browseCmd.Flags().IntVar(&height, "height", 720, "Viewport height")
	browseCmd.Flags().StringVar(&profile, "profile", "", "Chrome/Chromium profile directory for authenticated sessions (close browser first)")

	replayCmd := &cobra.Command{
		Use:   "replay <url> <script.yaml>",
		Short: "Replay a scripted pointer path headlessly and record a GIF",
		Args:  cobra.ExactArgs(2),
		RunE:  runReplay,
	}
	replayCmd.Flags().StringVarP(&output, "output", "o", "gesture.gif", "Output filename")
	replayCmd.Flags().IntVar(&fps, "fps", 20, "Frames per second")
	replayCmd.Flags().IntVar(&width, "width", 1280, "Viewport width")
	replayCmd.Flags().IntVar(&height, "height", 720, "Viewport height")
	replayCmd.Flags().BoolVar(&noTrail, "no-trail", false, "Do not draw the gesture trail")

	checkCmd := &cobra.Command{
		Use:   "check-config <file>",
		Short: "Validate a configuration file and print its gesture table",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheckConfig,
	}

	rootCmd.AddCommand(browseCmd, replayCmd, checkCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig returns the defaults when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newLogger writes structured logs to stderr; debug level with --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildRouter wires the recognizer, edge controller and navigator to b,
// drawing on surface.
func buildRouter(b *browser.Browser, store *config.Store, surface render.Surface, logger *slog.Logger) (*input.Router, error) {
	cfg := store.Current()

	var picker navigate.Picker
	if cfg.Fallback.Provider != "" {
		p, err := ai.NewProvider(cfg.Fallback.Provider, cfg.Fallback.Model)
		if err != nil {
			return nil, fmt.Errorf("link picker: %w", err)
		}
		picker = ai.NewPicker(p, logger)
		logVerbose("  Link picker: %s", cfg.Fallback.Provider)
	}

	nav := navigate.New(b, store, picker, logger)
	rec := gesture.New(gesture.Options{
		Settings:   store,
		Dispatcher: b,
		Pages:      nav,
		Surface:    surface,
		Viewport:   b,
		Logger:     logger,
	})
	edges := edgescroll.New(edgescroll.Options{
		Settings: store,
		Viewport: b,
		Scroller: b,
		Surface:  surface,
		Logger:   logger,
	})
	return input.NewRouter(store, b.Host, rec, edges, b, logger), nil
}

func logVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Printf(format+"\n", args...)
	}
}
