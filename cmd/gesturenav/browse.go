package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/v0xg/gesturenav/internal/browser"
	"github.com/v0xg/gesturenav/internal/config"
	"github.com/v0xg/gesturenav/internal/edgescroll"
)

func runBrowse(cmd *cobra.Command, args []string) error {
	url := args[0]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger().With("run", uuid.NewString())
	logVerbose("Starting gesturenav")
	logVerbose("  URL: %s", url)

	fmt.Printf("→ Loading configuration... ")
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Println("failed")
		return fmt.Errorf("config: %w", err)
	}
	store := config.NewStore(cfg)
	if configPath != "" {
		if err := config.Watch(ctx, configPath, store, logger); err != nil {
			fmt.Println("failed")
			return err
		}
	}
	fmt.Printf("done (%d gestures)\n", len(cfg.Actions()))

	fmt.Printf("→ Opening %s... ", url)
	b, err := browser.Launch(ctx, url, browser.Options{
		Width:      width,
		Height:     height,
		Headless:   false,
		ProfileDir: profile,
		Logger:     logger,
	})
	if err != nil {
		fmt.Println("failed")
		return fmt.Errorf("launch failed: %w", err)
	}
	defer b.Close()
	fmt.Println("done")

	b.SetTint(edgescroll.IndicatorTop, indicatorTint)
	b.SetTint(edgescroll.IndicatorBottom, indicatorTint)

	router, err := buildRouter(b, store, b, logger)
	if err != nil {
		return err
	}

	session := browser.NewSession(b, router, store.Changes(), logger)
	page, err := b.Page()
	if err != nil {
		return err
	}
	if err := session.Attach(page); err != nil {
		return fmt.Errorf("attach failed: %w", err)
	}
	logVerbose("  Session: %s", session.ID)

	fmt.Println("→ Gestures active. Hold the right button and drag; Ctrl-C to quit.")
	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println("✓ Session ended")
	return nil
}
