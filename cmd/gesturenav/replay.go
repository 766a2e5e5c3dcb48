package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/v0xg/gesturenav/internal/browser"
	"github.com/v0xg/gesturenav/internal/config"
	"github.com/v0xg/gesturenav/internal/edgescroll"
	"github.com/v0xg/gesturenav/internal/gifgen"
	"github.com/v0xg/gesturenav/internal/overlay"
	"github.com/v0xg/gesturenav/internal/replay"
)

func runReplay(cmd *cobra.Command, args []string) error {
	url := args[0]
	scriptPath := args[1]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger().With("run", uuid.NewString())
	logVerbose("Starting replay")
	logVerbose("  URL: %s", url)
	logVerbose("  Script: %s", scriptPath)

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if noTrail {
		cfg.Trail.Enabled = false
	}
	store := config.NewStore(cfg)

	script, err := replay.LoadScript(scriptPath)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}

	fmt.Printf("→ Opening %s... ", url)
	b, err := browser.Launch(ctx, url, browser.Options{
		Width:    width,
		Height:   height,
		Headless: true,
		Logger:   logger,
	})
	if err != nil {
		fmt.Println("failed")
		return fmt.Errorf("launch failed: %w", err)
	}
	defer b.Close()
	fmt.Println("done")

	canvas := overlay.NewCanvas()
	canvas.SetTint(edgescroll.IndicatorTop, indicatorTint)
	canvas.SetTint(edgescroll.IndicatorBottom, indicatorTint)

	router, err := buildRouter(b, store, canvas, logger)
	if err != nil {
		return err
	}

	fmt.Printf("→ Replaying %d steps... ", len(script.Steps))
	runner := replay.NewRunner(replay.Options{
		Handler:  router,
		Viewport: b,
		Frames:   b,
		Canvas:   canvas,
		FPS:      fps,
		Logger:   logger,
	})
	res, err := runner.Run(ctx, script)
	if err != nil {
		fmt.Println("failed")
		return fmt.Errorf("replay failed: %w", err)
	}
	fmt.Printf("done (%d frames)\n", len(res.Frames))
	logVerbose("  Context menus shown: %d", res.MenusShown)

	fmt.Printf("→ Generating GIF (%d frames)... ", len(res.Frames))
	size, err := gifgen.WriteFile(output, res.Frames, gifgen.Options{FPS: fps, MaxWidth: 800})
	if err != nil {
		fmt.Println("failed")
		return fmt.Errorf("GIF generation failed: %w", err)
	}
	fmt.Println("done")

	fmt.Printf("✓ Saved to %s (%.1f MB)\n", output, float64(size)/(1024*1024))
	return nil
}
