package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/v0xg/gesturenav/internal/config"
)

func runCheckConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}
	printConfig(os.Stdout, cfg)
	return nil
}

// printConfig writes the gesture table and the main switches.
func printConfig(w io.Writer, cfg *config.Config) {
	actions := cfg.Actions()
	fmt.Fprintf(w, "✓ Valid (%d gestures)\n", len(actions))
	for _, code := range actions.Codes() {
		target, _ := actions.Lookup(code)
		fmt.Fprintf(w, "  %-8s → %s\n", code, target)
	}
	fmt.Fprintf(w, "  enabled: %t, rocker: %t, edge scroll: %t, trail: %t\n",
		cfg.Enabled, cfg.RockerEnabled, cfg.EdgeScrollEnabled, cfg.Trail.Enabled)
	if len(cfg.DisabledDomains) > 0 {
		fmt.Fprintf(w, "  disabled on: %s\n", strings.Join(cfg.DisabledDomains, ", "))
	}
	if len(cfg.AllowedDomains) > 0 {
		fmt.Fprintf(w, "  allowed on: %s\n", strings.Join(cfg.AllowedDomains, ", "))
	}
	if cfg.Fallback.Provider != "" {
		fmt.Fprintf(w, "  link picker: %s\n", cfg.Fallback.Provider)
	}
}
