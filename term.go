package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/hugoce17/hugocodes/internal/catalog"
	"github.com/hugoce17/hugocodes/internal/config"
	"github.com/hugoce17/hugocodes/internal/effects"
	"github.com/hugoce17/hugocodes/internal/resume"
	"github.com/hugoce17/hugocodes/internal/terminal"
	"github.com/spf13/cobra"
)

// pixelsPerRow converts the page flow band into terminal rows.
const pixelsPerRow = 32

var termBand float64

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Browse the portfolio in the terminal",
	Long:  `Render the portfolio full screen. Scroll with the arrow keys, j/k, space, PgUp/PgDn or the mouse wheel; quit with q or Esc.`,
	RunE:  runTerm,
}

func init() {
	termCmd.Flags().Float64Var(&termBand, "band", 0, "Rows scrolled between circuit flow flips (default FLOW_BAND in rows)")
	rootCmd.AddCommand(termCmd)
}

// termOptions maps the configuration onto viewer options.
func termOptions(cfg *config.Config, band float64) terminal.Options {
	opts := terminal.DefaultOptions()
	opts.TypingSpeed = cfg.TypingSpeed
	opts.TypingStartDelay = cfg.TypingStartDelay
	opts.GlitchWait = cfg.GlitchWait()
	opts.GlitchActive = cfg.GlitchActive()
	opts.FlowBand = cfg.FlowBand / pixelsPerRow
	if band > 0 {
		opts.FlowBand = band
	}
	return opts
}

func runTerm(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(0)
	if err != nil {
		return err
	}
	opts := termOptions(cfg, termBand)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := resume.Load(cfg.ResumeData)
	if err != nil {
		return err
	}
	cat, err := catalog.Open(ctx, r)
	if err != nil {
		return err
	}
	defer cat.Close()
	snapshot, err := cat.Snapshot(ctx)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialise terminal: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	loop := effects.NewLoop()
	return terminal.New(screen, loop, snapshot, opts).Run(ctx, loop)
}
