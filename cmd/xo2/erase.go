package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gentam/xo2"
	"github.com/spf13/cobra"
)

var eraseCmd = &cobra.Command{
	Use:   "erase",
	Short: "Erase the configuration flash",
	Args:  cobra.NoArgs,
	RunE:  runErase,
}

var reconfigureCmd = &cobra.Command{
	Use:   "reconfigure",
	Short: "Pulse PROGRAMN to reload the configuration (FTDI only)",
	Args:  cobra.NoArgs,
	RunE:  runReconfigure,
}

func init() {
	rootCmd.AddCommand(eraseCmd)
	rootCmd.AddCommand(reconfigureCmd)
}

func runErase(cmd *cobra.Command, args []string) error {
	t, err := openTarget(cfg)
	if err != nil {
		return err
	}
	defer t.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	seq := xo2.New(t, sequencerOptions(cfg)...)
	if err := seq.Erase(ctx); err != nil {
		return fmt.Errorf("erase failed in state %s: %w", seq.State(), err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "configuration flash erased")
	return nil
}

func runReconfigure(cmd *cobra.Command, args []string) error {
	t, err := openTarget(cfg)
	if err != nil {
		return err
	}
	defer t.Close()

	if t.dev == nil {
		return fmt.Errorf("transport %q has no PROGRAMN pin", cfg.Transport.Kind)
	}
	return t.dev.Reconfigure()
}
