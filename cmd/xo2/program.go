package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gentam/xo2"
	"github.com/gentam/xo2/bitstream"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

var force bool

var programCmd = &cobra.Command{
	Use:   "program <file>",
	Short: "Erase, program and refresh the configuration flash",
	Long: `Program a textual bitstream (one 128-digit fuse row per frame) into the
configuration flash, then refresh until the device reports DONE with no error.

Interrupt with Ctrl-C to stop between polls.`,
	Args: cobra.ExactArgs(1),
	RunE: runProgram,
}

func init() {
	rootCmd.AddCommand(programCmd)
	programCmd.Flags().BoolVarP(&force, "force", "f", false, "program even if the IDCODE is unknown")
}

func runProgram(cmd *cobra.Command, args []string) error {
	bs, err := bitstream.ParseFile(args[0])
	if err != nil {
		return err
	}
	if len(bs) == 0 {
		return fmt.Errorf("%s: no configuration frames", args[0])
	}
	glog.Infof("%s: %d frames (%d bytes)", args[0], len(bs), bs.Size())

	t, err := openTarget(cfg)
	if err != nil {
		return err
	}
	defer t.Close()

	if err := checkDevice(t, len(bs)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errOut := cmd.ErrOrStderr()
	opts := append(sequencerOptions(cfg), xo2.WithProgress(func(page, total int) {
		if page%64 == 0 || page == total {
			fmt.Fprintf(errOut, "\rprogramming %d/%d", page, total)
		}
	}))
	seq := xo2.New(t, opts...)
	err = seq.Program(ctx, bs)
	fmt.Fprintln(errOut)
	if err != nil {
		return fmt.Errorf("program failed in state %s: %w", seq.State(), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "programmed %d frames, configured after %d refresh(es)\n", len(bs), seq.Refreshes())
	return nil
}

// checkDevice reads the IDCODE and rejects bitstreams that don't fit.
func checkDevice(t xo2.Transport, frames int) error {
	id, err := xo2.ReadIDCode(t, byteOrder(cfg))
	if err != nil {
		return err
	}
	p, ok := xo2.LookupDevice(id)
	if !ok {
		if !force {
			return fmt.Errorf("unknown IDCODE %#08x (use --force to program anyway)", id)
		}
		glog.Warningf("unknown IDCODE %#08x", id)
		return nil
	}
	glog.Infof("device %s", p)
	return p.CheckFit(frames)
}
