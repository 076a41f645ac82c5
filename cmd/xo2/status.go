package main

import (
	"fmt"

	"github.com/gentam/xo2"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Read the status register",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	t, err := openTarget(cfg)
	if err != nil {
		return err
	}
	defer t.Close()

	st, err := xo2.ReadStatus(t, byteOrder(cfg))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Status:          %s\n", st)
	fmt.Fprintf(out, "DONE:            %t\n", st.Done)
	fmt.Fprintf(out, "Config enable:   %t\n", st.CfgEnable)
	fmt.Fprintf(out, "Busy:            %t\n", st.Busy)
	fmt.Fprintf(out, "Fail:            %t\n", st.Fail)
	fmt.Fprintf(out, "Error:           %s\n", st.Error)

	if t.dev != nil && t.dev.HasPins() {
		initn, done, err := t.dev.Pins()
		if err != nil {
			return fmt.Errorf("failed to read pins: %w", err)
		}
		fmt.Fprintf(out, "INITN pin:       %s\n", initn)
		fmt.Fprintf(out, "DONE pin:        %s\n", done)
	}
	return nil
}
