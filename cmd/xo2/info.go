package main

import (
	"fmt"
	"io"

	"github.com/gentam/xo2"
	"github.com/spf13/cobra"
	"periph.io/x/host/v3/ftdi"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Read the identification registers",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	t, err := openTarget(cfg)
	if err != nil {
		return err
	}
	defer t.Close()

	info, err := xo2.ReadInfo(t, byteOrder(cfg))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	name := "unknown"
	if p, ok := xo2.LookupDevice(info.IDCode); ok {
		name = p.String()
	} else if !xo2.IsLattice(info.IDCode) {
		name = "not a Lattice device"
	}
	fmt.Fprintf(out, "IDCODE:          %#08x %s\n", info.IDCode, name)
	fmt.Fprintf(out, "USERCODE:        %#08x\n", info.Usercode)
	fmt.Fprintf(out, "Feature row:     %#016x\n", info.FeatureRow)
	fmt.Fprintf(out, "FEABITS:         %#04x\n", info.FeatureBits)
	fmt.Fprintf(out, "TraceID:         %#016x\n", info.TraceID)
	fmt.Fprintf(out, "Status:          %s\n", info.Status)

	if t.dev != nil && t.dev.FTDI != nil {
		return printAdapter(out, t.dev.FTDI)
	}
	return nil
}

// Reference: https://github.com/periph/cmd/tree/main/ftdi-list
func printAdapter(out io.Writer, ft *ftdi.FT232H) error {
	i := ftdi.Info{}
	ft.Info(&i)
	fmt.Fprintf(out, "Adapter:         %s %#04x:%#04x\n", i.Type, i.VenID, i.DevID)

	ee := ftdi.EEPROM{}
	if err := ft.EEPROM(&ee); err != nil {
		return fmt.Errorf("failed to read EEPROM: %w", err)
	}
	fmt.Fprintf(out, "Manufacturer:    %s\n", ee.Manufacturer)
	fmt.Fprintf(out, "Desc:            %s\n", ee.Desc)
	fmt.Fprintf(out, "Serial:          %s\n", ee.Serial)
	return nil
}
