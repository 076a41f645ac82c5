package main

import (
	"flag"
	"fmt"

	"github.com/gentam/xo2"
	"github.com/gentam/xo2/internal/config"
	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/physic"
)

var (
	// Global flags
	configPath    string
	transportKind string
	spiDevice     string
	clockFlag     string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "xo2",
	Short: "Lattice MachXO2 sysCONFIG programmer",
	Long: `Program, erase and inspect the configuration flash of a Lattice MachXO2
over SPI, through an FT2232H adapter or a host spidev port.

Examples:
  xo2 status                                  # Read the status register
  xo2 info --transport spidev                 # Read IDCODE, USERCODE and friends
  xo2 program design.txt --clock 6MHz         # Erase, program and refresh
  xo2 convert design.txt -o design.bin        # Write raw frames
  xo2 program design.txt --transport sim -v 2 # Dry run with poll logging`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML profile")
	pf.StringVarP(&transportKind, "transport", "t", "", "transport: spidev, ftdi or sim")
	pf.StringVarP(&spiDevice, "device", "d", "", "spidev port, e.g. /dev/spidev0.0")
	pf.StringVar(&clockFlag, "clock", "", "SPI clock, e.g. 1MHz")

	// glog flags (-v, -vmodule, -logtostderr, ...)
	pf.AddGoFlagSet(flag.CommandLine)
}

// loadConfig builds cfg from the profile and the command line flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	// mark the go flag set as parsed for glog; cobra already set the values
	if err := flag.CommandLine.Parse(nil); err != nil {
		return err
	}

	c := &config.Config{}
	if configPath != "" {
		var err error
		if c, err = config.Load(configPath); err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}
	}

	pf := cmd.Flags()
	if pf.Changed("transport") {
		c.Transport.Kind = transportKind
	}
	if pf.Changed("device") {
		c.Transport.Device = spiDevice
		if c.Transport.Kind == "" {
			c.Transport.Kind = config.KindSPIDev
		}
	}
	if pf.Changed("clock") {
		var f physic.Frequency
		if err := f.Set(clockFlag); err != nil {
			return fmt.Errorf("invalid --clock %q: %w", clockFlag, err)
		}
		c.Transport.ClockHz = int64(f / physic.Hertz)
	}

	if err := config.Validate(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(c)
	cfg = c
	return nil
}

func byteOrder(c *config.Config) xo2.ByteOrder {
	switch c.ByteOrder {
	case config.OrderLittle:
		return xo2.LittleEndian
	case config.OrderBig:
		return xo2.BigEndian
	default:
		return xo2.HostOrder()
	}
}
