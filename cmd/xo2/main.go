// Command xo2 programs the configuration flash of a Lattice MachXO2 over SPI.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
)

func main() {
	flag.Set("logtostderr", "true")

	err := rootCmd.Execute()
	glog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
