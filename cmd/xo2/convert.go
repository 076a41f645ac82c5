package main

import (
	"io"
	"os"

	"github.com/gentam/xo2/bitstream"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

var outputPath string

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a textual bitstream to raw frames",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "-", "output file, - for stdout")
}

func runConvert(cmd *cobra.Command, args []string) (err error) {
	bs, err := bitstream.ParseFile(args[0])
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if outputPath != "-" {
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}

	n, err := bs.WriteTo(w)
	if err != nil {
		return err
	}
	glog.Infof("wrote %d frames (%d bytes)", len(bs), n)
	return nil
}
