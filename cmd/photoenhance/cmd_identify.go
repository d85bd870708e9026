package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/vearutop/photoenhance"
)

// getIdentifyCmd returns the definition of the identify command.
func getIdentifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "identify FILE",
		Short: "Print image format, size and JPEG metadata.",
		Args:  cobra.ExactArgs(1),
		RunE:  runIdentifyCmd,
	}
}

// runIdentifyCmd executes the identify command.
func runIdentifyCmd(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(filepath.Clean(args[0]))
	if err != nil {
		return err
	}

	info, err := photoenhance.Inspect(bytes.NewReader(data))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "format: %s\n", info.Format)
	fmt.Fprintf(out, "size: %dx%d (%.1f MP), %s\n", info.Width, info.Height, float64(info.Pixels())/1e6, humanize.Bytes(uint64(len(data))))

	if info.Format != "jpeg" {
		return nil
	}

	if q, ok := photoenhance.EstimateJPEGQuality(data); ok {
		fmt.Fprintf(out, "quality: ~%d\n", q)
	}

	meta, err := photoenhance.ExtractJPEGMetadata(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "exif: %t\n", len(meta.EXIF) > 0)
	fmt.Fprintf(out, "color profile: %s\n", meta.ColorProfile())

	return nil
}
