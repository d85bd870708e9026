package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/vearutop/photoenhance"
)

// applyEnv provides the environment for the apply command.
type applyEnv struct {
	inPath       string
	outPath      string
	preset       string
	format       string
	quality      int
	maxDimension int
	keepMetadata bool
	interp       string
	workers      int
}

// getApplyCmd returns the definition of the apply command.
func getApplyCmd() *cobra.Command {
	env := &applyEnv{}
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a preset to an image file.",
		Long: `
Decodes the input image, applies the preset and writes the result.
If the output is a directory, the file is named enhanced-<preset>.<ext>.`,
		Args: cobra.NoArgs,
		RunE: env.runApplyCmd,
	}

	cmd.Flags().StringVarP(&env.inPath, "in", "i", "", "input image")
	cmd.Flags().StringVarP(&env.outPath, "out", "o", "", "output image or directory")
	cmd.Flags().StringVarP(&env.preset, "preset", "p", photoenhance.DefaultPreset().Name, "preset name or slug")
	cmd.Flags().StringVar(&env.format, "format", "auto", "output format: auto, png, jpeg")
	cmd.Flags().IntVarP(&env.quality, "quality", "q", 0, "JPEG quality, 0 to keep source quality")
	cmd.Flags().IntVar(&env.maxDimension, "max-dim", 0, "max output side in pixels, 0 to keep size")
	cmd.Flags().BoolVar(&env.keepMetadata, "keep-meta", true, "copy EXIF and ICC of JPEG sources")
	cmd.Flags().StringVar(&env.interp, "interp", "lanczos2", "downsizing filter: nearest, bilinear, bicubic, mitchell, lanczos2, lanczos3")
	cmd.Flags().IntVar(&env.workers, "workers", 0, "max goroutines, 0 for GOMAXPROCS")
	must(cmd.MarkFlagRequired("in"))
	must(cmd.MarkFlagRequired("out"))

	return cmd
}

// runApplyCmd executes the apply command.
func (a *applyEnv) runApplyCmd(cmd *cobra.Command, _ []string) error {
	if _, ok := photoenhance.LookupPreset(a.preset); !ok {
		return fmt.Errorf("unknown preset %q, available: %v", a.preset, photoenhance.PresetNames())
	}

	format, err := photoenhance.ParseFormat(a.format)
	if err != nil {
		return fmt.Errorf("format %q: %w", a.format, err)
	}

	interp, ok := photoenhance.ParseInterpolation(a.interp)
	if !ok {
		return fmt.Errorf("unknown interpolation %q", a.interp)
	}

	if a.quality < 0 || a.quality > 100 {
		return errors.New("quality must be within 0-100")
	}

	photoenhance.SetMaxWorkers(a.workers)

	res, err := photoenhance.EnhanceFile(cmd.Context(), a.inPath, a.outPath, a.preset, func(o *photoenhance.EnhanceOptions) {
		o.Format = format
		o.Quality = a.quality
		o.MaxDimension = a.maxDimension
		o.Interpolation = interp
		o.KeepMetadata = a.keepMetadata
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %dx%d -> %s %dx%d, %s\n",
		res.Preset.Name,
		res.SrcFormat, res.SrcWidth, res.SrcHeight,
		res.Format, res.Width, res.Height,
		humanize.Bytes(uint64(len(res.Data))),
	)

	return nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
