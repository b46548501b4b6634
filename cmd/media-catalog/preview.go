package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var previewOpts struct {
	output string
	width  int
	height int
}

var previewCmd = &cobra.Command{
	Use:   "preview <image>",
	Short: "Write a JPEG preview of an image",
	Long: `Decodes image, scales it to fit within --width x --height without
upscaling, and writes the JPEG to --output (default: <name>.preview.jpg).
Width and height default to the configured preview size.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	flags := previewCmd.Flags()
	flags.StringVarP(&previewOpts.output, "output", "o", "", "output file, - for stdout")
	flags.IntVar(&previewOpts.width, "width", 0, "maximum preview width")
	flags.IntVar(&previewOpts.height, "height", 0, "maximum preview height")
}

func runPreview(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, err := newServices(config)
	if err != nil {
		return err
	}
	defer svc.close()

	src, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	width, height := config.PreviewWidth, config.PreviewHeight
	if previewOpts.width > 0 {
		width = previewOpts.width
	}
	if previewOpts.height > 0 {
		height = previewOpts.height
	}

	data, err := svc.previews.Get(cmd.Context(), src, width, height)
	if err != nil {
		return err
	}

	out := previewOpts.output
	if out == "-" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if out == "" {
		out = previewName(src)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s -> %s (%s, codec %s)\n", src, out, humanize.IBytes(uint64(len(data))), svc.codec)
	return nil
}

// previewName returns the default output path for src.
func previewName(src string) string {
	base := filepath.Base(src)
	return base[:len(base)-len(filepath.Ext(base))] + ".preview.jpg"
}
