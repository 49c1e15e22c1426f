package cli

import (
	"fmt"

	"media-screensaver/internal/exif"
	"media-screensaver/internal/mediatypes"

	"github.com/spf13/cobra"
)

// NewExifCmd creates the exif command
func NewExifCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exif <file>",
		Short: "Print the overlay text and orientation of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			out := cmd.OutOrStdout()

			if !mediatypes.IsJPEG(path) {
				w, h, err := exif.Dimensions(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				fmt.Fprintln(out, exif.FallbackSummary(path, w, h))
				return nil
			}

			info, err := exif.ReadOrientationAndInfo(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			fmt.Fprintln(out, info.Summary())
			fmt.Fprintf(out, "Orientation: %s\n", info.Orientation)
			return nil
		},
	}
}
