package cli

import (
	"fmt"

	"media-screensaver/internal/catalog"
	"media-screensaver/internal/mediatypes"
	"media-screensaver/internal/rotation"
	"media-screensaver/internal/startup"

	"github.com/spf13/cobra"
)

// NewRotateCmd creates the rotate command
func NewRotateCmd() *cobra.Command {
	var turns int

	cmd := &cobra.Command{
		Use:   "rotate <file>",
		Short: "Rotate an image clockwise by a quarter turn",
		Long: `Rotate an image the same way the r key does. JPEGs get a new EXIF
orientation, other images have their pixels rotated and saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			kind := mediatypes.KindOf(path)
			if kind != mediatypes.FileTypeImage {
				return fmt.Errorf("%s is not an image", path)
			}
			if turns < 1 || turns > 3 {
				return fmt.Errorf("--turns must be 1, 2 or 3")
			}

			if mediatypes.IsJPEG(path) {
				if err := rotation.InitVips(); err != nil {
					startup.LogVipsInit(false)
				} else {
					defer rotation.ShutdownVips()
				}
			}

			state := rotation.NewState()
			state.OnItemChanged()
			for range turns {
				state.RequestRotate()
			}
			angle, err := state.ResolveDisplayAngle(catalog.Entry{Path: path, Kind: kind})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now displays at %d degrees\n", path, angle)
			return nil
		},
	}

	cmd.Flags().IntVarP(&turns, "turns", "t", 1, "number of quarter turns")
	return cmd
}
