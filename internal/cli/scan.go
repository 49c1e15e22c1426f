package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"media-screensaver/internal/catalog"
	"media-screensaver/internal/mediatypes"
	"media-screensaver/internal/startup"

	"github.com/spf13/cobra"
)

// scanEntry is one line of scan --json output.
type scanEntry struct {
	Path     string              `json:"path"`
	Kind     mediatypes.FileType `json:"kind"`
	MimeType string              `json:"mimeType"`
}

func toScanEntries(entries []catalog.Entry) []scanEntry {
	out := make([]scanEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, scanEntry{
			Path:     e.Path,
			Kind:     e.Kind,
			MimeType: mediatypes.GetMimeType(mediatypes.Ext(e.Path)),
		})
	}
	return out
}

// NewScanCmd creates the scan command
func NewScanCmd() *cobra.Command {
	var (
		jsonOutput bool
		shuffle    bool
	)

	cmd := &cobra.Command{
		Use:   "scan [folder|playlist.wpl]...",
		Short: "List the media files the screensaver would show",
		Long: `Walk the given roots, or the configured ones when none are given, and
print every image and video in the order the screensaver would visit them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := absPaths(args)
			if err != nil {
				return err
			}
			if len(roots) == 0 {
				cfg, err := startup.Load()
				if err != nil {
					return err
				}
				roots = cfg.Roots
			}
			if len(roots) == 0 {
				return fmt.Errorf("no media folders configured, pass them as arguments or run 'config set-folders'")
			}

			start := time.Now()
			c := catalog.New()
			if err := c.Scan(cmd.Context(), roots); err != nil {
				return err
			}
			if shuffle {
				if err := c.ApplyPostScanOrdering(catalog.OrderShuffle); err != nil {
					return err
				}
			}
			entries := c.Entries()

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(toScanEntries(entries))
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%-5s  %s\n", e.Kind, e.Path)
			}
			fmt.Fprintf(out, "%d file(s) in %s\n", len(entries), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output entries in JSON format")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "Shuffle the list as random-no-repeat does")
	return cmd
}
