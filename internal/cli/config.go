package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"media-screensaver/internal/sequencer"
	"media-screensaver/internal/settings"
	"media-screensaver/internal/startup"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// openSettings opens the settings file named by SETTINGS_FILE or the
// default location.
func openSettings() (*settings.Store, error) {
	path := os.Getenv("SETTINGS_FILE")
	if path == "" {
		p, err := settings.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to locate settings file: %w", err)
		}
		path = p
	}
	return settings.Open(path)
}

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the saved settings",
	}
	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigSetFoldersCmd(),
		newConfigSetVolumeCmd(),
		newConfigSetIntervalCmd(),
		newConfigSetAlgorithmCmd(),
		newConfigSetVolumeTimeoutCmd(),
	)
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var effective bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the settings file",
		Long: `Print the saved settings. With --effective the environment overrides
(MEDIA_DIRS, ALGORITHM, INTERVAL, VOLUME, VOLUME_TIMEOUT) are applied first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if effective {
				cfg, err := startup.Load()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "# %s (with environment overrides)\n", cfg.SettingsPath)
				return yaml.NewEncoder(out).Encode(effectiveSettings(cfg))
			}

			store, err := openSettings()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "# %s\n", store.Path())
			return yaml.NewEncoder(out).Encode(store.Get())
		},
	}
	cmd.Flags().BoolVar(&effective, "effective", false, "apply environment overrides")
	return cmd
}

func effectiveSettings(cfg *startup.Config) settings.Settings {
	return settings.Settings{
		Folders:              cfg.Roots,
		Volume:               cfg.Volume,
		IntervalMS:           int(cfg.Interval.Milliseconds()),
		Algorithm:            int(cfg.Algorithm),
		VolumeTimeoutMinutes: int(cfg.VolumeTimeout.Minutes()),
	}
}

func newConfigSetFoldersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-folders [folder|playlist.wpl]...",
		Short: "Replace the list of media roots",
		Long:  `Replace the media roots. With no arguments the list is cleared.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			folders, err := absPaths(args)
			if err != nil {
				return err
			}
			return updateSettings(cmd, func(s *settings.Store) error {
				return s.SetFolders(folders)
			})
		},
	}
}

func newConfigSetVolumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-volume <0..1>",
		Short: "Set the video volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid volume %q: %w", args[0], err)
			}
			return updateSettings(cmd, func(s *settings.Store) error {
				return s.SetVolume(v)
			})
		},
	}
}

func newConfigSetIntervalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-interval <duration|milliseconds>",
		Short: "Set how long each image is shown",
		Long:  `Set the slide interval, as a duration such as 8s or a number of milliseconds. 0 restores the default.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := startup.ParseInterval(args[0])
			if err != nil {
				return err
			}
			return updateSettings(cmd, func(s *settings.Store) error {
				return s.SetIntervalMS(int(d.Milliseconds()))
			})
		},
	}
}

func newConfigSetAlgorithmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-algorithm <sequential|random|random-no-repeat>",
		Short: "Set the selection order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := sequencer.ParseAlgorithm(args[0])
			if err != nil {
				return err
			}
			return updateSettings(cmd, func(s *settings.Store) error {
				return s.SetAlgorithm(int(alg))
			})
		},
	}
}

func newConfigSetVolumeTimeoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-volume-timeout <minutes>",
		Short: "Mute videos after this many minutes (0 disables)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid minutes %q: %w", args[0], err)
			}
			return updateSettings(cmd, func(s *settings.Store) error {
				return s.SetVolumeTimeoutMinutes(m)
			})
		},
	}
}

func absPaths(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %q: %w", p, err)
		}
		out = append(out, abs)
	}
	return out, nil
}

func updateSettings(cmd *cobra.Command, fn func(*settings.Store) error) error {
	store, err := openSettings()
	if err != nil {
		return err
	}
	if err := fn(store); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", store.Path())
	return nil
}
