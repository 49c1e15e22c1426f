package cli

import (
	"fmt"
	"os"
	"strings"

	"media-screensaver/internal/logging"
	"media-screensaver/internal/startup"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "media-screensaver",
		Short: "A photo and video screensaver for your own folders",
		Long: `media-screensaver cycles through the images and videos under a set of
folders, one at a time. Files can be rotated or deleted while they are shown.`,
		Version:       startup.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel == "" {
				return nil
			}
			level, ok := logging.ParseLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}
			logging.SetLevel(level)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (default from LOG_LEVEL)")

	root.AddCommand(
		NewRunCmd(),
		NewConfigCmd(),
		NewScanCmd(),
		NewExifCmd(),
		NewRotateCmd(),
	)
	return root
}

// Execute runs the command tree against the process arguments.
func Execute() error {
	root := NewRootCmd()
	root.SetArgs(TranslateArgs(os.Args[1:]))
	return root.Execute()
}

// TranslateArgs rewrites the arguments Windows hands to a screensaver. The
// switch may be given as /s, -s or /s:<value> and in either case. Anything
// else is returned unchanged.
func TranslateArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	flag := strings.ToLower(args[0])
	if len(flag) < 2 || (flag[0] != '/' && flag[0] != '-') || (len(flag) > 2 && flag[2] != ':') {
		return args
	}

	switch flag[1] {
	case 's':
		return []string{"run"}
	case 'c':
		return []string{"config", "show"}
	case 'p':
		// The window handle is meaningless to a terminal front end.
		return []string{"run", "--preview"}
	}
	return args
}
