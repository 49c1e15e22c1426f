package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"media-screensaver/internal/catalog"
	"media-screensaver/internal/console"
	"media-screensaver/internal/logging"
	"media-screensaver/internal/metrics"
	"media-screensaver/internal/rotation"
	"media-screensaver/internal/sequencer"
	"media-screensaver/internal/server"
	"media-screensaver/internal/session"
	"media-screensaver/internal/startup"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type runOptions struct {
	preview   bool
	roots     []string
	algorithm string
	interval  string
	filesFrom string
}

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the screensaver",
		Long: `Start the screensaver in this terminal. Files are listed as they are
shown; press h for the key list. Flags override the saved settings for this
run only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreensaver(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.preview, "preview", false, "preview mode: unbound keys do not exit")
	cmd.Flags().StringSliceVar(&opts.roots, "roots", nil, "media folders or .wpl playlists")
	cmd.Flags().StringVar(&opts.algorithm, "algorithm", "", "sequential, random or random-no-repeat")
	cmd.Flags().StringVar(&opts.interval, "interval", "", "slide interval, e.g. 8s or 8000")
	cmd.Flags().StringVar(&opts.filesFrom, "files-from", "", "show the files listed in this file, one path per line, instead of scanning the roots")
	return cmd
}

// apply overrides the loaded configuration with command-line flags.
func (o runOptions) apply(cfg *startup.Config) error {
	if len(o.roots) > 0 {
		roots, err := absPaths(o.roots)
		if err != nil {
			return err
		}
		cfg.Roots = roots
	}
	if o.algorithm != "" {
		alg, err := sequencer.ParseAlgorithm(o.algorithm)
		if err != nil {
			return err
		}
		cfg.Algorithm = alg
	}
	if o.interval != "" {
		d, err := startup.ParseInterval(o.interval)
		if err != nil {
			return err
		}
		if d > 0 {
			cfg.Interval = d
		}
	}
	return nil
}

func runScreensaver(cmd *cobra.Command, opts runOptions) error {
	cfg, err := startup.LoadConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := opts.apply(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rotation.InitVips(); err != nil {
		logging.Debug("libvips init: %v", err)
	}
	startup.LogVipsInit(rotation.IsVipsAvailable())
	defer rotation.ShutdownVips()

	metrics.InitializeMetrics(startup.Version, cfg.Algorithm.String())

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		// Raw mode would garble log lines written to the terminal.
		restore, err := redirectLogs(cfg.LogFile)
		if err != nil {
			logging.Warn("Failed to open log file, logging is disabled while running: %v", err)
			logging.SetOutput(io.Discard)
			restore = func() { logging.SetOutput(os.Stderr) }
		}
		defer restore()
	}

	var sessOpts []session.Option
	if opts.filesFrom != "" {
		c, err := feedCatalog(ctx, opts.filesFrom)
		if err != nil {
			return err
		}
		sessOpts = append(sessOpts, session.WithCatalog(c))
	}

	view := console.New(cmd.OutOrStdout(), opts.preview, cfg.Interval)
	sess := session.New(session.Config{
		Roots:         cfg.Roots,
		Algorithm:     cfg.Algorithm,
		Interval:      cfg.Interval,
		Volume:        cfg.Volume,
		VolumeTimeout: cfg.VolumeTimeout,
		DeleteLog:     cfg.DeleteLog,
		WatchRoots:    cfg.WatchRoots,
		Preview:       opts.preview,
		VolumeStore:   cfg.Store,
	}, view, sessOpts...)

	var srv *server.Server
	if cfg.MetricsEnabled {
		srv = server.New(cfg.MetricsAddr, sess)
		if err := srv.Start(); err != nil {
			logging.Warn("Failed to start status server on %s: %v", cfg.MetricsAddr, err)
			srv = nil
		}
	}

	startup.LogScanStarted(cfg.Roots)
	if err := sess.Start(ctx); err != nil {
		sess.Close()
		return err
	}

	runCtx, cancelRun := context.WithCancel(ctx)
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		if err := sess.Run(runCtx); err != nil && runCtx.Err() == nil {
			logging.Error("Slideshow stopped: %v", err)
		}
	}()

	res, err := view.Run(ctx, sess, in)

	startup.LogShutdownInitiated(exitReason(res.Reason))
	cancelRun()
	<-runDone
	sess.Close()
	startup.LogShutdownStepComplete("Session closed")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Warn("Status server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Status server stopped")
		}
		cancel()
	}
	startup.LogShutdownComplete()

	if err != nil {
		return err
	}
	if res.Reason == console.ExitShowFile {
		fmt.Fprintln(cmd.OutOrStdout(), res.Path)
	}
	return nil
}

// feedCatalog starts a catalog fed from a list file. Blank lines and lines
// starting with # are skipped; relative paths are relative to the list.
func feedCatalog(ctx context.Context, listPath string) (*catalog.Catalog, error) {
	f, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file list: %w", err)
	}

	paths := make(chan string)
	c := catalog.New()
	if err := c.StartFeed(ctx, paths); err != nil {
		f.Close()
		return nil, err
	}

	base := filepath.Dir(listPath)
	go func() {
		defer f.Close()
		defer close(paths)

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if !filepath.IsAbs(line) {
				line = filepath.Join(base, line)
			}
			select {
			case paths <- line:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logging.Warn("Failed to read file list %s: %v", listPath, err)
		}
	}()
	return c, nil
}

func exitReason(r console.ExitReason) string {
	switch r {
	case console.ExitShowFile:
		return "show file"
	case console.ExitInputClosed:
		return "input closed"
	case console.ExitCancelled:
		return "signal"
	default:
		return "user exit"
	}
}

// redirectLogs sends log output to path until the returned func is called.
func redirectLogs(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	logging.SetOutput(f)
	return func() {
		logging.SetOutput(os.Stderr)
		f.Close()
	}, nil
}
