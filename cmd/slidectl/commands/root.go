// Package commands implements the slidectl command tree.
package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"slidecore/internal/config"
	"slidecore/internal/editor"
	"slidecore/internal/kv"
	"slidecore/internal/library"
	"slidecore/internal/logging"
	"slidecore/internal/observability"
)

var versionString = "dev"

// SetVersionInfo sets the version reported by --version.
func SetVersionInfo(v, c, d string) {
	versionString = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

// Execute runs slidectl with the process arguments.
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return err
}

// options holds the global flags shared by every subcommand.
type options struct {
	configPath string
	driver     string
	fsRoot     string
	logLevel   string
	yes        bool
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "slidectl",
		Short: "Manage slidecore presentation libraries",
		Long: `slidectl manages a library of slide presentations stored in any
slidecore storage backend (fs, memory, sqlite, postgres, redis, bolt, s3).

Configuration comes from an optional YAML file (--config) overridden by
SLIDECORE_* environment variables and then by the flags below.`,
		Version: versionString,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors:      true,
		SilenceUsage:       true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	pf.StringVar(&opts.driver, "storage", "", "Storage driver override")
	pf.StringVar(&opts.fsRoot, "fs-root", "", "Root directory for the fs driver")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	pf.BoolVarP(&opts.yes, "yes", "y", false, "Answer yes to confirmation prompts")

	root.AddCommand(
		newListCmd(opts),
		newCreateCmd(opts),
		newShowCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newImportMarkdownCmd(opts),
		newDeleteCmd(opts),
		newSlideCmd(opts),
		newThemeCmd(opts),
		newReplaceCmd(opts),
		newSettingsCmd(opts),
	)
	return root
}

// session is one opened library plus an editor over it.
type session struct {
	cfg    config.Config
	logger *zap.Logger
	store  kv.Store
	lib    *library.Library
	ed     *editor.Editor
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Warn("close store", zap.Error(err))
	}
	_ = s.logger.Sync()
}

func (o *options) open(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.driver != "" {
		cfg.Storage.Driver = o.driver
	}
	if o.fsRoot != "" {
		cfg.Storage.FSRoot = o.fsRoot
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	metrics, err := observability.New(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Storage.Timeout)
	defer cancel()
	store, err := kv.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	lib, err := library.Open(ctx, store, library.WithLogger(logger), library.WithMetrics(metrics))
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	ed := editor.New(lib,
		editor.WithLogger(logger),
		editor.WithMetrics(metrics),
		editor.WithHistoryLimit(cfg.History.Limit),
		editor.WithSaveTimeout(cfg.Storage.Timeout),
		editor.WithConfirmer(o.confirmer(cmd.InOrStdin(), cmd.OutOrStdout())),
	)
	return &session{cfg: cfg, logger: logger, store: store, lib: lib, ed: ed}, nil
}

func (o *options) confirmer(in io.Reader, out io.Writer) editor.Confirmer {
	if o.yes {
		return editor.ConfirmFunc(func(string) bool { return true })
	}
	return editor.ConfirmFunc(func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	})
}

// withDeck opens deck id, runs fn, and closes the deck so it is flushed.
func (s *session) withDeck(ctx context.Context, id string, fn func(*editor.Editor) error) error {
	if err := s.ed.LoadPresentation(ctx, id); err != nil {
		return err
	}
	if err := fn(s.ed); err != nil {
		return err
	}
	return s.ed.ClosePresentation(ctx)
}

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
