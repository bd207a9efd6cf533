// Command datauri prints files as data URIs, searching them the way a view
// helper does: relative to the view directory, then the application root,
// then as given.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/arloliu/datauri"
	"github.com/arloliu/datauri/watcher"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags, paths, err := parseFlags(args, stderr)
	if err != nil {
		log.New(stderr).Error(err)
		return exitCodeFor(err)
	}
	if flags.help {
		printUsage(stdout, flags.set)
		return ExitSuccess
	}

	logger, err := newLogger(stderr, flags.logLevel)
	if err != nil {
		log.New(stderr).Error(err)
		return ExitUsage
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		return exitCodeFor(err)
	}
	logger.Debug("configuration loaded", "appRoot", cfg.AppRoot, "viewDir", cfg.ViewDir, "version", Version)

	enc := datauri.New(cfg.Options()...)
	rc := cfg.Context()

	switch {
	case flags.inline != "":
		err = runInline(ctx, enc, rc, flags.inline, stdout)
	case flags.watch:
		err = runWatch(ctx, enc, rc, paths[0], flags.format, stdout, logger)
	default:
		err = runEncode(ctx, enc, rc, paths, flags.format, stdout, logger)
	}
	if err != nil {
		logger.Error(err)
	}

	return exitCodeFor(err)
}

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, errors.Join(errUsage, err)
	}

	return log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: "datauri",
	}), nil
}

// loadConfig layers flags over the config file, environment and defaults.
// The working directory is the application root unless something else sets it.
func loadConfig(flags *cliFlags) (*datauri.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	cfg, err := datauri.LoadConfig(flags.config,
		datauri.WithBase(datauri.Config{AppRoot: cwd}),
		datauri.WithEnvFiles(flags.envFiles...),
	)
	if err != nil {
		return nil, err
	}

	if flags.changed("root") {
		if cfg.ViewDir == cfg.AppRoot && !flags.changed("view") {
			cfg.ViewDir = flags.appRoot
		}
		cfg.AppRoot = flags.appRoot
	}
	if flags.changed("view") {
		cfg.ViewDir = flags.viewDir
	}
	if flags.changed("strict") {
		cfg.StrictPrefix = flags.strict
	}
	if flags.changed("default-mime") {
		cfg.DefaultMIME = flags.defaultMIME
	}
	if flags.changed("skip-missing") {
		cfg.SkipMissing = flags.skipMissing
	}

	return cfg, nil
}

func runEncode(ctx context.Context, enc *datauri.Encoder, rc datauri.Context, paths []string, format string, w io.Writer, logger *log.Logger) error {
	records := make([]record, 0, len(paths))
	var firstErr error

	for _, p := range paths {
		res, err := enc.Load(ctx, p, rc)
		if err != nil {
			logger.Warn("cannot encode", "path", p, "err", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		logger.Debug("encoded", "path", p, "selected", res.Path, "source", res.Source, "mime", res.MIMEType)
		records = append(records, newRecord(p, res))
	}

	if err := writeRecords(w, format, records); err != nil {
		return err
	}

	return firstErr
}

func runInline(ctx context.Context, enc *datauri.Encoder, rc datauri.Context, file string, w io.Writer) error {
	content, err := afero.ReadFile(datauri.DefaultFs, file)
	if err != nil {
		return err
	}

	out, err := enc.InlineImages(ctx, string(content), rc)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, out)

	return err
}

func runWatch(ctx context.Context, enc *datauri.Encoder, rc datauri.Context, path, format string, w io.Writer, logger *log.Logger) error {
	wt, err := watcher.New(enc).Build()
	if err != nil {
		return err
	}
	defer wt.Stop()

	updates, err := wt.Watch(ctx, path, rc)
	if err != nil {
		return err
	}

	for u := range updates {
		if u.Err != nil {
			logger.Warn("cannot encode", "path", path, "err", u.Err)
			continue
		}

		logger.Info("changed", "path", u.Path)
		rec := record{Input: path, Path: u.Path, URI: u.URI}
		if err := writeRecords(w, format, []record{rec}); err != nil {
			return err
		}
	}

	return nil
}
