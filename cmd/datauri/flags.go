package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

var errUsage = errors.New("usage error")

// cliFlags holds the parsed command line.
type cliFlags struct {
	config      string
	envFiles    []string
	viewDir     string
	appRoot     string
	strict      bool
	defaultMIME string
	skipMissing bool
	format      string
	inline      string
	watch       bool
	logLevel    string
	help        bool

	set *flag.FlagSet
}

// changed reports whether the named flag was given explicitly.
func (f *cliFlags) changed(name string) bool {
	return f.set.Changed(name)
}

func newFlagSet(f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("datauri", flag.ContinueOnError)
	fs.SortFlags = false

	fs.StringVarP(&f.config, "config", "c", "", "YAML configuration file")
	fs.StringSliceVar(&f.envFiles, "env-file", nil, "dotenv files to load (repeatable)")
	fs.StringVarP(&f.viewDir, "view", "v", "", "directory of the current view (default: app root)")
	fs.StringVarP(&f.appRoot, "root", "r", "", "application root (default: working directory)")
	fs.BoolVar(&f.strict, "strict", false, `emit "data:" instead of "data: "`)
	fs.StringVar(&f.defaultMIME, "default-mime", "", "media type used when detection fails")
	fs.BoolVar(&f.skipMissing, "skip-missing", false, "with --inline, leave images that are not found untouched")
	fs.StringVarP(&f.format, "format", "f", "uri", "output format: uri, json or yaml")
	fs.StringVar(&f.inline, "inline", "", "HTML file whose <img> sources are inlined to stdout")
	fs.BoolVarP(&f.watch, "watch", "w", false, "print the data URI again whenever the file changes")
	fs.StringVar(&f.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	fs.BoolVarP(&f.help, "help", "h", false, "show help")

	return fs
}

// parseFlags parses args (without the program name) and returns the flags
// and the remaining positional paths.
func parseFlags(args []string, stderr io.Writer) (*cliFlags, []string, error) {
	f := &cliFlags{}
	f.set = newFlagSet(f)
	f.set.SetOutput(stderr)
	f.set.Usage = func() { printUsage(stderr, f.set) }

	if err := f.set.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	if f.help {
		return f, nil, nil
	}

	paths := f.set.Args()

	switch f.format {
	case "uri", "json", "yaml":
	default:
		return nil, nil, fmt.Errorf("%w: unknown format %q", errUsage, f.format)
	}

	switch {
	case f.inline != "" && f.watch:
		return nil, nil, fmt.Errorf("%w: --inline and --watch are exclusive", errUsage)
	case f.inline != "" && len(paths) > 0:
		return nil, nil, fmt.Errorf("%w: --inline takes no paths", errUsage)
	case f.watch && len(paths) != 1:
		return nil, nil, fmt.Errorf("%w: --watch takes exactly one path", errUsage)
	case f.inline == "" && len(paths) == 0:
		return nil, nil, fmt.Errorf("%w: no path given", errUsage)
	}

	return f, paths, nil
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: datauri [flags] PATH...")
	fmt.Fprintln(w, "       datauri [flags] --inline FILE.html")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Each PATH is looked up relative to the view directory, then the")
	fmt.Fprintln(w, "application root, then as given. The first match is printed as a data URI.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
}
