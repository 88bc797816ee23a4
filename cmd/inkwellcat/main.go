// Package main is a demonstration command that loads a file into a Buffer
// and keeps it synchronized with the filesystem: external edits reset the
// base text, and in-memory edits are flushed back out, whichever the
// buffer's modification state calls for.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/inkwell/inkwell/internal/applog"
	"github.com/inkwell/inkwell/internal/config"
	"github.com/inkwell/inkwell/internal/engine/buffer"
	"github.com/inkwell/inkwell/internal/engine/text"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	logger := applog.New(applog.Config{Level: opts.logLevel, Output: os.Stderr, Prefix: "inkwellcat"})

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}

	if opts.file == "" {
		fmt.Fprintln(os.Stderr, "Error: no file given")
		flag.Usage()
		return 1
	}

	data, err := os.ReadFile(opts.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read %s: %v\n", opts.file, err)
		return 1
	}

	decoded, enc, err := decodeFile(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to decode %s: %v\n", opts.file, err)
		return 1
	}

	bufOpts := append(cfg.BufferOptions(), buffer.WithLogger(logger.WithComponent("buffer")))
	b := buffer.NewFromText(text.FromString(decoded), bufOpts...)

	logger.Info("loaded %s (%d bytes, id=%s)", opts.file, len(data), b.ID())

	if opts.watch {
		return watch(b, opts.file, enc, logger)
	}

	fmt.Println(b.Text().String())
	return 0
}

type cliOptions struct {
	file       string
	configPath string
	watch      bool
	logLevel   applog.Level
}

func parseFlags() cliOptions {
	var opts cliOptions
	var logLevelName string

	flag.StringVar(&opts.configPath, "config", "", "Path to a TOML config file")
	flag.BoolVar(&opts.watch, "watch", false, "Watch the file for external changes")
	flag.StringVar(&logLevelName, "log-level", "info", "Log level (debug, info, warn, error)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "inkwellcat - load a file into the buffer engine\n\n")
		fmt.Fprintf(os.Stderr, "Usage: inkwellcat [options] <file>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	switch logLevelName {
	case "debug":
		opts.logLevel = applog.LevelDebug
	case "warn":
		opts.logLevel = applog.LevelWarn
	case "error":
		opts.logLevel = applog.LevelError
	default:
		opts.logLevel = applog.LevelInfo
	}

	if flag.NArg() > 0 {
		opts.file = flag.Arg(0)
	}
	return opts
}

func loadConfig(path string) (config.Options, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
