package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"

	tplbench "github.com/goliatone/go-tplbench"
	"github.com/goliatone/go-tplbench/pkg/bench"
	"github.com/goliatone/go-tplbench/pkg/config"
	"github.com/goliatone/go-tplbench/pkg/engine"
	"github.com/goliatone/go-tplbench/pkg/logging"
	"github.com/goliatone/go-tplbench/pkg/prompt"
)

// newPromptDriver is swapped in tests to avoid a real terminal.
var newPromptDriver = prompt.NewSurveyDriver

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath   string
	iterations   int
	engine       string
	compileDir   string
	forceCompile bool
	encoding     string
	baseDir      string
	logLevel     string
	logFile      string
	pickDir      string
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	defaults := config.Default()

	fs := flag.NewFlagSet("tplbench", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "JSON or YAML profile file")
	fs.IntVar(&opts.iterations, "n", defaults.Iterations, "renders per template")
	fs.StringVar(&opts.engine, "engine", defaults.Engine, "template engine to drive")
	fs.StringVar(&opts.compileDir, "compile-dir", defaults.CompileDir, "scratch directory for compiled templates")
	fs.BoolVar(&opts.forceCompile, "force-compile", defaults.ForceCompile, "recompile on every render")
	fs.StringVar(&opts.encoding, "encoding", defaults.Encoding, "output encoding: html, raw or sanitize")
	fs.StringVar(&opts.baseDir, "base-dir", "", "fallback directory for includes and extends")
	fs.StringVar(&opts.logLevel, "log-level", defaults.Log.Level, "log level")
	fs.StringVar(&opts.logFile, "log-file", "", "also write logs to this file")
	fs.StringVar(&opts.pickDir, "pick", "", "choose templates interactively from this directory")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: tplbench [options] <template_path> [<template_path> ...]\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	paths := fs.Args()
	if len(paths) == 0 && opts.pickDir == "" {
		fs.Usage()
		return 1
	}

	cfg, err := resolveConfig(fs, opts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	registry, err := tplbench.DefaultRegistry(cfg.EngineOptions()...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if !registry.Has(cfg.Engine) {
		fmt.Fprintf(stderr, "unknown engine %q (available: %s)\n", cfg.Engine, strings.Join(registry.List(), ", "))
		return 1
	}

	logger, closer, err := logging.New(cfg.Log, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer closer.Close()

	if opts.pickDir != "" {
		picked, err := prompt.PickTemplates(ctx, newPromptDriver(), opts.pickDir, prompt.DefaultExtension)
		if err != nil {
			logger.WithError(err).Error("template selection failed")
			return 1
		}
		paths = append(paths, picked...)
	}

	if err := execute(ctx, registry, cfg, paths, logger); err != nil {
		logger.WithError(err).Error("benchmark failed")
		return 1
	}
	return 0
}

// resolveConfig layers defaults, the optional profile file and explicitly
// set flags, in that order.
func resolveConfig(fs *flag.FlagSet, opts options) (config.Config, error) {
	cfg := config.Default()
	if path := strings.TrimSpace(opts.configPath); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			cfg.Iterations = opts.iterations
		case "engine":
			cfg.Engine = opts.engine
		case "compile-dir":
			cfg.CompileDir = opts.compileDir
		case "force-compile":
			cfg.ForceCompile = opts.forceCompile
		case "encoding":
			cfg.Encoding = opts.encoding
		case "base-dir":
			cfg.BaseDir = opts.baseDir
		case "log-level":
			cfg.Log.Level = opts.logLevel
		case "log-file":
			cfg.Log.File = opts.logFile
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func execute(ctx context.Context, registry *engine.Registry, cfg config.Config, paths []string, logger *logrus.Logger) error {
	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return err
	}

	driver, err := tplbench.NewRegistryDriver(registry, cfg.Engine,
		bench.WithIterations(cfg.Iterations),
		bench.WithEngineConfig(engineCfg),
		bench.WithBindings(cfg.Bindings()...),
		bench.WithLogger(logrus.NewEntry(logger)),
	)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"engine":        cfg.Engine,
		"templates":     len(paths),
		"iterations":    cfg.Iterations,
		"compile_dir":   engineCfg.CompileDir,
		"force_compile": engineCfg.ForceCompile,
		"encoding":      engineCfg.Encoding.String(),
		"base_dir":      cfg.BaseDir,
	}).Info("benchmark started")

	if err := driver.Run(ctx, paths); err != nil {
		return err
	}

	logger.Info("benchmark finished")
	return nil
}
