// Package main is the entry point for the undoable command line tool.
//
// It replays JSON-lines action logs through an undoable key/value document
// and prints the resulting history.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/dshills/undoable/internal/config"
	"github.com/dshills/undoable/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// appEnv carries the I/O streams and the state set up by the Before hook.
type appEnv struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// outMu serializes writes to stdout from watcher callbacks.
	outMu sync.Mutex

	loader   *config.Loader
	opts     config.Options
	logger   *slog.Logger
	closeLog func() error
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	env := &appEnv{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		loader: config.NewLoader(),
	}

	if err := newApp(env).Run(ctx, args); err != nil {
		if exitErr, ok := err.(cli.ExitCoder); ok {
			if msg := exitErr.Error(); msg != "" {
				fmt.Fprintf(stderr, "undoable: %s\n", msg)
			}
			return exitErr.ExitCode()
		}
		fmt.Fprintf(stderr, "undoable: %v\n", err)
		return 1
	}
	return 0
}

func newApp(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "undoable",
		Usage:     "replay action logs through an undo/redo history",
		Version:   fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Writer:    env.stdout,
		ErrWriter: env.stderr,
		Reader:    env.stdin,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a TOML or YAML config file",
				Sources: cli.EnvVars("UNDOABLE_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "write logs to this file, rotated",
			},
		},
		Before: env.before,
		After:  env.after,
		Commands: []*cli.Command{
			replayCommand(env),
			watchCommand(env),
		},
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

// before loads the config file and builds the logger.
func (env *appEnv) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	opts, err := env.loader.Load(cmd.String("config"))
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("load config: %v", err), 2)
	}

	logCfg := opts.Logging
	if level := cmd.String("log-level"); level != "" {
		logCfg.Level = &level
	}
	if file := cmd.String("log-file"); file != "" {
		sink := string(logging.SinkFile)
		logCfg.File = &file
		logCfg.Sink = &sink
	}

	logger, closeLog, err := logging.New(logCfg)
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("init logging: %v", err), 2)
	}

	env.opts = opts
	env.logger = logger
	env.closeLog = closeLog
	return ctx, nil
}

func (env *appEnv) after(context.Context, *cli.Command) error {
	if env.closeLog == nil {
		return nil
	}
	err := env.closeLog()
	env.closeLog = nil
	return err
}
