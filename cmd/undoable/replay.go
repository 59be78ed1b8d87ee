package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Usage: "output format: text or json",
		Value: formatText,
		Validator: func(s string) error {
			switch s {
			case formatText, formatJSON:
				return nil
			}
			return fmt.Errorf("unknown format %q", s)
		},
	}
}

func replayCommand(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "replay",
		Usage: "apply an action log and print the resulting history",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "actions",
				Aliases: []string{"a"},
				Usage:   "JSON-lines action log, - for stdin",
				Value:   "-",
			},
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return env.replay(cmd.String("actions"), cmd.String("format"))
		},
	}
}

func (env *appEnv) replay(path, format string) error {
	r, closeFn, err := env.openActions(path)
	if err != nil {
		return err
	}
	defer closeFn()

	actions, err := decodeActions(r)
	if err != nil {
		return cli.Exit(fmt.Sprintf("%s: %v", path, err), 1)
	}

	s := newSession(env.opts, env.logger)
	defer s.close()

	h := s.apply(actions)
	env.logger.Info("replay finished",
		"actions", len(actions),
		"past", h.UndoCount(),
		"future", h.RedoCount(),
	)
	return env.printHistory(format, h, s.metrics)
}

func (env *appEnv) openActions(path string) (io.Reader, func() error, error) {
	if path == "" || path == "-" {
		return env.stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, cli.Exit(fmt.Sprintf("open actions: %v", err), 1)
	}
	return f, f.Close, nil
}
