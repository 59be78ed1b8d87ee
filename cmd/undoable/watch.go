package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dshills/undoable/internal/config/watcher"
)

func watchCommand(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "follow an action log, reloading the config when it changes",
		Description: "Applies the action log, then applies lines appended to it as they\n" +
			"arrive. When the config file changes the reducer is rebuilt and\n" +
			"continues from the current history.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "actions",
				Aliases:  []string{"a"},
				Usage:    "JSON-lines action log",
				Required: true,
			},
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return env.watch(ctx, cmd.Root().String("config"), cmd.String("actions"), cmd.String("format"))
		},
	}
}

func (env *appEnv) watch(ctx context.Context, configPath, actionsPath, format string) error {
	s := newSession(env.opts, env.logger)
	defer s.close()

	tail := newActionTail(actionsPath)
	if err := env.follow(s, tail, format); err != nil {
		return err
	}

	actionsWatcher, err := watcher.New(actionsPath, func(watcher.Event) {
		if err := env.follow(s, tail, format); err != nil {
			env.logger.Error("apply actions failed", "path", actionsPath, "error", err)
		}
	}, watcher.WithContext(ctx), watcher.WithLogger(env.logger))
	if err != nil {
		return cli.Exit(fmt.Sprintf("watch actions: %v", err), 1)
	}
	defer actionsWatcher.Close()

	if configPath != "" {
		configWatcher, err := watcher.New(configPath, func(ev watcher.Event) {
			env.reload(s, configPath, format, ev)
		}, watcher.WithContext(ctx), watcher.WithLogger(env.logger))
		if err != nil {
			return cli.Exit(fmt.Sprintf("watch config: %v", err), 1)
		}
		defer configWatcher.Close()
	}

	<-ctx.Done()
	return nil
}

// follow applies new lines from the action log and prints the history.
func (env *appEnv) follow(s *session, tail *actionTail, format string) error {
	actions, err := tail.next()
	if len(actions) > 0 {
		h := s.apply(actions)
		if werr := env.printHistory(format, h, s.metrics); werr != nil {
			return werr
		}
	}
	return err
}

// reload rebuilds the session reducer from the changed config file.
// A broken config keeps the previous reducer.
func (env *appEnv) reload(s *session, path, format string, ev watcher.Event) {
	if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
		env.logger.Warn("config file went away, keeping current settings", "path", path)
		return
	}

	opts, err := env.loader.Load(path)
	if err != nil {
		env.logger.Error("reload config failed, keeping current settings", "path", path, "error", err)
		return
	}

	s.configure(opts)
	env.logger.Info("config reloaded", "path", path)
	if err := env.printHistory(format, s.history(), s.metrics); err != nil {
		env.logger.Error("write history failed", "error", err)
	}
}
