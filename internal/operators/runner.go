package operators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/mattn/go-shellwords"
)

// ShellRunner starts run strings as detached processes. Commands are split
// with shell quoting rules and environment variables are expanded.
type ShellRunner struct {
	Ctx    context.Context
	Dir    string
	Logger *slog.Logger
}

func (r *ShellRunner) Run(command string) error {
	parser := shellwords.NewParser()
	parser.ParseEnv = true
	args, err := parser.Parse(command)
	if err != nil {
		return fmt.Errorf("parse %q: %w", command, err)
	}
	if len(args) == 0 {
		return errors.New("empty command")
	}

	ctx := r.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = r.Dir
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %q: %w", command, err)
	}

	log := r.Logger
	if log == nil {
		log = slog.Default()
	}
	log.Info("command started", "command", command, "pid", cmd.Process.Pid)
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Debug("command exited", "command", command, "error", err)
		}
	}()
	return nil
}
