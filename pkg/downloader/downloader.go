package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/utils/exec"
	nlperrors "kubegems.io/nlpdata/pkg/errors"
	"kubegems.io/nlpdata/pkg/resource"
)

type Downloader struct {
	Options *Options
	Exec    exec.Interface
	Out     io.Writer
	Err     io.Writer
}

func New(options *Options) *Downloader {
	return &Downloader{
		Options: options,
		Exec:    exec.New(),
		Out:     os.Stdout,
		Err:     os.Stderr,
	}
}

// Plan returns the commands Setup would run for the profile.
func (d *Downloader) Plan(ctx context.Context, profile resource.Profile) ([]PlannedStep, error) {
	planned := make([]PlannedStep, 0, len(profile.Steps))
	for _, step := range profile.Steps {
		if d.Options.SkipInstalled {
			pending, err := d.pending(ctx, step)
			if err != nil {
				return nil, err
			}
			step = pending
		}
		planned = append(planned, PlannedStep{
			Tool:     step.Tool,
			Message:  step.Message,
			Commands: BuildCommands(d.Options, step),
		})
	}
	return planned, nil
}

// Setup runs the profile steps one after another. Each status message is
// written before its commands start, and the first failure stops the run.
func (d *Downloader) Setup(ctx context.Context, profile resource.Profile) error {
	if err := d.Options.Validate(); err != nil {
		return err
	}
	log := logr.FromContextOrDiscard(ctx).WithValues("profile", profile.Name)

	for _, step := range profile.Steps {
		fmt.Fprintln(d.Out, step.Message)

		if d.Options.SkipInstalled {
			pending, err := d.pending(ctx, step)
			if err != nil {
				return err
			}
			if len(pending.Resources) == 0 {
				fmt.Fprintf(d.Out, "%s resources already installed, nothing to download\n", step.Tool)
				continue
			}
			step = pending
		}

		for _, cmd := range BuildCommands(d.Options, step) {
			if d.Options.DryRun {
				fmt.Fprintln(d.Out, cmd.String())
				continue
			}
			log.V(1).Info("running downloader", "tool", cmd.Tool, "command", cmd.String())
			if err := d.run(ctx, cmd); err != nil {
				return fmt.Errorf("%s: %w", step.Tool, err)
			}
		}
	}
	return nil
}

func (d *Downloader) run(ctx context.Context, cmd Command) error {
	log := logr.FromContextOrDiscard(ctx)

	backoff := wait.Backoff{
		Duration: d.Options.RetryInterval,
		Factor:   2,
		Jitter:   0.1,
		Steps:    d.Options.Retries + 1,
	}
	attempt := 0
	var lasterr error
	err := wait.ExponentialBackoff(backoff, func() (bool, error) {
		attempt++
		c := d.Exec.CommandContext(ctx, cmd.Program, cmd.Args...)
		c.SetStdout(d.Out)
		c.SetStderr(d.Err)
		lasterr = c.Run()
		if lasterr == nil {
			return true, nil
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		var exiterr exec.ExitError
		if errors.As(lasterr, &exiterr) {
			log.Info("downloader failed", "tool", cmd.Tool, "attempt", attempt, "status", exiterr.ExitStatus())
			return false, nil
		}
		return false, lasterr
	})
	if errors.Is(err, wait.ErrWaitTimeout) {
		err = lasterr
	}
	return toError(cmd, err)
}

func toError(cmd Command, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrExecutableNotFound) {
		return nlperrors.NewToolUnavailableError(cmd.Program, err)
	}
	var exiterr exec.ExitError
	if errors.As(err, &exiterr) {
		return nlperrors.NewDownloadFailedError(cmd.String(), exiterr.ExitStatus(), err)
	}
	return err
}
