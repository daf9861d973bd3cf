package testcommand

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"github.com/bitrise-io/go-utils/progress"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/kballard/go-shellquote"
)

// LaunchFailureExitCode is reported when the command could not be started at all.
const LaunchFailureExitCode = -1

// SignalExitCodeBase is added to the signal number of a command killed by a signal, as shells do.
const SignalExitCodeBase = 128

// Output ...
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner runs a command line and captures its outputs.
// Run never returns an error: launch failures are reported through LaunchFailureExitCode.
type Runner interface {
	Run(workDir string, commandLine string, envs []string) Output
}

type runner struct {
	logger         log.Logger
	commandFactory command.Factory
	showProgress   bool
}

// NewRunner ...
func NewRunner(logger log.Logger, commandFactory command.Factory) Runner {
	return &runner{
		logger:         logger,
		commandFactory: commandFactory,
		showProgress:   true,
	}
}

// NewQuietRunner returns a Runner which does not print a progress indicator, used for short helper commands.
func NewQuietRunner(logger log.Logger, commandFactory command.Factory) Runner {
	return &runner{
		logger:         logger,
		commandFactory: commandFactory,
	}
}

func (r *runner) Run(workDir string, commandLine string, envs []string) Output {
	args, err := shellquote.Split(commandLine)
	if err != nil {
		return launchFailure(fmt.Errorf("failed to parse command (%s): %w", commandLine, err))
	}
	if len(args) == 0 {
		return launchFailure(errors.New("empty command"))
	}

	var (
		stdout   bytes.Buffer
		stderr   bytes.Buffer
		exitCode int
		runErr   error
	)

	cmd := r.commandFactory.Create(args[0], args[1:], &command.Opts{
		Stdout: &stdout,
		Stderr: &stderr,
		Env:    envs,
		Dir:    workDir,
	})

	r.logger.Printf("$ %s", cmd.PrintableCommandArgs())

	if r.showProgress {
		progress.SimpleProgress(".", time.Minute, func() {
			exitCode, runErr = cmd.RunAndReturnExitCode()
		})
	} else {
		exitCode, runErr = cmd.RunAndReturnExitCode()
	}

	if runErr != nil {
		r.logger.Debugf("Command failed: %s", runErr)

		// A negative exit code without an exit error means the process never started.
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			if exitCode < 0 {
				return launchFailure(runErr)
			}
		} else if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			exitCode = SignalExitCodeBase + int(status.Signal())
		}
		if exitCode == 0 {
			exitCode = 1
		}
	}

	return Output{
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
}

func launchFailure(err error) Output {
	return Output{
		ExitCode: LaunchFailureExitCode,
		Stdout:   "",
		Stderr:   err.Error(),
	}
}
