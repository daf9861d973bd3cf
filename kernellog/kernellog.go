package kernellog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bitrise-io/go-utils/errorutil"
	"github.com/bitrise-io/go-utils/stringutil"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-platform-test/testcommand"
	version "github.com/hashicorp/go-version"
)

const dmesg = "dmesg"

// DefaultTailLines is the number of kernel log lines kept for the report.
const DefaultTailLines = 100

// Reader reads the kernel ring buffer.
type Reader interface {
	CheckInstall() (*version.Version, error)
	Clear() error
	Tail(lines int, filter string) string
}

type dmesgReader struct {
	logger         log.Logger
	commandFactory command.Factory
	runner         testcommand.Runner
}

// NewReader ...
func NewReader(logger log.Logger, commandFactory command.Factory, runner testcommand.Runner) Reader {
	return &dmesgReader{
		logger:         logger,
		commandFactory: commandFactory,
		runner:         runner,
	}
}

// CheckInstall returns the version of the installed dmesg (util-linux).
func (r *dmesgReader) CheckInstall() (*version.Version, error) {
	versionCmd := r.commandFactory.Create(dmesg, []string{"--version"}, nil)

	out, err := versionCmd.RunAndReturnTrimmedOutput()
	if err != nil {
		if errorutil.IsExitStatusError(err) {
			return nil, fmt.Errorf("dmesg version command failed: %w", err)
		}

		return nil, fmt.Errorf("failed to run dmesg command: %w", err)
	}

	return parseVersion(out)
}

// Clear empties the kernel ring buffer, requires root.
func (r *dmesgReader) Clear() error {
	out := r.runner.Run("", dmesg+" -C", nil)
	if out.ExitCode != 0 {
		return fmt.Errorf("failed to clear kernel log (exit code %d): %s", out.ExitCode, strings.TrimSpace(out.Stderr))
	}
	return nil
}

// Tail returns the last lines of the kernel log, optionally keeping only the lines matching filter.
// Failures are tolerated: an empty string is returned.
func (r *dmesgReader) Tail(lines int, filter string) string {
	if lines <= 0 {
		lines = DefaultTailLines
	}

	out := r.runner.Run("", dmesg, nil)
	if out.ExitCode != 0 {
		r.logger.Warnf("Failed to read kernel log (exit code %d): %s", out.ExitCode, strings.TrimSpace(out.Stderr))
		return ""
	}

	logs := out.Stdout
	if filter != "" {
		filtered, err := filterLines(logs, filter)
		if err != nil {
			r.logger.Warnf("Invalid kernel log filter (%s): %s", filter, err)
		} else {
			logs = filtered
		}
	}

	logs = strings.TrimRight(logs, "\n")
	if logs == "" {
		return ""
	}

	return stringutil.LastNLines(logs, lines)
}

func filterLines(logs, filter string) (string, error) {
	re, err := regexp.Compile("(?i)" + filter)
	if err != nil {
		return "", err
	}

	var matching []string
	for _, line := range strings.Split(logs, "\n") {
		if re.MatchString(line) {
			matching = append(matching, line)
		}
	}
	return strings.Join(matching, "\n"), nil
}

// parseVersion parses outputs like: dmesg from util-linux 2.38.1
func parseVersion(out string) (*version.Version, error) {
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return nil, errors.New("empty dmesg version output")
	}
	return version.NewVersion(fields[len(fields)-1])
}
