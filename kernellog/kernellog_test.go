package kernellog

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-platform-test/kernellog/mocks"
	"github.com/bitrise-steplib/steps-platform-test/testcommand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenLongKernelLog_WhenTail_ThenReturnsLastLines(t *testing.T) {
	// Given
	var lines []string
	for i := 1; i <= 150; i++ {
		lines = append(lines, fmt.Sprintf("[%5d.000000] msm_pcie: line %d", i, i))
	}
	reader, runner := createReaderAndMocks(t)
	runner.On("Run", "", "dmesg", []string(nil)).Return(testcommand.Output{Stdout: strings.Join(lines, "\n") + "\n"})

	// When
	logs := reader.Tail(100, "")

	// Then
	assert.Equal(t, strings.Join(lines[50:], "\n"), logs)
}

func Test_GivenFilter_WhenTail_ThenKeepsMatchingLinesOnly(t *testing.T) {
	// Given
	kernelLog := strings.Join([]string{
		"[    1.000000] usb 1-1: new high-speed USB device",
		"[    2.000000] MSM_PCIE: RC0 link up",
		"[    3.000000] random driver noise",
		"[    4.000000] msm_pcie: AER Status: enabled",
	}, "\n")
	reader, runner := createReaderAndMocks(t)
	runner.On("Run", "", "dmesg", []string(nil)).Return(testcommand.Output{Stdout: kernelLog})

	// When
	logs := reader.Tail(100, "msm_pcie")

	// Then
	assert.Equal(t, "[    2.000000] MSM_PCIE: RC0 link up\n[    4.000000] msm_pcie: AER Status: enabled", logs)
}

func Test_GivenInvalidFilter_WhenTail_ThenIgnoresIt(t *testing.T) {
	// Given
	reader, runner := createReaderAndMocks(t)
	runner.On("Run", "", "dmesg", []string(nil)).Return(testcommand.Output{Stdout: "a\nb"})

	// When
	logs := reader.Tail(100, "(")

	// Then
	assert.Equal(t, "a\nb", logs)
}

func Test_GivenDmesgFails_WhenTail_ThenReturnsEmptyLog(t *testing.T) {
	tests := []struct {
		name   string
		output testcommand.Output
	}{
		{
			name:   "Permission denied",
			output: testcommand.Output{ExitCode: 1, Stderr: "dmesg: read kernel buffer failed: Operation not permitted"},
		},
		{
			name:   "Not installed",
			output: testcommand.Output{ExitCode: testcommand.LaunchFailureExitCode, Stderr: "executable file not found in $PATH"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Given
			reader, runner := createReaderAndMocks(t)
			runner.On("Run", "", "dmesg", []string(nil)).Return(test.output)

			// When
			logs := reader.Tail(100, "")

			// Then
			assert.Empty(t, logs)
		})
	}
}

func Test_GivenRootlessRun_WhenClear_ThenFails(t *testing.T) {
	// Given
	reader, runner := createReaderAndMocks(t)
	runner.On("Run", "", "dmesg -C", []string(nil)).Return(testcommand.Output{ExitCode: 1, Stderr: "dmesg: klogctl failed: Operation not permitted\n"})

	// When
	err := reader.Clear()

	// Then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operation not permitted")
}

func Test_GivenUtilLinuxVersionOutput_WhenParsed_ThenReturnsVersion(t *testing.T) {
	// When
	ver, err := parseVersion("dmesg from util-linux 2.38.1")

	// Then
	require.NoError(t, err)
	assert.Equal(t, "2.38.1", ver.String())
}

func Test_GivenEmptyVersionOutput_WhenParsed_ThenFails(t *testing.T) {
	// When
	_, err := parseVersion("")

	// Then
	assert.Error(t, err)
}

// Helpers

func createReaderAndMocks(t *testing.T) (Reader, *mocks.Runner) {
	runner := mocks.NewRunner(t)
	return NewReader(log.NewLogger(), nil, runner), runner
}
