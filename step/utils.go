package step

import (
	"sort"
	"strings"

	"github.com/bitrise-io/go-utils/colorstring"
	"github.com/bitrise-io/go-utils/parseutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-platform-test/testcommand"
	"github.com/bitrise-steplib/steps-platform-test/testresult"
)

func printFailedRunOutput(logger log.Logger, out testcommand.Output) {
	if out.ExitCode == testcommand.LaunchFailureExitCode {
		logger.Errorf("Failed to launch the test binary")
	} else {
		logger.Errorf("Tests failed with exit code %d", out.ExitCode)
	}

	logger.Printf("Stdout:")
	logger.Printf("%s", out.Stdout)
	logger.Printf("Stderr:")
	logger.Printf("%s", out.Stderr)
}

func printSummary(logger log.Logger, summary testresult.Summary) {
	logger.Println()
	logger.Infof("=== Test Summary ===")
	logger.Printf("Total: %d", summary.Total)
	logger.Printf("Failed: %d", summary.Failed())

	if summary.Failed() > 0 {
		logger.Println()
		for _, test := range summary.Tests {
			if test.Status == testresult.StatusFail {
				logger.Printf("%s %s.%s", colorstring.Red("FAIL"), test.ClassName, test.Name)
			}
		}
	}

	logger.Println()
	logger.Printf("%s", colorstring.Magenta(`The full report path is available in the $PLATFORM_TEST_REPORT_PATH environment variable.
If $BITRISE_DEPLOY_DIR is set, the zipped results and the kernel log are exported there as well.`))
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func parseYesNo(value string, defaultValue bool) (bool, error) {
	if strings.TrimSpace(value) == "" {
		return defaultValue, nil
	}
	return parseutil.ParseBool(value)
}

func testEnvs(values map[string]string) []string {
	var envs []string
	for key, value := range values {
		if value == "" {
			continue
		}
		envs = append(envs, key+"="+value)
	}
	sort.Strings(envs)
	return envs
}
