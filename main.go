package main

import (
	"os"

	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-platform-test/kernellog"
	"github.com/bitrise-steplib/steps-platform-test/output"
	"github.com/bitrise-steplib/steps-platform-test/report"
	"github.com/bitrise-steplib/steps-platform-test/step"
	"github.com/bitrise-steplib/steps-platform-test/sysinfo"
	"github.com/bitrise-steplib/steps-platform-test/testaddon"
	"github.com/bitrise-steplib/steps-platform-test/testcommand"
	"github.com/bitrise-steplib/steps-platform-test/testresult"
	"github.com/spf13/cobra"
)

const (
	binFlag = "bin"
	outFlag = "out"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := log.NewLogger()
	exitCode := 0

	var binaryPath, outputDir string
	rootCmd := &cobra.Command{
		Use:           "platform-test",
		Short:         "Runs the platform test binary and renders an HTML report of its results",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var flags step.Flags
			if cmd.Flags().Changed(binFlag) {
				flags.TestBinaryPath = binaryPath
			}
			if cmd.Flags().Changed(outFlag) {
				flags.OutputDir = outputDir
			}

			exitCode = runTests(logger, flags)
			return nil
		},
	}
	rootCmd.Flags().StringVar(&binaryPath, binFlag, step.DefaultTestBinaryPath, "Path to the test binary")
	rootCmd.Flags().StringVar(&outputDir, outFlag, step.DefaultOutputDir, "Directory of the test result XML and the HTML report")
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		logger.Errorf("%s", err)
		return 1
	}

	return exitCode
}

func runTests(logger log.Logger, flags step.Flags) int {
	envRepository := env.NewRepository()
	configParser := createConfigParser(logger, envRepository)

	config, err := configParser.ProcessConfig(flags)
	if err != nil {
		logger.Errorf("Process config: %s", err)
		return 1
	}

	platformTestRunner := createStep(logger, envRepository)
	platformTestRunner.InstallDeps()

	result, runErr := platformTestRunner.Run(config)
	testFailed := runErr != nil || result.ExitCode != 0 || result.Summary.Failed() > 0

	if err := platformTestRunner.Export(result, testFailed); err != nil {
		logger.Warnf("Export outputs: %s", err)
	}

	if runErr != nil {
		logger.Errorf("%s", runErr)
		return 1
	}

	return result.ExitCode
}

func createConfigParser(logger log.Logger, envRepository env.Repository) step.PlatformTestConfigParser {
	inputParser := stepconf.NewInputParser(envRepository)
	return step.NewPlatformTestConfigParser(inputParser, logger, pathutil.NewPathChecker(), pathutil.NewPathModifier())
}

func createStep(logger log.Logger, envRepository env.Repository) step.PlatformTestRunner {
	commandFactory := command.NewFactory(envRepository)
	fileManager := fileutil.NewFileManager()
	pathChecker := pathutil.NewPathChecker()

	kernelLog := kernellog.NewReader(logger, commandFactory, testcommand.NewQuietRunner(logger, commandFactory))
	testAddonExporter := testaddon.NewExporter(testaddon.NewTestAddon(logger, fileManager))
	outputExporter := output.NewExporter(envRepository, logger, fileManager, export.NewExporter(commandFactory, export.NewFileManager()), testAddonExporter)

	return step.NewPlatformTestRunner(
		logger,
		testcommand.NewRunner(logger, commandFactory),
		kernelLog,
		testresult.NewParser(logger, pathChecker, fileManager),
		report.NewRenderer(logger),
		sysinfo.NewCollector(logger),
		outputExporter,
		pathChecker,
		pathutil.NewPathModifier(),
		fileManager,
	)
}
