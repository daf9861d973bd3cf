package step

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-platform-test/kernellog"
	"github.com/bitrise-steplib/steps-platform-test/output"
	"github.com/bitrise-steplib/steps-platform-test/report"
	"github.com/bitrise-steplib/steps-platform-test/sysinfo"
	"github.com/bitrise-steplib/steps-platform-test/testcommand"
	"github.com/bitrise-steplib/steps-platform-test/testresult"
	"github.com/kballard/go-shellquote"
)

// Defaults used when neither a flag nor an input is given.
const (
	DefaultTestBinaryPath = "./build/pcie_tests"
	DefaultOutputDir      = "test_results"
	DefaultTestBundleName = "platform-tests"
)

const (
	resultFileName = "test_detail.xml"
	reportFileName = "report.html"

	gtestOutputFlag = "--gtest_output=xml:"
)

// Environment variables read by the test binary to locate the kernel interfaces under test.
const (
	pcieDebugfsRootEnvKey = "PLATFORM_TEST_PCIE_DEBUGFS_ROOT"
	usbSysfsRootEnvKey    = "PLATFORM_TEST_USB_SYSFS_ROOT"
	usbDebugfsRootEnvKey  = "PLATFORM_TEST_USB_DEBUGFS_ROOT"
)

// Input ...
type Input struct {
	// Test binary
	TestBinaryPath string `env:"test_binary_path"`
	OutputDir      string `env:"output_dir"`
	TestOptions    string `env:"test_options"`

	// Kernel interfaces
	PCIeDebugfsRoot string `env:"pcie_debugfs_root"`
	USBSysfsRoot    string `env:"usb_sysfs_root"`
	USBDebugfsRoot  string `env:"usb_debugfs_root"`

	// Kernel log
	KernelLogLines  int    `env:"kernel_log_lines"`
	KernelLogFilter string `env:"kernel_log_filter"`
	ClearKernelLog  bool   `env:"clear_kernel_log"`

	// Report
	CollectSystemInfo string `env:"collect_system_info"`

	// Debug
	VerboseLog bool `env:"verbose_log"`

	// Output export
	TestBundleName string `env:"test_bundle_name"`
	DeployDir      string `env:"BITRISE_DEPLOY_DIR"`
}

// Flags are the command line overrides of the inputs, empty values are ignored.
type Flags struct {
	TestBinaryPath string
	OutputDir      string
}

// Config ...
type Config struct {
	TestBinaryPath string
	OutputDir      string
	TestOptions    []string
	TestEnvs       []string

	KernelLogLines    int
	KernelLogFilter   string
	ClearKernelLog    bool
	CollectSystemInfo bool

	TestBundleName string
	DeployDir      string
}

// Result ...
type Result struct {
	ExitCode   int
	OutputDir  string
	ResultPath string
	ReportPath string
	KernelLog  string
	Summary    testresult.Summary

	TestBundleName string
	DeployDir      string
}

// PlatformTestConfigParser ...
type PlatformTestConfigParser struct {
	inputParser  stepconf.InputParser
	logger       log.Logger
	pathChecker  pathutil.PathChecker
	pathModifier pathutil.PathModifier
}

// NewPlatformTestConfigParser ...
func NewPlatformTestConfigParser(inputParser stepconf.InputParser, logger log.Logger, pathChecker pathutil.PathChecker, pathModifier pathutil.PathModifier) PlatformTestConfigParser {
	return PlatformTestConfigParser{
		inputParser:  inputParser,
		logger:       logger,
		pathChecker:  pathChecker,
		pathModifier: pathModifier,
	}
}

// ProcessConfig ...
func (p PlatformTestConfigParser) ProcessConfig(flags Flags) (Config, error) {
	var input Input
	if err := p.inputParser.Parse(&input); err != nil {
		return Config{}, err
	}

	stepconf.Print(input)
	p.logger.Println()

	p.logger.EnableDebugLog(input.VerboseLog)

	binaryPath := firstNonEmpty(flags.TestBinaryPath, input.TestBinaryPath, DefaultTestBinaryPath)
	binaryPath, err := p.pathModifier.AbsPath(binaryPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute test binary path: %w", err)
	}
	if exists, err := p.pathChecker.IsPathExists(binaryPath); err != nil {
		return Config{}, fmt.Errorf("failed to check test binary path: %w", err)
	} else if !exists {
		p.logger.Warnf("Test binary (%s) does not exist", binaryPath)
	}

	var testOptions []string
	if input.TestOptions != "" {
		testOptions, err = shellquote.Split(input.TestOptions)
		if err != nil {
			return Config{}, fmt.Errorf("provided test_options (%s) are not valid CLI parameters: %w", input.TestOptions, err)
		}
	}

	if input.KernelLogLines < 0 {
		return Config{}, fmt.Errorf("invalid kernel_log_lines (%d), should not be negative", input.KernelLogLines)
	}
	kernelLogLines := input.KernelLogLines
	if kernelLogLines == 0 {
		kernelLogLines = kernellog.DefaultTailLines
	}

	collectSystemInfo, err := parseYesNo(input.CollectSystemInfo, true)
	if err != nil {
		return Config{}, fmt.Errorf("invalid collect_system_info: %w", err)
	}

	return Config{
		TestBinaryPath: binaryPath,
		OutputDir:      firstNonEmpty(flags.OutputDir, input.OutputDir, DefaultOutputDir),
		TestOptions:    testOptions,
		TestEnvs: testEnvs(map[string]string{
			pcieDebugfsRootEnvKey: input.PCIeDebugfsRoot,
			usbSysfsRootEnvKey:    input.USBSysfsRoot,
			usbDebugfsRootEnvKey:  input.USBDebugfsRoot,
		}),

		KernelLogLines:    kernelLogLines,
		KernelLogFilter:   input.KernelLogFilter,
		ClearKernelLog:    input.ClearKernelLog,
		CollectSystemInfo: collectSystemInfo,

		TestBundleName: firstNonEmpty(input.TestBundleName, DefaultTestBundleName),
		DeployDir:      input.DeployDir,
	}, nil
}

// PlatformTestRunner ...
type PlatformTestRunner struct {
	logger         log.Logger
	testRunner     testcommand.Runner
	kernelLog      kernellog.Reader
	resultParser   testresult.Parser
	reportRenderer report.Renderer
	sysInfo        sysinfo.Collector
	outputExporter output.Exporter
	pathChecker    pathutil.PathChecker
	pathModifier   pathutil.PathModifier
	fileManager    fileutil.FileManager
}

// NewPlatformTestRunner ...
func NewPlatformTestRunner(
	logger log.Logger,
	testRunner testcommand.Runner,
	kernelLog kernellog.Reader,
	resultParser testresult.Parser,
	reportRenderer report.Renderer,
	sysInfo sysinfo.Collector,
	outputExporter output.Exporter,
	pathChecker pathutil.PathChecker,
	pathModifier pathutil.PathModifier,
	fileManager fileutil.FileManager,
) PlatformTestRunner {
	return PlatformTestRunner{
		logger:         logger,
		testRunner:     testRunner,
		kernelLog:      kernelLog,
		resultParser:   resultParser,
		reportRenderer: reportRenderer,
		sysInfo:        sysInfo,
		outputExporter: outputExporter,
		pathChecker:    pathChecker,
		pathModifier:   pathModifier,
		fileManager:    fileManager,
	}
}

// InstallDeps checks the kernel log tool, a missing tool only means an empty log section in the report.
func (s PlatformTestRunner) InstallDeps() {
	ver, err := s.kernelLog.CheckInstall()
	if err != nil {
		s.logger.Warnf("Kernel log capture is not available: %s", err)
		return
	}

	s.logger.Printf("- dmesg version: %s", ver.String())
}

// Run executes the test binary and renders the report.
// The returned error is set only if the results could not be parsed or the report could not be written,
// a failing test binary is reported through Result.ExitCode.
func (s PlatformTestRunner) Run(config Config) (Result, error) {
	result := Result{
		OutputDir:      config.OutputDir,
		ResultPath:     filepath.Join(config.OutputDir, resultFileName),
		ReportPath:     filepath.Join(config.OutputDir, reportFileName),
		TestBundleName: config.TestBundleName,
		DeployDir:      config.DeployDir,
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create output directory (%s): %w", config.OutputDir, err)
	}
	if err := s.removeStaleResult(result.ResultPath); err != nil {
		return result, err
	}

	if config.ClearKernelLog {
		if err := s.kernelLog.Clear(); err != nil {
			s.logger.Warnf("%s", err)
		}
	}

	args := append([]string{config.TestBinaryPath, gtestOutputFlag + result.ResultPath}, config.TestOptions...)

	s.logger.Println()
	s.logger.Infof("Running tests from %s", config.TestBinaryPath)

	out := s.testRunner.Run("", shellquote.Join(args...), config.TestEnvs)
	result.ExitCode = out.ExitCode

	s.logger.Printf("Test execution finished.")
	if out.ExitCode != 0 {
		printFailedRunOutput(s.logger, out)
	}

	s.logger.Println()
	s.logger.Infof("Capturing dmesg...")
	result.KernelLog = s.kernelLog.Tail(config.KernelLogLines, config.KernelLogFilter)

	summary, err := s.resultParser.Parse(result.ResultPath)
	if err != nil {
		return result, fmt.Errorf("failed to parse test results: %w", err)
	}
	result.Summary = summary

	var system *sysinfo.Info
	if config.CollectSystemInfo {
		system = s.sysInfo.Collect()
	}

	if err := s.reportRenderer.Render(report.Data{
		Summary:     summary,
		Logs:        result.KernelLog,
		GeneratedAt: time.Now(),
		System:      system,
	}, result.ReportPath); err != nil {
		return result, fmt.Errorf("failed to generate report: %w", err)
	}

	s.logger.Println()
	s.logger.Donef("Report generated: %s", result.ReportPath)

	printSummary(s.logger, summary)

	return result, nil
}

// Export ...
func (s PlatformTestRunner) Export(result Result, testFailed bool) error {
	s.logger.Println()
	s.logger.Infof("Export outputs")

	s.outputExporter.ExportTestRunResult(testFailed)

	if s.isExistingFile(result.ReportPath) {
		reportPath, err := s.pathModifier.AbsPath(result.ReportPath)
		if err != nil {
			return fmt.Errorf("failed to get absolute report path: %w", err)
		}
		s.outputExporter.ExportReport(reportPath)
	}

	if result.DeployDir != "" {
		if err := s.outputExporter.ExportKernelLog(result.DeployDir, result.KernelLog); err != nil {
			s.logger.Warnf("Failed to export kernel log: %s", err)
		}
		s.outputExporter.ExportOutputDir(result.DeployDir, result.OutputDir)
	}

	if s.isExistingFile(result.ResultPath) {
		s.outputExporter.ExportTestResults(result.ResultPath, result.TestBundleName)
	}

	return nil
}

func (s PlatformTestRunner) isExistingFile(pth string) bool {
	if pth == "" {
		return false
	}

	exists, err := s.pathChecker.IsPathExists(pth)
	if err != nil {
		s.logger.Warnf("Failed to check path (%s): %s", pth, err)
		return false
	}
	return exists
}

func (s PlatformTestRunner) removeStaleResult(pth string) error {
	exists, err := s.pathChecker.IsPathExists(pth)
	if err != nil {
		return fmt.Errorf("failed to check test result path: %w", err)
	}
	if !exists {
		return nil
	}

	s.logger.Debugf("Removing test result of a previous run: %s", pth)
	if err := s.fileManager.Remove(pth); err != nil {
		return fmt.Errorf("failed to remove previous test result (%s): %w", pth, err)
	}
	return nil
}
