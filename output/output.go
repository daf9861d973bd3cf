package output

import (
	"fmt"
	"path/filepath"

	"github.com/bitrise-io/bitrise/configs"
	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-platform-test/testaddon"
)

const (
	testResultKey     = "PLATFORM_TEST_RESULT"
	reportPathKey     = "PLATFORM_TEST_REPORT_PATH"
	kernelLogPathKey  = "PLATFORM_TEST_KERNEL_LOG_PATH"
	resultsZipPathKey = "PLATFORM_TEST_RESULTS_ZIP_PATH"

	kernelLogFileName  = "kernel.log"
	resultsZipFileName = "platform_test_results.zip"
)

// Exporter ...
type Exporter interface {
	ExportTestRunResult(failed bool)
	ExportReport(reportPath string)
	ExportKernelLog(deployDir, kernelLog string) error
	ExportOutputDir(deployDir, outputDir string)
	ExportTestResults(resultPath, bundleName string)
}

type exporter struct {
	envRepository     env.Repository
	logger            log.Logger
	fileManager       fileutil.FileManager
	outputExporter    export.Exporter
	testAddonExporter testaddon.Exporter
}

// NewExporter ...
func NewExporter(envRepository env.Repository, logger log.Logger, fileManager fileutil.FileManager, outputExporter export.Exporter, testAddonExporter testaddon.Exporter) Exporter {
	return &exporter{
		envRepository:     envRepository,
		logger:            logger,
		fileManager:       fileManager,
		outputExporter:    outputExporter,
		testAddonExporter: testAddonExporter,
	}
}

func (e exporter) ExportTestRunResult(failed bool) {
	status := "succeeded"
	if failed {
		status = "failed"
	}
	if err := e.envRepository.Set(testResultKey, status); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", testResultKey, err)
	}
}

func (e exporter) ExportReport(reportPath string) {
	if err := e.envRepository.Set(reportPathKey, reportPath); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", reportPathKey, err)
	}
}

func (e exporter) ExportKernelLog(deployDir, kernelLog string) error {
	deployPth := filepath.Join(deployDir, kernelLogFileName)
	if err := e.fileManager.Write(deployPth, kernelLog, 0644); err != nil {
		return fmt.Errorf("failed to write kernel log (%s): %w", deployPth, err)
	}

	if err := e.envRepository.Set(kernelLogPathKey, deployPth); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", kernelLogPathKey, err)
	}

	return nil
}

func (e exporter) ExportOutputDir(deployDir, outputDir string) {
	zipPath := filepath.Join(deployDir, resultsZipFileName)
	if err := e.outputExporter.ExportOutputFilesZip(resultsZipPathKey, []string{outputDir}, zipPath); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", resultsZipPathKey, err)
	}
}

func (e exporter) ExportTestResults(resultPath, bundleName string) {
	addonResultPath := e.envRepository.Get(configs.BitrisePerStepTestResultDirEnvKey)
	if len(addonResultPath) == 0 {
		return
	}

	e.logger.Println()
	e.logger.Infof("Exporting test results")

	if err := e.testAddonExporter.CopyAndSaveMetadata(testaddon.AddonCopy{
		SourceTestResultPath:  resultPath,
		TargetAddonPath:       addonResultPath,
		TargetAddonBundleName: bundleName,
	}); err != nil {
		e.logger.Warnf("Failed to export test results: %s", err)
	}
}
