package testaddon

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenNormalBundleName_WhenExport_ThenCreatesOutputStructure(t *testing.T) {
	runTest(t, "Bitrise", "Bitrise")
}

func Test_GivenBundleNameWithSpecialCharacters_WhenExport_ThenReplacesSpecialCharacters(t *testing.T) {
	runTest(t, "W/eir/d:Na::me/", "W-eir-d-Na--me-")
}

func Test_GivenMissingResultFile_WhenExport_ThenFails(t *testing.T) {
	// Given
	tempDir := t.TempDir()
	exporter := createExporter()

	// When
	err := exporter.CopyAndSaveMetadata(AddonCopy{
		SourceTestResultPath:  filepath.Join(tempDir, "missing", "test_detail.xml"),
		TargetAddonPath:       filepath.Join(tempDir, "output"),
		TargetAddonBundleName: "platform-tests",
	})

	// Then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to copy test result")
	assert.False(t, isPathExists(filepath.Join(tempDir, "output", "platform-tests", "test-info.json")))
}

func runTest(t *testing.T, bundleName string, expectedBundleName string) {
	// Given
	resultPth, outputDir := prepareArtifacts(t)

	exporter := createExporter()

	// When
	err := exporter.CopyAndSaveMetadata(AddonCopy{
		SourceTestResultPath:  resultPth,
		TargetAddonPath:       outputDir,
		TargetAddonBundleName: bundleName,
	})

	// Then
	assert.NoError(t, err)
	assert.True(t, isOutputStructureCorrectWithExpectedBundleName(outputDir, expectedBundleName))

	content, err := os.ReadFile(filepath.Join(outputDir, expectedBundleName, "test_detail.xml"))
	require.NoError(t, err)
	assert.Equal(t, testResultContent, string(content))
}

// Helpers

const testResultContent = `<testsuites tests="1" failures="0" errors="0" time="0.01"></testsuites>`

func createExporter() Exporter {
	return NewExporter(NewTestAddon(log.NewLogger(), fileutil.NewFileManager()))
}

func prepareArtifacts(t *testing.T) (string, string) {
	tempDir := t.TempDir()

	resultPth := filepath.Join(tempDir, "test_results", "test_detail.xml")
	err := fileutil.NewFileManager().Write(resultPth, testResultContent, 0600)
	require.NoError(t, err)
	require.FileExists(t, resultPth)

	outputDir := filepath.Join(tempDir, "output")

	return resultPth, outputDir
}

func isOutputStructureCorrectWithExpectedBundleName(outputDir string, bundleName string) bool {
	jsonPath := filepath.Join(outputDir, bundleName, "test-info.json")
	expectedPaths := []string{
		filepath.Join(outputDir, bundleName),
		filepath.Join(outputDir, bundleName, "test_detail.xml"),
		jsonPath,
	}

	for _, path := range expectedPaths {
		if isPathExists(path) == false {
			return false
		}
	}

	return exportedBundleNameFromFile(jsonPath) == bundleName
}

func exportedBundleNameFromFile(path string) string {
	type testBundle struct {
		BundleName string `json:"test-name"`
	}

	jsonFile, _ := os.Open(path)

	defer jsonFile.Close()

	bytes, _ := io.ReadAll(jsonFile)

	var bundle testBundle
	_ = json.Unmarshal(bytes, &bundle)

	return bundle.BundleName
}

func isPathExists(path string) bool {
	isExist, _ := pathutil.NewPathChecker().IsPathExists(path)
	return isExist
}
