package testresult

import (
	"path/filepath"
	"testing"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gtestReport = `<?xml version="1.0" encoding="UTF-8"?>
<testsuites tests="4" failures="2" disabled="0" errors="0" time="1.234" timestamp="2024-01-01T10:00:00" name="AllTests">
  <testsuite name="PCIeTest" tests="3" failures="1" disabled="0" skipped="0" errors="0" time="1.1">
    <testcase name="AerEnableNode" file="pcie_test.cpp" line="36" status="run" result="completed" time="0.5" classname="PCIeTest" />
    <testcase name="BootOptionNode" status="run" result="completed" time="0.3" classname="PCIeTest">
      <failure message="pcie_test.cpp:25&#x0A;Value of: differences.find(expectedKey) != differences.end()" type=""><![CDATA[pcie_test.cpp:25
Expected change in Boot Option not found in status differences]]></failure>
      <failure message="second assertion" type=""><![CDATA[second failure text]]></failure>
    </testcase>
    <testcase name="InvalidValues" status="run" result="completed" time="0.3" classname="PCIeTest" />
  </testsuite>
  <testsuite name="UsbSysfsTest" tests="1" failures="1" disabled="0" skipped="0" errors="0" time="0.1">
    <testcase name="EnumerateDevices" status="run" result="completed" time="0.1" classname="UsbSysfsTest">
      <failure message="Vendor ID should not be empty" type=""></failure>
    </testcase>
  </testsuite>
</testsuites>
`

func Test_GivenGtestReport_WhenParse_ThenReturnsEveryTestCaseInOrder(t *testing.T) {
	// Given
	pth := writeReport(t, gtestReport)
	parser := createParser()

	// When
	summary, err := parser.Parse(pth)

	// Then
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Failures)
	assert.Equal(t, 0, summary.Errors)
	assert.Equal(t, "1.234", summary.Time)
	assert.Equal(t, 2, summary.Failed())
	assert.Equal(t, 2, summary.Passed())

	require.Len(t, summary.Tests, 4)
	assert.Equal(t, TestCase{Name: "AerEnableNode", ClassName: "PCIeTest", Status: StatusPass}, summary.Tests[0])
	assert.Equal(t, TestCase{
		Name:      "BootOptionNode",
		ClassName: "PCIeTest",
		Status:    StatusFail,
		Message:   "pcie_test.cpp:25\nExpected change in Boot Option not found in status differences",
	}, summary.Tests[1])
	assert.Equal(t, TestCase{Name: "InvalidValues", ClassName: "PCIeTest", Status: StatusPass}, summary.Tests[2])
	assert.Equal(t, TestCase{
		Name:      "EnumerateDevices",
		ClassName: "UsbSysfsTest",
		Status:    StatusFail,
		Message:   "Vendor ID should not be empty",
	}, summary.Tests[3])
}

func Test_GivenNonexistentReport_WhenParse_ThenReturnsEmptySummary(t *testing.T) {
	// Given
	pth := filepath.Join(t.TempDir(), "test_detail.xml")
	parser := createParser()

	// When
	summary, err := parser.Parse(pth)

	// Then
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0, summary.Passed())
	assert.Equal(t, 0, summary.Failed())
	assert.NotNil(t, summary.Tests)
	assert.Empty(t, summary.Tests)
	assert.Equal(t, EmptySummary(), summary)
}

func Test_GivenRootWithoutCounts_WhenParse_ThenCountsDefaultToZero(t *testing.T) {
	// Given
	pth := writeReport(t, `<testsuites><testsuite><testcase name="a" classname="A"/></testsuite></testsuites>`)
	parser := createParser()

	// When
	summary, err := parser.Parse(pth)

	// Then
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0, summary.Failures)
	assert.Equal(t, 0, summary.Errors)
	assert.Equal(t, "0", summary.Time)
	assert.Len(t, summary.Tests, 1)
}

func Test_GivenSingleTestSuiteRoot_WhenParse_ThenReadsItsAttributes(t *testing.T) {
	// Given
	pth := writeReport(t, `<testsuite tests="2" failures="0" errors="1" time="0.5">
  <testcase name="a" classname="A"/>
  <testcase name="b" classname="A"><failure>boom</failure></testcase>
</testsuite>`)
	parser := createParser()

	// When
	summary, err := parser.Parse(pth)

	// Then
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 1, summary.Failed())
	require.Len(t, summary.Tests, 2)
	assert.Equal(t, StatusPass, summary.Tests[0].Status)
	assert.Equal(t, StatusFail, summary.Tests[1].Status)
	assert.Equal(t, "boom", summary.Tests[1].Message)
}

func Test_GivenMalformedReport_WhenParse_ThenFails(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "Unclosed element",
			content: `<testsuites tests="1"><testsuite><testcase name="a">`,
		},
		{
			name:    "Empty file",
			content: "",
		},
		{
			name:    "Non-integer count",
			content: `<testsuites tests="many"></testsuites>`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Given
			pth := writeReport(t, test.content)
			parser := createParser()

			// When
			_, err := parser.Parse(pth)

			// Then
			assert.Error(t, err)
		})
	}
}

// Helpers

func createParser() Parser {
	return NewParser(log.NewLogger(), pathutil.NewPathChecker(), fileutil.NewFileManager())
}

func writeReport(t *testing.T, content string) string {
	pth := filepath.Join(t.TempDir(), "test_detail.xml")
	err := fileutil.NewFileManager().Write(pth, content, 0600)
	require.NoError(t, err)
	return pth
}
