package mocks

import mock "github.com/stretchr/testify/mock"

// Exporter is a mock type for the Exporter type
type Exporter struct {
	mock.Mock
}

// ExportKernelLog provides a mock function with given fields: deployDir, kernelLog
func (_m *Exporter) ExportKernelLog(deployDir string, kernelLog string) error {
	ret := _m.Called(deployDir, kernelLog)

	var r0 error
	if rf, ok := ret.Get(0).(func(string, string) error); ok {
		r0 = rf(deployDir, kernelLog)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// ExportOutputDir provides a mock function with given fields: deployDir, outputDir
func (_m *Exporter) ExportOutputDir(deployDir string, outputDir string) {
	_m.Called(deployDir, outputDir)
}

// ExportReport provides a mock function with given fields: reportPath
func (_m *Exporter) ExportReport(reportPath string) {
	_m.Called(reportPath)
}

// ExportTestResults provides a mock function with given fields: resultPath, bundleName
func (_m *Exporter) ExportTestResults(resultPath string, bundleName string) {
	_m.Called(resultPath, bundleName)
}

// ExportTestRunResult provides a mock function with given fields: failed
func (_m *Exporter) ExportTestRunResult(failed bool) {
	_m.Called(failed)
}

// NewExporter creates a new instance of Exporter. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewExporter(t interface {
	mock.TestingT
	Cleanup(func())
}) *Exporter {
	m := &Exporter{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
