package mocks

import (
	testaddon "github.com/bitrise-steplib/steps-platform-test/testaddon"
	mock "github.com/stretchr/testify/mock"
)

// Exporter is a mock type for the Exporter type
type Exporter struct {
	mock.Mock
}

// CopyAndSaveMetadata provides a mock function with given fields: info
func (_m *Exporter) CopyAndSaveMetadata(info testaddon.AddonCopy) error {
	ret := _m.Called(info)

	var r0 error
	if rf, ok := ret.Get(0).(func(testaddon.AddonCopy) error); ok {
		r0 = rf(info)
	} else {
		r0 = ret.Error(0)
	}

	return r0
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
