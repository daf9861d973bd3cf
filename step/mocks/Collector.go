package mocks

import (
	sysinfo "github.com/bitrise-steplib/steps-platform-test/sysinfo"
	mock "github.com/stretchr/testify/mock"
)

// Collector is a mock type for the Collector type
type Collector struct {
	mock.Mock
}

// Collect provides a mock function with given fields:
func (_m *Collector) Collect() *sysinfo.Info {
	ret := _m.Called()

	var r0 *sysinfo.Info
	if rf, ok := ret.Get(0).(func() *sysinfo.Info); ok {
		r0 = rf()
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*sysinfo.Info)
	}

	return r0
}

// NewCollector creates a new instance of Collector. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewCollector(t interface {
	mock.TestingT
	Cleanup(func())
}) *Collector {
	m := &Collector{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
