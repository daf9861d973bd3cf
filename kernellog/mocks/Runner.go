package mocks

import (
	testcommand "github.com/bitrise-steplib/steps-platform-test/testcommand"
	mock "github.com/stretchr/testify/mock"
)

// Runner is a mock type for the Runner type
type Runner struct {
	mock.Mock
}

// Run provides a mock function with given fields: workDir, commandLine, envs
func (_m *Runner) Run(workDir string, commandLine string, envs []string) testcommand.Output {
	ret := _m.Called(workDir, commandLine, envs)

	var r0 testcommand.Output
	if rf, ok := ret.Get(0).(func(string, string, []string) testcommand.Output); ok {
		r0 = rf(workDir, commandLine, envs)
	} else {
		r0 = ret.Get(0).(testcommand.Output)
	}

	return r0
}

// NewRunner creates a new instance of Runner. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewRunner(t interface {
	mock.TestingT
	Cleanup(func())
}) *Runner {
	m := &Runner{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
